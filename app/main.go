package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poliwatch/tramita/app/api"
	"github.com/poliwatch/tramita/app/cfg"
	"github.com/poliwatch/tramita/app/database"
	"github.com/poliwatch/tramita/app/legis"
	"github.com/poliwatch/tramita/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Tramita server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	sourceCache := legis.NewSourceCache(appCfg.SourcesDir, appCfg.SimilarityAlgorithm, appCfg.SimilarityThreshold)
	if err := sourceCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", sourceCache.GetSourceCount())

	sourceRepo := database.NewSourceRepository(db)
	initiativeRepo := database.NewInitiativeRepository(db)
	lawRepo := database.NewLawRepository(db)
	runRepo := database.NewRunRepository(db)

	httpClient := &http.Client{Timeout: 60 * time.Second}

	scheduler := tasks.NewScheduler(sourceCache, sourceRepo, initiativeRepo, lawRepo, runRepo, httpClient)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(sourceCache, sourceRepo, initiativeRepo, lawRepo, runRepo, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
