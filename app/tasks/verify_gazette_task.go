package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/poliwatch/tramita/app/database"
	"github.com/poliwatch/tramita/app/legis"
)

// VerifyGazetteTask reads the official gazette feed and confirms publication
// for initiatives whose gazette references have actually appeared in it. The
// verified flag feeds the one non-heuristic stage signal; the next ingest run
// reclassifies stages accordingly.
type VerifyGazetteTask struct {
	Task
	Source         *legis.Source
	httpClient     *http.Client
	gazetteReader  *legis.GazetteReader
	initiativeRepo database.InitiativeRepository
	userAgent      string
}

func NewVerifyGazetteTask(source *legis.Source, httpClient *http.Client, gazetteReader *legis.GazetteReader,
	initiativeRepo database.InitiativeRepository, userAgent string) *VerifyGazetteTask {
	return &VerifyGazetteTask{
		Task:           NewTask(TaskTypeVerifyGazette, source.Name),
		Source:         source,
		httpClient:     httpClient,
		gazetteReader:  gazetteReader,
		initiativeRepo: initiativeRepo,
		userAgent:      userAgent,
	}
}

func (t *VerifyGazetteTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if t.Source.GazetteFeedURL == "" {
		slog.Debug("No gazette feed configured, skipping", "source", t.SourceName)
		return nil
	}

	data, err := fetchURL(ctx, t.httpClient, t.Source.GazetteFeedURL, t.userAgent, t.Source.Settings.Timeout)
	if err != nil {
		return fmt.Errorf("failed to fetch gazette feed: %w", err)
	}

	published, err := t.gazetteReader.Run(data)
	if err != nil {
		return fmt.Errorf("failed to read gazette feed: %w", err)
	}

	if len(published) == 0 {
		slog.Debug("Gazette feed carried no document identifiers", "source", t.SourceName)
		return nil
	}

	initiatives, err := t.initiativeRepo.GetInitiatives(t.SourceName)
	if err != nil {
		return fmt.Errorf("failed to load initiatives: %w", err)
	}

	verifiedCount := 0
	for i := range initiatives {
		ini := &initiatives[i]
		if ini.GazetteVerified {
			continue
		}
		if !legis.VerifyPublication(ini.GazetteRefs, published) {
			continue
		}
		if err := t.initiativeRepo.MarkPublicationVerified(ini.Expediente); err != nil {
			slog.Error("Failed to mark publication verified", "expediente", ini.Expediente, "error", err)
			continue
		}
		verifiedCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"published_ids", len(published),
		"verified", verifiedCount)

	return nil
}
