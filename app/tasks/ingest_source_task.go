package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/poliwatch/tramita/app/database"
	"github.com/poliwatch/tramita/app/legis"
)

// IngestSourceTask fetches a source's feed snapshot, runs the full core
// pipeline over it, and persists the result: raw records, classification,
// relationship edges and timelines.
type IngestSourceTask struct {
	Task
	Source         *legis.Source
	httpClient     *http.Client
	parser         *legis.Parser
	sourceRepo     database.SourceRepository
	initiativeRepo database.InitiativeRepository
	lawRepo        database.LawRepository
	runRepo        database.RunRepository
	userAgent      string
}

func NewIngestSourceTask(source *legis.Source, httpClient *http.Client, parser *legis.Parser,
	sourceRepo database.SourceRepository, initiativeRepo database.InitiativeRepository,
	lawRepo database.LawRepository, runRepo database.RunRepository, userAgent string) *IngestSourceTask {
	return &IngestSourceTask{
		Task:           NewTask(TaskTypeIngestSource, source.Name),
		Source:         source,
		httpClient:     httpClient,
		parser:         parser,
		sourceRepo:     sourceRepo,
		initiativeRepo: initiativeRepo,
		lawRepo:        lawRepo,
		runRepo:        runRepo,
		userAgent:      userAgent,
	}
}

func (t *IngestSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	runID := ulid.Make().String()
	if err := t.runRepo.StartRun(runID, t.SourceName, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}

	stats, err := t.ingest(ctx)
	runErr := ""
	if err != nil {
		runErr = err.Error()
	}
	if completeErr := t.runRepo.CompleteRun(runID, stats, runErr); completeErr != nil {
		slog.Error("Failed to record run completion", "run_id", runID, "error", completeErr)
	}
	if err != nil {
		return err
	}

	nextFetch := time.Now().UTC().Add(time.Duration(t.Source.Settings.RefreshInterval) * time.Second)
	if err := t.sourceRepo.UpdateFetchMetadata(t.SourceName, nextFetch); err != nil {
		return fmt.Errorf("failed to update fetch metadata: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"run_id", runID,
		"initiatives", stats.Initiatives,
		"laws", stats.Laws,
		"edges", stats.Edges,
		"flows", stats.Flows)

	return nil
}

func (t *IngestSourceTask) ingest(ctx context.Context) (database.RunStats, error) {
	var stats database.RunStats

	initiatives, err := t.fetchInitiatives(ctx)
	if err != nil {
		return stats, err
	}

	laws, err := t.fetchLaws(ctx)
	if err != nil {
		return stats, err
	}

	// Merge prior state the feed itself cannot carry: gazette verification
	// and extracted dossier text survive across snapshots.
	t.mergeStoredState(initiatives)

	matcher := legis.NewMatcher(
		legis.NewAlgorithm(t.Source.Similarity.Algorithm),
		t.Source.Similarity.Threshold)
	pipeline := legis.NewPipeline(matcher, legis.FlowOrderPresentedDesc)

	result, err := pipeline.Run(initiatives, laws)
	if err != nil {
		return stats, fmt.Errorf("pipeline failed: %w", err)
	}

	stats = database.RunStats{
		Initiatives: len(result.Initiatives),
		Laws:        len(result.Laws),
		Flows:       len(result.Flows),
	}

	for i := range result.Initiatives {
		ini := &result.Initiatives[i]
		if ini.Expediente == "" {
			slog.Warn("Skipping initiative without expediente", "source", t.SourceName, "type", ini.Type)
			continue
		}

		if err := t.initiativeRepo.UpsertInitiative(t.SourceName, ini); err != nil {
			return stats, fmt.Errorf("failed to store initiative %s: %w", ini.Expediente, err)
		}
		if err := t.initiativeRepo.ApplyClassification(ini.Expediente, ini.Category, ini.Classification); err != nil {
			return stats, fmt.Errorf("failed to store classification for %s: %w", ini.Expediente, err)
		}
		if err := t.initiativeRepo.ReplaceEdges(ini.Expediente, ini.Edges); err != nil {
			return stats, fmt.Errorf("failed to store edges for %s: %w", ini.Expediente, err)
		}
		if err := t.initiativeRepo.ReplaceEvents(ini.Expediente, ini.Events); err != nil {
			return stats, fmt.Errorf("failed to store events for %s: %w", ini.Expediente, err)
		}
		stats.Edges += len(ini.Edges)
	}

	for i := range result.Laws {
		if err := t.lawRepo.UpsertLaw(t.SourceName, &result.Laws[i]); err != nil {
			return stats, fmt.Errorf("failed to store law: %w", err)
		}
	}

	return stats, nil
}

func (t *IngestSourceTask) fetchInitiatives(ctx context.Context) ([]legis.Initiative, error) {
	data, err := fetchURL(ctx, t.httpClient, t.Source.InitiativesURL, t.userAgent, t.Source.Settings.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch initiatives feed: %w", err)
	}

	initiatives, err := t.parser.ParseInitiatives(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse initiatives feed: %w", err)
	}
	return initiatives, nil
}

func (t *IngestSourceTask) fetchLaws(ctx context.Context) ([]legis.ApprovedLaw, error) {
	if t.Source.LawsURL == "" {
		return nil, nil
	}

	data, err := fetchURL(ctx, t.httpClient, t.Source.LawsURL, t.userAgent, t.Source.Settings.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch laws feed: %w", err)
	}

	laws, err := t.parser.ParseLaws(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse laws feed: %w", err)
	}
	return laws, nil
}

func (t *IngestSourceTask) mergeStoredState(initiatives []legis.Initiative) {
	for i := range initiatives {
		ini := &initiatives[i]
		if ini.Expediente == "" {
			continue
		}
		stored, err := t.initiativeRepo.GetInitiative(ini.Expediente)
		if err != nil {
			slog.Warn("Failed to load stored initiative state", "expediente", ini.Expediente, "error", err)
			continue
		}
		if stored == nil {
			continue
		}
		ini.GazetteVerified = stored.GazetteVerified
		ini.DossierText = stored.DossierText
	}
}

// fetchURL is the shared HTTP GET used by all tasks.
func fetchURL(ctx context.Context, client *http.Client, url, userAgent string, timeoutSeconds int) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
