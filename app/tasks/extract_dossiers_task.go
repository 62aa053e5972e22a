package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/poliwatch/tramita/app/database"
	"github.com/poliwatch/tramita/app/legis"
)

// dossierPageURL is the public dossier page for an expediente; readable text
// extracted from it supplements the feed narrative on the next ingest run.
const dossierPageURL = "https://www.congreso.es/busqueda-de-iniciativas?p_p_id=iniciativas&expediente=%s"

const dossierBatchSize = 20

// ExtractDossiersTask fetches dossier pages for initiatives that have none
// extracted yet and stores their readable text.
type ExtractDossiersTask struct {
	Task
	Source           *legis.Source
	httpClient       *http.Client
	dossierExtractor *legis.DossierExtractor
	initiativeRepo   database.InitiativeRepository
	userAgent        string
}

func NewExtractDossiersTask(source *legis.Source, httpClient *http.Client, dossierExtractor *legis.DossierExtractor,
	initiativeRepo database.InitiativeRepository, userAgent string) *ExtractDossiersTask {
	return &ExtractDossiersTask{
		Task:             NewTask(TaskTypeExtractDossiers, source.Name),
		Source:           source,
		httpClient:       httpClient,
		dossierExtractor: dossierExtractor,
		initiativeRepo:   initiativeRepo,
		userAgent:        userAgent,
	}
}

func (t *ExtractDossiersTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.Source.Settings.ExtractDossiers {
		slog.Debug("Dossier extraction disabled for source", "source", t.SourceName)
		return nil
	}

	expedientes, err := t.initiativeRepo.GetExpedientesWithoutDossier(t.SourceName, dossierBatchSize)
	if err != nil {
		return fmt.Errorf("failed to get expedientes for dossier extraction: %w", err)
	}

	if len(expedientes) == 0 {
		slog.Debug("No initiatives need dossier extraction", "source", t.SourceName)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, expediente := range expedientes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.extractDossier(ctx, expediente); err != nil {
			slog.Error("Failed to extract dossier", "expediente", expediente, "error", err)
			errorCount++
			// Store the empty result so the same page is not refetched every cycle.
			if err := t.initiativeRepo.UpdateDossierText(expediente, ""); err != nil {
				slog.Error("Failed to record dossier extraction failure", "expediente", expediente, "error", err)
			}
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractDossiersTask) extractDossier(ctx context.Context, expediente string) error {
	pageURL := fmt.Sprintf(dossierPageURL, url.QueryEscape(expediente))

	data, err := fetchURL(ctx, t.httpClient, pageURL, t.userAgent, t.Source.Settings.Timeout)
	if err != nil {
		return fmt.Errorf("failed to fetch dossier page: %w", err)
	}

	text, err := t.dossierExtractor.Run(data)
	if err != nil {
		return fmt.Errorf("failed to extract dossier text: %w", err)
	}

	if err := t.initiativeRepo.UpdateDossierText(expediente, text); err != nil {
		return fmt.Errorf("failed to store dossier text: %w", err)
	}

	slog.Debug("Dossier text extracted", "expediente", expediente, "text_length", len(text))
	return nil
}
