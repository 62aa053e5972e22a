package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poliwatch/tramita/app/database"
	"github.com/poliwatch/tramita/app/legis"
)

type SyncSourceConfigTask struct {
	Task
	Source     *legis.Source
	sourceRepo database.SourceRepository
}

func NewSyncSourceConfigTask(source *legis.Source, sourceRepo database.SourceRepository) *SyncSourceConfigTask {
	return &SyncSourceConfigTask{
		Task:       NewTask(TaskTypeSyncSourceConfig, source.Name),
		Source:     source,
		sourceRepo: sourceRepo,
	}
}

func (t *SyncSourceConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	err := t.sourceRepo.UpsertSource(
		t.Source.Name,
		t.Source.InitiativesURL,
		t.Source.LawsURL,
		t.Source.Settings.Legislature)
	if err != nil {
		slog.Error("Task failed", "type", "SyncSourceConfig", "source", t.SourceName, "error", err)
		return fmt.Errorf("failed to sync source config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncSourceConfig",
		"source", t.SourceName,
		"duration", t.GetDuration())

	return nil
}
