package tasks

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

type TaskType string

const (
	TaskTypeSyncSourceConfig TaskType = "sync_source_config"
	TaskTypeIngestSource     TaskType = "ingest_source"
	TaskTypeVerifyGazette    TaskType = "verify_gazette"
	TaskTypeExtractDossiers  TaskType = "extract_dossiers"
)

const (
	DefaultMaxRetries = 3
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetSourceName() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID         string
	Type       TaskType
	SourceName string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetSourceName() string {
	return t.SourceName
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, sourceName string) Task {
	return Task{
		ID:         ulid.Make().String(),
		Type:       taskType,
		SourceName: sourceName,
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
	}
}
