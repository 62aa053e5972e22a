package tasks

import (
	"github.com/poliwatch/tramita/app/legis"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API to manage background processing.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	NewIngestTask(source *legis.Source) TaskInterface
}
