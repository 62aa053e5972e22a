package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/poliwatch/tramita/app/cfg"
	"github.com/poliwatch/tramita/app/database"
	"github.com/poliwatch/tramita/app/legis"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	sourceCache      *legis.SourceCache
	sourceRepo       database.SourceRepository
	initiativeRepo   database.InitiativeRepository
	lawRepo          database.LawRepository
	runRepo          database.RunRepository
	httpClient       *http.Client
	parser           *legis.Parser
	gazetteReader    *legis.GazetteReader
	dossierExtractor *legis.DossierExtractor
	userAgent        string
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
}

func NewScheduler(sourceCache *legis.SourceCache, sourceRepo database.SourceRepository,
	initiativeRepo database.InitiativeRepository, lawRepo database.LawRepository,
	runRepo database.RunRepository, httpClient *http.Client) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		sourceCache:      sourceCache,
		sourceRepo:       sourceRepo,
		initiativeRepo:   initiativeRepo,
		lawRepo:          lawRepo,
		runRepo:          runRepo,
		httpClient:       httpClient,
		parser:           legis.NewParser(),
		gazetteReader:    legis.NewGazetteReader(),
		dossierExtractor: legis.NewDossierExtractor(),
		userAgent:        cfg.UserAgent,
		interval:         time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:      cfg.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// NewIngestTask builds an ingestion task for the given source, for callers
// outside the scheduler loop (the reprocess API endpoint).
func (s *Scheduler) NewIngestTask(source *legis.Source) TaskInterface {
	return NewIngestSourceTask(source, s.httpClient, s.parser, s.sourceRepo,
		s.initiativeRepo, s.lawRepo, s.runRepo, s.userAgent)
}

func (s *Scheduler) enqueueStartupTasks() {
	sources := s.sourceCache.GetSources()
	if len(sources) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	slog.Debug("Processing source configurations", "count", len(sources))

	for _, source := range sources {
		syncTask := NewSyncSourceConfigTask(source, s.sourceRepo)
		if err := s.EnqueueTask(syncTask); err != nil {
			slog.Warn("Failed to enqueue SyncSourceConfigTask", "source", source.Name, "error", err)
			continue
		}

		if !source.Settings.Enabled {
			slog.Debug("Source disabled, skipping IngestSourceTask", "source", source.Name)
			continue
		}

		if err := s.EnqueueTask(s.NewIngestTask(source)); err != nil {
			slog.Warn("Failed to enqueue IngestSourceTask", "source", source.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	sources := s.sourceCache.GetEnabledSources()
	if len(sources) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	for _, source := range sources {
		dbSource, err := s.sourceRepo.GetSource(source.Name)
		if err != nil {
			slog.Warn("Failed to get source from database, skipping", "source", source.Name, "error", err)
			continue
		}
		if dbSource == nil {
			slog.Warn("Source not found in database, skipping", "source", source.Name)
			continue
		}

		now := time.Now().UTC()
		if dbSource.NextFetchAt != nil && dbSource.NextFetchAt.After(now) {
			slog.Debug("Source not due for refresh yet", "source", source.Name, "next_fetch_at", dbSource.NextFetchAt)
		} else {
			if err := s.EnqueueTask(s.NewIngestTask(source)); err != nil {
				slog.Warn("Failed to enqueue IngestSourceTask", "source", source.Name, "error", err)
			}
		}

		if source.GazetteFeedURL != "" {
			gazetteTask := NewVerifyGazetteTask(source, s.httpClient, s.gazetteReader, s.initiativeRepo, s.userAgent)
			if err := s.EnqueueTask(gazetteTask); err != nil {
				slog.Warn("Failed to enqueue VerifyGazetteTask", "source", source.Name, "error", err)
			}
		}

		if source.Settings.ExtractDossiers {
			dossierTask := NewExtractDossiersTask(source, s.httpClient, s.dossierExtractor, s.initiativeRepo, s.userAgent)
			if err := s.EnqueueTask(dossierTask); err != nil {
				slog.Warn("Failed to enqueue ExtractDossiersTask", "source", source.Name, "error", err)
			}
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
