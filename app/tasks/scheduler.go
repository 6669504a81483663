package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/makerconf/agenda-comb/app/cfg"
	"github.com/makerconf/agenda-comb/app/database"
	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/news"
	"github.com/makerconf/agenda-comb/app/schedule"
	"github.com/makerconf/agenda-comb/app/site"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	siteCfg          *site.Config
	loader           *manifest.Loader
	reconciler       *schedule.Reconciler
	resolver         *timeutil.Resolver
	scheduleStore    *schedule.Store
	newsStore        *news.Store
	newsParser       *news.Parser
	contentExtractor *news.ContentExtractor
	snapshots        database.SnapshotRepository
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
}

func NewScheduler(siteCfg *site.Config, loader *manifest.Loader, reconciler *schedule.Reconciler,
	resolver *timeutil.Resolver, scheduleStore *schedule.Store, newsStore *news.Store,
	newsParser *news.Parser, contentExtractor *news.ContentExtractor,
	snapshots database.SnapshotRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		siteCfg:          siteCfg,
		loader:           loader,
		reconciler:       reconciler,
		resolver:         resolver,
		scheduleStore:    scheduleStore,
		newsStore:        newsStore,
		newsParser:       newsParser,
		contentExtractor: contentExtractor,
		snapshots:        snapshots,
		interval:         time.Duration(cfg.RefreshInterval) * time.Second,
		workerCount:      cfg.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 100),
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

		s.enqueueRefreshTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueRefreshTasks()
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

func (s *Scheduler) enqueueRefreshTasks() {
	agendaTask := NewRefreshAgendaTask(s.siteCfg, s.loader, s.reconciler, s.resolver, s.scheduleStore, s.snapshots)
	if err := s.EnqueueTask(agendaTask); err != nil {
		slog.Warn("Failed to enqueue RefreshAgendaTask", "error", err)
	}

	if s.siteCfg.NewsFeedURL == "" || s.siteCfg.Settings.NewsMaxItems == 0 {
		slog.Debug("News section disabled, skipping RefreshNewsTask")
		return
	}

	newsTask := NewRefreshNewsTask(s.siteCfg, s.loader, s.newsParser, s.contentExtractor, s.newsStore, s.snapshots)
	if err := s.EnqueueTask(newsTask); err != nil {
		slog.Warn("Failed to enqueue RefreshNewsTask", "error", err)
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

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSource(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

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
