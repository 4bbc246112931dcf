package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/logger"
	"github.com/feral-file/ff-project-intel/internal/tasks"
)

// Scheduler runs tasks on cron schedules.
// A task never overlaps itself: a tick that fires while the previous run is still going is skipped.
// A failing or panicking task never stops other tasks.
type Scheduler struct {
	cron    *cron.Cron
	clock   adapter.Clock
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	immediate  []cron.EntryID
	registered map[string]bool
	// wg tracks runs started outside the cron loop
	wg sync.WaitGroup
}

// Config holds the scheduler configuration
type Config struct {
	// Location interprets cron specs; nil means UTC
	Location *time.Location
	// RunTimeout bounds a single run; zero means unbounded
	RunTimeout time.Duration
}

// New creates a scheduler. Specs carry a seconds field.
func New(cfg Config, clock adapter.Clock) *Scheduler {
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}

	cronLogger := NewCronLogger(logger.Default())
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		clock:      clock,
		timeout:    cfg.RunTimeout,
		ctx:        ctx,
		cancel:     cancel,
		registered: make(map[string]bool),
	}
}

// Register schedules task on spec. With runImmediately the task also runs once when the scheduler starts.
func (s *Scheduler) Register(spec string, task tasks.Task, runImmediately bool) error {
	if task == nil {
		return errors.New("task is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registered[task.Name()] {
		return fmt.Errorf("task %s is already registered", task.Name())
	}

	id, err := s.cron.AddFunc(spec, func() {
		s.Run(s.ctx, task)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule task %s with spec %q: %w", task.Name(), spec, err)
	}

	s.registered[task.Name()] = true
	if runImmediately {
		s.immediate = append(s.immediate, id)
	}

	logger.Info("Task scheduled",
		zap.String("task", task.Name()),
		zap.String("spec", spec),
		zap.Bool("run_immediately", runImmediately),
	)

	return nil
}

// Run performs one run of task with its own run id. Errors are logged, never returned.
func (s *Scheduler) Run(ctx context.Context, task tasks.Task) {
	ctx = logger.WithTask(ctx, logger.TaskInfo{
		Task:  task.Name(),
		RunID: ulid.Make().String(),
	})
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := s.clock.Now()
	logger.DebugCtx(ctx, "Task started")

	if err := task.Run(ctx); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("task failed: %w", err), zap.Duration("duration", s.clock.Since(start)))
		return
	}

	logger.DebugCtx(ctx, "Task finished", zap.Duration("duration", s.clock.Since(start)))
}

// Start starts the cron loop and kicks off the tasks registered to run immediately
func (s *Scheduler) Start() {
	s.cron.Start()

	s.mu.Lock()
	immediate := s.immediate
	s.immediate = nil
	s.mu.Unlock()

	for _, id := range immediate {
		// the wrapped job goes through the same skip and recover chain as scheduled ticks
		job := s.cron.Entry(id).WrappedJob
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			job.Run()
		}()
	}

	logger.Info("Scheduler started", zap.Int("tasks", len(s.cron.Entries())))
}

// Stop cancels running tasks and waits for them to return, or for ctx to end
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	cronDone := s.cron.Stop().Done()

	done := make(chan struct{})
	go func() {
		<-cronDone
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler did not stop in time: %w", ctx.Err())
	}
}
