// Package scheduler runs probe jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work. Its context ends at the job timeout or
// when the scheduler stops.
type Job func(ctx context.Context) error

// Scheduler wraps cron with zap logging. Runs of the same job never overlap;
// a tick that arrives while the previous run is still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]cron.EntryID
	base context.Context
	stop context.CancelFunc
}

// New creates a scheduler in the given timezone ("" means local time).
// Each run gets at most timeout; zero means 30 minutes.
func New(timezone string, timeout time.Duration, logger *zap.Logger) (*Scheduler, error) {
	loc := time.Local
	if timezone != "" {
		var err error
		if loc, err = time.LoadLocation(timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone %s: %w", timezone, err)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}

	cl := cronLogger{logger.Sugar()}
	base, stop := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		timeout: timeout,
		jobs:    make(map[string]cron.EntryID),
		base:    base,
		stop:    stop,
	}, nil
}

// Validate checks a standard five-field cron expression or a descriptor
// such as "@every 6h".
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// AddJob registers job under name.
func (s *Scheduler) AddJob(name, spec string, job Job) error {
	if err := Validate(spec); err != nil {
		return err
	}

	id, err := s.cron.AddFunc(spec, func() { s.runJob(s.base, name, job) })
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.mu.Lock()
	s.jobs[name] = id
	s.mu.Unlock()
	s.logger.Info("⏰ Scheduled job", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

func (s *Scheduler) runJob(parent context.Context, name string, job Job) {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	s.logger.Info("▶️ Starting job", zap.String("job", name))
	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("❌ Job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Info("✅ Job completed", zap.String("job", name), zap.Duration("took", time.Since(start)))
}

// RunNow executes job immediately, outside the schedule, bounded by ctx
// and the job timeout.
func (s *Scheduler) RunNow(ctx context.Context, name string, job Job) {
	s.runJob(ctx, name, job)
}

// Next returns the next planned run of a job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish after cancelling their contexts.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("🕒 Scheduler started", zap.Int("jobs", len(s.cron.Entries())))

	<-ctx.Done()
	s.logger.Info("🛑 Stopping scheduler")
	s.stop()
	<-s.cron.Stop().Done()
}

// cronLogger adapts zap to cron's logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
