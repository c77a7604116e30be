// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a unit of periodic work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobState is a snapshot of a registered job
type JobState struct {
	Name      string
	Interval  time.Duration
	Status    JobStatus
	LastRunAt *time.Time
	LastError string
	Runs      int
}

type registeredJob struct {
	job      Job
	interval time.Duration
	timeout  time.Duration

	mu    sync.Mutex
	state JobState
}

// Scheduler runs each registered job on its own ticker
type Scheduler struct {
	logger *zap.Logger
	jobs   []*registeredJob

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler with no jobs
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger}
}

// Register adds a job. A zero timeout bounds each run by the interval.
func (s *Scheduler) Register(job Job, interval, timeout time.Duration) error {
	if job == nil || job.Name() == "" || interval <= 0 {
		return ErrInvalidJob
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	for _, rj := range s.jobs {
		if rj.job.Name() == job.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name())
		}
	}
	if timeout <= 0 {
		timeout = interval
	}
	s.jobs = append(s.jobs, &registeredJob{
		job:      job,
		interval: interval,
		timeout:  timeout,
		state:    JobState{Name: job.Name(), Interval: interval, Status: JobStatusPending},
	})
	return nil
}

// Start launches one goroutine per job
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, rj := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, rj)
	}
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels running jobs and waits for them, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether Start has been called without Stop
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// States returns a snapshot of every job
func (s *Scheduler) States() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobState, 0, len(s.jobs))
	for _, rj := range s.jobs {
		rj.mu.Lock()
		out = append(out, rj.state)
		rj.mu.Unlock()
	}
	return out
}

func (s *Scheduler) loop(ctx context.Context, rj *registeredJob) {
	defer s.wg.Done()
	ticker := time.NewTicker(rj.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, rj)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, rj *registeredJob) {
	name := rj.job.Name()
	rj.mu.Lock()
	rj.state.Status = JobStatusRunning
	rj.mu.Unlock()

	jobCtx, cancel := context.WithTimeout(ctx, rj.timeout)
	defer cancel()

	start := time.Now()
	err := s.safeRun(jobCtx, rj.job)

	rj.mu.Lock()
	rj.state.LastRunAt = &start
	rj.state.Runs++
	if err != nil {
		rj.state.Status = JobStatusFailed
		rj.state.LastError = err.Error()
	} else {
		rj.state.Status = JobStatusSuccess
		rj.state.LastError = ""
	}
	rj.mu.Unlock()

	if err != nil {
		s.logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.logger.Debug("Scheduled job completed", zap.String("job", name), zap.Duration("duration", time.Since(start)))
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Run(ctx)
}
