// Package scheduler runs background maintenance tasks on a worker pool.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Task is a unit of background work
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

// Name returns the task name
func (t TaskFunc) Name() string { return t.TaskName }

// Run calls the function
func (t TaskFunc) Run(ctx context.Context) error { return t.Fn(ctx) }

// Job is one execution of a task
type Job struct {
	ID          uuid.UUID
	Task        string
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a pending job for the named task
func NewJob(task string, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Task:       task,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// Config holds scheduler configuration
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Workers:       2,
		QueueSize:     32,
		JobTimeout:    5 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    time.Minute,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Workers <= 0 || c.QueueSize < 0 || c.JobTimeout <= 0 || c.RetryAttempts < 0 || c.RetryDelay < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Scheduler executes jobs for registered tasks on a worker pool.
// Failed jobs are resubmitted after RetryDelay until RetryAttempts is used up.
type Scheduler struct {
	config Config
	logger *zap.Logger

	tasks    map[string]Task
	inFlight map[string]bool

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	retries   map[uuid.UUID]*time.Timer

	// OnJobDone is called after each job attempt; tests use it to observe results
	OnJobDone func(job *Job)
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config Config, logger *zap.Logger) (*Scheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		config:   config,
		logger:   logger,
		tasks:    make(map[string]Task),
		inFlight: make(map[string]bool),
		retries:  make(map[uuid.UUID]*time.Timer),
	}, nil
}

// Register makes a task available for Submit
func (s *Scheduler) Register(task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.Name()] = task
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.jobs = make(chan *Job, s.config.QueueSize)

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, s.jobs, i)
	}

	s.logger.Info("Scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers to exit
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	for id, t := range s.retries {
		t.Stop()
		delete(s.retries, id)
	}
	s.cancel()
	close(s.jobs)
	s.mu.Unlock()

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

// Submit queues a new job for the named task. A task already queued or
// running is not queued again and Submit returns false.
func (s *Scheduler) Submit(task string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task]; !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownTask, task)
	}
	if s.inFlight[task] {
		return false, nil
	}
	if err := s.enqueueLocked(NewJob(task, s.config.RetryAttempts)); err != nil {
		return false, err
	}
	s.inFlight[task] = true
	return true, nil
}

// enqueueLocked sends without blocking; s.mu must be held
func (s *Scheduler) enqueueLocked(job *Job) error {
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted", zap.String("job_id", job.ID.String()), zap.String("task", job.Task))
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, jobs <-chan *Job, workerID int) {
	defer s.wg.Done()
	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		s.processJob(ctx, job, workerID)
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	s.mu.Lock()
	task := s.tasks[job.Task]
	s.mu.Unlock()

	job.Start()
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := s.runTask(jobCtx, task)
	cancel()

	if err == nil {
		job.Complete()
		s.logger.Info("Job completed",
			zap.Int("worker_id", workerID),
			zap.String("task", job.Task),
			zap.Duration("duration", job.CompletedAt.Sub(*job.StartedAt)))
		s.finish(job)
		return
	}

	job.Fail(err.Error())
	s.logger.Error("Job failed",
		zap.Int("worker_id", workerID),
		zap.String("task", job.Task),
		zap.Int("retry_count", job.RetryCount),
		zap.Error(err))

	if job.ShouldRetry() && ctx.Err() == nil {
		s.notify(s.scheduleRetry(job))
		return
	}
	s.finish(job)
}

// runTask turns a task panic into an error
func (s *Scheduler) runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Run(ctx)
}

// scheduleRetry re-queues the job after RetryDelay and returns its state at scheduling time
func (s *Scheduler) scheduleRetry(job *Job) Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	job.RetryCount++
	job.Status = JobStatusPending
	snapshot := *job
	s.retries[job.ID] = time.AfterFunc(s.config.RetryDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.retries, job.ID)
		if err := s.enqueueLocked(job); err != nil {
			s.logger.Warn("Failed to re-queue job for retry", zap.String("task", job.Task), zap.Error(err))
			delete(s.inFlight, job.Task)
		}
	})
	return snapshot
}

func (s *Scheduler) finish(job *Job) {
	s.mu.Lock()
	delete(s.inFlight, job.Task)
	s.mu.Unlock()
	s.notify(*job)
}

func (s *Scheduler) notify(job Job) {
	if s.OnJobDone != nil {
		s.OnJobDone(&job)
	}
}
