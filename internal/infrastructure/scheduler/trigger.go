package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Schedule submits a task every Interval. RunOnStart submits once immediately.
type Schedule struct {
	Task       string
	Interval   time.Duration
	RunOnStart bool
}

// PeriodicTrigger submits tasks to a Scheduler on fixed intervals
type PeriodicTrigger struct {
	scheduler *Scheduler
	schedules []Schedule
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewPeriodicTrigger creates a trigger. Schedules with a non-positive interval are ignored.
func NewPeriodicTrigger(scheduler *Scheduler, logger *zap.Logger, schedules ...Schedule) *PeriodicTrigger {
	valid := make([]Schedule, 0, len(schedules))
	for _, sc := range schedules {
		if sc.Interval > 0 {
			valid = append(valid, sc)
		}
	}
	return &PeriodicTrigger{
		scheduler: scheduler,
		schedules: valid,
		logger:    logger,
	}
}

// Start launches one ticker loop per schedule
func (p *PeriodicTrigger) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.isRunning {
		return nil
	}
	p.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for _, sc := range p.schedules {
		p.wg.Add(1)
		go p.runLoop(ctx, sc)
		p.logger.Info("Periodic task scheduled",
			zap.String("task", sc.Task),
			zap.Duration("interval", sc.Interval),
			zap.Bool("run_on_start", sc.RunOnStart))
	}
	return nil
}

// Stop stops the ticker loops
func (p *PeriodicTrigger) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.cancel()
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *PeriodicTrigger) runLoop(ctx context.Context, sc Schedule) {
	defer p.wg.Done()

	if sc.RunOnStart {
		p.fire(sc.Task)
	}

	ticker := time.NewTicker(sc.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fire(sc.Task)
		}
	}
}

func (p *PeriodicTrigger) fire(task string) {
	submitted, err := p.scheduler.Submit(task)
	switch {
	case errors.Is(err, ErrSchedulerNotRunning):
		return
	case err != nil:
		p.logger.Warn("Failed to submit periodic task", zap.String("task", task), zap.Error(err))
	case !submitted:
		p.logger.Debug("Periodic task still running, skipping tick", zap.String("task", task))
	}
}
