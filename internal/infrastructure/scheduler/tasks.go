package scheduler

import (
	"context"

	"go.uber.org/zap"
)

// Task names
const (
	TaskCompleteBookings = "complete_bookings"
	TaskWarmDashboard    = "warm_dashboard"
)

// BookingCompleter completes bookings whose trip has ended
type BookingCompleter interface {
	CompleteDue(ctx context.Context, batchSize int) (int, error)
}

// DashboardWarmer precomputes the default admin dashboard
type DashboardWarmer interface {
	Warm(ctx context.Context) error
}

// CompleteBookingsTask marks paid and confirmed bookings completed once the trip is over.
// It drains the backlog in batches.
type CompleteBookingsTask struct {
	completer BookingCompleter
	batchSize int
	logger    *zap.Logger
}

// NewCompleteBookingsTask creates the task
func NewCompleteBookingsTask(completer BookingCompleter, batchSize int, logger *zap.Logger) *CompleteBookingsTask {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &CompleteBookingsTask{completer: completer, batchSize: batchSize, logger: logger}
}

// Name returns the task name
func (t *CompleteBookingsTask) Name() string { return TaskCompleteBookings }

// Run completes due bookings until a batch comes back short
func (t *CompleteBookingsTask) Run(ctx context.Context) error {
	total := 0
	for {
		n, err := t.completer.CompleteDue(ctx, t.batchSize)
		total += n
		if err != nil {
			return err
		}
		if n < t.batchSize || ctx.Err() != nil {
			break
		}
	}
	t.logger.Debug("Booking completion run finished", zap.Int("completed", total))
	return ctx.Err()
}

// WarmDashboardTask refreshes the cached admin dashboard
type WarmDashboardTask struct {
	warmer DashboardWarmer
}

// NewWarmDashboardTask creates the task
func NewWarmDashboardTask(warmer DashboardWarmer) *WarmDashboardTask {
	return &WarmDashboardTask{warmer: warmer}
}

// Name returns the task name
func (t *WarmDashboardTask) Name() string { return TaskWarmDashboard }

// Run warms the dashboard cache
func (t *WarmDashboardTask) Run(ctx context.Context) error {
	return t.warmer.Warm(ctx)
}
