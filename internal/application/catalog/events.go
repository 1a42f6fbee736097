package catalog

import (
	"context"

	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// publishEvents publishes and clears the pending events of a saved aggregate.
// Publishing failures are logged; the write has already been committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("Failed to publish domain events",
			zap.String("aggregate_id", agg.GetID().String()),
			zap.Int("count", len(events)),
			zap.Error(err))
	}
}

// CacheInvalidator drops cached responses by tag
type CacheInvalidator interface {
	InvalidateTags(ctx context.Context, tags ...string) error
}

func invalidate(ctx context.Context, cache CacheInvalidator, logger *zap.Logger, tags ...string) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateTags(ctx, tags...); err != nil {
		logger.Warn("Failed to invalidate cache tags", zap.Strings("tags", tags), zap.Error(err))
	}
}
