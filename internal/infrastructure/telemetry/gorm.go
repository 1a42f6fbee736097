package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig controls GORM instrumentation.
type DBConfig struct {
	Tracing bool
	// DBName is reported as db.name on spans.
	DBName string
	// SlowQueryThreshold defaults to 200ms.
	SlowQueryThreshold time.Duration
}

// DBInstrumentation is a gorm.Plugin recording query latency, slow queries
// and connection pool usage. With Tracing set it also installs otelgorm so
// each statement becomes a span.
type DBInstrumentation struct {
	cfg    DBConfig
	meter  metric.Meter
	logger *zap.Logger

	queries     *Counter
	slowQueries *Counter
	duration    *Histogram
}

// NewDBInstrumentation builds the plugin's instruments on meter.
func NewDBInstrumentation(meter metric.Meter, cfg DBConfig, logger *zap.Logger) (*DBInstrumentation, error) {
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	d := &DBInstrumentation{cfg: cfg, meter: meter, logger: logger}

	var err error
	if d.queries, err = NewCounter(meter, "db.client.queries", "Database statements executed", "{query}"); err != nil {
		return nil, err
	}
	if d.slowQueries, err = NewCounter(meter, "db.client.slow_queries", "Statements slower than the slow query threshold", "{query}"); err != nil {
		return nil, err
	}
	if d.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db.client.duration",
		Description: "Database statement latency",
		Unit:        "s",
		Buckets:     DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return d, nil
}

// Name implements gorm.Plugin.
func (d *DBInstrumentation) Name() string {
	return "tourbook:db_instrumentation"
}

// Initialize implements gorm.Plugin.
func (d *DBInstrumentation) Initialize(db *gorm.DB) error {
	if d.cfg.Tracing {
		if err := db.Use(otelgorm.NewPlugin(
			otelgorm.WithDBName(d.cfg.DBName),
			otelgorm.WithoutQueryVariables(),
		)); err != nil {
			return err
		}
	}
	if err := d.registerCallbacks(db); err != nil {
		return err
	}
	if err := d.observePool(db); err != nil {
		return err
	}
	d.logger.Info("Database instrumentation installed",
		zap.Bool("tracing", d.cfg.Tracing),
		zap.Duration("slow_query_threshold", d.cfg.SlowQueryThreshold),
	)
	return nil
}

type queryStartKey struct{}

func (d *DBInstrumentation) registerCallbacks(db *gorm.DB) error {
	start := func(tx *gorm.DB) {
		tx.Statement.Context = context.WithValue(statementContext(tx), queryStartKey{}, time.Now())
	}
	finish := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) { d.record(tx, operation) }
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("tourbook:before_create", start),
		cb.Create().After("gorm:create").Register("tourbook:after_create", finish("INSERT")),
		cb.Query().Before("gorm:query").Register("tourbook:before_query", start),
		cb.Query().After("gorm:query").Register("tourbook:after_query", finish("SELECT")),
		cb.Update().Before("gorm:update").Register("tourbook:before_update", start),
		cb.Update().After("gorm:update").Register("tourbook:after_update", finish("UPDATE")),
		cb.Delete().Before("gorm:delete").Register("tourbook:before_delete", start),
		cb.Delete().After("gorm:delete").Register("tourbook:after_delete", finish("DELETE")),
		cb.Row().Before("gorm:row").Register("tourbook:before_row", start),
		cb.Row().After("gorm:row").Register("tourbook:after_row", finish("")),
		cb.Raw().Before("gorm:raw").Register("tourbook:before_raw", start),
		cb.Raw().After("gorm:raw").Register("tourbook:after_raw", finish("")),
	)
}

func (d *DBInstrumentation) record(tx *gorm.DB, operation string) {
	ctx := statementContext(tx)
	started, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(started)
	if operation == "" {
		operation = statementOperation(tx.Statement.SQL.String())
	}

	table := tx.Statement.Table
	d.queries.Inc(ctx, AttrDBOperation.String(operation), AttrDBTable.String(table))
	d.duration.RecordDuration(ctx, elapsed, AttrDBOperation.String(operation), AttrDBTable.String(table))

	if elapsed >= d.cfg.SlowQueryThreshold {
		d.slowQueries.Inc(ctx, AttrDBOperation.String(operation), AttrDBTable.String(table))
		d.logger.Warn("Slow query",
			zap.String("operation", operation),
			zap.String("table", table),
			zap.Duration("elapsed", elapsed),
			zap.String("trace_id", TraceID(ctx)),
		)
	}
}

// observePool reports sql.DB pool statistics on every collection cycle.
func (d *DBInstrumentation) observePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	conns, err := d.meter.Int64ObservableGauge("db.client.connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	maxConns, err := d.meter.Int64ObservableGauge("db.client.connections.max",
		metric.WithDescription("Maximum open connections"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return err
	}
	_, err = d.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		return nil
	}, conns, maxConns)
	return err
}

func statementContext(tx *gorm.DB) context.Context {
	if tx.Statement.Context != nil {
		return tx.Statement.Context
	}
	return context.Background()
}

// statementOperation classifies raw SQL by its leading keyword.
func statementOperation(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(sql, op) {
			return op
		}
	}
	if strings.HasPrefix(sql, "WITH") {
		return "SELECT"
	}
	return "OTHER"
}
