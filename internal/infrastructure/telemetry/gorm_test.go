package telemetry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tourbook/backend/internal/infrastructure/telemetry"
)

type visit struct {
	ID   uint
	Name string
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestDBInstrumentation_RecordsQueries(t *testing.T) {
	reader, provider := newManualMeter()
	core, logs := observer.New(zapcore.WarnLevel)

	plugin, err := telemetry.NewDBInstrumentation(provider.Meter("db"), telemetry.DBConfig{
		Tracing: true,
		DBName:  "tourbook",
		// every statement counts as slow
		SlowQueryThreshold: time.Nanosecond,
	}, zap.New(core))
	require.NoError(t, err)

	db := openSQLite(t)
	require.NoError(t, db.Use(plugin))
	require.NoError(t, db.AutoMigrate(&visit{}))

	require.NoError(t, db.Create(&visit{Name: "Belem Tower"}).Error)
	var found []visit
	require.NoError(t, db.Find(&found).Error)
	require.Len(t, found, 1)
	require.NoError(t, db.Model(&found[0]).Update("name", "Jeronimos").Error)
	require.NoError(t, db.Delete(&found[0]).Error)

	metrics := collect(t, reader)

	queries, ok := metrics["db.client.queries"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byOperation := map[string]int64{}
	for _, dp := range queries.DataPoints {
		op, _ := dp.Attributes.Value(telemetry.AttrDBOperation)
		byOperation[op.AsString()] += dp.Value
	}
	assert.GreaterOrEqual(t, byOperation["INSERT"], int64(1))
	assert.GreaterOrEqual(t, byOperation["SELECT"], int64(1))
	assert.GreaterOrEqual(t, byOperation["UPDATE"], int64(1))
	assert.GreaterOrEqual(t, byOperation["DELETE"], int64(1))

	assert.Greater(t, sumTotal(t, metrics["db.client.slow_queries"]), int64(0))
	assert.Contains(t, metrics, "db.client.duration")
	assert.Contains(t, metrics, "db.client.connections.max")
	assert.NotZero(t, logs.FilterMessage("Slow query").Len())
}

func TestDBInstrumentation_FastQueriesAreNotSlow(t *testing.T) {
	reader, provider := newManualMeter()
	plugin, err := telemetry.NewDBInstrumentation(provider.Meter("db"), telemetry.DBConfig{
		SlowQueryThreshold: time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)

	db := openSQLite(t)
	require.NoError(t, db.Use(plugin))
	require.NoError(t, db.AutoMigrate(&visit{}))
	require.NoError(t, db.Create(&visit{Name: "Alfama"}).Error)

	metrics := collect(t, reader)
	if slow, ok := metrics["db.client.slow_queries"]; ok {
		assert.Zero(t, sumTotal(t, slow))
	}
	assert.Greater(t, sumTotal(t, metrics["db.client.queries"]), int64(0))
}
