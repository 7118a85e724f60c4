package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"catalog/config"
	deliverycontext "catalog/internal/delivery/context"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func sqlFn(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormSlogLogger_TraceUsesRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&base), &config.Config{})

	ctx := deliverycontext.WithLogger(context.Background(), newBufferLogger(&scoped).With(slog.String("request_id", "req-1")))
	l.Trace(ctx, time.Now(), sqlFn("SELECT 1"), assert.AnError)

	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), "GORM query failed")
	assert.Contains(t, scoped.String(), "request_id=req-1")
}

func TestGormSlogLogger_IgnoresRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&buf), &config.Config{})

	l.Trace(context.Background(), time.Now(), sqlFn("SELECT 1"), gorm.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}

func TestGormSlogLogger_SlowQuery(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&buf), &config.Config{})

	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn("SELECT pg_sleep(1)"), nil)

	assert.Contains(t, buf.String(), "GORM slow query")
	assert.Contains(t, buf.String(), "pg_sleep")
}

func TestGormSlogLogger_LevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&buf), &config.Config{})

	// Plain queries are only logged in debug mode
	l.Trace(context.Background(), time.Now(), sqlFn("SELECT 1"), nil)
	l.Info(context.Background(), "hello %s", "world")
	assert.Empty(t, buf.String())

	l.LogMode(logger.Info).Info(context.Background(), "hello %s", "world")
	assert.Contains(t, buf.String(), "hello world")

	buf.Reset()
	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), sqlFn("SELECT 1"), assert.AnError)
	assert.Empty(t, buf.String())
}
