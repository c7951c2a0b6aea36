package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"medistore/config"
	"medistore/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedTestDB(t *testing.T, logParams bool) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	cfg := &config.Config{Database: &config.DatabaseConfig{LogQueryParams: logParams}}
	cfg.Env.Debug = true

	db, err := OpenSQLite(MemorySQLiteDSN(uuid.NewString()), newGormSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)), cfg))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	user := &entity.User{Name: "pat", Email: "pat.private@example.com", Role: entity.RoleCustomer}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))

	return &buf
}

func TestGormSlogLogger_BindValues(t *testing.T) {
	t.Run("dropped by default", func(t *testing.T) {
		logs := newLoggedTestDB(t, false).String()
		assert.Contains(t, logs, "Database query")
		assert.Contains(t, logs, "INSERT INTO")
		assert.NotContains(t, logs, "pat.private@example.com")
	})

	t.Run("inlined when enabled", func(t *testing.T) {
		logs := newLoggedTestDB(t, true).String()
		assert.Contains(t, logs, "pat.private@example.com")
	})
}

func TestGormSlogLogger_SlowQueryThreshold(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Database: &config.DatabaseConfig{SlowQueryThreshold: 50 * time.Millisecond}}
	gl := newGormSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)), cfg)
	query := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now().Add(-10*time.Millisecond), query, nil)
	assert.Empty(t, buf.String(), "fast queries are not logged at warn level")

	gl.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
	assert.Contains(t, buf.String(), "Slow database query")
	assert.Contains(t, buf.String(), `"slow_threshold":50000000`)

	assert.Equal(t, defaultGormSlowThreshold, newGormSlogLogger(nil, &config.Config{}).slowThreshold)
}
