package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"medistore/config"
	"medistore/internal/domain/constants"
	"medistore/internal/domain/lifecycle"
	"medistore/internal/infra/persistence/model"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
	sqliteDSNOptions            = "_foreign_keys=on&_busy_timeout=5000"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured database. PostgreSQL goes through go-lib (primary + replicas);
// the sqlite driver is for local development and creates its schema on start.
func New(params Params) (*gorm.DB, error) {
	gormLogger := newGormSlogLogger(params.Logger, params.Config)

	var (
		db  *gorm.DB
		err error
	)
	switch driver := params.Config.Database.Driver; driver {
	case constants.DatabaseDriverSQLite:
		db, err = OpenSQLite(SQLiteDSN(params.Config.Database.SQLitePath), gormLogger)
		if err != nil {
			return nil, err
		}
	case constants.DatabaseDriverPostgres, "":
		db, err = pgLib.New(params.Config.Postgres)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create PostgreSQL client")
		}
		// Explicit transactions go through TransactionManager.Execute.
		db = db.Session(&gorm.Session{
			SkipDefaultTransaction: true,
			Logger:                 gormLogger,
		})
		db.Config.TranslateError = true
	default:
		return nil, errors.Errorf("unsupported database driver: %s", driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping database")
			}

			go monitorDBPool(monitorCtx, params.Logger, sqlDB, dbPoolMonitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// SQLiteDSN builds the DSN for a database file. An empty path or ":memory:" selects a
// shared in-memory database that lives as long as the process.
func SQLiteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return MemorySQLiteDSN("medistore")
	}

	return "file:" + path + "?" + sqliteDSNOptions
}

// MemorySQLiteDSN names a shared-cache in-memory database. Distinct names are isolated.
func MemorySQLiteDSN(name string) string {
	return "file:" + name + "?mode=memory&cache=shared&" + sqliteDSNOptions
}

// OpenSQLite opens a SQLite database and migrates the schema. A single connection
// serializes writers, which SQLite requires and which makes transactions behave like row locks.
func OpenSQLite(dsn string, logger gormlogger.Interface) (*gorm.DB, error) {
	if logger == nil {
		logger = gormlogger.Discard
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SQLite database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get SQLite sql.DB")
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(model.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate SQLite schema")
	}

	return db, nil
}

func monitorDBPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	if logger == nil || sqlDB == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			waitDelta := cur.WaitCount - prev.WaitCount
			waitDurationDelta := cur.WaitDuration - prev.WaitDuration

			if waitDelta > 0 {
				attrs := []slog.Attr{
					slog.Int64("waitCountDelta", waitDelta),
					slog.Duration("waitDurationDelta", waitDurationDelta),
					slog.Duration("avgWait", waitDurationDelta/time.Duration(waitDelta)),
					slog.Int("maxOpenConns", cur.MaxOpenConnections),
					slog.Int("openConns", cur.OpenConnections),
					slog.Int("inUseConns", cur.InUse),
					slog.Int("idleConns", cur.Idle),
				}
				if waitDurationDelta >= dbPoolWarnDurationThreshold {
					logger.LogAttrs(ctx, slog.LevelWarn, "Database pool wait detected", attrs...)
				} else {
					logger.LogAttrs(ctx, slog.LevelDebug, "Database pool wait observed", attrs...)
				}
			}

			prev = cur
		}
	}
}
