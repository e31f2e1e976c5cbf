package repository

import (
	"context"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // migrations are plain SQL files
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// PoolLimits bounds the shared connection pool. Zero values keep the driver
// defaults.
type PoolLimits struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewPostgresDB opens the PostgreSQL pool and verifies the server is
// reachable before the rest of the process starts.
func NewPostgresDB(dataSourceName string, limits PoolLimits, logger *zap.Logger) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	if limits.MaxOpenConns > 0 {
		db.SetMaxOpenConns(limits.MaxOpenConns)
	}
	if limits.MaxIdleConns > 0 {
		db.SetMaxIdleConns(limits.MaxIdleConns)
	}
	if limits.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(limits.ConnMaxLifetime)
	}

	logger.Info("Connected to PostgreSQL",
		zap.Int("max_open_conns", limits.MaxOpenConns),
		zap.Int("max_idle_conns", limits.MaxIdleConns))
	return db, nil
}

// MigrateDB applies any pending SQL migrations. The process never serves
// traffic against a schema it has not migrated, so failures are fatal.
func MigrateDB(db *sqlx.DB, logger *zap.Logger) {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		logger.Fatal("Failed to prepare migration driver", zap.Error(err))
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "neuraslide", driver)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	logger.Info("Database schema is up to date")
}
