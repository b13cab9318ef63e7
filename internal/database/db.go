package database

import (
	"context"
	"errors"
	"time"

	"github.com/ch1kulya/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

func Open(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	logger.Info("Connecting to database...")

	dbConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = 25
	dbConfig.MinConns = 2
	dbConfig.MaxConnLifetime = time.Hour
	dbConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Database connected successfully")
	return pool, nil
}

// Migrate applies every pending migration found at sourceURL.
func Migrate(sourceURL, databaseURL string) error {
	logger.Info("Starting database migrations...")

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return err
	}

	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("Migration source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Warn("Migration db close error: %v", dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Already up to date.")
			return nil
		}
		return err
	}

	logger.Info("Migrations applied successfully")
	return nil
}
