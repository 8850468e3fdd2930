package postgres

import (
	"context"
	"fmt"
	"people-graphql-api/internal/config"
	"people-graphql-api/internal/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connectTimeout  = 10 * time.Second
)

type DB struct {
	*gorm.DB
}

// NewDB opens the users/otps database and waits up to connectTimeout for it
// to answer. production lowers gorm's SQL log to warnings.
func NewDB(ctx context.Context, cfg *config.DatabaseConfig, production bool) (*DB, error) {
	level := gormLogger.Info
	if production {
		level = gormLogger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: newGormLogger(logger.Logger, level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to reach postgres at %s: %w", cfg.Host, err)
	}

	logger.Info("Postgres connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.DBName),
		zap.Int("max_open_connections", maxOpenConns),
	)
	return &DB{DB: db}, nil
}

// newGormLogger routes gorm's SQL log through zap.
func newGormLogger(l *zap.Logger, level gormLogger.LogLevel) gormLogger.Interface {
	return gormLogger.New(
		zap.NewStdLog(l),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health pings the pool; it backs the /health endpoint.
func (d *DB) Health(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
