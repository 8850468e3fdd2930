package main

import (
	"context"
	"fmt"
	"people-graphql-api/internal/config"
	domainOTP "people-graphql-api/internal/domain/otp"
	domainUser "people-graphql-api/internal/domain/user"
	"people-graphql-api/internal/infrastructure/cache"
	"people-graphql-api/internal/infrastructure/database/mongo"
	"people-graphql-api/internal/infrastructure/database/postgres"
	"people-graphql-api/internal/logger"

	"go.uber.org/zap"
)

// storage bundles the repositories for the configured driver.
type storage struct {
	users domainUser.Repository
	otps  domainOTP.Repository
	// purgeOTPs is set when the OTP store has no native expiry.
	purgeOTPs bool
	closers   []func(context.Context) error
}

func (s *storage) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			logger.Error("Failed to close storage", zap.Error(err))
		}
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	s := &storage{}

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		db, err := mongo.NewDB(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		if err := db.EnsureIndexes(ctx); err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.users = mongo.NewUserRepository(db)
		s.otps = mongo.NewOTPRepository(db)

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, &cfg.Database, cfg.Server.IsProduction())
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(ctx); err != nil {
				s.Close(ctx)
				return nil, err
			}
		}
		s.users = postgres.NewUserRepository(db)
		s.otps = postgres.NewOTPRepository(db)
		s.purgeOTPs = true

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.OTPStore == config.OTPStoreMemory {
		store, err := cache.NewOTPStore()
		if err != nil {
			s.Close(ctx)
			return nil, fmt.Errorf("failed to create otp cache: %w", err)
		}
		s.closers = append(s.closers, func(context.Context) error { store.Close(); return nil })
		s.otps = store
		s.purgeOTPs = false
	}

	logger.Info("Storage ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("otp_store", cfg.Storage.OTPStore),
	)
	return s, nil
}
