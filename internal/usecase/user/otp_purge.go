package user

import (
	"context"
	"people-graphql-api/internal/logger"
	"time"

	"go.uber.org/zap"
)

// StartOTPPurgeJob removes expired OTPs every interval until ctx is done.
// Stores with native expiry do not need it.
func (s *Service) StartOTPPurgeJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("OTP purge job started",
		zap.Duration("interval", interval),
	)

	s.purgeExpiredOTPs(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("OTP purge job stopped")
			return
		case <-ticker.C:
			s.purgeExpiredOTPs(ctx)
		}
	}
}

func (s *Service) purgeExpiredOTPs(ctx context.Context) {
	removed, err := s.otpRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		logger.Error("Failed to delete expired OTPs", zap.Error(err))
		return
	}

	logger.Debug("Expired OTPs purged",
		zap.Int64("removed", removed),
	)
}
