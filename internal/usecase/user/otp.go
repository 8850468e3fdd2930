package user

import (
	"context"
	"errors"
	"fmt"
	domainOTP "people-graphql-api/internal/domain/otp"
	"people-graphql-api/internal/events"
	"people-graphql-api/internal/logger"
	appErrors "people-graphql-api/pkg/errors"
	"people-graphql-api/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RequestOTP issues a one-time code to email and delivers it through the
// dispatcher. Only one unexpired code may exist per email.
func (s *Service) RequestOTP(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", appErrors.Validation(appErrors.ErrMissingEmail.Error(), nil)
	}
	if !utils.IsValidEmail(email) {
		return "", appErrors.Validation(appErrors.ErrInvalidEmail.Error(), nil)
	}
	email = utils.SanitizeEmail(email)

	_, err := s.otpRepo.GetActive(ctx, email)
	switch {
	case err == nil:
		return "", s.otpCooldownError(ctx, email)
	case !errors.Is(err, domainOTP.ErrOTPNotFound):
		return "", appErrors.Dependency("failed to send OTP", err)
	}

	code, err := utils.GenerateOTP(s.config.OTP.Length)
	if err != nil {
		return "", appErrors.Dependency("failed to send OTP", err)
	}

	now := s.now()
	record := &domainOTP.OTP{
		Email:     email,
		Code:      code,
		Medium:    domainOTP.MediumEmail,
		CreatedAt: now,
		ExpiresAt: now.Add(s.otpTTL()),
	}
	if err := s.otpRepo.Create(ctx, record); err != nil {
		if errors.Is(err, domainOTP.ErrOTPActive) {
			return "", s.otpCooldownError(ctx, email)
		}
		return "", appErrors.Dependency("failed to send OTP", err)
	}

	// The stored code is kept even when delivery fails; it expires on its own.
	if err := s.dispatcher.SendOTP(ctx, email, code); err != nil {
		logger.FromContext(ctx).Error("Failed to deliver OTP",
			zap.String("email", email),
			zap.String("event", "otp_delivery_failed"),
			zap.Error(err),
		)
		return "", appErrors.Dependency("failed to send OTP", err)
	}

	logger.FromContext(ctx).Info("OTP issued",
		zap.String("email", email),
		zap.Time("expires_at", record.ExpiresAt),
		zap.String("event", "otp_issued"),
	)
	if err := s.publisher.Publish(ctx, events.Event{
		Type:       events.OTPIssued,
		Email:      email,
		OccurredAt: now.UTC(),
	}); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish account event",
			zap.String("type", string(events.OTPIssued)),
			zap.Error(err),
		)
	}

	return fmt.Sprintf("OTP sent to %s", email), nil
}

func (s *Service) otpTTL() time.Duration {
	return time.Duration(s.config.OTP.TTLMinutes) * time.Minute
}

func (s *Service) otpCooldownError(ctx context.Context, email string) error {
	logger.FromContext(ctx).Warn("OTP requested while another is active",
		zap.String("email", email),
		zap.String("event", "otp_cooldown"),
	)
	return appErrors.Validation(
		fmt.Sprintf("otp already sent to %s. Please try again after %d minutes.", email, s.config.OTP.TTLMinutes),
		nil,
	)
}
