package otp

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks . Repository,Dispatcher

// Repository stores OTPs. Implementations must treat expired records as absent.
type Repository interface {
	// Create stores o. It returns ErrOTPActive when an unexpired OTP for o.Email exists.
	Create(ctx context.Context, o *OTP) error
	// GetActive returns the unexpired OTP for email, or ErrOTPNotFound.
	GetActive(ctx context.Context, email string) (*OTP, error)
	// DeleteExpired removes records that expired at or before now and reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Dispatcher delivers an OTP code to its recipient.
type Dispatcher interface {
	SendOTP(ctx context.Context, email, code string) error
}
