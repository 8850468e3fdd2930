package otp

import "time"

// Medium is the channel an OTP code is delivered over.
type Medium string

const MediumEmail Medium = "email"

// OTP is a one-time password issued to an email address.
type OTP struct {
	Email     string
	Code      string
	Medium    Medium
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired checks if the OTP is past its expiry at now
func (o *OTP) IsExpired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
