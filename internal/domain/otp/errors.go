package otp

import "errors"

var (
	ErrOTPNotFound = errors.New("otp not found")
	// ErrOTPActive is returned when an unexpired OTP already exists for the email.
	ErrOTPActive = errors.New("otp already active")
)
