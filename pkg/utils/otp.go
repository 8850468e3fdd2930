package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const DefaultOTPLength = 6

// GenerateOTP returns a random numeric code of the given length.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = DefaultOTPLength
	}

	code := make([]byte, length)
	ten := big.NewInt(10)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
