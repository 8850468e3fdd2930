package cache

import (
	"context"
	"errors"
	"people-graphql-api/internal/domain/otp"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

var errOTPRejected = errors.New("otp cache rejected write")

// OTPStore keeps OTPs in process memory. Entries expire through the cache TTL,
// so codes do not survive a restart and are not shared between replicas.
type OTPStore struct {
	mu    sync.Mutex
	cache *ristretto.Cache[string, otp.OTP]
	now   func() time.Time
}

func NewOTPStore() (*OTPStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, otp.OTP]{
		NumCounters:        1e7,
		MaxCost:            1e6, // one unit per OTP
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &OTPStore{cache: c, now: time.Now}, nil
}

func (s *OTPStore) Create(ctx context.Context, o *otp.OTP) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.cache.Get(o.Email); ok && !current.IsExpired(o.CreatedAt) {
		return otp.ErrOTPActive
	}

	ttl := o.ExpiresAt.Sub(o.CreatedAt)
	if ttl <= 0 {
		return nil
	}
	if !s.cache.SetWithTTL(o.Email, *o, 1, ttl) {
		return errOTPRejected
	}
	s.cache.Wait()

	return nil
}

func (s *OTPStore) GetActive(ctx context.Context, email string) (*otp.OTP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	current, ok := s.cache.Get(email)
	if !ok || current.IsExpired(s.now()) {
		return nil, otp.ErrOTPNotFound
	}
	return &current, nil
}

// DeleteExpired is a no-op; the cache evicts expired entries on its own.
func (s *OTPStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *OTPStore) Close() {
	s.cache.Close()
}
