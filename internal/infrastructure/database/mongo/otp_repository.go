package mongo

import (
	"context"
	"errors"
	"fmt"
	"people-graphql-api/internal/domain/otp"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// OTPRepository implements otp.Repository. The TTL index removes expired
// documents, but the monitor runs about once a minute so expiry is also
// checked in queries.
type OTPRepository struct {
	collection collection
	now        func() time.Time
}

func NewOTPRepository(db *DB) otp.Repository {
	return &OTPRepository{
		collection: db.database.Collection(otpsCollection),
		now:        time.Now,
	}
}

func (r *OTPRepository) Create(ctx context.Context, o *otp.OTP) error {
	doc := toOTPDocument(o)

	_, err := r.collection.InsertOne(ctx, doc)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to create otp: %w", err)
	}

	// The stored OTP may have expired without being reaped yet; take it over.
	result, err := r.collection.ReplaceOne(ctx, expiredOTP(doc.Email, o.CreatedAt), doc)
	if err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}
	if result.MatchedCount == 0 {
		return otp.ErrOTPActive
	}

	return nil
}

func (r *OTPRepository) GetActive(ctx context.Context, email string) (*otp.OTP, error) {
	var doc otpDocument
	err := r.collection.FindOne(ctx, activeOTP(email, r.now().UTC())).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, otp.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, expiredOTPs(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", err)
	}
	return result.DeletedCount, nil
}
