package postgres

import (
	"context"
	"errors"
	"fmt"
	"people-graphql-api/internal/domain/otp"
	"people-graphql-api/internal/infrastructure/database/postgres/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OTPRepository implements otp.Repository on postgres. Expiry is enforced in
// queries and the purge job removes stale rows.
type OTPRepository struct {
	db *DB
}

func NewOTPRepository(db *DB) otp.Repository {
	return &OTPRepository{db: db}
}

// Create inserts the OTP, or takes over the row of an expired one. The conflict
// clause only fires for expired rows, so an active OTP leaves zero rows affected.
func (r *OTPRepository) Create(ctx context.Context, o *otp.OTP) error {
	dbModel := &models.OTPModel{
		Email:     o.Email,
		Code:      o.Code,
		Medium:    string(o.Medium),
		CreatedAt: o.CreatedAt,
		ExpiresAt: o.ExpiresAt,
	}

	result := r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "medium", "created_at", "expires_at"}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: `"otps"."expires_at" <= ?`, Vars: []interface{}{o.CreatedAt}},
			}},
		}).
		Create(dbModel)

	if result.Error != nil {
		return fmt.Errorf("failed to create otp: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return otp.ErrOTPActive
	}

	return nil
}

func (r *OTPRepository) GetActive(ctx context.Context, email string) (*otp.OTP, error) {
	var dbModel models.OTPModel
	err := r.db.DB.WithContext(ctx).
		Where("email = ? AND expires_at > ?", email, time.Now()).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, otp.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}

	return &otp.OTP{
		Email:     dbModel.Email,
		Code:      dbModel.Code,
		Medium:    otp.Medium(dbModel.Medium),
		CreatedAt: dbModel.CreatedAt,
		ExpiresAt: dbModel.ExpiresAt,
	}, nil
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.OTPModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired otps: %w", result.Error)
	}
	return result.RowsAffected, nil
}
