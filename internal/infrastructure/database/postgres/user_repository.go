package postgres

import (
	"context"
	"errors"
	"fmt"
	"people-graphql-api/internal/domain/user"
	"people-graphql-api/internal/infrastructure/database/postgres/models"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

var duplicateKeyDetail = regexp.MustCompile(`Key \(([a-z_]+)\)=`)

// UserRepository implements user.Repository on postgres
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.ID = uuid.New().String()
	u.CreatedAt = now
	u.UpdatedAt = now

	dbModel, err := toUserModel(u)
	if err != nil {
		return err
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if field, ok := duplicateField(err); ok {
			return &user.DuplicateFieldError{Field: field}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where("email = ?", email).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*user.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, user.ErrInvalidUserID
	}

	var dbModel models.UserModel
	err = r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	var dbModels []models.UserModel
	err := r.db.DB.WithContext(ctx).Order("created_at").Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := make([]*user.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}

	return users, nil
}

func (r *UserRepository) Replace(ctx context.Context, u *user.User) error {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return user.ErrInvalidUserID
	}
	u.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":            u.Name,
			"email":           u.Email,
			"password_hashed": u.PasswordHashed,
			"avatar":          u.Avatar,
			"role":            string(u.Role),
			"dial_code":       u.DialCode,
			"phone":           u.Phone,
			"updated_at":      u.UpdatedAt,
		})

	if result.Error != nil {
		if field, ok := duplicateField(result.Error); ok {
			return &user.DuplicateFieldError{Field: field}
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) (*user.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, user.ErrInvalidUserID
	}

	var dbModel models.UserModel
	result := r.db.DB.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&dbModel)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, user.ErrUserNotFound
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Health(ctx)
}

// duplicateField extracts the column behind a unique violation.
func duplicateField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return "", false
	}

	if m := duplicateKeyDetail.FindStringSubmatch(pgErr.Detail); m != nil {
		return m[1], true
	}

	name := strings.TrimPrefix(pgErr.ConstraintName, "idx_")
	name = strings.TrimPrefix(name, pgErr.TableName+"_")
	name = strings.TrimSuffix(name, "_key")
	if name == "" {
		name = "field"
	}
	return name, true
}

func toUserModel(u *user.User) (*models.UserModel, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, user.ErrInvalidUserID
	}
	return &models.UserModel{
		ID:             id,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		Avatar:         u.Avatar,
		Role:           string(u.Role),
		DialCode:       u.DialCode,
		Phone:          u.Phone,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}, nil
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:             m.ID.String(),
		Name:           m.Name,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		Avatar:         m.Avatar,
		Role:           user.Role(m.Role),
		DialCode:       m.DialCode,
		Phone:          m.Phone,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
