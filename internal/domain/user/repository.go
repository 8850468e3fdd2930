package user

import "context"

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	// Replace overwrites the stored record with user, keyed by user.ID.
	Replace(ctx context.Context, user *User) error
	// Delete removes the record and returns it as it was before removal.
	Delete(ctx context.Context, userID string) (*User, error)
	Ping(ctx context.Context) error
}
