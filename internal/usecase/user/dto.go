package user

import (
	domainUser "people-graphql-api/internal/domain/user"
	"time"
)

// MaskedPassword replaces the password hash in every user returned to callers.
const MaskedPassword = "secured_password"

type CreateUserRequest struct {
	Name     string  `mapstructure:"name" validate:"required,max=255"`
	Email    string  `mapstructure:"email" validate:"required,max=255"`
	Password string  `mapstructure:"password" validate:"required"`
	Avatar   string  `mapstructure:"avatar"`
	Role     string  `mapstructure:"role" validate:"omitempty,user_role"`
	DialCode string  `mapstructure:"dialCode" validate:"omitempty,dial_code"`
	Phone    *string `mapstructure:"phone" validate:"omitempty,phone"`
}

type LoginRequest struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// UpdateUserRequest carries a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `mapstructure:"name" validate:"omitempty,max=255"`
	Password *string `mapstructure:"password"`
	Avatar   *string `mapstructure:"avatar"`
	DialCode *string `mapstructure:"dialCode" validate:"omitempty,dial_code"`
	Phone    *string `mapstructure:"phone" validate:"omitempty,phone"`
}

type UpdateUserRoleRequest struct {
	Role *string `mapstructure:"role" validate:"omitempty,user_role"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	DialCode  string    `json:"dialCode"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthPayload struct {
	UserID               string    `json:"userId"`
	UserRole             string    `json:"userRole"`
	Token                string    `json:"token"`
	TokenExpirationHours int       `json:"tokenExpirationHours"`
	TokenExpiration      int       `json:"tokenExpiration"`
	ExpiresAt            time.Time `json:"expiresAt"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Password:  MaskedPassword,
		Avatar:    u.Avatar,
		Role:      string(u.Role),
		DialCode:  u.DialCode,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
