package user

import (
	"context"
	"errors"
	"people-graphql-api/internal/auth"
	"people-graphql-api/internal/config"
	domainOTP "people-graphql-api/internal/domain/otp"
	domainUser "people-graphql-api/internal/domain/user"
	"people-graphql-api/internal/events"
	"people-graphql-api/internal/logger"
	appErrors "people-graphql-api/pkg/errors"
	"people-graphql-api/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

const errInvalidPhone = "invalid phone"

// Service implements user use cases
type Service struct {
	userRepo   domainUser.Repository
	otpRepo    domainOTP.Repository
	dispatcher domainOTP.Dispatcher
	publisher  events.Publisher
	config     *config.Config
	now        func() time.Time
}

// NewService creates a new user service
func NewService(
	userRepo domainUser.Repository,
	otpRepo domainOTP.Repository,
	dispatcher domainOTP.Dispatcher,
	publisher events.Publisher,
	cfg *config.Config,
) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		userRepo:   userRepo,
		otpRepo:    otpRepo,
		dispatcher: dispatcher,
		publisher:  publisher,
		config:     cfg,
		now:        time.Now,
	}
}

func (s *Service) ListUsers(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Dependency("failed to list users", err)
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, ToUserResponse(user))
	}

	return responses, nil
}

// GetUser returns nil without error when no user has the given id.
func (s *Service) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "failed to get user")
	}
	return ToUserResponse(user), nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthPayload, error) {
	email := utils.SanitizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, appErrors.Validation(appErrors.ErrMissingCredentials.Error(), nil)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.FromContext(ctx).Warn("Login attempt with non-existent email",
				zap.String("email", email),
				zap.String("event", "login_failed_user_not_found"),
			)
			return nil, appErrors.NotFound(appErrors.ErrUserNotFound.Error())
		}
		return nil, appErrors.Dependency("failed to login", err)
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.FromContext(ctx).Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.Unauthenticated(appErrors.ErrInvalidCredentials.Error())
	}

	token, expiresAt, err := utils.GenerateToken(
		user.ID,
		user.Email,
		string(user.Role),
		s.config.JWT.Secret,
		s.config.JWT.ExpiryHours,
	)
	if err != nil {
		return nil, appErrors.Dependency("failed to generate token", err)
	}

	logger.FromContext(ctx).Info("User logged in successfully",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("event", "login_success"),
	)

	return &AuthPayload{
		UserID:               user.ID,
		UserRole:             string(user.Role),
		Token:                token,
		TokenExpirationHours: s.config.JWT.ExpiryHours,
		TokenExpiration:      s.config.JWT.ExpiryHours,
		ExpiresAt:            expiresAt,
	}, nil
}

func (s *Service) Register(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = utils.SanitizeEmail(req.Email)
	req.DialCode = utils.SanitizeDialCode(req.DialCode)
	if req.Phone != nil {
		phone, ok := utils.SanitizePhone(*req.Phone)
		if !ok {
			return nil, appErrors.Validation(errInvalidPhone, nil)
		}
		req.Phone = &phone
		if phone == "" {
			req.Phone = nil
		}
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(utils.ValidationMessage(err), nil)
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, appErrors.Validation(appErrors.ErrInvalidEmail.Error(), nil)
	}

	role := domainUser.Role(req.Role)
	if role == "" {
		role = domainUser.RoleUser
	}

	hashedPassword, err := utils.HashPassword(req.Password, s.config.Security.SaltRounds)
	if err != nil {
		return nil, appErrors.Dependency("failed to register user", err)
	}

	user := &domainUser.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHashed: hashedPassword,
		Avatar:         req.Avatar,
		Role:           role,
		DialCode:       req.DialCode,
		Phone:          req.Phone,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		var dup *domainUser.DuplicateFieldError
		if errors.As(err, &dup) {
			logger.FromContext(ctx).Warn("Registration attempt with existing value",
				zap.String("field", dup.Field),
				zap.String("event", "registration_failed_duplicate"),
			)
			return nil, appErrors.Conflict(dup.Field)
		}
		return nil, appErrors.Dependency("failed to register user", err)
	}

	logger.FromContext(ctx).Info("User registered successfully",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("event", "user_registered"),
	)
	s.publish(ctx, events.UserCreated, user)

	return ToUserResponse(user), nil
}

// UpdateUser applies the non-nil fields of req to the stored user. A missing
// user yields a nil response and no error.
func (s *Service) UpdateUser(ctx context.Context, userID string, req *UpdateUserRequest) (*UserResponse, error) {
	identity, ok := auth.FromContext(ctx)
	if !ok {
		return nil, appErrors.Unauthenticated(appErrors.ErrUnauthenticated.Error())
	}

	if req.Phone != nil {
		phone, ok := utils.SanitizePhone(*req.Phone)
		if !ok {
			return nil, appErrors.Validation(errInvalidPhone, nil)
		}
		req.Phone = &phone
	}
	if req.DialCode != nil {
		dialCode := utils.SanitizeDialCode(*req.DialCode)
		req.DialCode = &dialCode
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(utils.ValidationMessage(err), nil)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, appErrors.Validation("name must not be empty", nil)
	}
	if req.Password != nil && *req.Password == "" {
		return nil, appErrors.Validation("password must not be empty", nil)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "failed to update user")
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		hashedPassword, err := utils.HashPassword(*req.Password, s.config.Security.SaltRounds)
		if err != nil {
			return nil, appErrors.Dependency("failed to update user", err)
		}
		user.PasswordHashed = hashedPassword
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.DialCode != nil {
		user.DialCode = *req.DialCode
	}
	if req.Phone != nil {
		user.Phone = req.Phone
		if *req.Phone == "" {
			user.Phone = nil
		}
	}

	if err := s.replace(ctx, user, "failed to update user"); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("User updated successfully",
		zap.String("user_id", user.ID),
		zap.String("actor_id", identity.UserID),
		zap.Bool("password_changed", req.Password != nil),
		zap.String("event", "user_updated"),
	)
	s.publish(ctx, events.UserUpdated, user)

	return ToUserResponse(user), nil
}

func (s *Service) UpdateUserRole(ctx context.Context, userID string, req *UpdateUserRoleRequest) (*UserResponse, error) {
	identity, ok := auth.FromContext(ctx)
	if !ok {
		return nil, appErrors.Unauthenticated(appErrors.ErrUnauthenticated.Error())
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(utils.ValidationMessage(err), nil)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "failed to update user role")
	}
	if req.Role == nil || *req.Role == "" {
		return ToUserResponse(user), nil
	}

	previous := user.Role
	user.Role = domainUser.Role(*req.Role)

	if err := s.replace(ctx, user, "failed to update user role"); err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("User role updated successfully",
		zap.String("user_id", user.ID),
		zap.String("actor_id", identity.UserID),
		zap.String("old_role", string(previous)),
		zap.String("new_role", string(user.Role)),
		zap.String("event", "user_role_updated"),
	)
	s.publish(ctx, events.UserRoleChanged, user)

	return ToUserResponse(user), nil
}

// DeleteUser removes the user and returns it as it was. A missing user yields
// a nil response and no error.
func (s *Service) DeleteUser(ctx context.Context, userID string) (*UserResponse, error) {
	identity, ok := auth.FromContext(ctx)
	if !ok {
		return nil, appErrors.Unauthenticated(appErrors.ErrUnauthenticated.Error())
	}

	user, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "failed to delete user")
	}

	logger.FromContext(ctx).Info("User deleted successfully",
		zap.String("user_id", user.ID),
		zap.String("actor_id", identity.UserID),
		zap.String("event", "user_deleted"),
	)
	s.publish(ctx, events.UserDeleted, user)

	return ToUserResponse(user), nil
}

// Ping reports whether the user store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.userRepo.Ping(ctx)
}

func (s *Service) replace(ctx context.Context, user *domainUser.User, message string) error {
	err := s.userRepo.Replace(ctx, user)
	if err == nil {
		return nil
	}

	var dup *domainUser.DuplicateFieldError
	switch {
	case errors.Is(err, domainUser.ErrUserNotFound):
		return err
	case errors.As(err, &dup):
		return appErrors.Conflict(dup.Field)
	default:
		return appErrors.Dependency(message, err)
	}
}

func (s *Service) publish(ctx context.Context, eventType events.Type, user *domainUser.User) {
	event := events.Event{
		Type:       eventType,
		UserID:     user.ID,
		Email:      user.Email,
		Role:       string(user.Role),
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish account event",
			zap.String("type", string(eventType)),
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}
}

// lookupError maps repository errors from by-id lookups. ErrUserNotFound maps
// to nil so callers return a null result.
func lookupError(err error, message string) error {
	switch {
	case errors.Is(err, domainUser.ErrUserNotFound):
		return nil
	case errors.Is(err, domainUser.ErrInvalidUserID):
		return appErrors.Validation(appErrors.ErrInvalidUserID.Error(), nil)
	default:
		return appErrors.Dependency(message, err)
	}
}
