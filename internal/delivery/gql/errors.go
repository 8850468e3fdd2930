package gql

import (
	"context"
	"errors"
	"people-graphql-api/internal/logger"
	appErrors "people-graphql-api/pkg/errors"

	"go.uber.org/zap"
)

// Values of extensions.code in GraphQL error responses.
const (
	ExtBadUserInput    = "BAD_USER_INPUT"
	ExtNotFound        = "NOT_FOUND"
	ExtConflict        = "CONFLICT"
	ExtUnauthenticated = "UNAUTHENTICATED"
	ExtInternalServer  = "INTERNAL_SERVER_ERROR"
)

const internalErrorString = "internal server error"

// Error is a resolver error carrying GraphQL extensions.
type Error struct {
	Message string
	Code    string
	Field   string
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions is picked up by graphql-go when the error is formatted.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if e.Field != "" {
		ext["field"] = e.Field
	}
	return ext
}

var extensionCodes = map[string]string{
	appErrors.CodeValidation:      ExtBadUserInput,
	appErrors.CodeNotFound:        ExtNotFound,
	appErrors.CodeConflict:        ExtConflict,
	appErrors.CodeUnauthenticated: ExtUnauthenticated,
	appErrors.CodeDependency:      ExtInternalServer,
}

func toGraphQLError(ctx context.Context, operation string, err error) error {
	log := logger.FromContext(ctx).With(zap.String("operation", operation))

	code := appErrors.CodeOf(err)
	ext, ok := extensionCodes[code]
	if !ok {
		log.Error("Unhandled resolver error", zap.String("code", code), zap.Error(err))
		return &Error{Message: internalErrorString, Code: ExtInternalServer}
	}

	var appErr *appErrors.AppError
	errors.As(err, &appErr)
	if code == appErrors.CodeDependency {
		log.Error("Dependency failure", zap.Error(err))
	}

	return &Error{Message: appErr.Error(), Code: ext, Field: appErr.Field}
}
