package utils

import (
	domainUser "people-graphql-api/internal/domain/user"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	emailPattern    = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	phonePattern    = regexp.MustCompile(`^[0-9]{4,15}$`)
	dialCodePattern = regexp.MustCompile(`^\+[0-9]{1,4}$`)
)

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return domainUser.Role(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("dial_code", func(fl validator.FieldLevel) bool {
		return dialCodePattern.MatchString(fl.Field().String())
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// IsValidEmail reports whether email has the shape local@domain.tld.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(strings.ToLower(email))
	return emailPattern.MatchString(email)
}

// ValidationMessage flattens validator errors into a single caller-facing message.
func ValidationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid input"
	}

	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		if len(field) > 0 {
			field = strings.ToLower(field[:1]) + field[1:]
		}
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, "invalid email")
		default:
			parts = append(parts, "invalid "+field)
		}
	}
	return strings.Join(parts, "; ")
}
