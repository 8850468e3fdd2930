package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@x.com", true},
		{"  First.Last+tag@Example.org ", true},
		{"no-at-sign.com", false},
		{"a@x", false},
		{"", false},
		{"a b@x.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

type sampleInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Role     string `validate:"omitempty,user_role"`
	DialCode string `validate:"omitempty,dial_code"`
	Phone    string `validate:"omitempty,phone"`
}

func TestValidateStruct_CustomRules(t *testing.T) {
	ok := sampleInput{Name: "A", Email: "a@x.com", Role: "Editor", DialCode: "+880", Phone: "1712345678"}
	require.NoError(t, ValidateStruct(ok))

	bad := sampleInput{Name: "A", Email: "a@x.com", Role: "Root", DialCode: "880", Phone: "12ab"}
	err := ValidateStruct(bad)
	require.Error(t, err)
	assert.Equal(t, "invalid role; invalid dialCode; invalid phone", ValidationMessage(err))
}

func TestValidationMessage_Required(t *testing.T) {
	err := ValidateStruct(sampleInput{})
	require.Error(t, err)
	assert.Equal(t, "name is required; email is required", ValidationMessage(err))
}
