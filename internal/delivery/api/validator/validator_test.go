package validator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestCustomValidator(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&signUpRequest{Email: "a@example.com", Password: "12345678"}))

	err := v.Validate(&signUpRequest{Email: "nope", Password: "short"})
	var fieldErrs ValidationErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Equal(t, ValidationErrors{"email": "email", "password": "min=8"}, fieldErrs)
}
