package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"medistore/config"
	domainerrors "medistore/internal/domain/errors"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost, config.PasswordStrengthConfig{})

	hash, err := hasher.Hash("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123!", hash)

	assert.True(t, hasher.Check("Secret123!", hash))
	assert.False(t, hasher.Check("secret123!", hash))
	assert.False(t, hasher.Check("Secret123!", "not-a-hash"))
}

func TestBcryptHasher_UsesConfiguredCost(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost + 1}}
	hasher := NewBcryptHasher(cfg)

	hash, err := hasher.Hash("Secret123!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost, config.PasswordStrengthConfig{
		MinLength:        8,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
		RequireSpecial:   true,
	})

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "strong", password: "Secret123!", wantErr: false},
		{name: "too short", password: "Se1!", wantErr: true},
		{name: "no uppercase", password: "secret123!", wantErr: true},
		{name: "no lowercase", password: "SECRET123!", wantErr: true},
		{name: "no number", password: "Secretabc!", wantErr: true},
		{name: "no special", password: "Secret1234", wantErr: true},
		{name: "too long", password: string(make([]byte, 80)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
