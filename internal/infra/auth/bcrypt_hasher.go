package auth

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"medistore/config"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/service"
)

const (
	defaultMinPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes.
	defaultMaxPasswordLength = 72
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	var policy config.PasswordStrengthConfig
	if cfg.PasswordStrength != nil {
		policy = *cfg.PasswordStrength
	}

	return NewBcryptHasherWithCost(cost, policy)
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost, clamped to bcrypt's valid range.
func NewBcryptHasherWithCost(cost int, policy config.PasswordStrengthConfig) service.PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if policy.MinLength <= 0 {
		policy.MinLength = defaultMinPasswordLength
	}
	if policy.MaxLength <= 0 || policy.MaxLength > defaultMaxPasswordLength {
		policy.MaxLength = defaultMaxPasswordLength
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a bcrypt hash of the password.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with its bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// ValidatePasswordStrength checks the password against the configured policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if len(password) < h.policy.MinLength {
		return domainerrors.ErrValidationFailed.WithDetails("password is too short")
	}
	if len(password) > h.policy.MaxLength {
		return domainerrors.ErrValidationFailed.WithDetails("password is too long")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	var missing []string
	if h.policy.RequireUppercase && !upper {
		missing = append(missing, "an uppercase letter")
	}
	if h.policy.RequireLowercase && !lower {
		missing = append(missing, "a lowercase letter")
	}
	if h.policy.RequireNumbers && !digit {
		missing = append(missing, "a number")
	}
	if h.policy.RequireSpecial && !special {
		missing = append(missing, "a special character")
	}
	if len(missing) > 0 {
		return domainerrors.ErrValidationFailed.WithDetails("password must contain " + strings.Join(missing, ", "))
	}

	return nil
}
