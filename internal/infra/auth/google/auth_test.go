package google

import (
	"context"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"

	"medistore/config"
	"medistore/internal/domain/entity"
)

func TestAuthService_VerifyIDToken(t *testing.T) {
	tests := []struct {
		name     string
		payload  *idtoken.Payload
		err      error
		wantErr  string
		wantUser bool
	}{
		{
			name: "valid token",
			payload: &idtoken.Payload{
				Subject: "google-sub-1",
				Claims: map[string]any{
					"email":          "alice@example.com",
					"email_verified": true,
					"name":           "Alice",
					"picture":        "https://example.com/a.png",
				},
			},
			wantUser: true,
		},
		{
			name:    "rejected by validator",
			err:     errors.New("idtoken: token expired"),
			wantErr: "token verification failed",
		},
		{
			name:    "missing email",
			payload: &idtoken.Payload{Subject: "google-sub-2", Claims: map[string]any{}},
			wantErr: "missing email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAudience string
			svc := newAuthService("client-id", func(_ context.Context, _, audience string) (*idtoken.Payload, error) {
				gotAudience = audience

				return tt.payload, tt.err
			}, slog.Default())

			user, err := svc.VerifyIDToken(context.Background(), "token")
			assert.Equal(t, "client-id", gotAudience)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, user)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "google-sub-1", user.ID)
			assert.Equal(t, "alice@example.com", user.Email)
			assert.Equal(t, "Alice", user.Name)
			assert.True(t, user.EmailVerified)
			assert.Equal(t, entity.ProviderTypeGoogle, user.Provider)
		})
	}
}

func TestAuthService_VerifyIDToken_NotConfigured(t *testing.T) {
	svc := NewAuthService(&config.Config{}, slog.Default())

	_, err := svc.VerifyIDToken(context.Background(), "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAuthService_GetProvider(t *testing.T) {
	cfg := &config.Config{GoogleOAuth: &config.GoogleOAuthConfig{ClientID: "test_client_id"}}
	authService := NewAuthService(cfg, slog.Default())

	assert.Equal(t, entity.ProviderTypeGoogle, authService.GetProvider())
}
