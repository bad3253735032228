package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rollmark/attendance-api/internal/models"
	appErrors "github.com/rollmark/attendance-api/pkg/errors"
)

func newAuthService(t *testing.T, config AuthConfig) *AuthService {
	t.Helper()
	if config.Secret == "" {
		config.Secret = "test-secret"
	}
	if config.Expiration == 0 {
		config.Expiration = time.Hour
	}
	return NewAuthService(config, nil, zap.NewNop(), nil)
}

func TestLoginSuccess(t *testing.T) {
	svc := newAuthService(t, AuthConfig{Username: "admin", Password: "passw0rd", Issuer: "attendance-api"})

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "passw0rd"}, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "attendance-api", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t, AuthConfig{Username: "admin", Password: "passw0rd"})

	cases := []models.LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "intruder", Password: "passw0rd"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req, "")
		assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials), "request %+v", req)
	}
}

func TestLoginRejectsEmptyPayload(t *testing.T) {
	svc := newAuthService(t, AuthConfig{Username: "admin", Password: "passw0rd"})

	_, err := svc.Login(context.Background(), models.LoginRequest{}, "")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestLoginBcryptHashWinsOverPlainPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := newAuthService(t, AuthConfig{
		Username:     "admin",
		Password:     "ignored",
		PasswordHash: string(hash),
	})

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "s3cret"}, "")
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "ignored"}, "")
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestLoginRejectsWhenNoCredentialConfigured(t *testing.T) {
	svc := newAuthService(t, AuthConfig{Username: "admin"})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: ""}, "")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, AuthConfig{Username: "admin", Password: "passw0rd"})

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.ValidateToken(raw)
		assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized), "token %q", raw)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuing := newAuthService(t, AuthConfig{Username: "admin", Password: "passw0rd", Secret: "one"})
	verifying := newAuthService(t, AuthConfig{Username: "admin", Password: "passw0rd", Secret: "two"})

	resp, err := issuing.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "passw0rd"}, "")
	require.NoError(t, err)

	_, err = verifying.ValidateToken(resp.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newAuthService(t, AuthConfig{Username: "admin", Password: "passw0rd", Expiration: -time.Minute})

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "passw0rd"}, "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
