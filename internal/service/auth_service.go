package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rollmark/attendance-api/internal/models"
	appErrors "github.com/rollmark/attendance-api/pkg/errors"
)

// AuthConfig defines the single-admin credential and token settings. The
// credentials arrive out-of-band through configuration; PasswordHash, when
// set, wins over the plain Password.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
	Secret       string
	Expiration   time.Duration
	Issuer       string
}

// AuthService authenticates the administrator and validates session tokens.
type AuthService struct {
	config    AuthConfig
	validator *validator.Validate
	logger    *zap.Logger
	audit     *AuditService
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(config AuthConfig, validate *validator.Validate, logger *zap.Logger, audit *AuditService) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{config: config, validator: validate, logger: logger, audit: audit}
}

// Login verifies the admin credentials and returns a session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, ip string) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if !s.credentialsMatch(req.Username, req.Password) {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	now := time.Now().UTC()
	claims := models.JWTClaims{
		Username: req.Username,
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   req.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}

	s.audit.Record(ctx, models.AuditLog{
		Username:  req.Username,
		Action:    models.AuditActionLogin,
		IPAddress: ip,
	})

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		IssuedAt:    now,
	}, nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(raw string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "insufficient role")
	}
	return claims, nil
}

func (s *AuthService) credentialsMatch(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.config.Username)) != 1 {
		return false
	}
	if s.config.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.config.PasswordHash), []byte(password)) == nil
	}
	if s.config.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.config.Password)) == 1
}
