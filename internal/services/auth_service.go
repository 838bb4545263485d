// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/keygate/keygate-backend/internal/config"
	"github.com/keygate/keygate-backend/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid service credentials")

// AuthService exchanges the configured service credential for a short-lived
// bearer token. The secret itself is never stored; only its bcrypt hash is
// present in configuration.
type AuthService struct {
	cfg *config.Config
}

type TokenRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
	Secret    string `json:"secret" validate:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

func (s *AuthService) IssueToken(req *TokenRequest) (*TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.ServiceID != s.cfg.Auth.ServiceID {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Auth.ServiceSecretHash), []byte(req.Secret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	ttl := time.Duration(s.cfg.Auth.TokenTTLMinutes) * time.Minute
	token, err := utils.GenerateServiceToken(req.ServiceID, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}
