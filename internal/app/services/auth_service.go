package services

import (
	"github.com/rs/zerolog"

	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/auth"
)

// AuthService issues staff session tokens. There is no staff user store:
// a single operator credential is configured as a bcrypt hash.
type AuthService struct {
	jwtService   *auth.JWTService
	passwordHash string
	logger       zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(jwtService *auth.JWTService, passwordHash string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		jwtService:   jwtService,
		passwordHash: passwordHash,
		logger:       logger,
	}
}

// Login checks the staff password and returns a signed session token with its
// lifetime in seconds
func (s *AuthService) Login(password string) (string, int, error) {
	if s.passwordHash == "" || !auth.CheckPassword(s.passwordHash, password) {
		s.logger.Warn().Msg("Failed staff login attempt")
		return "", 0, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateStaffToken()
	if err != nil {
		return "", 0, err
	}

	s.logger.Info().Msg("Staff login")
	return token, expiresIn, nil
}
