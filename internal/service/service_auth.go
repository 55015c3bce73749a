package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/utils"
	"github.com/MKhiriev/fin-keeper/models"
)

// authService implements AuthService on top of signed JWTs. There is no
// credential store behind it: owner identity is established by whoever
// holds the shared signing key, and the token itself carries the owner ID.
type authService struct {
	// tokenSignKey is the HMAC secret the tokens are signed with.
	tokenSignKey string
	// tokenIssuer is the expected "iss" claim.
	tokenIssuer string
	// tokenDuration is the validity window of issued tokens.
	tokenDuration time.Duration
	logger        *logger.Logger
}

// NewAuthService returns an AuthService configured from the server app
// settings.
func NewAuthService(cfg config.ServerApp, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// CreateToken implements [AuthService].
func (a *authService) CreateToken(ctx context.Context, ownerID int64) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateJWTToken(a.tokenIssuer, ownerID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).
			Str("func", "authService.CreateToken").
			Int64("owner_id", ownerID).
			Msg("failed to sign token")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken implements [AuthService]. All verification failures collapse
// into ErrTokenIsExpiredOrInvalid so callers cannot distinguish a forged
// token from an expired one.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Warn().
			Str("func", "authService.ParseToken").
			Err(err).
			Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
