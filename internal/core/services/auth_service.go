package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/adapters/persistence/repositories"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/password"
	"credit-organization-api/internal/pkg/validation"
)

// AuthService handles authentication business logic
type AuthService struct {
	uow       repositories.UnitOfWork
	tokens    TokenProvider
	validator *validation.Validator
	log       zerolog.Logger
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	uow repositories.UnitOfWork,
	tokens TokenProvider,
	validator *validation.Validator,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		uow:       uow,
		tokens:    tokens,
		validator: validator,
		log:       log.With().Str("component", "auth").Logger(),
		now:       time.Now,
	}
}

// Login authenticates a user and issues a fresh token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*domain.TokenPair, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	// 1. Find user
	user, err := s.uow.Users().GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !password.Verify(input.Password, user.PasswordHash) {
		s.log.Warn().Str("user_id", user.ID.String()).Msg("login rejected: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Issue tokens with a new session expiry
	pair, err := s.issueTokens(ctx, user, true)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return pair, nil
}

// Refresh rotates both tokens. The access token may be expired; the
// refresh token must match the stored one and be unexpired. The session
// expiry set at login is kept.
func (s *AuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.TokenPair, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, domain.InvalidArgument("Access token is required")
	}
	if refreshToken == "" {
		return nil, domain.ErrInvalidToken
	}

	claims, err := s.tokens.ParseExpired(accessToken)
	if err != nil {
		return nil, domain.InvalidArgument("Invalid access token")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, domain.InvalidArgument("Invalid access token")
	}

	user, err := s.uow.Users().GetWithDetails(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User with id %s not found", userID)
	}

	stored := user.RefreshToken
	if stored == nil || stored.TokenHash == nil ||
		!password.TokenMatches(refreshToken, *stored.TokenHash) ||
		stored.IsExpired(s.now()) {
		s.log.Warn().Str("user_id", userID.String()).Msg("refresh rejected")
		return nil, domain.ErrInvalidToken
	}

	return s.issueTokens(ctx, user, false)
}

// Logout clears the stored refresh token
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.InvalidArgument("User id is required")
	}
	if err := s.uow.RefreshTokens().UpdateToken(ctx, userID, nil, nil, true); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID.String()).Msg("user logged out")
	return nil
}

// issueTokens generates an access/refresh pair and stores the refresh token.
// When newSession is false the stored expiry is kept and reported.
func (s *AuthService) issueTokens(ctx context.Context, user *models.User, newSession bool) (*domain.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.RoleNames())
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := refresh.ExpiresAt
	if !newSession && user.RefreshToken != nil && user.RefreshToken.ExpiresAt != nil {
		expiresAt = *user.RefreshToken.ExpiresAt
	}

	hash := password.HashToken(refresh.Token)
	if err := s.uow.RefreshTokens().UpdateToken(ctx, user.ID, &hash, &expiresAt, newSession); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh.Token,
		RefreshTokenExpiresAt: expiresAt,
	}, nil
}
