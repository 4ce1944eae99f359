package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"credit-organization-api/internal/adapters/http/middleware"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/core/services"
	"credit-organization-api/internal/pkg/response"
)

// RefreshTokenCookie is the cookie carrying the opaque refresh token
const RefreshTokenCookie = "refreshToken"

// AuthService is the part of services.AuthService used by AuthHandler
type AuthService interface {
	Login(ctx context.Context, input *services.LoginInput) (*domain.TokenPair, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

// CookieOptions controls the refresh cookie attributes
type CookieOptions struct {
	Secure bool
	Domain string
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService AuthService
	cookie      CookieOptions
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// AuthStateResponse reports whether the caller is authenticated
type AuthStateResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user, return an access token and set the refresh cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := bind(c, &input); err != nil {
		return err
	}
	input.Email = strings.TrimSpace(input.Email)

	pair, err := h.authService.Login(c.UserContext(), &input)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, pair.RefreshToken, pair.RefreshTokenExpiresAt)
	return response.OK(c, TokenResponse{AccessToken: pair.AccessToken})
}

// Refresh handles token refresh
// @Summary Refresh tokens
// @Description Rotate the access token and the refresh cookie. The expired access token may be sent as the accessToken query parameter, a JSON string body or a Bearer header.
// @Tags Auth
// @Accept json
// @Produce json
// @Param accessToken query string false "Expired access token"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(RefreshTokenCookie)
	if refreshToken == "" {
		return response.BadRequest(c, "Refresh token is required.")
	}

	pair, err := h.authService.Refresh(c.UserContext(), expiredAccessToken(c), refreshToken)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, pair.RefreshToken, pair.RefreshTokenExpiresAt)
	return response.OK(c, TokenResponse{AccessToken: pair.AccessToken})
}

// Logout handles user logout
// @Summary Logout user
// @Description Clear the server side refresh token and the refresh cookie
// @Tags Auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.UserContext(), p.UserID); err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return response.NoContent(c)
}

// AuthState reports whether the request carries a valid access token
// @Summary Authentication state
// @Tags Auth
// @Produce json
// @Success 200 {object} AuthStateResponse
// @Router /auth/auth-state [get]
func (h *AuthHandler) AuthState(c *fiber.Ctx) error {
	_, ok := middleware.GetPrincipal(c)
	return response.OK(c, AuthStateResponse{IsAuthenticated: ok})
}

// expiredAccessToken finds the access token a refresh request presents
func expiredAccessToken(c *fiber.Ctx) string {
	if token := c.Query("accessToken"); token != "" {
		return token
	}

	if body := c.Body(); len(body) > 0 {
		var token string
		if err := json.Unmarshal(body, &token); err == nil && token != "" {
			return token
		}
		var wrapped TokenResponse
		if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.AccessToken != "" {
			return wrapped.AccessToken
		}
	}

	return middleware.BearerToken(c)
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Domain:   h.cookie.Domain,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Domain:   h.cookie.Domain,
	})
}
