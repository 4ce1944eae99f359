package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/jwt"
	"credit-organization-api/internal/pkg/response"
)

const principalKey = "principal"

// TokenValidator validates bearer access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := BearerToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		principal, err := authenticate(tokens, accessToken)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// OptionalAuth middleware - doesn't require auth but sets the principal if
// a valid token is present
func OptionalAuth(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := BearerToken(c); accessToken != "" {
			if principal, err := authenticate(tokens, accessToken); err == nil {
				c.Locals(principalKey, principal)
			}
		}
		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := GetPrincipal(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !principal.HasRole(allowedRoles...) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// AdminOnly middleware allows only the Admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// EmployeeOnly middleware allows only the Employee role
func EmployeeOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleEmployee)
}

// CustomerOnly middleware allows only the Customer role
func CustomerOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleCustomer)
}

// GetPrincipal returns the authenticated caller, if any
func GetPrincipal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals(principalKey).(domain.Principal)
	return p, ok
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

func authenticate(tokens TokenValidator, accessToken string) (domain.Principal, error) {
	claims, err := tokens.ValidateAccessToken(accessToken)
	if err != nil {
		return domain.Principal{}, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return domain.Principal{}, jwt.ErrTokenInvalid
	}

	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, name := range claims.Roles {
		if role, ok := domain.ParseRole(name); ok {
			roles = append(roles, role)
		}
	}
	return domain.Principal{UserID: userID, Email: claims.Email, Roles: roles}, nil
}
