package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"credit-organization-api/internal/adapters/http/middleware"
	"credit-organization-api/internal/core/domain"
)

// parseID reads a uuid path parameter
func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// parseOptionalID reads a uuid query parameter. A missing value is uuid.Nil.
func parseOptionalID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}

// bind decodes the JSON request body into dst
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return nil
}

// principal returns the authenticated caller set by AuthMiddleware
func principal(c *fiber.Ctx) (domain.Principal, error) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		return domain.Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return p, nil
}

// ownerScope is the owner filter for the caller: employees are unrestricted.
func ownerScope(p domain.Principal) uuid.UUID {
	if p.HasRole(domain.RoleEmployee) {
		return uuid.Nil
	}
	return p.UserID
}
