package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/core/services"
	"credit-organization-api/internal/pkg/response"
)

// UserService is the part of services.UserService used by AccountHandler
type UserService interface {
	Register(ctx context.Context, input *services.RegisterInput, role domain.Role) (*models.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserResponse, error)
	UpdateAddress(ctx context.Context, userID uuid.UUID, input *services.AddressInput) error
	ChangePassword(ctx context.Context, userID uuid.UUID, input *services.ChangePasswordInput) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountHandler handles registration and profile endpoints
type AccountHandler struct {
	userService UserService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(userService UserService) *AccountHandler {
	return &AccountHandler{userService: userService}
}

// Register creates a customer account
// @Summary Register customer
// @Tags Accounts
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} models.UserResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /accounts/register [post]
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	return h.register(c, domain.RoleCustomer)
}

// RegisterWithRole creates an account holding the role named in the path
// @Summary Register user with role
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roleName path string true "Customer, Employee or Admin"
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /accounts/admin/register/{roleName} [post]
func (h *AccountHandler) RegisterWithRole(c *fiber.Ctx) error {
	role, ok := domain.ParseRole(c.Params("roleName"))
	if !ok {
		return response.BadRequest(c, "Invalid role name")
	}
	return h.register(c, role)
}

func (h *AccountHandler) register(c *fiber.Ctx, role domain.Role) error {
	var input services.RegisterInput
	if err := bind(c, &input); err != nil {
		return err
	}

	user, err := h.userService.Register(c.UserContext(), &input, role)
	if err != nil {
		return err
	}
	return response.Created(c, user)
}

// GetProfile returns the caller's profile
// @Summary Get profile
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /accounts/profile [get]
func (h *AccountHandler) GetProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetByID(c.UserContext(), p.UserID)
	if err != nil {
		return err
	}
	return response.OK(c, user)
}

// DeleteProfile deletes the caller's account
// @Summary Delete profile
// @Tags Accounts
// @Security BearerAuth
// @Success 204
// @Router /accounts/profile [delete]
func (h *AccountHandler) DeleteProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.UserContext(), p.UserID); err != nil {
		return err
	}
	return response.NoContent(c)
}

// UpdateAddress creates or replaces the caller's address
// @Summary Update address
// @Tags Accounts
// @Accept json
// @Security BearerAuth
// @Param body body services.AddressInput true "Address"
// @Success 204
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /accounts/address [patch]
func (h *AccountHandler) UpdateAddress(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.AddressInput
	if err := bind(c, &input); err != nil {
		return err
	}

	if err := h.userService.UpdateAddress(c.UserContext(), p.UserID, &input); err != nil {
		return err
	}
	return response.NoContent(c)
}

// ChangePassword replaces the caller's password
// @Summary Change password
// @Tags Accounts
// @Accept json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Current and new password"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /accounts/reset-password [patch]
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.ChangePasswordInput
	if err := bind(c, &input); err != nil {
		return err
	}

	if err := h.userService.ChangePassword(c.UserContext(), p.UserID, &input); err != nil {
		return err
	}
	return response.NoContent(c)
}
