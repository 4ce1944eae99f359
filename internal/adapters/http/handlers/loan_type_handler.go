package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/services"
	"credit-organization-api/internal/pkg/response"
)

// LoanTypeService is the part of services.LoanTypeService used by LoanTypeHandler
type LoanTypeService interface {
	List(ctx context.Context) ([]*models.LoanTypeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.LoanTypeResponse, error)
	Create(ctx context.Context, input *services.LoanTypeInput) (*models.LoanTypeResponse, error)
	Update(ctx context.Context, id uuid.UUID, input *services.UpdateLoanTypeInput) (*models.LoanTypeResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LoanTypeHandler handles the loan type catalog
type LoanTypeHandler struct {
	loanTypeService LoanTypeService
}

// NewLoanTypeHandler creates a new loan type handler
func NewLoanTypeHandler(loanTypeService LoanTypeService) *LoanTypeHandler {
	return &LoanTypeHandler{loanTypeService: loanTypeService}
}

// List returns every loan type
// @Summary List loan types
// @Tags LoanTypes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.LoanTypeResponse
// @Router /loanTypes [get]
func (h *LoanTypeHandler) List(c *fiber.Ctx) error {
	items, err := h.loanTypeService.List(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, items)
}

// GetByID returns one loan type
// @Summary Get loan type
// @Tags LoanTypes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan type ID"
// @Success 200 {object} models.LoanTypeResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /loanTypes/{id} [get]
func (h *LoanTypeHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	item, err := h.loanTypeService.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return response.OK(c, item)
}

// Create adds a loan type
// @Summary Create loan type
// @Tags LoanTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.LoanTypeInput true "Loan type"
// @Success 201 {object} models.LoanTypeResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /loanTypes/admin [post]
func (h *LoanTypeHandler) Create(c *fiber.Ctx) error {
	var input services.LoanTypeInput
	if err := bind(c, &input); err != nil {
		return err
	}

	item, err := h.loanTypeService.Create(c.UserContext(), &input)
	if err != nil {
		return err
	}
	return response.Created(c, item)
}

// Update replaces a loan type
// @Summary Update loan type
// @Tags LoanTypes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan type ID"
// @Param body body services.UpdateLoanTypeInput true "Loan type"
// @Success 200 {object} models.LoanTypeResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /loanTypes/admin/{id} [put]
func (h *LoanTypeHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var input services.UpdateLoanTypeInput
	if err := bind(c, &input); err != nil {
		return err
	}

	item, err := h.loanTypeService.Update(c.UserContext(), id, &input)
	if err != nil {
		return err
	}
	return response.OK(c, item)
}

// Delete removes an unused loan type
// @Summary Delete loan type
// @Tags LoanTypes
// @Security BearerAuth
// @Param id path string true "Loan type ID"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /loanTypes/admin/{id} [delete]
func (h *LoanTypeHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.loanTypeService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}
