package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/services"
	"credit-organization-api/internal/pkg/pagination"
	"credit-organization-api/internal/pkg/response"
)

// PaymentService is the part of services.PaymentService used by PaymentHandler
type PaymentService interface {
	Create(ctx context.Context, input *services.PaymentInput, ownerID uuid.UUID) (*models.PaymentResponse, error)
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.PaymentResponse, error)
	ListByLoan(ctx context.Context, loanID, ownerID uuid.UUID, pageNumber, pageSize int) (*pagination.PagedList[*models.PaymentResponse], error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentHandler handles loan payments
type PaymentHandler struct {
	paymentService PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ListByLoan returns the payments of a loan
// @Summary List loan payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param loanId path string true "Loan ID"
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} pagination.PagedList[models.PaymentResponse]
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/loans/{loanId} [get]
func (h *PaymentHandler) ListByLoan(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	loanID, err := parseID(c, "loanId")
	if err != nil {
		return err
	}
	params, err := pagination.GetParams(c)
	if err != nil {
		return err
	}

	page, err := h.paymentService.ListByLoan(c.UserContext(), loanID, ownerScope(p), params.PageNumber, params.PageSize)
	if err != nil {
		return err
	}
	return response.OK(c, page)
}

// GetByID returns one payment
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	payment, err := h.paymentService.GetByID(c.UserContext(), id, ownerScope(p))
	if err != nil {
		return err
	}
	return response.OK(c, payment)
}

// Create records a payment against a loan
// @Summary Create payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PaymentInput true "Payment"
// @Success 201 {object} models.PaymentResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.PaymentInput
	if err := bind(c, &input); err != nil {
		return err
	}

	payment, err := h.paymentService.Create(c.UserContext(), &input, ownerScope(p))
	if err != nil {
		return err
	}
	return response.Created(c, payment)
}

// Delete removes any payment
// @Summary Delete payment (employee)
// @Tags Payments
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /payments/employee/{id} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.paymentService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return response.NoContent(c)
}
