package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/core/services"
	"credit-organization-api/internal/pkg/pagination"
	"credit-organization-api/internal/pkg/response"
)

// LoanService is the part of services.LoanService used by LoanHandler
type LoanService interface {
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.LoanResponse, error)
	List(ctx context.Context, query services.LoanQuery) (*pagination.PagedList[*models.LoanResponse], error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// LoanApplicationService is the part of services.LoanApplicationService
// used by LoanHandler
type LoanApplicationService interface {
	Create(ctx context.Context, customerID uuid.UUID, input *services.LoanApplicationInput) (*models.LoanApplicationResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus, employeeID uuid.UUID) error
	ListPending(ctx context.Context, pageNumber, pageSize int) (*pagination.PagedList[*models.LoanApplicationResponse], error)
}

// LoanHandler handles loans and loan applications
type LoanHandler struct {
	loanService        LoanService
	applicationService LoanApplicationService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService LoanService, applicationService LoanApplicationService) *LoanHandler {
	return &LoanHandler{
		loanService:        loanService,
		applicationService: applicationService,
	}
}

// List returns the caller's loans
// @Summary List own loans
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param searchTerm query string false "Loan type name filter"
// @Success 200 {object} pagination.PagedList[models.LoanResponse]
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return h.list(c, p.UserID)
}

// GetByID returns one of the caller's loans
// @Summary Get own loan
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} models.LoanResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return h.get(c, p.UserID)
}

// Apply submits a loan application for the caller
// @Summary Apply for a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.LoanApplicationInput true "Application"
// @Success 201 {object} models.LoanApplicationResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ValidationErrorResponse
// @Router /loans [post]
func (h *LoanHandler) Apply(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var input services.LoanApplicationInput
	if err := bind(c, &input); err != nil {
		return err
	}

	application, err := h.applicationService.Create(c.UserContext(), p.UserID, &input)
	if err != nil {
		return err
	}
	return response.Created(c, application)
}

// Delete removes one of the caller's loans
// @Summary Delete own loan
// @Tags Loans
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 204
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return h.delete(c, p.UserID)
}

// EmployeeList returns every loan, or one customer's loans when userId is set
// @Summary List loans (employee)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param userId query string false "Customer ID"
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Param searchTerm query string false "Loan type name filter"
// @Success 200 {object} pagination.PagedList[models.LoanResponse]
// @Router /loans/employee [get]
func (h *LoanHandler) EmployeeList(c *fiber.Ctx) error {
	userID, err := parseOptionalID(c, "userId")
	if err != nil {
		return err
	}
	return h.list(c, userID)
}

// EmployeeGetByID returns any loan
// @Summary Get loan (employee)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param userId query string false "Expected owner"
// @Success 200 {object} models.LoanResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/employee/{id} [get]
func (h *LoanHandler) EmployeeGetByID(c *fiber.Ctx) error {
	userID, err := parseOptionalID(c, "userId")
	if err != nil {
		return err
	}
	return h.get(c, userID)
}

// EmployeeDelete removes any loan
// @Summary Delete loan (employee)
// @Tags Loans
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param userId query string false "Expected owner"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/employee/{id} [delete]
func (h *LoanHandler) EmployeeDelete(c *fiber.Ctx) error {
	userID, err := parseOptionalID(c, "userId")
	if err != nil {
		return err
	}
	return h.delete(c, userID)
}

// UpdateStatus records an employee decision on an application
// @Summary Change application status
// @Tags Loans
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param status query string true "Pending, Approved or Rejected"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /loans/employee/{id} [patch]
func (h *LoanHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	status, ok := domain.ParseApplicationStatus(c.Query("status"))
	if !ok {
		return response.BadRequest(c, "Invalid application status")
	}

	if err := h.applicationService.UpdateStatus(c.UserContext(), id, status, p.UserID); err != nil {
		return err
	}
	return response.NoContent(c)
}

// PendingApplications lists applications awaiting review
// @Summary List pending applications
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param pageNumber query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} pagination.PagedList[models.LoanApplicationResponse]
// @Router /loans/employee/applications [get]
func (h *LoanHandler) PendingApplications(c *fiber.Ctx) error {
	params, err := pagination.GetParams(c)
	if err != nil {
		return err
	}

	page, err := h.applicationService.ListPending(c.UserContext(), params.PageNumber, params.PageSize)
	if err != nil {
		return err
	}
	return response.OK(c, page)
}

func (h *LoanHandler) list(c *fiber.Ctx, customerID uuid.UUID) error {
	params, err := pagination.GetParams(c)
	if err != nil {
		return err
	}

	page, err := h.loanService.List(c.UserContext(), services.LoanQuery{
		CustomerID: customerID,
		Search:     c.Query("searchTerm"),
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	})
	if err != nil {
		return err
	}
	return response.OK(c, page)
}

func (h *LoanHandler) get(c *fiber.Ctx, ownerID uuid.UUID) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	loan, err := h.loanService.GetByID(c.UserContext(), id, ownerID)
	if err != nil {
		return err
	}
	return response.OK(c, loan)
}

func (h *LoanHandler) delete(c *fiber.Ctx, ownerID uuid.UUID) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.loanService.Delete(c.UserContext(), id, ownerID); err != nil {
		return err
	}
	return response.NoContent(c)
}
