package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/adapters/persistence/repositories"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/pagination"
	"credit-organization-api/internal/pkg/validation"
)

// LoanApplicationService runs the apply / review workflow
type LoanApplicationService struct {
	uow       repositories.UnitOfWork
	validator *validation.Validator
	log       zerolog.Logger
	now       func() time.Time
}

// NewLoanApplicationService creates a new loan application service
func NewLoanApplicationService(uow repositories.UnitOfWork, validator *validation.Validator, log zerolog.Logger) *LoanApplicationService {
	return &LoanApplicationService{
		uow:       uow,
		validator: validator,
		log:       log.With().Str("component", "loan_applications").Logger(),
		now:       time.Now,
	}
}

// Create submits a loan application. The loan and its application share
// one id, both start Pending, and are written in one transaction.
func (s *LoanApplicationService) Create(ctx context.Context, customerID uuid.UUID, input *LoanApplicationInput) (*models.LoanApplicationResponse, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	loanType, err := s.uow.LoanTypes().GetByID(ctx, input.LoanTypeID)
	if err != nil {
		return nil, notFoundOr(err, "Loan type with id %s not found", input.LoanTypeID)
	}

	id := uuid.New()
	loan := &models.Loan{
		ID:           id,
		CustomerID:   customerID,
		LoanTypeID:   loanType.ID,
		Status:       domain.LoanStatusPending,
		Amount:       input.Amount,
		InterestRate: input.InterestRate,
		StartDate:    input.StartDate,
		EndDate:      addMonths(input.StartDate, input.LoanTermInMonths),
	}
	application := &models.LoanApplication{
		ID:     id,
		Date:   s.now().UTC(),
		Status: domain.ApplicationStatusPending,
	}

	err = s.uow.WithinTx(ctx, func(tx repositories.UnitOfWork) error {
		if err := tx.Loans().Add(ctx, loan); err != nil {
			return err
		}
		return tx.LoanApplications().Add(ctx, application)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("loan_id", id.String()).
		Str("customer_id", customerID.String()).
		Str("amount", input.Amount.String()).
		Msg("loan application submitted")

	loan.LoanType = loanType
	application.Loan = loan
	return application.ToResponse(), nil
}

// UpdateStatus records an employee decision on the application and moves
// the loan to the matching state.
func (s *LoanApplicationService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus, employeeID uuid.UUID) error {
	if id == uuid.Nil {
		return domain.InvalidArgument("Loan application id is required")
	}

	loanStatus, err := status.LoanStatus()
	if err != nil {
		return err
	}

	if _, err := s.uow.LoanApplications().GetByID(ctx, id); err != nil {
		return notFoundOr(err, "Loan application with id %s not found", id)
	}

	update := repositories.ApplicationStatusUpdate{Status: status}
	if employeeID != uuid.Nil {
		update.EmployeeID = &employeeID
	}
	if status == domain.ApplicationStatusApproved {
		approved := s.now().UTC()
		update.ApprovalDate = &approved
	}

	err = s.uow.WithinTx(ctx, func(tx repositories.UnitOfWork) error {
		if err := tx.LoanApplications().UpdateStatus(ctx, id, update); err != nil {
			return err
		}
		return tx.Loans().UpdateStatus(ctx, id, loanStatus)
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("loan_id", id.String()).
		Str("status", string(status)).
		Str("employee_id", employeeID.String()).
		Msg("loan application reviewed")
	return nil
}

// ListPending pages pending applications, oldest first
func (s *LoanApplicationService) ListPending(ctx context.Context, pageNumber, pageSize int) (*pagination.PagedList[*models.LoanApplicationResponse], error) {
	page, err := s.uow.LoanApplications().ListByStatus(ctx, domain.ApplicationStatusPending, pageNumber, pageSize)
	if err != nil {
		return nil, err
	}
	return pagination.Map(page, func(a models.LoanApplication) *models.LoanApplicationResponse { return a.ToResponse() }), nil
}

// addMonths moves t by n calendar months, keeping the time of day. A day
// past the end of the target month becomes its last day (Jan 31 + 1 = Feb 28).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	return time.Date(first.Year(), first.Month(), min(d, last), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
