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

// PaymentService records payments against loans.
//
// ownerID follows the LoanService convention: uuid.Nil means staff access.
type PaymentService struct {
	uow       repositories.UnitOfWork
	validator *validation.Validator
	log       zerolog.Logger
	now       func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(uow repositories.UnitOfWork, validator *validation.Validator, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		uow:       uow,
		validator: validator,
		log:       log.With().Str("component", "payments").Logger(),
		now:       time.Now,
	}
}

// Create records a completed payment dated now
func (s *PaymentService) Create(ctx context.Context, input *PaymentInput, ownerID uuid.UUID) (*models.PaymentResponse, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	if _, err := s.loanFor(ctx, input.LoanID, ownerID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:            uuid.New(),
		LoanID:        input.LoanID,
		Date:          s.now().UTC(),
		Amount:        input.Amount,
		Status:        domain.PaymentStatusCompleted,
		PaymentMethod: input.PaymentMethod,
	}
	if err := s.uow.Payments().Add(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("loan_id", input.LoanID.String()).
		Str("amount", input.Amount.String()).
		Msg("payment recorded")
	return payment.ToResponse(), nil
}

// GetByID returns a payment with its loan
func (s *PaymentService) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.PaymentResponse, error) {
	payment, err := s.uow.Payments().GetDetailed(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Payment with id %s not found", id)
	}
	if ownerID != uuid.Nil && (payment.Loan == nil || payment.Loan.CustomerID != ownerID) {
		return nil, domain.Forbidden("Payment %s does not belong to the current user", id)
	}
	return payment.ToResponse(), nil
}

// ListByLoan pages the payments of a loan, newest first
func (s *PaymentService) ListByLoan(ctx context.Context, loanID, ownerID uuid.UUID, pageNumber, pageSize int) (*pagination.PagedList[*models.PaymentResponse], error) {
	if loanID == uuid.Nil {
		return nil, domain.InvalidArgument("Loan id is required")
	}
	if _, err := s.loanFor(ctx, loanID, ownerID); err != nil {
		return nil, err
	}

	page, err := s.uow.Payments().ListByLoan(ctx, loanID, pageNumber, pageSize)
	if err != nil {
		return nil, err
	}
	return pagination.Map(page, func(p models.Payment) *models.PaymentResponse { return p.ToResponse() }), nil
}

// Delete removes a payment
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	payment, err := s.uow.Payments().GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Payment with id %s not found", id)
	}
	if err := s.uow.Payments().Remove(ctx, payment); err != nil {
		return err
	}

	s.log.Info().Str("payment_id", id.String()).Msg("payment deleted")
	return nil
}

func (s *PaymentService) loanFor(ctx context.Context, loanID, ownerID uuid.UUID) (*models.Loan, error) {
	loan, err := s.uow.Loans().GetByID(ctx, loanID)
	if err != nil {
		return nil, notFoundOr(err, "Loan with id %s not found", loanID)
	}
	if ownerID != uuid.Nil && loan.CustomerID != ownerID {
		return nil, domain.Forbidden("Loan %s does not belong to the current user", loanID)
	}
	return loan, nil
}
