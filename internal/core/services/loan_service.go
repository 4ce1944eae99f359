package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/adapters/persistence/repositories"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/pagination"
)

// LoanService reads and deletes loans.
//
// Methods taking ownerID restrict access to loans of that customer;
// uuid.Nil lifts the restriction for staff.
type LoanService struct {
	uow repositories.UnitOfWork
	log zerolog.Logger
}

// NewLoanService creates a new loan service
func NewLoanService(uow repositories.UnitOfWork, log zerolog.Logger) *LoanService {
	return &LoanService{
		uow: uow,
		log: log.With().Str("component", "loans").Logger(),
	}
}

// GetByID returns a loan with customer and loan type
func (s *LoanService) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.LoanResponse, error) {
	loan, err := s.loadOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return loan.ToResponse(), nil
}

// List pages loans newest first
func (s *LoanService) List(ctx context.Context, query LoanQuery) (*pagination.PagedList[*models.LoanResponse], error) {
	page, err := s.uow.Loans().ListPaged(ctx, repositories.LoanFilter{
		CustomerID: query.CustomerID,
		Search:     query.Search,
	}, query.PageNumber, query.PageSize)
	if err != nil {
		return nil, err
	}
	return pagination.Map(page, func(l models.Loan) *models.LoanResponse { return l.ToResponse() }), nil
}

// Delete removes a loan with its application and payments
func (s *LoanService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	loan, err := s.loadOwned(ctx, id, ownerID)
	if err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(tx repositories.UnitOfWork) error {
		return tx.Loans().Remove(ctx, loan)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("loan_id", id.String()).Msg("loan deleted")
	return nil
}

func (s *LoanService) loadOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Loan, error) {
	loan, err := s.uow.Loans().GetDetailed(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Loan with id %s not found", id)
	}
	if ownerID != uuid.Nil && loan.CustomerID != ownerID {
		return nil, domain.Forbidden("Loan %s does not belong to the current user", id)
	}
	return loan, nil
}
