package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/adapters/persistence/repositories"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/validation"
)

// LoanTypeService manages the loan type catalog
type LoanTypeService struct {
	uow       repositories.UnitOfWork
	cache     LoanTypeCache
	validator *validation.Validator
	log       zerolog.Logger
}

// NewLoanTypeService creates a new loan type service. cache may be nil.
func NewLoanTypeService(uow repositories.UnitOfWork, cache LoanTypeCache, validator *validation.Validator, log zerolog.Logger) *LoanTypeService {
	return &LoanTypeService{
		uow:       uow,
		cache:     cache,
		validator: validator,
		log:       log.With().Str("component", "loan_types").Logger(),
	}
}

// List returns the whole catalog, from cache when possible
func (s *LoanTypeService) List(ctx context.Context) ([]*models.LoanTypeResponse, error) {
	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("loan type cache read failed")
		} else if ok {
			return items, nil
		}
	}

	types, err := s.uow.LoanTypes().List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*models.LoanTypeResponse, len(types))
	for i, lt := range types {
		items[i] = lt.ToResponse()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, items); err != nil {
			s.log.Warn().Err(err).Msg("loan type cache write failed")
		}
	}
	return items, nil
}

// GetByID returns one loan type
func (s *LoanTypeService) GetByID(ctx context.Context, id uuid.UUID) (*models.LoanTypeResponse, error) {
	lt, err := s.uow.LoanTypes().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Loan type with id %s not found", id)
	}
	return lt.ToResponse(), nil
}

// Create adds a loan type with a unique name
func (s *LoanTypeService) Create(ctx context.Context, input *LoanTypeInput) (*models.LoanTypeResponse, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)

	exists, err := s.uow.LoanTypes().ExistsByName(ctx, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.AlreadyExists("Loan type with name %s already exists", name)
	}

	lt := &models.LoanType{
		ID:           uuid.New(),
		Name:         name,
		Description:  input.Description,
		InterestRate: input.InterestRate,
	}
	if err := s.uow.LoanTypes().Add(ctx, lt); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info().Str("loan_type_id", lt.ID.String()).Str("name", name).Msg("loan type created")
	return lt.ToResponse(), nil
}

// Update replaces a loan type. The id in the body must match id.
func (s *LoanTypeService) Update(ctx context.Context, id uuid.UUID, input *UpdateLoanTypeInput) (*models.LoanTypeResponse, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	if input.ID != id {
		return nil, domain.InvalidArgument("Loan type id does not match")
	}

	lt, err := s.uow.LoanTypes().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Loan type with id %s not found", id)
	}

	name := strings.TrimSpace(input.Name)
	exists, err := s.uow.LoanTypes().ExistsByName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.AlreadyExists("Loan type with name %s already exists", name)
	}

	lt.Name = name
	lt.Description = input.Description
	lt.InterestRate = input.InterestRate
	if err := s.uow.LoanTypes().Update(ctx, lt); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return lt.ToResponse(), nil
}

// Delete removes a loan type that no loan uses
func (s *LoanTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	lt, err := s.uow.LoanTypes().GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Loan type with id %s not found", id)
	}

	inUse, err := s.uow.Loans().CountByLoanType(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return domain.InvalidArgument("Loan type %s is used by %d loans", lt.Name, inUse)
	}

	if err := s.uow.LoanTypes().Remove(ctx, lt); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.log.Info().Str("loan_type_id", id.String()).Msg("loan type deleted")
	return nil
}

func (s *LoanTypeService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("loan type cache invalidation failed")
	}
}
