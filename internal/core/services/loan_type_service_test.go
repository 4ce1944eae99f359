package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/domain"
)

type memoryLoanTypeCache struct {
	items       []*models.LoanTypeResponse
	hits        int
	invalidated int
	failGet     bool
}

func (c *memoryLoanTypeCache) Get(context.Context) ([]*models.LoanTypeResponse, bool, error) {
	if c.failGet {
		return nil, false, errors.New("redis down")
	}
	if c.items == nil {
		return nil, false, nil
	}
	c.hits++
	return c.items, true, nil
}

func (c *memoryLoanTypeCache) Set(_ context.Context, items []*models.LoanTypeResponse) error {
	c.items = items
	return nil
}

func (c *memoryLoanTypeCache) Invalidate(context.Context) error {
	c.items = nil
	c.invalidated++
	return nil
}

func TestLoanTypeCreate_DuplicateNameIsCaseSensitive(t *testing.T) {
	uow, store := newFakeUnitOfWork()
	svc := NewLoanTypeService(uow, nil, newValidator(), nopLog)
	ctx := context.Background()

	_, err := svc.Create(ctx, &LoanTypeInput{Name: "Mortgage", InterestRate: decimal.NewFromInt(5)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &LoanTypeInput{Name: "Mortgage", InterestRate: decimal.NewFromInt(6)})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.Create(ctx, &LoanTypeInput{Name: "Auto Loan", InterestRate: decimal.NewFromInt(6)})
	assert.NoError(t, err)
	assert.Len(t, store.loanTypes.rows, 2)
}

func TestLoanTypeCreate_Validation(t *testing.T) {
	uow, _ := newFakeUnitOfWork()
	svc := NewLoanTypeService(uow, nil, newValidator(), nopLog)

	_, err := svc.Create(context.Background(), &LoanTypeInput{Name: "mortgage", InterestRate: decimal.NewFromInt(120)})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors, "name")
	assert.Contains(t, ve.Errors, "interestRate")
}

func TestLoanTypeUpdate(t *testing.T) {
	uow, store := newFakeUnitOfWork()
	svc := NewLoanTypeService(uow, nil, newValidator(), nopLog)
	ctx := context.Background()
	mortgage := seedLoanType(t, store, "Mortgage")
	seedLoanType(t, store, "Auto Loan")

	_, err := svc.Update(ctx, mortgage.ID, &UpdateLoanTypeInput{ID: uuid.New(), LoanTypeInput: LoanTypeInput{Name: "Home Loan"}})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Update(ctx, mortgage.ID, &UpdateLoanTypeInput{ID: mortgage.ID, LoanTypeInput: LoanTypeInput{Name: "Auto Loan"}})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// keeping its own name is not a duplicate
	resp, err := svc.Update(ctx, mortgage.ID, &UpdateLoanTypeInput{ID: mortgage.ID, LoanTypeInput: LoanTypeInput{Name: "Mortgage", InterestRate: decimal.NewFromFloat(4.25)}})
	require.NoError(t, err)
	assert.Equal(t, 4.25, resp.InterestRate)

	missing := uuid.New()
	_, err = svc.Update(ctx, missing, &UpdateLoanTypeInput{ID: missing, LoanTypeInput: LoanTypeInput{Name: "Other"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoanTypeDelete_InUse(t *testing.T) {
	uow, store := newFakeUnitOfWork()
	svc := NewLoanTypeService(uow, nil, newValidator(), nopLog)
	ctx := context.Background()
	lt := seedLoanType(t, store, "Mortgage")
	seedLoan(t, store, uuid.New(), lt.ID, domain.LoanStatusActive)

	assert.ErrorIs(t, svc.Delete(ctx, lt.ID), domain.ErrInvalidArgument)

	free := seedLoanType(t, store, "Student Loan")
	require.NoError(t, svc.Delete(ctx, free.ID))
	assert.ErrorIs(t, svc.Delete(ctx, free.ID), domain.ErrNotFound)
}

func TestLoanTypeList_UsesAndInvalidatesCache(t *testing.T) {
	uow, store := newFakeUnitOfWork()
	cache := &memoryLoanTypeCache{}
	svc := NewLoanTypeService(uow, cache, newValidator(), nopLog)
	ctx := context.Background()
	seedLoanType(t, store, "Mortgage")

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 0, cache.hits)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	_, err = svc.Create(ctx, &LoanTypeInput{Name: "Auto Loan", InterestRate: decimal.NewFromInt(9)})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestLoanTypeList_CacheFailureFallsBack(t *testing.T) {
	uow, store := newFakeUnitOfWork()
	svc := NewLoanTypeService(uow, &memoryLoanTypeCache{failGet: true}, newValidator(), nopLog)
	seedLoanType(t, store, "Mortgage")

	items, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 1)
}
