package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/domain"
)

func TestLoanGetByID_Ownership(t *testing.T) {
	uow, store := newFakeUnitOfWork()
	svc := NewLoanService(uow, nopLog)
	owner := seedUser(t, store, "owner@example.com", "Passw0rd!", domain.RoleCustomer)
	lt := seedLoanType(t, store, "Mortgage")
	loan := seedLoan(t, store, owner.ID, lt.ID, domain.LoanStatusActive)
	ctx := context.Background()

	resp, err := svc.GetByID(ctx, loan.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mortgage", resp.LoanType.Name)
	assert.Equal(t, "owner@example.com", resp.Customer.Email)

	_, err = svc.GetByID(ctx, loan.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.GetByID(ctx, loan.ID, uuid.Nil)
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, uuid.New(), owner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoanDelete_CustomerRules(t *testing.T) {
	uow, store := newFakeUnitOfWork()
	svc := NewLoanService(uow, nopLog)
	owner := uuid.New()
	lt := seedLoanType(t, store, "Mortgage")
	loan := seedLoan(t, store, owner, lt.ID, domain.LoanStatusPending)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, loan.ID, uuid.New()), domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), owner), domain.ErrNotFound)
	assert.Len(t, store.loans.rows, 1)

	require.NoError(t, store.payments.Add(ctx, &models.Payment{ID: uuid.New(), LoanID: loan.ID}))
	require.NoError(t, svc.Delete(ctx, loan.ID, owner))
	assert.Empty(t, store.loans.rows)
	assert.Empty(t, store.applications.rows)
	assert.Empty(t, store.payments.rows)
}

func TestLoanDelete_EmployeeBypassesOwnership(t *testing.T) {
	uow, store := newFakeUnitOfWork()
	svc := NewLoanService(uow, nopLog)
	lt := seedLoanType(t, store, "Mortgage")
	loan := seedLoan(t, store, uuid.New(), lt.ID, domain.LoanStatusPending)

	require.NoError(t, svc.Delete(context.Background(), loan.ID, uuid.Nil))
	assert.Empty(t, store.loans.rows)
}

func TestLoanList_FiltersAndSearches(t *testing.T) {
	uow, store := newFakeUnitOfWork()
	svc := NewLoanService(uow, nopLog)
	me, other := uuid.New(), uuid.New()
	mortgage := seedLoanType(t, store, "Mortgage")
	auto := seedLoanType(t, store, "Auto Loan")
	seedLoan(t, store, me, mortgage.ID, domain.LoanStatusActive)
	seedLoan(t, store, me, auto.ID, domain.LoanStatusActive)
	seedLoan(t, store, other, auto.ID, domain.LoanStatusActive)
	ctx := context.Background()

	mine, err := svc.List(ctx, LoanQuery{CustomerID: me, PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.TotalCount)
	assert.Equal(t, 2, mine.PageSize)

	autos, err := svc.List(ctx, LoanQuery{CustomerID: me, Search: "AUTO", PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, autos.Items, 1)
	assert.Equal(t, "Auto Loan", autos.Items[0].LoanType.Name)

	all, err := svc.List(ctx, LoanQuery{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.TotalCount)
}
