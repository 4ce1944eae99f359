package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/adapters/persistence/repositories"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/pagination"
	"credit-organization-api/internal/pkg/password"
	"credit-organization-api/internal/pkg/validation"
)

func init() {
	password.Cost = bcrypt.MinCost
}

var nopLog = zerolog.Nop()

// pageOf slices an in-memory result the way the gorm repositories do.
func pageOf[T any](all []T, pageNumber, pageSize int) *pagination.PagedList[T] {
	total := int64(len(all))
	page, size, offset := pagination.Normalize(pageNumber, pageSize, total)

	var items []T
	if offset < len(all) {
		items = all[offset:min(offset+size, len(all))]
	}
	return pagination.New(items, page, size, total)
}

// table is an in-memory keyed store of copies.
type table[T any] struct {
	rows map[uuid.UUID]*T
	key  func(*T) uuid.UUID
}

func newTable[T any](key func(*T) uuid.UUID) *table[T] {
	return &table[T]{rows: map[uuid.UUID]*T{}, key: key}
}

func (t *table[T]) Add(_ context.Context, e *T) error {
	k := t.key(e)
	if _, ok := t.rows[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	c := *e
	t.rows[k] = &c
	return nil
}

func (t *table[T]) Update(_ context.Context, e *T) error {
	c := *e
	t.rows[t.key(e)] = &c
	return nil
}

func (t *table[T]) Remove(_ context.Context, e *T) error {
	delete(t.rows, t.key(e))
	return nil
}

func (t *table[T]) GetByID(_ context.Context, id uuid.UUID) (*T, error) {
	r, ok := t.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *r
	return &c, nil
}

func (t *table[T]) List(_ context.Context) ([]*T, error) {
	out := make([]*T, 0, len(t.rows))
	for _, r := range t.rows {
		c := *r
		out = append(out, &c)
	}
	return out, nil
}

// fakeStore backs a fakeUnitOfWork.
type fakeStore struct {
	users        *table[models.User]
	addresses    *table[models.Address]
	tokens       *table[models.RefreshToken]
	loanTypes    *table[models.LoanType]
	loans        *table[models.Loan]
	applications *table[models.LoanApplication]
	payments     *table[models.Payment]

	txCount int
	failTx  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        newTable(func(u *models.User) uuid.UUID { return u.ID }),
		addresses:    newTable(func(a *models.Address) uuid.UUID { return a.CustomerID }),
		tokens:       newTable(func(t *models.RefreshToken) uuid.UUID { return t.UserID }),
		loanTypes:    newTable(func(lt *models.LoanType) uuid.UUID { return lt.ID }),
		loans:        newTable(func(l *models.Loan) uuid.UUID { return l.ID }),
		applications: newTable(func(a *models.LoanApplication) uuid.UUID { return a.ID }),
		payments:     newTable(func(p *models.Payment) uuid.UUID { return p.ID }),
	}
}

type fakeUnitOfWork struct{ s *fakeStore }

func newFakeUnitOfWork() (*fakeUnitOfWork, *fakeStore) {
	s := newFakeStore()
	return &fakeUnitOfWork{s: s}, s
}

func (u *fakeUnitOfWork) Users() repositories.UserRepository { return &fakeUsers{u.s.users, u.s} }
func (u *fakeUnitOfWork) Addresses() repositories.AddressRepository { return &fakeAddresses{u.s.addresses} }
func (u *fakeUnitOfWork) RefreshTokens() repositories.RefreshTokenRepository {
	return &fakeTokens{u.s.tokens}
}
func (u *fakeUnitOfWork) LoanTypes() repositories.LoanTypeRepository {
	return &fakeLoanTypes{u.s.loanTypes}
}
func (u *fakeUnitOfWork) Loans() repositories.LoanRepository { return &fakeLoans{u.s.loans, u.s} }
func (u *fakeUnitOfWork) LoanApplications() repositories.LoanApplicationRepository {
	return &fakeApplications{u.s.applications, u.s}
}
func (u *fakeUnitOfWork) Payments() repositories.PaymentRepository {
	return &fakePayments{u.s.payments, u.s}
}

func (u *fakeUnitOfWork) WithinTx(_ context.Context, fn func(repositories.UnitOfWork) error) error {
	u.s.txCount++
	if u.s.failTx != nil {
		return u.s.failTx
	}
	return fn(u)
}

type fakeUsers struct {
	*table[models.User]
	s *fakeStore
}

func (r *fakeUsers) Add(ctx context.Context, u *models.User) error {
	if err := r.table.Add(ctx, u); err != nil {
		return err
	}
	if u.RefreshToken != nil {
		return r.s.tokens.Add(ctx, u.RefreshToken)
	}
	return nil
}

func (r *fakeUsers) Remove(ctx context.Context, u *models.User) error {
	delete(r.s.tokens.rows, u.ID)
	delete(r.s.addresses.rows, u.ID)
	return r.table.Remove(ctx, u)
}

func (r *fakeUsers) withDetails(u *models.User) *models.User {
	if t, ok := r.s.tokens.rows[u.ID]; ok {
		c := *t
		u.RefreshToken = &c
	} else {
		u.RefreshToken = nil
	}
	if a, ok := r.s.addresses.rows[u.ID]; ok {
		c := *a
		u.Address = &c
	}
	return u
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.rows {
		if u.NormalizedEmail == models.NormalizeEmail(email) {
			c := *u
			return r.withDetails(&c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUsers) GetWithDetails(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.withDetails(u), nil
}

func (r *fakeUsers) IsEmailUnique(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return errors.Is(err, gorm.ErrRecordNotFound), nil
}

type fakeAddresses struct{ *table[models.Address] }

func (r *fakeAddresses) Exists(_ context.Context, customerID uuid.UUID) (bool, error) {
	_, ok := r.rows[customerID]
	return ok, nil
}

type fakeTokens struct{ *table[models.RefreshToken] }

func (r *fakeTokens) UpdateToken(_ context.Context, userID uuid.UUID, hash *string, expiresAt *time.Time, setExpiry bool) error {
	row, ok := r.rows[userID]
	if !ok {
		row = &models.RefreshToken{UserID: userID}
		r.rows[userID] = row
	}
	row.TokenHash = hash
	if setExpiry {
		row.ExpiresAt = expiresAt
	}
	return nil
}

func (r *fakeTokens) ClearExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, row := range r.rows {
		if row.ExpiresAt != nil && row.ExpiresAt.Before(now) {
			row.TokenHash, row.ExpiresAt = nil, nil
			n++
		}
	}
	return n, nil
}

type fakeLoanTypes struct{ *table[models.LoanType] }

func (r *fakeLoanTypes) ExistsByName(_ context.Context, name string, excludeID uuid.UUID) (bool, error) {
	for id, lt := range r.rows {
		if lt.Name == name && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeLoans struct {
	*table[models.Loan]
	s *fakeStore
}

func (r *fakeLoans) Remove(ctx context.Context, l *models.Loan) error {
	for id, p := range r.s.payments.rows {
		if p.LoanID == l.ID {
			delete(r.s.payments.rows, id)
		}
	}
	delete(r.s.applications.rows, l.ID)
	return r.table.Remove(ctx, l)
}

func (r *fakeLoans) detailed(l *models.Loan) *models.Loan {
	if u, ok := r.s.users.rows[l.CustomerID]; ok {
		c := *u
		l.Customer = &c
	}
	if lt, ok := r.s.loanTypes.rows[l.LoanTypeID]; ok {
		c := *lt
		l.LoanType = &c
	}
	if a, ok := r.s.applications.rows[l.ID]; ok {
		c := *a
		l.Application = &c
	}
	return l
}

func (r *fakeLoans) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	l, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.detailed(l), nil
}

func (r *fakeLoans) ListPaged(_ context.Context, f repositories.LoanFilter, pageNumber, pageSize int) (*pagination.PagedList[models.Loan], error) {
	var all []models.Loan
	for _, l := range r.rows {
		c := r.detailed(func() *models.Loan { x := *l; return &x }())
		if f.CustomerID != uuid.Nil && c.CustomerID != f.CustomerID {
			continue
		}
		if f.Search != "" && (c.LoanType == nil ||
			!strings.Contains(strings.ToLower(c.LoanType.Name), strings.ToLower(strings.TrimSpace(f.Search)))) {
			continue
		}
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.After(all[j].StartDate) })
	return pageOf(all, pageNumber, pageSize), nil
}

func (r *fakeLoans) UpdateStatus(_ context.Context, id uuid.UUID, status domain.LoanStatus) error {
	if l, ok := r.rows[id]; ok {
		l.Status = status
	}
	return nil
}

func (r *fakeLoans) CountByLoanType(_ context.Context, loanTypeID uuid.UUID) (int64, error) {
	var n int64
	for _, l := range r.rows {
		if l.LoanTypeID == loanTypeID {
			n++
		}
	}
	return n, nil
}

func (r *fakeLoans) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, l := range r.rows {
		if l.Status == domain.LoanStatusActive && l.EndDate.Before(now) {
			l.Status = domain.LoanStatusOverdue
			n++
		}
	}
	return n, nil
}

type fakeApplications struct {
	*table[models.LoanApplication]
	s *fakeStore
}

func (r *fakeApplications) UpdateStatus(_ context.Context, id uuid.UUID, u repositories.ApplicationStatusUpdate) error {
	if a, ok := r.rows[id]; ok {
		a.Status = u.Status
		a.EmployeeID = u.EmployeeID
		a.ApprovalDate = u.ApprovalDate
	}
	return nil
}

func (r *fakeApplications) ListByStatus(_ context.Context, status domain.ApplicationStatus, pageNumber, pageSize int) (*pagination.PagedList[models.LoanApplication], error) {
	var all []models.LoanApplication
	for _, a := range r.rows {
		if a.Status != status {
			continue
		}
		c := *a
		if l, ok := r.s.loans.rows[a.ID]; ok {
			lc := *l
			c.Loan = &lc
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return pageOf(all, pageNumber, pageSize), nil
}

type fakePayments struct {
	*table[models.Payment]
	s *fakeStore
}

func (r *fakePayments) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l, ok := r.s.loans.rows[p.LoanID]; ok {
		c := *l
		p.Loan = &c
	}
	return p, nil
}

func (r *fakePayments) ListByLoan(_ context.Context, loanID uuid.UUID, pageNumber, pageSize int) (*pagination.PagedList[models.Payment], error) {
	var all []models.Payment
	for _, p := range r.rows {
		if p.LoanID == loanID {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return pageOf(all, pageNumber, pageSize), nil
}

// fixtures

func seedUser(t *testing.T, s *fakeStore, email, plain string, roles ...domain.Role) *models.User {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)

	id := uuid.New()
	u := &models.User{
		ID:              id,
		FirstName:       "Test",
		LastName:        "User",
		Email:           email,
		NormalizedEmail: models.NormalizeEmail(email),
		PasswordHash:    hash,
		RefreshToken:    &models.RefreshToken{UserID: id},
	}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.UserRole{UserID: id, Role: r})
	}
	require.NoError(t, (&fakeUsers{s.users, s}).Add(context.Background(), u))
	return u
}

func seedLoanType(t *testing.T, s *fakeStore, name string) *models.LoanType {
	t.Helper()
	lt := &models.LoanType{ID: uuid.New(), Name: name, InterestRate: decimal.NewFromFloat(7.5)}
	require.NoError(t, s.loanTypes.Add(context.Background(), lt))
	return lt
}

func seedLoan(t *testing.T, s *fakeStore, customerID, loanTypeID uuid.UUID, status domain.LoanStatus) *models.Loan {
	t.Helper()
	start := time.Now().AddDate(0, -1, 0)
	l := &models.Loan{
		ID:           uuid.New(),
		CustomerID:   customerID,
		LoanTypeID:   loanTypeID,
		Status:       status,
		Amount:       decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(5),
		StartDate:    start,
		EndDate:      start.AddDate(0, 12, 0),
	}
	require.NoError(t, s.loans.Add(context.Background(), l))
	require.NoError(t, s.applications.Add(context.Background(), &models.LoanApplication{
		ID:     l.ID,
		Date:   time.Now(),
		Status: domain.ApplicationStatusPending,
	}))
	return l
}

func newValidator() *validation.Validator {
	return validation.New()
}
