package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestUserRepository_IsEmailUnique_NormalizesEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE normalized_email = \\?").
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	unique, err := NewUserRepository(db).IsEmailUnique(context.Background(), "  Jane@Example.COM ")

	require.NoError(t, err)
	assert.False(t, unique)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserRepository(db).GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanTypeRepository_ExistsByName_ExcludesSelf(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `loan_types` WHERE name = \\? AND id <> \\?").
		WithArgs("Mortgage", id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := NewLoanTypeRepository(db).ExistsByName(context.Background(), "Mortgage", id)

	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_UpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()
	mock.ExpectExec("UPDATE `loans` SET `status`=\\? WHERE id = \\?").
		WithArgs(domain.LoanStatusActive, id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewLoanRepository(db).UpdateStatus(context.Background(), id, domain.LoanStatusActive)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_MarkOverdue(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE `loans` SET `status`=\\? WHERE status = \\? AND end_date < \\?").
		WithArgs(domain.LoanStatusOverdue, domain.LoanStatusActive, now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := NewLoanRepository(db).MarkOverdue(context.Background(), now)

	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_Remove_DeletesDependents(t *testing.T) {
	db, mock := newMockDB(t)
	loan := &models.Loan{ID: uuid.New()}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `payments` WHERE loan_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM `loan_applications` WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `loans` WHERE `loans`.`id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewLoanRepository(db).Remove(context.Background(), loan))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoanRepository_ListPaged_SearchWithoutMatches(t *testing.T) {
	db, mock := newMockDB(t)
	customer := uuid.New()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `loans` JOIN loan_types ON loan_types.id = loans.loan_type_id WHERE loans.customer_id = \\? AND LOWER\\(loan_types.name\\) LIKE \\?").
		WithArgs(customer.String(), "%auto%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := NewLoanRepository(db).ListPaged(context.Background(), LoanFilter{CustomerID: customer, Search: " Auto "}, 1, 10)

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 0, page.TotalCount)
	assert.Equal(t, 0, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_ListByLoan_Paginates(t *testing.T) {
	db, mock := newMockDB(t)
	loanID := uuid.New()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `payments` WHERE loan_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT \\* FROM `payments` WHERE loan_id = \\? ORDER BY date DESC LIMIT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "amount", "status", "payment_method"}).
			AddRow(uuid.NewString(), loanID.String(), "100.00", "Completed", "Cash").
			AddRow(uuid.NewString(), loanID.String(), "250.50", "Completed", "PayPal"))

	page, err := NewPaymentRepository(db).ListByLoan(context.Background(), loanID, 1, 2)

	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, loanID, page.Items[0].LoanID)
	assert.Equal(t, "250.5", page.Items[1].Amount.String())
	assert.Equal(t, 2, page.PageSize)
	assert.EqualValues(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_UpdateToken_KeepsExpiry(t *testing.T) {
	db, mock := newMockDB(t)
	hash := "abc"
	mock.ExpectExec("INSERT INTO `refresh_tokens` .* ON DUPLICATE KEY UPDATE `token_hash`=VALUES\\(`token_hash`\\)$").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := NewRefreshTokenRepository(db).UpdateToken(context.Background(), uuid.New(), &hash, nil, false)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenRepository_UpdateToken_WritesExpiry(t *testing.T) {
	db, mock := newMockDB(t)
	hash := "abc"
	exp := time.Now().Add(time.Hour)
	mock.ExpectExec("ON DUPLICATE KEY UPDATE `token_hash`=VALUES\\(`token_hash`\\),`expires_at`=VALUES\\(`expires_at`\\)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewRefreshTokenRepository(db).UpdateToken(context.Background(), uuid.New(), &hash, &exp, true)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_WithinTx_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `loans` SET `status`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := NewUnitOfWork(db).WithinTx(context.Background(), func(uow UnitOfWork) error {
		if err := uow.Loans().UpdateStatus(context.Background(), uuid.New(), domain.LoanStatusRejected); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_WithinTx_Commits(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `loan_applications` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `loans` SET `status`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id := uuid.New()
	employee := uuid.New()
	err := NewUnitOfWork(db).WithinTx(context.Background(), func(uow UnitOfWork) error {
		if err := uow.LoanApplications().UpdateStatus(context.Background(), id, ApplicationStatusUpdate{
			Status:     domain.ApplicationStatusRejected,
			EmployeeID: &employee,
		}); err != nil {
			return err
		}
		return uow.Loans().UpdateStatus(context.Background(), id, domain.LoanStatusRejected)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
