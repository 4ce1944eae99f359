package repositories

import (
	"context"

	"gorm.io/gorm"
)

// unitOfWork implements UnitOfWork on top of one *gorm.DB handle, which is
// either the pool or an open transaction.
type unitOfWork struct {
	db               *gorm.DB
	users            UserRepository
	addresses        AddressRepository
	refreshTokens    RefreshTokenRepository
	loanTypes        LoanTypeRepository
	loans            LoanRepository
	loanApplications LoanApplicationRepository
	payments         PaymentRepository
}

// NewUnitOfWork creates a unit of work bound to db
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{
		db:               db,
		users:            NewUserRepository(db),
		addresses:        NewAddressRepository(db),
		refreshTokens:    NewRefreshTokenRepository(db),
		loanTypes:        NewLoanTypeRepository(db),
		loans:            NewLoanRepository(db),
		loanApplications: NewLoanApplicationRepository(db),
		payments:         NewPaymentRepository(db),
	}
}

func (u *unitOfWork) Users() UserRepository { return u.users }
func (u *unitOfWork) Addresses() AddressRepository { return u.addresses }
func (u *unitOfWork) RefreshTokens() RefreshTokenRepository { return u.refreshTokens }
func (u *unitOfWork) LoanTypes() LoanTypeRepository { return u.loanTypes }
func (u *unitOfWork) Loans() LoanRepository { return u.loans }
func (u *unitOfWork) LoanApplications() LoanApplicationRepository { return u.loanApplications }
func (u *unitOfWork) Payments() PaymentRepository { return u.payments }

// WithinTx runs fn inside a database transaction
func (u *unitOfWork) WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnitOfWork(tx))
	})
}
