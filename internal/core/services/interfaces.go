package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/jwt"
)

// TokenProvider issues and parses the tokens handed to clients.
type TokenProvider interface {
	GenerateAccessToken(userID uuid.UUID, email string, roles []string) (string, error)
	GenerateRefreshToken() (jwt.RefreshToken, error)
	ParseExpired(token string) (*jwt.Claims, error)
}

// LoanTypeCache stores the loan type catalog between writes.
type LoanTypeCache interface {
	Get(ctx context.Context) ([]*models.LoanTypeResponse, bool, error)
	Set(ctx context.Context, items []*models.LoanTypeResponse) error
	Invalidate(ctx context.Context) error
}

// Input DTOs

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput represents registration input
type RegisterInput struct {
	FirstName   string     `json:"firstName" validate:"required,max=100"`
	LastName    string     `json:"lastName" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,email,max=256"`
	PhoneNumber string     `json:"phoneNumber" validate:"required,phone"`
	BirthDate   *time.Time `json:"birthDate"`
	Password    string     `json:"password" validate:"required,min=8,strongpassword"`
}

// AddressInput represents an address upsert
type AddressInput struct {
	Line       string `json:"line" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	Country    string `json:"country" validate:"required,max=100"`
	PostalCode string `json:"postalCode" validate:"required,max=20"`
}

// ChangePasswordInput represents a password change
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,strongpassword"`
}

// LoanTypeInput represents loan type create input
type LoanTypeInput struct {
	Name         string          `json:"name" validate:"required,min=2,max=50,capitalized,lettersonly"`
	Description  *string         `json:"description" validate:"omitempty,max=500"`
	InterestRate decimal.Decimal `json:"interestRate" validate:"gte=0,lte=100"`
}

// UpdateLoanTypeInput represents loan type update input
type UpdateLoanTypeInput struct {
	ID uuid.UUID `json:"id" validate:"required"`
	LoanTypeInput
}

// LoanApplicationInput represents a loan application. Status is accepted
// for compatibility and ignored.
type LoanApplicationInput struct {
	Amount           decimal.Decimal   `json:"amount" validate:"required,gte=100,lte=1000000"`
	StartDate        time.Time         `json:"startDate" validate:"required,notfuture"`
	LoanTypeID       uuid.UUID         `json:"loanTypeId" validate:"required"`
	InterestRate     decimal.Decimal   `json:"interestRate" validate:"required,gte=0,lte=100"`
	LoanTermInMonths int               `json:"loanTermInMonths" validate:"required,gte=1,lte=360"`
	Status           domain.LoanStatus `json:"status,omitempty"`
}

// PaymentInput represents a payment. Status and Date are accepted for
// compatibility and ignored.
type PaymentInput struct {
	LoanID        uuid.UUID            `json:"loanId" validate:"required"`
	Amount        decimal.Decimal      `json:"amount" validate:"required,gt=0"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" validate:"required,oneof=CreditCard DebitCard PayPal BankTransfer Cash"`
	Status        domain.PaymentStatus `json:"status,omitempty"`
	Date          *time.Time           `json:"date,omitempty"`
}

// LoanQuery filters a loan listing. uuid.Nil CustomerID lists every customer.
type LoanQuery struct {
	CustomerID uuid.UUID
	Search     string
	PageNumber int
	PageSize   int
}

// notFoundOr maps gorm.ErrRecordNotFound to a domain not-found error.
func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(format, args...)
	}
	return err
}
