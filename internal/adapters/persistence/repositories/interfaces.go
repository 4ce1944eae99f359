package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/pagination"
)

// Repository is the CRUD surface shared by every aggregate.
// GetByID returns gorm.ErrRecordNotFound when no row matches.
type Repository[T any] interface {
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Remove(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context) ([]*T, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	Repository[models.User]
	// GetByEmail matches case-insensitively and loads roles and refresh token.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetWithDetails loads roles, address and refresh token.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*models.User, error)
	IsEmailUnique(ctx context.Context, email string) (bool, error)
}

// AddressRepository defines address repository interface
type AddressRepository interface {
	Repository[models.Address]
	Exists(ctx context.Context, customerID uuid.UUID) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	// UpdateToken stores a new token hash for the user. The expiry is only
	// written when setExpiry is true. A nil hash signs the user out.
	UpdateToken(ctx context.Context, userID uuid.UUID, tokenHash *string, expiresAt *time.Time, setExpiry bool) error
	// ClearExpired nulls every token whose expiry is before now.
	ClearExpired(ctx context.Context, now time.Time) (int64, error)
}

// LoanTypeRepository defines loan type repository interface
type LoanTypeRepository interface {
	Repository[models.LoanType]
	// ExistsByName matches case-sensitively, ignoring excludeID.
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
}

// LoanFilter narrows a loan listing. Zero values mean no restriction.
type LoanFilter struct {
	CustomerID uuid.UUID
	Search     string
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Repository[models.Loan]
	// GetDetailed loads customer, loan type and application.
	GetDetailed(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	ListPaged(ctx context.Context, filter LoanFilter, pageNumber, pageSize int) (*pagination.PagedList[models.Loan], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LoanStatus) error
	CountByLoanType(ctx context.Context, loanTypeID uuid.UUID) (int64, error)
	// MarkOverdue moves active loans whose end date has passed to Overdue.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// ApplicationStatusUpdate is the reviewer decision written to an application.
type ApplicationStatusUpdate struct {
	Status       domain.ApplicationStatus
	EmployeeID   *uuid.UUID
	ApprovalDate *time.Time
}

// LoanApplicationRepository defines loan application repository interface
type LoanApplicationRepository interface {
	Repository[models.LoanApplication]
	UpdateStatus(ctx context.Context, id uuid.UUID, update ApplicationStatusUpdate) error
	// ListByStatus pages applications oldest first, with loan, customer, type and reviewer.
	ListByStatus(ctx context.Context, status domain.ApplicationStatus, pageNumber, pageSize int) (*pagination.PagedList[models.LoanApplication], error)
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Repository[models.Payment]
	// GetDetailed loads the loan with its customer and type.
	GetDetailed(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	// ListByLoan pages a loan's payments newest first.
	ListByLoan(ctx context.Context, loanID uuid.UUID, pageNumber, pageSize int) (*pagination.PagedList[models.Payment], error)
}

// UnitOfWork groups the repositories so a service can run several writes
// in one transaction.
type UnitOfWork interface {
	Users() UserRepository
	Addresses() AddressRepository
	RefreshTokens() RefreshTokenRepository
	LoanTypes() LoanTypeRepository
	Loans() LoanRepository
	LoanApplications() LoanApplicationRepository
	Payments() PaymentRepository

	// WithinTx runs fn against repositories bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}
