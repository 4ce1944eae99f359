package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/pkg/pagination"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	repository[models.Payment]
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{repository: newRepository[models.Payment](db, "id")}
}

// GetDetailed gets a payment with its loan, customer and loan type
func (r *paymentRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Loan.Customer").
		Preload("Loan.LoanType").
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByLoan lists payments of a loan, newest first
func (r *paymentRepository) ListByLoan(ctx context.Context, loanID uuid.UUID, pageNumber, pageSize int) (*pagination.PagedList[models.Payment], error) {
	return paginate[models.Payment](ctx, r.db, pageNumber, pageSize,
		func(db *gorm.DB) *gorm.DB {
			return db.Where("loan_id = ?", loanID)
		},
		func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		},
	)
}
