package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/pagination"
)

// loanApplicationRepository implements LoanApplicationRepository interface
type loanApplicationRepository struct {
	repository[models.LoanApplication]
}

// NewLoanApplicationRepository creates a new loan application repository
func NewLoanApplicationRepository(db *gorm.DB) LoanApplicationRepository {
	return &loanApplicationRepository{repository: newRepository[models.LoanApplication](db, "id")}
}

// UpdateStatus writes the review decision
func (r *loanApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update ApplicationStatusUpdate) error {
	return r.db.WithContext(ctx).Model(&models.LoanApplication{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        update.Status,
			"employee_id":   update.EmployeeID,
			"approval_date": update.ApprovalDate,
		}).Error
}

// ListByStatus lists applications in a status, oldest first
func (r *loanApplicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus, pageNumber, pageSize int) (*pagination.PagedList[models.LoanApplication], error) {
	return paginate[models.LoanApplication](ctx, r.db, pageNumber, pageSize,
		func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", status)
		},
		func(db *gorm.DB) *gorm.DB {
			return db.Preload("Loan.Customer").Preload("Loan.LoanType").Preload("Employee").Order("date ASC")
		},
	)
}
