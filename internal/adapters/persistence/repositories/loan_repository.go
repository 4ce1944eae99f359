package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
	"credit-organization-api/internal/core/domain"
	"credit-organization-api/internal/pkg/pagination"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	repository[models.Loan]
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{repository: newRepository[models.Loan](db, "id")}
}

// Remove deletes a loan with its payments and application
func (r *loanRepository) Remove(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", loan.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", loan.ID).Delete(&models.LoanApplication{}).Error; err != nil {
			return err
		}
		return tx.Delete(loan).Error
	})
}

// GetDetailed gets a loan with customer, loan type and application
func (r *loanRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("LoanType").
		Preload("Application").
		Where("loans.id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListPaged lists loans newest first, matching filter
func (r *loanRepository) ListPaged(ctx context.Context, filter LoanFilter, pageNumber, pageSize int) (*pagination.PagedList[models.Loan], error) {
	return paginate[models.Loan](ctx, r.db, pageNumber, pageSize,
		func(db *gorm.DB) *gorm.DB {
			if filter.CustomerID != uuid.Nil {
				db = db.Where("loans.customer_id = ?", filter.CustomerID)
			}
			if search := strings.TrimSpace(filter.Search); search != "" {
				db = db.Joins("JOIN loan_types ON loan_types.id = loans.loan_type_id").
					Where("LOWER(loan_types.name) LIKE ?", "%"+strings.ToLower(search)+"%")
			}
			return db
		},
		func(db *gorm.DB) *gorm.DB {
			return db.Preload("Customer").Preload("LoanType").Order("loans.start_date DESC")
		},
	)
}

// UpdateStatus sets the status of a loan
func (r *loanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.LoanStatus) error {
	return r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CountByLoanType counts loans of a loan type
func (r *loanRepository) CountByLoanType(ctx context.Context, loanTypeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("loan_type_id = ?", loanTypeID).
		Count(&count).Error
	return count, err
}

// MarkOverdue flags active loans past their end date
func (r *loanRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("status = ? AND end_date < ?", domain.LoanStatusActive, now).
		Update("status", domain.LoanStatusOverdue)
	return result.RowsAffected, result.Error
}
