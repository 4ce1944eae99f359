package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
)

// loanTypeRepository implements LoanTypeRepository interface
type loanTypeRepository struct {
	repository[models.LoanType]
}

// NewLoanTypeRepository creates a new loan type repository
func NewLoanTypeRepository(db *gorm.DB) LoanTypeRepository {
	return &loanTypeRepository{repository: newRepository[models.LoanType](db, "id")}
}

// List returns every loan type ordered by name
func (r *loanTypeRepository) List(ctx context.Context) ([]*models.LoanType, error) {
	var types []*models.LoanType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

// ExistsByName checks for another loan type with exactly this name
func (r *loanTypeRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LoanType{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
