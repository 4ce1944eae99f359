package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
)

// addressRepository implements AddressRepository interface
type addressRepository struct {
	repository[models.Address]
}

// NewAddressRepository creates a new address repository
func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{repository: newRepository[models.Address](db, "customer_id")}
}

// Exists checks whether the customer already has an address
func (r *addressRepository) Exists(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Address{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count > 0, err
}
