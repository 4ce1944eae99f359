package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"credit-organization-api/internal/adapters/persistence/models"
)

// userRepository implements UserRepository interface
type userRepository struct {
	repository[models.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{repository: newRepository[models.User](db, "id")}
}

// GetByEmail gets a user by email, ignoring case
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("RefreshToken").
		Where("normalized_email = ?", models.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetWithDetails gets a user with roles, address and refresh token
func (r *userRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Address").
		Preload("RefreshToken").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IsEmailUnique reports whether no user holds email, ignoring case
func (r *userRepository) IsEmailUnique(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("normalized_email = ?", models.NormalizeEmail(email)).
		Count(&count).Error
	return count == 0, err
}
