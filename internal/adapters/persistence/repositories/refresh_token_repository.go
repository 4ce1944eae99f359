package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"credit-organization-api/internal/adapters/persistence/models"
)

// refreshTokenRepository implements RefreshTokenRepository interface
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// UpdateToken upserts the user's token row
func (r *refreshTokenRepository) UpdateToken(ctx context.Context, userID uuid.UUID, tokenHash *string, expiresAt *time.Time, setExpiry bool) error {
	row := models.RefreshToken{UserID: userID, TokenHash: tokenHash}
	columns := []string{"token_hash"}
	if setExpiry {
		row.ExpiresAt = expiresAt
		columns = append(columns, "expires_at")
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&row).Error
}

// ClearExpired signs out every user whose token expired before now
func (r *refreshTokenRepository) ClearExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("expires_at < ?", now).
		Updates(map[string]interface{}{"token_hash": nil, "expires_at": nil})
	return result.RowsAffected, result.Error
}
