package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"credit-organization-api/internal/pkg/pagination"
)

// repository implements Repository for any model keyed by a uuid column.
type repository[T any] struct {
	db *gorm.DB
	pk string
}

func newRepository[T any](db *gorm.DB, pk string) repository[T] {
	return repository[T]{db: db, pk: pk}
}

// Add inserts entity
func (r *repository[T]) Add(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// Update writes every column of entity, leaving associations untouched
func (r *repository[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error
}

// Remove deletes entity by primary key
func (r *repository[T]) Remove(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Delete(entity).Error
}

// GetByID gets a row by primary key
func (r *repository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Where(r.pk+" = ?", id).First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// List returns every row
func (r *repository[T]) List(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.WithContext(ctx).Find(&entities).Error
	return entities, err
}

// paginate counts rows matched by filter and loads one page. Preloads and
// ordering go in load so they stay out of the count query.
func paginate[T any](ctx context.Context, db *gorm.DB, pageNumber, pageSize int, filter, load func(*gorm.DB) *gorm.DB) (*pagination.PagedList[T], error) {
	var total int64
	if err := db.WithContext(ctx).Model(new(T)).Scopes(filter).Count(&total).Error; err != nil {
		return nil, err
	}

	page, size, offset := pagination.Normalize(pageNumber, pageSize, total)

	var items []T
	if total > 0 {
		err := db.WithContext(ctx).
			Scopes(filter, load).
			Offset(offset).
			Limit(size).
			Find(&items).Error
		if err != nil {
			return nil, err
		}
	}
	return pagination.New(items, page, size, total), nil
}
