package workitems

import (
	"context"

	"github.com/angelmondragon/propertyhub/internal/repo"
	"github.com/angelmondragon/propertyhub/internal/tenancy"
	"gorm.io/gorm"
)

// Repository persists one work item table. Mutations are always scoped by
// company in the statement itself.
type Repository[T any] struct {
	repo.Base
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{Base: repo.NewBase(db)}
}

// FindByID loads a row regardless of company so callers can tell a missing
// row from a foreign one.
func (r *Repository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	return repo.FindByID[T](ctx, r.Base, id)
}

func (r *Repository[T]) ListByCompany(ctx context.Context, companyID uint) ([]T, error) {
	var list []T
	if err := r.DB(ctx).Scopes(tenancy.Scope(companyID)).Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository[T]) ListAll(ctx context.Context) ([]T, error) {
	return repo.ListAll[T](ctx, r.Base)
}

func (r *Repository[T]) Create(ctx context.Context, item *T) error {
	return r.DB(ctx).Create(item).Error
}

// Update writes columns of item for its primary key within companyID and
// returns the number of rows changed.
func (r *Repository[T]) Update(ctx context.Context, item *T, companyID uint, columns []string) (int64, error) {
	res := r.DB(ctx).Model(item).Scopes(tenancy.Scope(companyID)).Select(columns).Updates(item)
	return res.RowsAffected, res.Error
}

func (r *Repository[T]) Delete(ctx context.Context, id, companyID uint) (int64, error) {
	res := r.DB(ctx).Scopes(tenancy.Scope(companyID)).Delete(new(T), id)
	return res.RowsAffected, res.Error
}
