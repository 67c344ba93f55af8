package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Exists reports whether any row of model matches the condition.
func (b Base) Exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	count, err := b.Count(ctx, model, query, args...)
	return count > 0, err
}

// Count returns the number of rows of model matching the condition.
func (b Base) Count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var count int64
	err := b.DB(ctx).Model(model).Where(query, args...).Count(&count).Error
	return count, err
}

// CountBy groups rows of model by column and counts each group.
func (b Base) CountBy(ctx context.Context, model any, column string) (map[uint]int64, error) {
	var rows []struct {
		GroupKey uint
		Total    int64
	}
	err := b.DB(ctx).
		Model(model).
		Select(column + " AS group_key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.GroupKey] = row.Total
	}
	return out, nil
}

// FindByID loads a single row by primary key.
func FindByID[T any](ctx context.Context, b Base, id uint) (*T, error) {
	var out T
	if err := b.DB(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAll loads every row of T ordered by primary key.
func ListAll[T any](ctx context.Context, b Base) ([]T, error) {
	var out []T
	if err := b.DB(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
