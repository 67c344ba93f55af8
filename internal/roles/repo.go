package roles

import (
	"context"

	"github.com/angelmondragon/propertyhub/internal/repo"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes role persistence operations.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context) ([]models.Role, error) {
	return repo.ListAll[models.Role](ctx, r.Base)
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Role, error) {
	return repo.FindByID[models.Role](ctx, r.Base, id)
}

// FindByName returns the first role with exactly this name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB(ctx).Where("name = ?", name).Order("id").First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FirstNonAdmin returns the lowest-id role without the admin flag.
func (r *Repository) FirstNonAdmin(ctx context.Context) (*models.Role, error) {
	var role models.Role
	if err := r.DB(ctx).Where("is_admin = ?", false).Order("id").First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *Repository) Create(ctx context.Context, role *models.Role) error {
	return r.DB(ctx).Create(role).Error
}

// Save overwrites the name and every capability flag.
func (r *Repository) Save(ctx context.Context, role *models.Role) error {
	return r.DB(ctx).Save(role).Error
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.DB(ctx).Delete(&models.Role{}, id).Error
}

func (r *Repository) CountUsers(ctx context.Context, id uint) (int64, error) {
	return r.Count(ctx, &models.User{}, "role_id = ?", id)
}
