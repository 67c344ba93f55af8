package companies

import (
	"context"

	"github.com/angelmondragon/propertyhub/internal/repo"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes company persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a companies repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) List(ctx context.Context) ([]models.Company, error) {
	return repo.ListAll[models.Company](ctx, r.Base)
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Company, error) {
	return repo.FindByID[models.Company](ctx, r.Base, id)
}

// FindByName returns the first company with exactly this name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company
	if err := r.DB(ctx).Where("name = ?", name).Order("id").First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// First returns the lowest-id company.
func (r *Repository) First(ctx context.Context) (*models.Company, error) {
	var company models.Company
	if err := r.DB(ctx).Order("id").First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *Repository) Create(ctx context.Context, name string) (*models.Company, error) {
	company := &models.Company{Name: name}
	if err := r.DB(ctx).Create(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

func (r *Repository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.DB(ctx).Model(&models.Company{}).Where("id = ?", id).Update("name", name).Error
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.DB(ctx).Delete(&models.Company{}, id).Error
}

// CountUsers returns how many users belong to the company.
func (r *Repository) CountUsers(ctx context.Context, id uint) (int64, error) {
	return r.Count(ctx, &models.User{}, "company_id = ?", id)
}
