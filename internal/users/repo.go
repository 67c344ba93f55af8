package users

import (
	"context"

	"github.com/angelmondragon/propertyhub/internal/repo"
	"github.com/angelmondragon/propertyhub/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts the user row only; company and role must already exist.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Omit(clause.Associations).Create(user).Error
}

// Save overwrites every column of an existing user.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Omit(clause.Associations).Save(user).Error
}

// UpdatePassword replaces only the stored hash.
func (r *Repository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.DB(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("password", hash).Error
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.DB(ctx).Delete(&models.User{}, id).Error
}

// FindByEmail retrieves the user with exactly this email. Matching is case-sensitive.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user with its company and role.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Preload("Company").Preload("Role").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every user across all companies.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var list []models.User
	if err := r.DB(ctx).Preload("Company").Preload("Role").Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// EmailTaken reports whether a user other than exceptID holds email.
func (r *Repository) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	if exceptID == 0 {
		return r.Exists(ctx, &models.User{}, "email = ?", email)
	}
	return r.Exists(ctx, &models.User{}, "email = ? AND id <> ?", email, exceptID)
}

// CountAdmins counts users whose role carries the admin flag.
func (r *Repository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.User{}).
		Joins(`JOIN role ON role.id = "user".role_id`).
		Where("role.is_admin = ?", true).
		Count(&count).Error
	return count, err
}
