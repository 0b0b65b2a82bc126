package repository

import (
	"context"

	"examhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileFilter holds optional exact-match filters. Set filters are ANDed.
type ProfileFilter struct {
	IsActive *bool
	Role     *models.Role
	City     *models.City
	Gender   *models.Gender
}

func (f ProfileFilter) scope(db *gorm.DB) *gorm.DB {
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.Role != nil {
		db = db.Where("role = ?", *f.Role)
	}
	if f.City != nil {
		db = db.Where("city = ?", *f.City)
	}
	if f.Gender != nil {
		db = db.Where("gender = ?", *f.Gender)
	}
	return db
}

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// List returns one page ordered by newest first, plus the number of rows
// matching the filter across all pages.
func (r *ProfileRepository) List(ctx context.Context, filter ProfileFilter, offset, limit int) ([]models.Profile, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	profiles := []models.Profile{}
	err := r.db.WithContext(ctx).
		Scopes(filter.scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// Update applies the given columns to the profile of userID and reports how
// many rows changed.
func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", userID).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *ProfileRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("role = ?", role).Count(&count).Error
	return count, err
}
