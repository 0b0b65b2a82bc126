package repository

import (
	"context"

	"examhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserFilter struct {
	Role   *models.Role
	City   *models.City
	Gender *models.Gender
}

func (f UserFilter) scope(db *gorm.DB) *gorm.DB {
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

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) List(ctx context.Context, filter UserFilter, offset, limit int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []models.User{}
	err := r.db.WithContext(ctx).
		Scopes(filter.scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
