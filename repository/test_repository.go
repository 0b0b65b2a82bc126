package repository

import (
	"context"

	"examhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestFilter narrows test listings. Listings only ever contain active tests.
type TestFilter struct {
	IsPublished *bool
	CreatedBy   *uuid.UUID
}

func (f TestFilter) scope(db *gorm.DB) *gorm.DB {
	if f.IsPublished != nil {
		db = db.Where("is_published = ?", *f.IsPublished)
	}
	if f.CreatedBy != nil {
		db = db.Where("created_by = ?", *f.CreatedBy)
	}
	return db.Where("is_active = ?", true)
}

type TestRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{db: db}
}

func (r *TestRepository) Create(ctx context.Context, test *models.Test) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *TestRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	var test models.Test
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&test).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// CountQuestions counts every question row of the test, active or not.
func (r *TestRepository) CountQuestions(ctx context.Context, testID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).Where("test_id = ?", testID).Count(&count).Error
	return count, err
}

func (r *TestRepository) List(ctx context.Context, filter TestFilter, offset, limit int) ([]models.Test, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Test{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tests := []models.Test{}
	err := r.db.WithContext(ctx).
		Scopes(filter.scope).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&tests).Error
	if err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}

func (r *TestRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Test{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

type typeTotals struct {
	QuestionType models.QuestionType
	Count        int64
	Marks        int64
}

// Stats aggregates active questions per type and counts all attempts.
func (r *TestRepository) Stats(ctx context.Context, testID uuid.UUID) (*models.TestStats, error) {
	var rows []typeTotals
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("question_type, COUNT(*) AS count, COALESCE(SUM(marks), 0) AS marks").
		Where("test_id = ? AND is_active = ?", testID, true).
		Group("question_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &models.TestStats{}
	for _, row := range rows {
		stats.TotalQuestions += row.Count
		stats.TotalMarks += row.Marks
		switch row.QuestionType {
		case models.QuestionTypeMCQ:
			stats.MCQCount = row.Count
		case models.QuestionTypeTheory:
			stats.TheoryCount = row.Count
		case models.QuestionTypeCoding:
			stats.CodingCount = row.Count
		}
	}

	err = r.db.WithContext(ctx).Model(&models.TestAttempt{}).Where("test_id = ?", testID).Count(&stats.TotalAttempts).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
