package services

import (
	"context"
	"fmt"
	"time"

	"examhub/models"
	"examhub/repository"

	"github.com/google/uuid"
)

type TestStore interface {
	Create(ctx context.Context, test *models.Test) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Test, error)
	CountQuestions(ctx context.Context, testID uuid.UUID) (int64, error)
	List(ctx context.Context, filter repository.TestFilter, offset, limit int) ([]models.Test, int64, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Stats(ctx context.Context, testID uuid.UUID) (*models.TestStats, error)
}

type TestService struct {
	tests TestStore
}

func NewTestService(tests TestStore) *TestService {
	return &TestService{tests: tests}
}

type CreateTestRequest struct {
	Title           string            `json:"title" binding:"required,min=3,max=200"`
	Description     *string           `json:"description"`
	Difficulty      models.Difficulty `json:"difficulty" binding:"oneof=easy medium hard"`
	DurationMinutes int               `json:"duration_minutes" binding:"min=5,max=300"`
	TotalMarks      int               `json:"total_marks" binding:"min=1"`
	PassingMarks    int               `json:"passing_marks" binding:"min=0"`
	StartTime       *time.Time        `json:"start_time"`
	EndTime         *time.Time        `json:"end_time"`
}

func NewCreateTestRequest() CreateTestRequest {
	return CreateTestRequest{
		Difficulty:      models.DifficultyMedium,
		DurationMinutes: 60,
		TotalMarks:      100,
		PassingMarks:    40,
	}
}

type UpdateTestRequest struct {
	Title           *string            `json:"title" binding:"omitempty,min=3,max=200"`
	Description     *string            `json:"description"`
	Difficulty      *models.Difficulty `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	DurationMinutes *int               `json:"duration_minutes" binding:"omitempty,min=5,max=300"`
	TotalMarks      *int               `json:"total_marks" binding:"omitempty,min=1"`
	PassingMarks    *int               `json:"passing_marks" binding:"omitempty,min=0"`
	IsActive        *bool              `json:"is_active"`
	IsPublished     *bool              `json:"is_published"`
	StartTime       *time.Time         `json:"start_time"`
	EndTime         *time.Time         `json:"end_time"`
}

func (r *UpdateTestRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.Title != nil {
		fields["title"] = *r.Title
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Difficulty != nil {
		fields["difficulty"] = string(*r.Difficulty)
	}
	if r.DurationMinutes != nil {
		fields["duration_minutes"] = *r.DurationMinutes
	}
	if r.TotalMarks != nil {
		fields["total_marks"] = *r.TotalMarks
	}
	if r.PassingMarks != nil {
		fields["passing_marks"] = *r.PassingMarks
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	if r.IsPublished != nil {
		fields["is_published"] = *r.IsPublished
	}
	if r.StartTime != nil {
		fields["start_time"] = r.StartTime.UTC()
	}
	if r.EndTime != nil {
		fields["end_time"] = r.EndTime.UTC()
	}
	return fields
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (s *TestService) CreateTest(ctx context.Context, createdBy uuid.UUID, req *CreateTestRequest) (*models.Test, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	test := &models.Test{
		Title:           req.Title,
		Description:     req.Description,
		Difficulty:      difficulty,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      req.TotalMarks,
		PassingMarks:    req.PassingMarks,
		CreatedBy:       createdBy,
		IsActive:        true,
		StartTime:       utcPtr(req.StartTime),
		EndTime:         utcPtr(req.EndTime),
	}
	if err := s.tests.Create(ctx, test); err != nil {
		return nil, fmt.Errorf("insert test: %w", err)
	}
	return test, nil
}

// GetTest returns the test with its question count. Soft-deleted tests are
// still returned; the count includes deactivated questions.
func (s *TestService) GetTest(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	test, err := s.tests.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "test")
	}

	count, err := s.tests.CountQuestions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	test.QuestionCount = count
	return test, nil
}

// TestQuery is the filter set of GET /tests.
type TestQuery struct {
	Pagination
	IsPublished *bool `form:"is_published"`
}

// ListTests lists active tests, newest first. createdBy restricts the list to
// one author when set.
func (s *TestService) ListTests(ctx context.Context, q TestQuery, createdBy *uuid.UUID) ([]models.Test, int64, error) {
	filter := repository.TestFilter{IsPublished: q.IsPublished, CreatedBy: createdBy}
	tests, total, err := s.tests.List(ctx, filter, q.Offset(), q.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list tests: %w", err)
	}
	return tests, total, nil
}

func (s *TestService) UpdateTest(ctx context.Context, id uuid.UUID, req *UpdateTestRequest) (*models.Test, error) {
	fields := req.fields()
	if len(fields) == 0 {
		return s.GetTest(ctx, id)
	}
	return s.update(ctx, id, fields)
}

func (s *TestService) PublishTest(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	return s.update(ctx, id, map[string]interface{}{"is_published": true})
}

func (s *TestService) UnpublishTest(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	return s.update(ctx, id, map[string]interface{}{"is_published": false})
}

// DeleteTest deactivates the test and reports whether it existed.
func (s *TestService) DeleteTest(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := s.tests.Update(ctx, id, map[string]interface{}{"is_active": false})
	if err != nil {
		return false, fmt.Errorf("deactivate test: %w", err)
	}
	return n > 0, nil
}

func (s *TestService) GetTestStats(ctx context.Context, id uuid.UUID) (*models.TestStats, error) {
	stats, err := s.tests.Stats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("test stats: %w", err)
	}
	return stats, nil
}

func (s *TestService) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Test, error) {
	n, err := s.tests.Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("update test: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("test: %w", ErrNotFound)
	}
	return s.GetTest(ctx, id)
}
