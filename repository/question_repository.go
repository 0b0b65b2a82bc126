package repository

import (
	"context"
	"fmt"

	"examhub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// CreateWithDetail inserts the base question and its detail row in one
// transaction. If either insert fails nothing is persisted.
func (r *QuestionRepository) CreateWithDetail(ctx context.Context, question *models.Question, detail models.QuestionDetail) error {
	if detail.DetailType() != question.QuestionType {
		return fmt.Errorf("detail type %s does not match question type %s", detail.DetailType(), question.QuestionType)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return fmt.Errorf("insert question: %w", err)
		}

		switch d := detail.(type) {
		case *models.MCQOption:
			d.QuestionID = question.ID
		case *models.TheoryDetail:
			d.QuestionID = question.ID
		case *models.CodingDetail:
			d.QuestionID = question.ID
		}

		if err := tx.Create(detail).Error; err != nil {
			return fmt.Errorf("insert %s detail: %w", question.QuestionType, err)
		}
		return nil
	})
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// FindDetail loads the detail row matching the question type. A missing row
// yields a nil detail and no error.
func (r *QuestionRepository) FindDetail(ctx context.Context, question *models.Question) (models.QuestionDetail, error) {
	details, err := r.FindDetails(ctx, []models.Question{*question})
	if err != nil {
		return nil, err
	}
	return details[question.ID], nil
}

// FindDetails loads the detail rows of many questions with at most one query
// per detail table.
func (r *QuestionRepository) FindDetails(ctx context.Context, questions []models.Question) (map[uuid.UUID]models.QuestionDetail, error) {
	ids := map[models.QuestionType][]uuid.UUID{}
	for _, q := range questions {
		ids[q.QuestionType] = append(ids[q.QuestionType], q.ID)
	}

	details := make(map[uuid.UUID]models.QuestionDetail, len(questions))
	db := r.db.WithContext(ctx)

	if list := ids[models.QuestionTypeMCQ]; len(list) > 0 {
		var rows []models.MCQOption
		if err := db.Where("question_id IN ?", list).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			details[rows[i].QuestionID] = &rows[i]
		}
	}
	if list := ids[models.QuestionTypeTheory]; len(list) > 0 {
		var rows []models.TheoryDetail
		if err := db.Where("question_id IN ?", list).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			details[rows[i].QuestionID] = &rows[i]
		}
	}
	if list := ids[models.QuestionTypeCoding]; len(list) > 0 {
		var rows []models.CodingDetail
		if err := db.Where("question_id IN ?", list).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			details[rows[i].QuestionID] = &rows[i]
		}
	}
	return details, nil
}

// ListByTest returns the active questions of a test in display order.
func (r *QuestionRepository) ListByTest(ctx context.Context, testID uuid.UUID, questionType *models.QuestionType) ([]models.Question, error) {
	query := r.db.WithContext(ctx).Where("test_id = ? AND is_active = ?", testID, true)
	if questionType != nil {
		query = query.Where("question_type = ?", *questionType)
	}

	questions := []models.Question{}
	if err := query.Order("order_no ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) UpdateBase(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

// UpdateDetail writes to the detail table of the given type only.
func (r *QuestionRepository) UpdateDetail(ctx context.Context, id uuid.UUID, questionType models.QuestionType, fields map[string]interface{}) (int64, error) {
	var model interface{}
	switch questionType {
	case models.QuestionTypeMCQ:
		model = &models.MCQOption{}
	case models.QuestionTypeTheory:
		model = &models.TheoryDetail{}
	case models.QuestionTypeCoding:
		model = &models.CodingDetail{}
	default:
		return 0, fmt.Errorf("unknown question type %q", questionType)
	}

	res := r.db.WithContext(ctx).Model(model).Where("question_id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}
