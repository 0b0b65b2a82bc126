package services

import (
	"context"
	"encoding/json"
	"fmt"

	"examhub/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type QuestionStore interface {
	CreateWithDetail(ctx context.Context, question *models.Question, detail models.QuestionDetail) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	FindDetail(ctx context.Context, question *models.Question) (models.QuestionDetail, error)
	FindDetails(ctx context.Context, questions []models.Question) (map[uuid.UUID]models.QuestionDetail, error)
	ListByTest(ctx context.Context, testID uuid.UUID, questionType *models.QuestionType) ([]models.Question, error)
	UpdateBase(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	UpdateDetail(ctx context.Context, id uuid.UUID, questionType models.QuestionType, fields map[string]interface{}) (int64, error)
}

type QuestionService struct {
	questions QuestionStore
	log       logrus.FieldLogger
}

func NewQuestionService(questions QuestionStore, log logrus.FieldLogger) *QuestionService {
	return &QuestionService{questions: questions, log: log}
}

// QuestionBase holds the fields shared by every question type.
type QuestionBase struct {
	TestID       uuid.UUID `json:"test_id" binding:"required"`
	QuestionText string    `json:"question_text" binding:"required,min=10"`
	Marks        int       `json:"marks" binding:"min=1"`
	OrderNo      int       `json:"order_no" binding:"min=1"`
}

type MCQOptionsInput struct {
	OptionA       string               `json:"option_a" binding:"required"`
	OptionB       string               `json:"option_b" binding:"required"`
	OptionC       string               `json:"option_c" binding:"required"`
	OptionD       string               `json:"option_d" binding:"required"`
	CorrectOption models.CorrectOption `json:"correct_option" binding:"required,oneof=a b c d"`
	Explanation   *string              `json:"explanation"`
}

type CreateMCQRequest struct {
	QuestionBase
	Options *MCQOptionsInput `json:"options" binding:"required"`
}

func NewCreateMCQRequest() CreateMCQRequest {
	return CreateMCQRequest{QuestionBase: QuestionBase{Marks: 1, OrderNo: 1}}
}

type TheoryDetailsInput struct {
	WordLimit    int      `json:"word_limit" binding:"min=50,max=5000"`
	SampleAnswer *string  `json:"sample_answer"`
	Keywords     []string `json:"keywords"`
}

func NewTheoryDetailsInput() *TheoryDetailsInput {
	return &TheoryDetailsInput{WordLimit: 500}
}

// UnmarshalJSON fills the fields missing from data with their defaults.
func (d *TheoryDetailsInput) UnmarshalJSON(data []byte) error {
	type plain TheoryDetailsInput
	in := plain(*NewTheoryDetailsInput())
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = TheoryDetailsInput(in)
	return nil
}

type CreateTheoryRequest struct {
	QuestionBase
	Details *TheoryDetailsInput `json:"details" binding:"required"`
}

func NewCreateTheoryRequest() CreateTheoryRequest {
	return CreateTheoryRequest{QuestionBase: QuestionBase{Marks: 5, OrderNo: 1}}
}

type CodingDetailsInput struct {
	ProgrammingLanguage models.ProgrammingLanguage `json:"programming_language" binding:"oneof=python javascript java cpp c"`
	StarterCode         *string                    `json:"starter_code"`
	SolutionCode        *string                    `json:"solution_code"`
	TimeLimitSeconds    int                        `json:"time_limit_seconds" binding:"min=1,max=30"`
	MemoryLimitMB       int                        `json:"memory_limit_mb" binding:"min=32,max=512"`
	TestCases           []models.TestCase          `json:"test_cases" binding:"dive"`
}

func NewCodingDetailsInput() *CodingDetailsInput {
	return &CodingDetailsInput{
		ProgrammingLanguage: models.LanguagePython,
		TimeLimitSeconds:    5,
		MemoryLimitMB:       256,
		TestCases:           []models.TestCase{},
	}
}

// UnmarshalJSON fills the fields missing from data with their defaults.
func (d *CodingDetailsInput) UnmarshalJSON(data []byte) error {
	type plain CodingDetailsInput
	in := plain(*NewCodingDetailsInput())
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*d = CodingDetailsInput(in)
	return nil
}

type CreateCodingRequest struct {
	QuestionBase
	Details *CodingDetailsInput `json:"details" binding:"required"`
}

func NewCreateCodingRequest() CreateCodingRequest {
	return CreateCodingRequest{QuestionBase: QuestionBase{Marks: 10, OrderNo: 1}}
}

type UpdateQuestionRequest struct {
	QuestionText *string `json:"question_text" binding:"omitempty,min=10"`
	Marks        *int    `json:"marks" binding:"omitempty,min=1"`
	OrderNo      *int    `json:"order_no" binding:"omitempty,min=1"`
	IsActive     *bool   `json:"is_active"`
}

func (r *UpdateQuestionRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.QuestionText != nil {
		fields["question_text"] = *r.QuestionText
	}
	if r.Marks != nil {
		fields["marks"] = *r.Marks
	}
	if r.OrderNo != nil {
		fields["order_no"] = *r.OrderNo
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	return fields
}

type UpdateMCQOptionsRequest struct {
	OptionA       *string               `json:"option_a"`
	OptionB       *string               `json:"option_b"`
	OptionC       *string               `json:"option_c"`
	OptionD       *string               `json:"option_d"`
	CorrectOption *models.CorrectOption `json:"correct_option" binding:"omitempty,oneof=a b c d"`
	Explanation   *string               `json:"explanation"`
}

func (r *UpdateMCQOptionsRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.OptionA != nil {
		fields["option_a"] = *r.OptionA
	}
	if r.OptionB != nil {
		fields["option_b"] = *r.OptionB
	}
	if r.OptionC != nil {
		fields["option_c"] = *r.OptionC
	}
	if r.OptionD != nil {
		fields["option_d"] = *r.OptionD
	}
	if r.CorrectOption != nil {
		fields["correct_option"] = string(*r.CorrectOption)
	}
	if r.Explanation != nil {
		fields["explanation"] = *r.Explanation
	}
	return fields
}

// UpdateTheoryDetailsRequest treats a null or missing keywords list as "leave
// unchanged"; an empty list clears it.
type UpdateTheoryDetailsRequest struct {
	WordLimit    *int     `json:"word_limit" binding:"omitempty,min=50,max=5000"`
	SampleAnswer *string  `json:"sample_answer"`
	Keywords     []string `json:"keywords"`
}

func (r *UpdateTheoryDetailsRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.WordLimit != nil {
		fields["word_limit"] = *r.WordLimit
	}
	if r.SampleAnswer != nil {
		fields["sample_answer"] = *r.SampleAnswer
	}
	if r.Keywords != nil {
		fields["keywords"] = pq.StringArray(r.Keywords)
	}
	return fields
}

type UpdateCodingDetailsRequest struct {
	ProgrammingLanguage *models.ProgrammingLanguage `json:"programming_language" binding:"omitempty,oneof=python javascript java cpp c"`
	StarterCode         *string                     `json:"starter_code"`
	SolutionCode        *string                     `json:"solution_code"`
	TimeLimitSeconds    *int                        `json:"time_limit_seconds" binding:"omitempty,min=1,max=30"`
	MemoryLimitMB       *int                        `json:"memory_limit_mb" binding:"omitempty,min=32,max=512"`
	TestCases           []models.TestCase           `json:"test_cases" binding:"dive"`
}

func (r *UpdateCodingDetailsRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.ProgrammingLanguage != nil {
		fields["programming_language"] = string(*r.ProgrammingLanguage)
	}
	if r.StarterCode != nil {
		fields["starter_code"] = *r.StarterCode
	}
	if r.SolutionCode != nil {
		fields["solution_code"] = *r.SolutionCode
	}
	if r.TimeLimitSeconds != nil {
		fields["time_limit_seconds"] = *r.TimeLimitSeconds
	}
	if r.MemoryLimitMB != nil {
		fields["memory_limit_mb"] = *r.MemoryLimitMB
	}
	if r.TestCases != nil {
		fields["test_cases"] = datatypes.JSONSlice[models.TestCase](r.TestCases)
	}
	return fields
}

func (b QuestionBase) question(questionType models.QuestionType) *models.Question {
	return &models.Question{
		TestID:       b.TestID,
		QuestionType: questionType,
		QuestionText: b.QuestionText,
		Marks:        b.Marks,
		OrderNo:      b.OrderNo,
		IsActive:     true,
	}
}

func (s *QuestionService) CreateMCQQuestion(ctx context.Context, req *CreateMCQRequest) (*models.QuestionView, error) {
	detail := &models.MCQOption{
		OptionA:       req.Options.OptionA,
		OptionB:       req.Options.OptionB,
		OptionC:       req.Options.OptionC,
		OptionD:       req.Options.OptionD,
		CorrectOption: req.Options.CorrectOption,
		Explanation:   req.Options.Explanation,
	}
	return s.create(ctx, req.question(models.QuestionTypeMCQ), detail)
}

func (s *QuestionService) CreateTheoryQuestion(ctx context.Context, req *CreateTheoryRequest) (*models.QuestionView, error) {
	detail := &models.TheoryDetail{
		WordLimit:    req.Details.WordLimit,
		SampleAnswer: req.Details.SampleAnswer,
		Keywords:     pq.StringArray(req.Details.Keywords),
	}
	return s.create(ctx, req.question(models.QuestionTypeTheory), detail)
}

func (s *QuestionService) CreateCodingQuestion(ctx context.Context, req *CreateCodingRequest) (*models.QuestionView, error) {
	testCases := req.Details.TestCases
	if testCases == nil {
		testCases = []models.TestCase{}
	}
	detail := &models.CodingDetail{
		ProgrammingLanguage: req.Details.ProgrammingLanguage,
		StarterCode:         req.Details.StarterCode,
		SolutionCode:        req.Details.SolutionCode,
		TimeLimitSeconds:    req.Details.TimeLimitSeconds,
		MemoryLimitMB:       req.Details.MemoryLimitMB,
		TestCases:           datatypes.JSONSlice[models.TestCase](testCases),
	}
	return s.create(ctx, req.question(models.QuestionTypeCoding), detail)
}

func (s *QuestionService) create(ctx context.Context, question *models.Question, detail models.QuestionDetail) (*models.QuestionView, error) {
	if err := s.questions.CreateWithDetail(ctx, question, detail); err != nil {
		s.log.WithFields(logrus.Fields{
			"test_id":       question.TestID,
			"question_type": question.QuestionType,
		}).WithError(err).Error("question create rolled back")
		return nil, fmt.Errorf("create %s question: %w", question.QuestionType, err)
	}
	return &models.QuestionView{Question: *question, Detail: detail}, nil
}

// GetQuestion returns the question with its detail, whether or not it is
// active. A missing detail row leaves Detail nil.
func (s *QuestionService) GetQuestion(ctx context.Context, id uuid.UUID) (*models.QuestionView, error) {
	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "question")
	}

	detail, err := s.questions.FindDetail(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("load %s detail: %w", question.QuestionType, err)
	}
	return &models.QuestionView{Question: *question, Detail: detail}, nil
}

// ListQuestions returns the active questions of a test in order_no order,
// optionally of one type only.
func (s *QuestionService) ListQuestions(ctx context.Context, testID uuid.UUID, questionType *models.QuestionType) ([]models.QuestionView, error) {
	questions, err := s.questions.ListByTest(ctx, testID, questionType)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	details, err := s.questions.FindDetails(ctx, questions)
	if err != nil {
		return nil, fmt.Errorf("load question details: %w", err)
	}

	views := make([]models.QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, models.QuestionView{Question: q, Detail: details[q.ID]})
	}
	return views, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, id uuid.UUID, req *UpdateQuestionRequest) (*models.QuestionView, error) {
	fields := req.fields()
	if len(fields) > 0 {
		n, err := s.questions.UpdateBase(ctx, id, fields)
		if err != nil {
			return nil, fmt.Errorf("update question: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("question: %w", ErrNotFound)
		}
	}
	return s.GetQuestion(ctx, id)
}

// UpdateMCQOptions writes the MCQ detail table only. Callers must make sure
// the question is an MCQ question.
func (s *QuestionService) UpdateMCQOptions(ctx context.Context, id uuid.UUID, req *UpdateMCQOptionsRequest) (*models.QuestionView, error) {
	return s.updateDetail(ctx, id, models.QuestionTypeMCQ, req.fields())
}

func (s *QuestionService) UpdateTheoryDetails(ctx context.Context, id uuid.UUID, req *UpdateTheoryDetailsRequest) (*models.QuestionView, error) {
	return s.updateDetail(ctx, id, models.QuestionTypeTheory, req.fields())
}

func (s *QuestionService) UpdateCodingDetails(ctx context.Context, id uuid.UUID, req *UpdateCodingDetailsRequest) (*models.QuestionView, error) {
	return s.updateDetail(ctx, id, models.QuestionTypeCoding, req.fields())
}

func (s *QuestionService) updateDetail(ctx context.Context, id uuid.UUID, questionType models.QuestionType, fields map[string]interface{}) (*models.QuestionView, error) {
	if len(fields) > 0 {
		if _, err := s.questions.UpdateDetail(ctx, id, questionType, fields); err != nil {
			return nil, fmt.Errorf("update %s detail: %w", questionType, err)
		}
	}
	return s.GetQuestion(ctx, id)
}

// DeleteQuestion deactivates the base row. Detail rows are left in place.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := s.questions.UpdateBase(ctx, id, map[string]interface{}{"is_active": false})
	if err != nil {
		return false, fmt.Errorf("deactivate question: %w", err)
	}
	return n > 0, nil
}
