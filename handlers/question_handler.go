package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"examhub/middleware"
	"examhub/models"
	"examhub/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuestionUseCase interface {
	CreateMCQQuestion(ctx context.Context, req *services.CreateMCQRequest) (*models.QuestionView, error)
	CreateTheoryQuestion(ctx context.Context, req *services.CreateTheoryRequest) (*models.QuestionView, error)
	CreateCodingQuestion(ctx context.Context, req *services.CreateCodingRequest) (*models.QuestionView, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.QuestionView, error)
	ListQuestions(ctx context.Context, testID uuid.UUID, questionType *models.QuestionType) ([]models.QuestionView, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, req *services.UpdateQuestionRequest) (*models.QuestionView, error)
	UpdateMCQOptions(ctx context.Context, id uuid.UUID, req *services.UpdateMCQOptionsRequest) (*models.QuestionView, error)
	UpdateTheoryDetails(ctx context.Context, id uuid.UUID, req *services.UpdateTheoryDetailsRequest) (*models.QuestionView, error)
	UpdateCodingDetails(ctx context.Context, id uuid.UUID, req *services.UpdateCodingDetailsRequest) (*models.QuestionView, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) (bool, error)
}

type QuestionHandler struct {
	questionService QuestionUseCase
	testService     TestUseCase
}

func NewQuestionHandler(questionService QuestionUseCase, testService TestUseCase) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		testService:     testService,
	}
}

func (h *QuestionHandler) CreateMCQQuestion(c *gin.Context) {
	req := services.NewCreateMCQRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}
	if !h.authorizeTest(c, req.TestID, "Not authorized to add questions to this test") {
		return
	}

	view, err := h.questionService.CreateMCQQuestion(c.Request.Context(), &req)
	if err != nil {
		abortInternal(c, "Failed to create question", err)
		return
	}
	respond(c, http.StatusCreated, "MCQ question created!", view)
}

func (h *QuestionHandler) CreateTheoryQuestion(c *gin.Context) {
	req := services.NewCreateTheoryRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}
	if !h.authorizeTest(c, req.TestID, "Not authorized") {
		return
	}

	view, err := h.questionService.CreateTheoryQuestion(c.Request.Context(), &req)
	if err != nil {
		abortInternal(c, "Failed to create question", err)
		return
	}
	respond(c, http.StatusCreated, "Theory question created!", view)
}

func (h *QuestionHandler) CreateCodingQuestion(c *gin.Context) {
	req := services.NewCreateCodingRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}
	if !h.authorizeTest(c, req.TestID, "Not authorized") {
		return
	}

	view, err := h.questionService.CreateCodingQuestion(c.Request.Context(), &req)
	if err != nil {
		abortInternal(c, "Failed to create question", err)
		return
	}
	respond(c, http.StatusCreated, "Coding question created!", view)
}

func (h *QuestionHandler) ListByTest(c *gin.Context) {
	testID, ok := uuidParam(c, "test_id")
	if !ok {
		return
	}

	var questionType *models.QuestionType
	if raw := c.Query("question_type"); raw != "" {
		t, err := models.ParseQuestionType(raw)
		if err != nil {
			abortDetail(c, http.StatusUnprocessableEntity, "question_type must be one of: mcq theory coding")
			return
		}
		questionType = &t
	}

	if _, ok := fetchTest(c, h.testService, testID); !ok {
		return
	}

	views, err := h.questionService.ListQuestions(c.Request.Context(), testID, questionType)
	if err != nil {
		abortInternal(c, "Failed to list questions", err)
		return
	}
	respond(c, http.StatusOK, fmt.Sprintf("Found %d questions", len(views)), views)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	view, ok := h.loadQuestion(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "Question found!", view)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	view, ok := h.loadOwnedQuestion(c, "")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	updated, err := h.questionService.UpdateQuestion(c.Request.Context(), view.ID, &req)
	if err != nil {
		h.abortQuestionError(c, "Failed to update question", err)
		return
	}
	respond(c, http.StatusOK, "Question updated!", updated)
}

func (h *QuestionHandler) UpdateMCQOptions(c *gin.Context) {
	view, ok := h.loadOwnedQuestion(c, models.QuestionTypeMCQ)
	if !ok {
		return
	}

	var req services.UpdateMCQOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	updated, err := h.questionService.UpdateMCQOptions(c.Request.Context(), view.ID, &req)
	if err != nil {
		h.abortQuestionError(c, "Failed to update MCQ options", err)
		return
	}
	respond(c, http.StatusOK, "MCQ options updated!", updated)
}

func (h *QuestionHandler) UpdateTheoryDetails(c *gin.Context) {
	view, ok := h.loadOwnedQuestion(c, models.QuestionTypeTheory)
	if !ok {
		return
	}

	var req services.UpdateTheoryDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	updated, err := h.questionService.UpdateTheoryDetails(c.Request.Context(), view.ID, &req)
	if err != nil {
		h.abortQuestionError(c, "Failed to update theory details", err)
		return
	}
	respond(c, http.StatusOK, "Theory details updated!", updated)
}

func (h *QuestionHandler) UpdateCodingDetails(c *gin.Context) {
	view, ok := h.loadOwnedQuestion(c, models.QuestionTypeCoding)
	if !ok {
		return
	}

	var req services.UpdateCodingDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	updated, err := h.questionService.UpdateCodingDetails(c.Request.Context(), view.ID, &req)
	if err != nil {
		h.abortQuestionError(c, "Failed to update coding details", err)
		return
	}
	respond(c, http.StatusOK, "Coding details updated!", updated)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	view, ok := h.loadOwnedQuestion(c, "")
	if !ok {
		return
	}

	deleted, err := h.questionService.DeleteQuestion(c.Request.Context(), view.ID)
	if err != nil {
		abortInternal(c, "Failed to delete", err)
		return
	}
	if !deleted {
		abortDetail(c, http.StatusNotFound, "Question not found!")
		return
	}
	respond(c, http.StatusOK, "Question deleted!", gin.H{"deleted_id": view.ID})
}

// authorizeTest checks that the test exists and that the caller created it.
func (h *QuestionHandler) authorizeTest(c *gin.Context, testID uuid.UUID, denied string) bool {
	test, ok := fetchTest(c, h.testService, testID)
	if !ok {
		return false
	}
	if test.CreatedBy != middleware.CurrentUser(c).ID {
		abortDetail(c, http.StatusForbidden, denied)
		return false
	}
	return true
}

func (h *QuestionHandler) loadQuestion(c *gin.Context) (*models.QuestionView, bool) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil, false
	}

	view, err := h.questionService.GetQuestion(c.Request.Context(), id)
	if err != nil {
		h.abortQuestionError(c, "Failed to fetch question", err)
		return nil, false
	}
	return view, true
}

// loadOwnedQuestion loads the question named by the path, checks that the
// caller owns the parent test and then checks the type when want is set.
// Ownership goes first so other callers never learn the question type.
func (h *QuestionHandler) loadOwnedQuestion(c *gin.Context, want models.QuestionType) (*models.QuestionView, bool) {
	view, ok := h.loadQuestion(c)
	if !ok {
		return nil, false
	}
	if !h.authorizeTest(c, view.TestID, "Not authorized") {
		return nil, false
	}
	if want != "" && view.QuestionType != want {
		abortDetail(c, http.StatusBadRequest, typeMismatch[want])
		return nil, false
	}
	return view, true
}

var typeMismatch = map[models.QuestionType]string{
	models.QuestionTypeMCQ:    "Not an MCQ question!",
	models.QuestionTypeTheory: "Not a theory question!",
	models.QuestionTypeCoding: "Not a coding question!",
}

func (h *QuestionHandler) abortQuestionError(c *gin.Context, prefix string, err error) {
	if errors.Is(err, services.ErrNotFound) {
		abortDetail(c, http.StatusNotFound, "Question not found!")
		return
	}
	abortInternal(c, prefix, err)
}
