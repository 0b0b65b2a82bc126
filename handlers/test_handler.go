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

type TestUseCase interface {
	CreateTest(ctx context.Context, createdBy uuid.UUID, req *services.CreateTestRequest) (*models.Test, error)
	GetTest(ctx context.Context, id uuid.UUID) (*models.Test, error)
	ListTests(ctx context.Context, q services.TestQuery, createdBy *uuid.UUID) ([]models.Test, int64, error)
	UpdateTest(ctx context.Context, id uuid.UUID, req *services.UpdateTestRequest) (*models.Test, error)
	PublishTest(ctx context.Context, id uuid.UUID) (*models.Test, error)
	UnpublishTest(ctx context.Context, id uuid.UUID) (*models.Test, error)
	DeleteTest(ctx context.Context, id uuid.UUID) (bool, error)
	GetTestStats(ctx context.Context, id uuid.UUID) (*models.TestStats, error)
}

type TestHandler struct {
	testService TestUseCase
}

func NewTestHandler(testService TestUseCase) *TestHandler {
	return &TestHandler{testService: testService}
}

func (h *TestHandler) CreateTest(c *gin.Context) {
	req := services.NewCreateTestRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	test, err := h.testService.CreateTest(c.Request.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		abortInternal(c, "Failed to create test", err)
		return
	}
	respond(c, http.StatusCreated, "Test created successfully!", test)
}

func (h *TestHandler) ListTests(c *gin.Context) {
	h.list(c, nil)
}

func (h *TestHandler) ListMyTests(c *gin.Context) {
	id := middleware.CurrentUser(c).ID
	h.list(c, &id)
}

func (h *TestHandler) list(c *gin.Context, createdBy *uuid.UUID) {
	var q services.TestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBinding(c, err)
		return
	}
	if createdBy != nil {
		q.IsPublished = nil
	}

	tests, total, err := h.testService.ListTests(c.Request.Context(), q, createdBy)
	if err != nil {
		abortInternal(c, "Failed to list tests", err)
		return
	}
	respondPage(c, fmt.Sprintf("Found %d tests", len(tests)), tests, total, q.Pagination)
}

func (h *TestHandler) GetTest(c *gin.Context) {
	test, ok := h.loadTest(c)
	if !ok {
		return
	}
	respond(c, http.StatusOK, "Test found!", test)
}

func (h *TestHandler) GetTestStats(c *gin.Context) {
	test, ok := h.loadTest(c)
	if !ok {
		return
	}

	stats, err := h.testService.GetTestStats(c.Request.Context(), test.ID)
	if err != nil {
		abortInternal(c, "Failed to fetch test statistics", err)
		return
	}
	respond(c, http.StatusOK, "Test statistics fetched!", stats)
}

func (h *TestHandler) UpdateTest(c *gin.Context) {
	test, ok := h.loadOwnedTest(c, "Not authorized to update this test")
	if !ok {
		return
	}

	var req services.UpdateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	updated, err := h.testService.UpdateTest(c.Request.Context(), test.ID, &req)
	if err != nil {
		h.abortTestError(c, "Failed to update test", err)
		return
	}
	respond(c, http.StatusOK, "Test updated!", updated)
}

func (h *TestHandler) PublishTest(c *gin.Context) {
	test, ok := h.loadOwnedTest(c, "Not authorized")
	if !ok {
		return
	}

	updated, err := h.testService.PublishTest(c.Request.Context(), test.ID)
	if err != nil {
		h.abortTestError(c, "Failed to publish test", err)
		return
	}
	respond(c, http.StatusOK, "Test published!", updated)
}

func (h *TestHandler) UnpublishTest(c *gin.Context) {
	test, ok := h.loadOwnedTest(c, "Not authorized")
	if !ok {
		return
	}

	updated, err := h.testService.UnpublishTest(c.Request.Context(), test.ID)
	if err != nil {
		h.abortTestError(c, "Failed to unpublish test", err)
		return
	}
	respond(c, http.StatusOK, "Test unpublished!", updated)
}

func (h *TestHandler) DeleteTest(c *gin.Context) {
	test, ok := h.loadOwnedTest(c, "Not authorized")
	if !ok {
		return
	}

	deleted, err := h.testService.DeleteTest(c.Request.Context(), test.ID)
	if err != nil {
		abortInternal(c, "Failed to delete", err)
		return
	}
	if !deleted {
		abortDetail(c, http.StatusNotFound, "Test not found!")
		return
	}
	respond(c, http.StatusOK, "Test deleted!", gin.H{"deleted_id": test.ID})
}

func (h *TestHandler) loadTest(c *gin.Context) (*models.Test, bool) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil, false
	}
	return fetchTest(c, h.testService, id)
}

// loadOwnedTest loads the test named by the path and checks that the caller
// created it.
func (h *TestHandler) loadOwnedTest(c *gin.Context, denied string) (*models.Test, bool) {
	test, ok := h.loadTest(c)
	if !ok {
		return nil, false
	}
	if test.CreatedBy != middleware.CurrentUser(c).ID {
		abortDetail(c, http.StatusForbidden, denied)
		return nil, false
	}
	return test, true
}

func (h *TestHandler) abortTestError(c *gin.Context, prefix string, err error) {
	if errors.Is(err, services.ErrNotFound) {
		abortDetail(c, http.StatusNotFound, "Test not found!")
		return
	}
	abortInternal(c, prefix, err)
}

// fetchTest replies 404 or 500 itself when the test cannot be loaded.
func fetchTest(c *gin.Context, tests TestUseCase, id uuid.UUID) (*models.Test, bool) {
	test, err := tests.GetTest(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			abortDetail(c, http.StatusNotFound, "Test not found!")
			return nil, false
		}
		abortInternal(c, "Failed to fetch test", err)
		return nil, false
	}
	return test, true
}
