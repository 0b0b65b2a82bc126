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

type ProfileUseCase interface {
	CreateProfile(ctx context.Context, owner *models.User, req *services.CreateProfileRequest) (*models.Profile, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *services.UpdateProfileRequest) (*models.Profile, error)
	DeleteProfile(ctx context.Context, userID uuid.UUID) (bool, error)
	ListProfiles(ctx context.Context, q services.ProfileQuery) ([]models.Profile, int64, error)
	ListUsers(ctx context.Context, page services.Pagination) ([]models.Profile, int64, error)
	ListInstitutions(ctx context.Context, page services.Pagination) ([]models.Profile, int64, error)
	RoleStats(ctx context.Context) (*services.RoleStats, error)
}

type ProfileHandler struct {
	profileService ProfileUseCase
}

func NewProfileHandler(profileService ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	req := services.NewCreateProfileRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	profile, err := h.profileService.CreateProfile(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrProfileExists) {
			abortDetail(c, http.StatusBadRequest, "Profile already exists for this user")
			return
		}
		abortInternal(c, "Failed to create profile", err)
		return
	}

	respond(c, http.StatusCreated, "Profile created successfully", profile)
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	h.writeProfile(c, middleware.CurrentUser(c).ID, "My profile fetched successfully")
}

func (h *ProfileHandler) GetProfileByUserID(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	h.writeProfile(c, userID, "Profile fetched successfully")
}

func (h *ProfileHandler) writeProfile(c *gin.Context, userID uuid.UUID, message string) {
	profile, err := h.profileService.GetProfileByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			abortDetail(c, http.StatusNotFound, "Profile not found")
			return
		}
		abortInternal(c, "Failed to fetch profile", err)
		return
	}
	respond(c, http.StatusOK, message, profile)
}

func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			abortDetail(c, http.StatusNotFound, "Profile not found")
			return
		}
		abortInternal(c, "Failed to update profile", err)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *ProfileHandler) DeleteMyProfile(c *gin.Context) {
	deleted, err := h.profileService.DeleteProfile(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		abortInternal(c, "Failed to delete profile", err)
		return
	}
	if !deleted {
		abortDetail(c, http.StatusNotFound, "Profile not found")
		return
	}

	respond(c, http.StatusOK, "Profile deleted successfully", nil)
}

func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	var q services.ProfileQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBinding(c, err)
		return
	}

	profiles, total, err := h.profileService.ListProfiles(c.Request.Context(), q)
	if err != nil {
		abortInternal(c, "Failed to list profiles", err)
		return
	}
	respondPage(c, fmt.Sprintf("Found %d profiles", len(profiles)), profiles, total, q.Pagination)
}

func (h *ProfileHandler) ListUsers(c *gin.Context) {
	h.listByRole(c, "users", h.profileService.ListUsers)
}

func (h *ProfileHandler) ListInstitutions(c *gin.Context) {
	h.listByRole(c, "institutions", h.profileService.ListInstitutions)
}

func (h *ProfileHandler) listByRole(c *gin.Context, noun string, list func(context.Context, services.Pagination) ([]models.Profile, int64, error)) {
	var page services.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		abortBinding(c, err)
		return
	}

	profiles, total, err := list(c.Request.Context(), page)
	if err != nil {
		abortInternal(c, "Failed to list "+noun, err)
		return
	}
	respondPage(c, fmt.Sprintf("Found %d %s", len(profiles), noun), profiles, total, page)
}

func (h *ProfileHandler) Stats(c *gin.Context) {
	stats, err := h.profileService.RoleStats(c.Request.Context())
	if err != nil {
		abortInternal(c, "Failed to fetch profile stats", err)
		return
	}
	respond(c, http.StatusOK, "Profile statistics fetched!", stats)
}
