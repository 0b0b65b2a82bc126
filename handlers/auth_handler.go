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
)

type AuthUseCase interface {
	Register(ctx context.Context, req *services.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	ChangePassword(ctx context.Context, user *models.User, req *services.ChangePasswordRequest) error
	Logout(ctx context.Context, claims *services.Claims) error
	ListUsers(ctx context.Context, q services.UserQuery) ([]models.User, int64, error)
}

type AuthHandler struct {
	authService AuthUseCase
}

func NewAuthHandler(authService AuthUseCase) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	req := services.NewRegisterRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			abortDetail(c, http.StatusBadRequest, "Email already registered!")
			return
		}
		abortInternal(c, "Failed to register user", err)
		return
	}

	respond(c, http.StatusCreated, fmt.Sprintf("Registration successful! Welcome %s", user.Name), user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.Header("WWW-Authenticate", "Bearer")
			abortDetail(c, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, services.ErrInactiveAccount):
			abortDetail(c, http.StatusUnauthorized, "Account is inactive")
		default:
			abortInternal(c, "Login failed", err)
		}
		return
	}

	respond(c, http.StatusOK, "Login successful!", result)
}

func (h *AuthHandler) Me(c *gin.Context) {
	respond(c, http.StatusOK, "User profile fetched!", middleware.CurrentUser(c))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWrongPassword):
			abortDetail(c, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, services.ErrNotFound):
			abortDetail(c, http.StatusNotFound, "User not found")
		default:
			abortInternal(c, "Failed to change password", err)
		}
		return
	}

	respond(c, http.StatusOK, "Password changed successfully!", nil)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		abortInternal(c, "Failed to logout", err)
		return
	}
	respond(c, http.StatusOK, "Logged out successfully!", gin.H{"user_id": user.ID})
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	var q services.UserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBinding(c, err)
		return
	}

	users, total, err := h.authService.ListUsers(c.Request.Context(), q)
	if err != nil {
		abortInternal(c, "Failed to list users", err)
		return
	}

	respond(c, http.StatusOK, fmt.Sprintf("Found %d users", total), gin.H{
		"users": users,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}
