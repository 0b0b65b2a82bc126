package services

import (
	"context"
	"errors"
	"fmt"

	"examhub/models"
	"examhub/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileStore is the persistence the profile service needs.
type ProfileStore interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
	List(ctx context.Context, filter repository.ProfileFilter, offset, limit int) ([]models.Profile, int64, error)
	Update(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

type ProfileService struct {
	profiles ProfileStore
}

func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// CreateProfileRequest is the body of POST /profiles. A user_id in the body
// is accepted but never used.
type CreateProfileRequest struct {
	UserID      *uuid.UUID     `json:"user_id"`
	FullName    string         `json:"full_name" binding:"required,min=2,max=100"`
	Phone       *string        `json:"phone" binding:"omitempty,max=15"`
	Bio         *string        `json:"bio"`
	AvatarURL   *string        `json:"avatar_url"`
	DateOfBirth *models.Date   `json:"date_of_birth" binding:"required"`
	Gender      *models.Gender `json:"gender" binding:"omitempty,oneof=Male Female"`
	City        *models.City   `json:"city" binding:"omitempty,oneof=Bhopal Indore"`
	State       models.State   `json:"state" binding:"oneof='Madhya Pradesh'"`
	Country     models.Country `json:"country" binding:"oneof=India"`
}

func NewCreateProfileRequest() CreateProfileRequest {
	return CreateProfileRequest{
		State:   models.StateMadhyaPradesh,
		Country: models.CountryIndia,
	}
}

type UpdateProfileRequest struct {
	FullName    *string         `json:"full_name" binding:"omitempty,min=2,max=100"`
	Phone       *string         `json:"phone" binding:"omitempty,max=15"`
	Bio         *string         `json:"bio"`
	AvatarURL   *string         `json:"avatar_url"`
	DateOfBirth *models.Date    `json:"date_of_birth"`
	Gender      *models.Gender  `json:"gender" binding:"omitempty,oneof=Male Female"`
	City        *models.City    `json:"city" binding:"omitempty,oneof=Bhopal Indore"`
	State       *models.State   `json:"state" binding:"omitempty,oneof='Madhya Pradesh'"`
	Country     *models.Country `json:"country" binding:"omitempty,oneof=India"`
	IsActive    *bool           `json:"is_active"`
}

// fields returns the columns present in the request.
func (r *UpdateProfileRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.FullName != nil {
		fields["full_name"] = *r.FullName
	}
	if r.Phone != nil {
		fields["phone"] = *r.Phone
	}
	if r.Bio != nil {
		fields["bio"] = *r.Bio
	}
	if r.AvatarURL != nil {
		fields["avatar_url"] = *r.AvatarURL
	}
	if r.DateOfBirth != nil {
		fields["date_of_birth"] = *r.DateOfBirth
	}
	if r.Gender != nil {
		fields["gender"] = string(*r.Gender)
	}
	if r.City != nil {
		fields["city"] = string(*r.City)
	}
	if r.State != nil {
		fields["state"] = string(*r.State)
	}
	if r.Country != nil {
		fields["country"] = string(*r.Country)
	}
	if r.IsActive != nil {
		fields["is_active"] = *r.IsActive
	}
	return fields
}

// CreateProfile stores the profile of owner. The profile is always linked to
// owner's id and carries owner's role.
func (s *ProfileService) CreateProfile(ctx context.Context, owner *models.User, req *CreateProfileRequest) (*models.Profile, error) {
	exists, err := s.profiles.ExistsForUser(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing profile: %w", err)
	}
	if exists {
		return nil, ErrProfileExists
	}

	profile := &models.Profile{
		UserID:      owner.ID,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		City:        req.City,
		State:       &req.State,
		Country:     &req.Country,
		Role:        owner.Role,
		IsActive:    true,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		// lost a race with a concurrent create for the same user
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return profile, nil
}

// UpdateProfile applies the fields present in req. An empty request returns
// the stored profile untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error) {
	current, err := s.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := req.fields()
	if len(fields) == 0 {
		return current, nil
	}

	if _, err := s.profiles.Update(ctx, userID, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetProfileByUserID(ctx, userID)
}

// DeleteProfile deactivates the profile and reports whether one was found.
func (s *ProfileService) DeleteProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := s.profiles.Update(ctx, userID, map[string]interface{}{"is_active": false})
	if err != nil {
		return false, fmt.Errorf("deactivate profile: %w", err)
	}
	return n > 0, nil
}

// ProfileQuery is the filter set of GET /profiles.
type ProfileQuery struct {
	Pagination
	IsActive *bool          `form:"is_active"`
	Role     *models.Role   `form:"role" binding:"omitempty,oneof=user institution"`
	City     *models.City   `form:"city" binding:"omitempty,oneof=Bhopal Indore"`
	Gender   *models.Gender `form:"gender" binding:"omitempty,oneof=Male Female"`
}

// ListProfiles hides deactivated profiles unless is_active is given.
func (s *ProfileService) ListProfiles(ctx context.Context, q ProfileQuery) ([]models.Profile, int64, error) {
	isActive := true
	if q.IsActive != nil {
		isActive = *q.IsActive
	}
	filter := repository.ProfileFilter{
		IsActive: &isActive,
		Role:     q.Role,
		City:     q.City,
		Gender:   q.Gender,
	}
	profiles, total, err := s.profiles.List(ctx, filter, q.Offset(), q.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, total, nil
}

func (s *ProfileService) ListUsers(ctx context.Context, page Pagination) ([]models.Profile, int64, error) {
	role := models.RoleUser
	return s.ListProfiles(ctx, ProfileQuery{Pagination: page, Role: &role})
}

func (s *ProfileService) ListInstitutions(ctx context.Context, page Pagination) ([]models.Profile, int64, error) {
	role := models.RoleInstitution
	return s.ListProfiles(ctx, ProfileQuery{Pagination: page, Role: &role})
}

type RoleStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalInstitutions int64 `json:"total_institutions"`
	TotalProfiles     int64 `json:"total_profiles"`
}

func (s *ProfileService) RoleStats(ctx context.Context) (*RoleStats, error) {
	users, err := s.profiles.CountByRole(ctx, models.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	institutions, err := s.profiles.CountByRole(ctx, models.RoleInstitution)
	if err != nil {
		return nil, fmt.Errorf("count institutions: %w", err)
	}
	return &RoleStats{
		TotalUsers:        users,
		TotalInstitutions: institutions,
		TotalProfiles:     users + institutions,
	}, nil
}
