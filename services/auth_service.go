package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"examhub/models"
	"examhub/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	List(ctx context.Context, filter repository.UserFilter, offset, limit int) ([]models.User, int64, error)
}

// RevocationStore keeps the ids of tokens that were logged out.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Claims is the JWT payload. The subject is the user id.
type Claims struct {
	Role  models.Role `json:"role"`
	Email string      `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users  UserStore
	tokens RevocationStore
	secret []byte
	expiry time.Duration
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewAuthService(users UserStore, tokens RevocationStore, jwtSecret string, expiry time.Duration, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		secret: []byte(jwtSecret),
		expiry: expiry,
		log:    log,
		now:    time.Now,
	}
}

type RegisterRequest struct {
	Name     string         `json:"name" binding:"required,min=2,max=100"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6,max=100"`
	Role     models.Role    `json:"role" binding:"oneof=user institution"`
	Gender   *models.Gender `json:"gender" binding:"omitempty,oneof=Male Female"`
	City     *models.City   `json:"city" binding:"omitempty,oneof=Bhopal Indore"`
	State    models.State   `json:"state" binding:"oneof='Madhya Pradesh'"`
	Country  models.Country `json:"country" binding:"oneof=India"`
}

func NewRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Role:    models.RoleUser,
		State:   models.StateMadhyaPradesh,
		Country: models.CountryIndia,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required,min=6"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=100"`
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Gender:       req.Gender,
		City:         req.City,
		State:        req.State,
		Country:      req.Country,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.users.Update(ctx, user.ID, map[string]interface{}{"last_login": now}); err != nil {
		s.log.WithField("user_id", user.ID).WithError(err).Warn("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.expiry.Seconds()),
		User:        user,
	}, nil
}

func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Authenticate resolves a bearer token to its active, non-revoked user.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, *Claims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, nil, ErrTokenRevoked
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTokenInvalid
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveAccount
	}
	return user, claims, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, req *ChangePasswordRequest) error {
	stored, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return notFound(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Update(ctx, user.ID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Logout revokes the token described by claims for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// UserQuery is the filter set of GET /auth/users.
type UserQuery struct {
	Pagination
	Role   *models.Role   `form:"role" binding:"omitempty,oneof=user institution"`
	City   *models.City   `form:"city" binding:"omitempty,oneof=Bhopal Indore"`
	Gender *models.Gender `form:"gender" binding:"omitempty,oneof=Male Female"`
}

func (s *AuthService) ListUsers(ctx context.Context, q UserQuery) ([]models.User, int64, error) {
	filter := repository.UserFilter{Role: q.Role, City: q.City, Gender: q.Gender}
	users, total, err := s.users.List(ctx, filter, q.Offset(), q.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}
