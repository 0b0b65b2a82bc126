package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"examhub/middleware"
	"examhub/models"
	"examhub/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, user *models.User, req *services.ChangePasswordRequest) error {
	return m.Called(ctx, user, req).Error(0)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *services.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *MockAuthService) ListUsers(ctx context.Context, q services.UserQuery) ([]models.User, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) CreateProfile(ctx context.Context, owner *models.User, req *services.CreateProfileRequest) (*models.Profile, error) {
	args := m.Called(ctx, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *services.UpdateProfileRequest) (*models.Profile, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) DeleteProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileService) ListProfiles(ctx context.Context, q services.ProfileQuery) ([]models.Profile, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.Profile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileService) ListUsers(ctx context.Context, page services.Pagination) ([]models.Profile, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Profile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileService) ListInstitutions(ctx context.Context, page services.Pagination) ([]models.Profile, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Profile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileService) RoleStats(ctx context.Context) (*services.RoleStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RoleStats), args.Error(1)
}

type MockTestService struct {
	mock.Mock
}

func (m *MockTestService) test(args mock.Arguments) (*models.Test, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Test), args.Error(1)
}

func (m *MockTestService) CreateTest(ctx context.Context, createdBy uuid.UUID, req *services.CreateTestRequest) (*models.Test, error) {
	return m.test(m.Called(ctx, createdBy, req))
}

func (m *MockTestService) GetTest(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	return m.test(m.Called(ctx, id))
}

func (m *MockTestService) ListTests(ctx context.Context, q services.TestQuery, createdBy *uuid.UUID) ([]models.Test, int64, error) {
	args := m.Called(ctx, q, createdBy)
	return args.Get(0).([]models.Test), args.Get(1).(int64), args.Error(2)
}

func (m *MockTestService) UpdateTest(ctx context.Context, id uuid.UUID, req *services.UpdateTestRequest) (*models.Test, error) {
	return m.test(m.Called(ctx, id, req))
}

func (m *MockTestService) PublishTest(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	return m.test(m.Called(ctx, id))
}

func (m *MockTestService) UnpublishTest(ctx context.Context, id uuid.UUID) (*models.Test, error) {
	return m.test(m.Called(ctx, id))
}

func (m *MockTestService) DeleteTest(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTestService) GetTestStats(ctx context.Context, id uuid.UUID) (*models.TestStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TestStats), args.Error(1)
}

type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) view(args mock.Arguments) (*models.QuestionView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuestionView), args.Error(1)
}

func (m *MockQuestionService) CreateMCQQuestion(ctx context.Context, req *services.CreateMCQRequest) (*models.QuestionView, error) {
	return m.view(m.Called(ctx, req))
}

func (m *MockQuestionService) CreateTheoryQuestion(ctx context.Context, req *services.CreateTheoryRequest) (*models.QuestionView, error) {
	return m.view(m.Called(ctx, req))
}

func (m *MockQuestionService) CreateCodingQuestion(ctx context.Context, req *services.CreateCodingRequest) (*models.QuestionView, error) {
	return m.view(m.Called(ctx, req))
}

func (m *MockQuestionService) GetQuestion(ctx context.Context, id uuid.UUID) (*models.QuestionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockQuestionService) ListQuestions(ctx context.Context, testID uuid.UUID, questionType *models.QuestionType) ([]models.QuestionView, error) {
	args := m.Called(ctx, testID, questionType)
	return args.Get(0).([]models.QuestionView), args.Error(1)
}

func (m *MockQuestionService) UpdateQuestion(ctx context.Context, id uuid.UUID, req *services.UpdateQuestionRequest) (*models.QuestionView, error) {
	return m.view(m.Called(ctx, id, req))
}

func (m *MockQuestionService) UpdateMCQOptions(ctx context.Context, id uuid.UUID, req *services.UpdateMCQOptionsRequest) (*models.QuestionView, error) {
	return m.view(m.Called(ctx, id, req))
}

func (m *MockQuestionService) UpdateTheoryDetails(ctx context.Context, id uuid.UUID, req *services.UpdateTheoryDetailsRequest) (*models.QuestionView, error) {
	return m.view(m.Called(ctx, id, req))
}

func (m *MockQuestionService) UpdateCodingDetails(ctx context.Context, id uuid.UUID, req *services.UpdateCodingDetailsRequest) (*models.QuestionView, error) {
	return m.view(m.Called(ctx, id, req))
}

func (m *MockQuestionService) DeleteQuestion(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// as returns a middleware that authenticates every request as user.
func as(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user, &services.Claims{Role: user.Role})
		c.Next()
	}
}

func perform(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return out
}
