package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func sendJSON(router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	return sendJSON(router, "POST", path, payload)
}

func patchJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	return sendJSON(router, "PATCH", path, payload)
}

func TestSignupEndpoint_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	user := &models.User{ID: "user-123", Username: "testuser", Email: "test@example.com"}
	mockAuthService.On("Signup", mock.Anything, "testuser", "test@example.com").Return(user, nil)

	w := postJSON(router, "/signup", dto.SignupRequest{Username: "testuser", Email: "test@example.com"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "testuser", response["username"])
	assert.Equal(t, "test@example.com", response["email"])

	mockAuthService.AssertExpectations(t)
}

func TestSignupEndpoint_EmailBusy(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	mockAuthService.On("Signup", mock.Anything, "testuser", "test@example.com").
		Return(nil, service.ErrEmailTaken)

	w := postJSON(router, "/signup", dto.SignupRequest{Username: "testuser", Email: "test@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "email busy", response["email"])
}

func TestSignupEndpoint_UsernameBusy(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	mockAuthService.On("Signup", mock.Anything, "testuser", "new@example.com").
		Return(nil, service.ErrUsernameTaken)

	w := postJSON(router, "/signup", dto.SignupRequest{Username: "testuser", Email: "new@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "username busy", response["username"])
}

func TestSignupEndpoint_MissingEmail(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/signup", handler.Signup)

	w := postJSON(router, "/signup", map[string]string{"username": "testuser"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockAuthService.AssertNotCalled(t, "Signup")
}

func TestTokenEndpoint_Success(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	mockAuthService.On("IssueToken", mock.Anything, "testuser", "code-123").Return("signed.jwt.token", nil)

	w := postJSON(router, "/token", dto.TokenRequest{Username: "testuser", ConfirmationCode: "code-123"})

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "signed.jwt.token", response["token"])
}

func TestTokenEndpoint_UnknownUser(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	mockAuthService.On("IssueToken", mock.Anything, "ghost", "code-123").
		Return("", service.ErrUserNotFound)

	w := postJSON(router, "/token", dto.TokenRequest{Username: "ghost", ConfirmationCode: "code-123"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTokenEndpoint_BadCode(t *testing.T) {
	mockAuthService := new(MockAuthService)
	handler := NewAuthHandler(mockAuthService)
	router := setupRouter()
	router.POST("/token", handler.Token)

	mockAuthService.On("IssueToken", mock.Anything, "testuser", "wrong").
		Return("", service.ErrInvalidCode)

	w := postJSON(router, "/token", dto.TokenRequest{Username: "testuser", ConfirmationCode: "wrong"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotEmpty(t, response["confirmation_code"])
}
