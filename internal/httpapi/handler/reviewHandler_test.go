package handler

import (
	"context"
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

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) GetByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Paginated[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, titleID, reviewID int64, actorID string, actorRole models.Role, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID, actorID, actorRole, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, titleID, reviewID int64, actorID string, actorRole models.Role) error {
	args := m.Called(ctx, titleID, reviewID, actorID, actorRole)
	return args.Error(0)
}

// injectActor plays the part of the auth middleware.
func injectActor(userID string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

func setupReviewRouter(svc service.ReviewService, userID string, role models.Role) *gin.Engine {
	router := setupRouter()
	handler := NewReviewHandler(svc)
	titles := router.Group("/titles")
	handler.RegisterRoutes(titles, injectActor(userID, role))
	return router
}

func TestCreateReviewEndpoint_Success(t *testing.T) {
	svc := new(MockReviewService)
	router := setupReviewRouter(svc, "user-1", models.RoleUser)

	resp := &dto.ReviewResponse{ID: 7, Text: "great", Author: "alice", Score: 9}
	svc.On("Create", mock.Anything, int64(10), "user-1", dto.CreateReviewDTO{Text: "great", Score: 9}).
		Return(resp, nil)

	w := postJSON(router, "/titles/10/reviews", dto.CreateReviewDTO{Text: "great", Score: 9})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateReviewEndpoint_Duplicate(t *testing.T) {
	svc := new(MockReviewService)
	router := setupReviewRouter(svc, "user-1", models.RoleUser)

	svc.On("Create", mock.Anything, int64(10), "user-1", mock.Anything).
		Return(nil, service.ErrReviewExists)

	w := postJSON(router, "/titles/10/reviews", dto.CreateReviewDTO{Text: "again", Score: 5})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReviewEndpoint_TitleNotFound(t *testing.T) {
	svc := new(MockReviewService)
	router := setupReviewRouter(svc, "user-1", models.RoleUser)

	svc.On("Create", mock.Anything, int64(99), "user-1", mock.Anything).
		Return(nil, service.ErrTitleNotFound)

	w := postJSON(router, "/titles/99/reviews", dto.CreateReviewDTO{Text: "x", Score: 5})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateReviewEndpoint_ScoreOutOfRange(t *testing.T) {
	svc := new(MockReviewService)
	router := setupReviewRouter(svc, "user-1", models.RoleUser)

	w := postJSON(router, "/titles/10/reviews", map[string]any{"text": "x", "score": 11})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create")
}

func TestUpdateReviewEndpoint_Forbidden(t *testing.T) {
	svc := new(MockReviewService)
	router := setupReviewRouter(svc, "user-2", models.RoleUser)

	svc.On("Update", mock.Anything, int64(10), int64(7), "user-2", models.RoleUser, mock.Anything).
		Return(nil, service.ErrForbidden)

	w := patchJSON(router, "/titles/10/reviews/7", map[string]any{"text": "edited"})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteReviewEndpoint_NoContent(t *testing.T) {
	svc := new(MockReviewService)
	router := setupReviewRouter(svc, "mod-1", models.RoleModerator)

	svc.On("Delete", mock.Anything, int64(10), int64(7), "mod-1", models.RoleModerator).Return(nil)

	req, _ := http.NewRequest("DELETE", "/titles/10/reviews/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestGetReviewEndpoint_BadID(t *testing.T) {
	svc := new(MockReviewService)
	router := setupReviewRouter(svc, "user-1", models.RoleUser)

	req, _ := http.NewRequest("GET", "/titles/10/reviews/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Get")
}
