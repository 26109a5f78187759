package service

import (
	"context"
	"testing"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestCreateReview_Success(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{ID: 10}, nil)
	reviewRepo.On("ExistsByAuthorAndTitle", mock.Anything, "user-1", int64(10)).Return(false, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Review).ID = 7
		}).Return(nil)
	saved := &models.Review{
		ID:       7,
		Text:     "great",
		Score:    9,
		AuthorID: "user-1",
		TitleID:  10,
		Author:   models.User{ID: "user-1", Username: "alice"},
	}
	reviewRepo.On("GetByID", mock.Anything, int64(10), int64(7)).Return(saved, nil)

	resp, err := svc.Create(context.Background(), 10, "user-1", dto.CreateReviewDTO{Text: "great", Score: 9})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, 9, resp.Score)
	reviewRepo.AssertExpectations(t)
}

func TestCreateReview_TitleNotFound(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	titleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), 99, "user-1", dto.CreateReviewDTO{Text: "x", Score: 5})

	assert.ErrorIs(t, err, ErrTitleNotFound)
	reviewRepo.AssertNotCalled(t, "Create")
}

func TestCreateReview_AlreadyReviewed(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{ID: 10}, nil)
	reviewRepo.On("ExistsByAuthorAndTitle", mock.Anything, "user-1", int64(10)).Return(true, nil)

	_, err := svc.Create(context.Background(), 10, "user-1", dto.CreateReviewDTO{Text: "again", Score: 5})

	assert.ErrorIs(t, err, ErrReviewExists)
	reviewRepo.AssertNotCalled(t, "Create")
}

func TestCreateReview_DuplicateRace(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	// the pre-check misses a concurrent insert; the unique index reports it
	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{ID: 10}, nil)
	reviewRepo.On("ExistsByAuthorAndTitle", mock.Anything, "user-1", int64(10)).Return(false, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).Return(repository.ErrDuplicate)

	_, err := svc.Create(context.Background(), 10, "user-1", dto.CreateReviewDTO{Text: "again", Score: 5})

	assert.ErrorIs(t, err, ErrReviewExists)
}

func TestUpdateReview_NonAuthorForbidden(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	review := &models.Review{ID: 7, AuthorID: "user-1", TitleID: 10, Score: 5}
	reviewRepo.On("GetByID", mock.Anything, int64(10), int64(7)).Return(review, nil)

	text := "edited"
	_, err := svc.Update(context.Background(), 10, 7, "user-2", models.RoleUser, dto.UpdateReviewDTO{Text: &text})

	assert.ErrorIs(t, err, ErrForbidden)
	reviewRepo.AssertNotCalled(t, "Update")
}

func TestUpdateReview_ModeratorAllowed(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	review := &models.Review{ID: 7, AuthorID: "user-1", TitleID: 10, Text: "old", Score: 5}
	reviewRepo.On("GetByID", mock.Anything, int64(10), int64(7)).Return(review, nil)
	reviewRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)

	score := 3
	resp, err := svc.Update(context.Background(), 10, 7, "mod-1", models.RoleModerator, dto.UpdateReviewDTO{Score: &score})

	assert.NoError(t, err)
	assert.Equal(t, 3, resp.Score)
	assert.Equal(t, "old", resp.Text)
}

func TestDeleteReview_AuthorAllowed(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	review := &models.Review{ID: 7, AuthorID: "user-1", TitleID: 10}
	reviewRepo.On("GetByID", mock.Anything, int64(10), int64(7)).Return(review, nil)
	reviewRepo.On("Delete", mock.Anything, int64(7)).Return(nil)

	err := svc.Delete(context.Background(), 10, 7, "user-1", models.RoleUser)

	assert.NoError(t, err)
	reviewRepo.AssertExpectations(t)
}

func TestDeleteReview_NotFound(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	svc := NewReviewService(reviewRepo, titleRepo)

	reviewRepo.On("GetByID", mock.Anything, int64(10), int64(404)).Return(nil, gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), 10, 404, "user-1", models.RoleAdmin)

	assert.ErrorIs(t, err, ErrReviewNotFound)
}
