package service

import (
	"context"
	"errors"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("you have already reviewed this title")
	ErrForbidden      = errors.New("insufficient permissions")
)

type ReviewService interface {
	Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	GetByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
	Update(ctx context.Context, titleID, reviewID int64, actorID string, actorRole models.Role, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, titleID, reviewID int64, actorID string, actorRole models.Role) error
}

// TitleStore is the slice of the title repository the review service needs.
type TitleStore interface {
	GetByID(ctx context.Context, id int64) (*models.Title, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  TitleStore
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo TitleStore) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

// canModify: the author may touch their own review, everyone else needs
// at least moderator.
func canModify(authorID, actorID string, actorRole models.Role) bool {
	return actorID == authorID || actorRole.AtLeast(models.RoleModerator)
}

func (s *reviewService) Create(ctx context.Context, titleID int64, authorID string, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	// friendly pre-check; the unique index remains the real guarantee
	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(ctx, authorID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewExists
	}

	review := &models.Review{
		Text:     in.Text,
		Score:    in.Score,
		AuthorID: authorID,
		TitleID:  titleID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// a concurrent create slipped past the pre-check
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrReviewExists
		}
		return nil, err
	}

	// Reload with author data
	review, err = s.reviewRepo.GetByID(ctx, titleID, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) GetByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp = append(resp, *dto.FromModelToReviewResponse(&review))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, actorID string, actorRole models.Role, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.getReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !canModify(review.AuthorID, actorID, actorRole) {
		return nil, ErrForbidden
	}

	if in.Text != nil {
		review.Text = *in.Text
	}
	if in.Score != nil {
		review.Score = *in.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	review, err = s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Delete removes a review; its comments cascade with it.
func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64, actorID string, actorRole models.Role) error {
	review, err := s.getReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !canModify(review.AuthorID, actorID, actorRole) {
		return ErrForbidden
	}

	return s.reviewRepo.Delete(ctx, reviewID)
}

func (s *reviewService) getReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}
