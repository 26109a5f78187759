package service

import (
	"context"
	"errors"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"

	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentService interface {
	Create(ctx context.Context, titleID, reviewID int64, authorID string, in dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	GetByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
	Update(ctx context.Context, titleID, reviewID, commentID int64, actorID string, actorRole models.Role, in dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, titleID, reviewID, commentID int64, actorID string, actorRole models.Role) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

// checkReview verifies the nested parents exist before touching comments.
func (s *commentService) checkReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) Create(ctx context.Context, titleID, reviewID int64, authorID string, in dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     in.Text,
		AuthorID: authorID,
		ReviewID: reviewID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Reload with author data
	comment, err := s.commentRepo.GetByID(ctx, reviewID, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.getComment(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) GetByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		resp = append(resp, *dto.FromModelToCommentResponse(&comment))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *commentService) Update(ctx context.Context, titleID, reviewID, commentID int64, actorID string, actorRole models.Role, in dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.getComment(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !canModify(comment.AuthorID, actorID, actorRole) {
		return nil, ErrForbidden
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	comment, err = s.commentRepo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, titleID, reviewID, commentID int64, actorID string, actorRole models.Role) error {
	if err := s.checkReview(ctx, titleID, reviewID); err != nil {
		return err
	}

	comment, err := s.getComment(ctx, reviewID, commentID)
	if err != nil {
		return err
	}

	if !canModify(comment.AuthorID, actorID, actorRole) {
		return ErrForbidden
	}

	return s.commentRepo.Delete(ctx, commentID)
}

func (s *commentService) getComment(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
