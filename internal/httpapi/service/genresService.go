package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/validation"

	"gorm.io/gorm"
)

var ErrGenreNotFound = errors.New("genre not found")

type GenreService interface {
	GetAll(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.GenreResponse], error)
	Create(ctx context.Context, in dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo *repository.GenreRepo
}

func NewGenreService(r *repository.GenreRepo) GenreService {
	return &genreService{repo: r}
}

func (s *genreService) GetAll(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.GenreResponse], error) {
	list, total, err := s.repo.GetAll(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.GenreFromModel(g))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *genreService) Create(ctx context.Context, in dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("genre name required")
	}
	if err := validation.ValidateSlug(in.Slug); err != nil {
		return nil, err
	}

	model := models.Genre{Name: name, Slug: in.Slug}
	if err := s.repo.Create(ctx, &model); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	resp := dto.GenreFromModel(model)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
