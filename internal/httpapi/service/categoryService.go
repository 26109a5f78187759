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

var ErrCategoryNotFound = errors.New("category not found")
var ErrSlugTaken = errors.New("slug already in use")

type CategoryService interface {
	GetAll(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.CategoryResponse], error)
	Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo *repository.CategoryRepo
}

func NewCategoryService(r *repository.CategoryRepo) CategoryService {
	return &categoryService{repo: r}
}

func (s *categoryService) GetAll(ctx context.Context, search string, page, pageSize int) (*dto.Paginated[dto.CategoryResponse], error) {
	list, total, err := s.repo.GetAll(ctx, search, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		resp = append(resp, dto.CategoryFromModel(c))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, in dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("category name required")
	}
	if err := validation.ValidateSlug(in.Slug); err != nil {
		return nil, err
	}

	model := models.Category{Name: name, Slug: in.Slug}
	if err := s.repo.Create(ctx, &model); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	resp := dto.CategoryFromModel(model)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
