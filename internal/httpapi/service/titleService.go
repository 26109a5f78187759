package service

import (
	"context"
	"errors"

	"reviewhub/internal/httpapi/dto"
	"reviewhub/internal/httpapi/models"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/validation"

	"gorm.io/gorm"
)

var ErrTitleNotFound = errors.New("title not found")

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

// TitleRepository is what the title service needs from storage. Satisfied by
// *repository.TitleRepo; narrowed to an interface so tests can substitute it.
type TitleRepository interface {
	GetAll(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, t *models.Title) error
	Update(ctx context.Context, t *models.Title) error
	ReplaceGenres(ctx context.Context, t *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
	AverageScore(ctx context.Context, titleID int64) (float64, bool, error)
	AverageScores(ctx context.Context, titleIDs []int64) (map[int64]float64, error)
}

type CategoryStore interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type GenreStore interface {
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
}

type titleService struct {
	titleRepo    TitleRepository
	categoryRepo CategoryStore
	genreRepo    GenreStore
}

func NewTitleService(
	titleRepo TitleRepository,
	categoryRepo CategoryStore,
	genreRepo GenreStore,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	scores, err := s.titleRepo.AverageScores(ctx, ids)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.TitleResponse, 0, len(titles))
	for _, t := range titles {
		var rating *float64
		if avg, ok := scores[t.ID]; ok {
			rating = &avg
		}
		resp = append(resp, dto.TitleFromModel(t, rating))
	}
	return dto.NewPaginated(resp, int(total), page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	return s.readShape(ctx, id)
}

func (s *titleService) Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	if err := validation.ValidateYear(*in.Year); err != nil {
		return nil, err
	}

	title := models.Title{
		Name:        in.Name,
		Year:        *in.Year,
		Description: in.Description,
	}

	if in.Category != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, in.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	genres, err := s.resolveGenres(ctx, in.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titleRepo.Create(ctx, &title); err != nil {
		return nil, err
	}

	// write responses return the re-fetched read shape, not the payload echo
	return s.readShape(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		if err := validation.ValidateYear(*in.Year); err != nil {
			return nil, err
		}
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = *in.Description
	}
	if in.Category != nil {
		if *in.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.categoryRepo.FindBySlug(ctx, *in.Category)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrCategoryNotFound
				}
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = nil
		}
	}

	// detach associations before Save so GORM doesn't upsert stale nested rows
	keepGenres := title.Genres
	title.Genres = nil
	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	if in.Genre != nil {
		genres, err := s.resolveGenres(ctx, *in.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	} else {
		title.Genres = keepGenres
	}

	return s.readShape(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, ErrGenreNotFound
	}
	return genres, nil
}

func (s *titleService) readShape(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	var rating *float64
	avg, hasReviews, err := s.titleRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	if hasReviews {
		rating = &avg
	}

	resp := dto.TitleFromModel(*title, rating)
	return &resp, nil
}
