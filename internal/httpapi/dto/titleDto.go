package dto

import "reviewhub/internal/httpapi/models"

// CreateTitleDTO: write payload referencing category and genres by slug.
// Year is a pointer so that the presence check does not swallow year 0,
// which is a valid value.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50"`
	Category    string   `json:"category" binding:"omitempty,max=50"`
}

// UpdateTitleDTO: partial update, nil means "leave unchanged"
type UpdateTitleDTO struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre" binding:"omitempty,dive,max=50"`
	Category    *string   `json:"category" binding:"omitempty,max=50"`
}

// TitleResponse is the read shape: nested category and genres plus the
// computed rating. Rating is null when the title has no reviews.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description string            `json:"description,omitempty"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func TitleFromModel(t models.Title, rating *float64) TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, GenreFromModel(g))
	}

	var category *CategoryResponse
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		category = &c
	}

	return TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genre:       genres,
		Category:    category,
	}
}
