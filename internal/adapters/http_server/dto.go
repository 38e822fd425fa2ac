package httpserver

import (
	"time"

	"lion_estate/internal/domain"
)

type adminDTO struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type translationDTO struct {
	ID          string   `json:"id"`
	PropertyID  string   `json:"propertyId"`
	Locale      string   `json:"locale"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Subtitle    *string  `json:"subtitle"`
	Features    []string `json:"features"`
}

type propertyDTO struct {
	ID           string              `json:"id"`
	Slug         string              `json:"slug"`
	Status       domain.Status       `json:"status"`
	Type         domain.PropertyType `json:"type"`
	Year         *int                `json:"year"`
	Price        float64             `json:"price"`
	Bedrooms     *int                `json:"bedrooms"`
	Bathrooms    *int                `json:"bathrooms"`
	Area         *float64            `json:"area"`
	Location     string              `json:"location"`
	Coordinates  *domain.Coordinates `json:"coordinates"`
	Featured     bool                `json:"featured"`
	Images       []string            `json:"images"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Translations *[]translationDTO   `json:"translations,omitempty"`
}

func toAdminDTO(a domain.Admin) adminDTO {
	return adminDTO{ID: a.ID, Email: a.Email, Name: a.Name}
}

// toPropertyDTO omits translations when the read did not load them.
func toPropertyDTO(p domain.Property) propertyDTO {
	out := propertyDTO{
		ID:          p.ID,
		Slug:        p.Slug,
		Status:      p.Status,
		Type:        p.Type,
		Year:        p.Year,
		Price:       p.Price,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Area:        p.Area,
		Location:    p.Location,
		Coordinates: p.Coordinates,
		Featured:    p.Featured,
		Images:      p.Images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	if p.Translations != nil {
		trs := make([]translationDTO, 0, len(p.Translations))
		for _, t := range p.Translations {
			f := t.Features
			if f == nil {
				f = []string{}
			}
			trs = append(trs, translationDTO{
				ID: t.ID, PropertyID: t.PropertyID, Locale: t.Locale,
				Title: t.Title, Description: t.Description, Subtitle: t.Subtitle, Features: f,
			})
		}
		out.Translations = &trs
	}
	return out
}

func toPropertyDTOs(ps []domain.Property) []propertyDTO {
	out := make([]propertyDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPropertyDTO(p))
	}
	return out
}
