package domain

import "time"

type Status string

const (
	StatusAvailable       Status = "available"
	StatusSold            Status = "sold"
	StatusLeased          Status = "leased"
	StatusUnderManagement Status = "under-management"
	StatusInDevelopment   Status = "in-development"
)

type PropertyType string

const (
	TypeResidential PropertyType = "residential"
	TypeCommercial  PropertyType = "commercial"
	TypeHospitality PropertyType = "hospitality"
	TypeLand        PropertyType = "land"
)

// Locales is the fixed set of content languages, in display order.
var Locales = []string{"en", "de", "es"}

func IsLocale(s string) bool {
	for _, l := range Locales {
		if l == s {
			return true
		}
	}
	return false
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Property struct {
	ID           string
	Slug         string
	Status       Status
	Type         PropertyType
	Year         *int
	Price        float64
	Bedrooms     *int
	Bathrooms    *int
	Area         *float64
	Location     string
	Coordinates  *Coordinates
	Featured     bool
	Images       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Translations []PropertyTranslation
}

type PropertyTranslation struct {
	ID          string
	PropertyID  string
	Locale      string // en|de|es
	Title       string
	Description string
	Subtitle    *string
	Features    []string
}

// Translation returns the row for locale, if the property carries one.
func (p Property) Translation(locale string) (PropertyTranslation, bool) {
	for _, t := range p.Translations {
		if t.Locale == locale {
			return t, true
		}
	}
	return PropertyTranslation{}, false
}
