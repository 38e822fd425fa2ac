package app

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"lion_estate/internal/domain"
)

// PropertyInput is the admin create/update payload.
type PropertyInput struct {
	Slug         string                      `json:"slug" validate:"required,max=191,slug"`
	Status       string                      `json:"status" validate:"required,oneof=available sold leased under-management in-development"`
	Type         string                      `json:"type" validate:"required,oneof=residential commercial hospitality land"`
	Year         FlexInt                     `json:"year"`
	Price        FlexFloat                   `json:"price"`
	Bedrooms     FlexInt                     `json:"bedrooms"`
	Bathrooms    FlexInt                     `json:"bathrooms"`
	Area         FlexFloat                   `json:"area"`
	Location     string                      `json:"location" validate:"required,max=255"`
	Coordinates  *domain.Coordinates         `json:"coordinates"`
	Featured     bool                        `json:"featured"`
	Images       []string                    `json:"images" validate:"max=50,dive,max=2048"`
	Translations map[string]TranslationInput `json:"translations" validate:"dive,keys,locale,endkeys"`
}

type TranslationInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Subtitle    string   `json:"subtitle" validate:"max=255"`
	Features    []string `json:"features" validate:"max=100,dive,max=255"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,max=191"`
	Password string `json:"password" validate:"required,max=72"`
}

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		return domain.IsLocale(fl.Field().String())
	})
	return v
}

// Validate checks in; creating additionally requires at least one translation.
func (in PropertyInput) Validate(creating bool) error {
	ve := &domain.ValidationError{}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			ve.Add(fieldPath(fe), fieldMessage(fe))
		}
	}

	// the map tag only reaches the keys; values are checked one by one
	locales := make([]string, 0, len(in.Translations))
	for loc := range in.Translations {
		locales = append(locales, loc)
	}
	sort.Strings(locales)
	for _, loc := range locales {
		if err := validate.Struct(in.Translations[loc]); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				return err
			}
			for _, fe := range verrs {
				ve.Add("translations."+loc+"."+fieldPath(fe), fieldMessage(fe))
			}
		}
	}

	switch {
	case in.Price.Invalid:
		ve.Add("price", "must be a number")
	case !in.Price.Set:
		ve.Add("price", "is required")
	case in.Price.Value <= 0:
		ve.Add("price", "must be greater than 0")
	}
	checkInt(ve, "year", in.Year, 1000, 9999)
	checkInt(ve, "bedrooms", in.Bedrooms, 0, 1000)
	checkInt(ve, "bathrooms", in.Bathrooms, 0, 1000)
	if in.Area.Invalid {
		ve.Add("area", "must be a number")
	} else if in.Area.Set && in.Area.Value < 0 {
		ve.Add("area", "must not be negative")
	}
	if c := in.Coordinates; c != nil {
		if c.Lat < -90 || c.Lat > 90 {
			ve.Add("coordinates.lat", "must be between -90 and 90")
		}
		if c.Lng < -180 || c.Lng > 180 {
			ve.Add("coordinates.lng", "must be between -180 and 180")
		}
	}
	if creating && len(in.Translations) == 0 {
		ve.Add("translations", "at least one locale is required")
	}
	return ve.OrNil()
}

func (in LoginInput) Validate() error {
	ve := &domain.ValidationError{}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			ve.Add(fieldPath(fe), fieldMessage(fe))
		}
	}
	return ve.OrNil()
}

func checkInt(ve *domain.ValidationError, field string, n FlexInt, lo, hi int) {
	switch {
	case n.Invalid:
		ve.Add(field, "must be a whole number")
	case n.Set && (n.Value < lo || n.Value > hi):
		ve.Add(field, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
}

// fieldPath turns "PropertyInput.translations[de].title" into
// "translations.de.title".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "[", ".")
	return strings.ReplaceAll(ns, "]", "")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "slug":
		return "must contain only lowercase letters, digits and single hyphens"
	case "locale":
		return fmt.Sprintf("unsupported locale %q (want one of %s)", fe.Value(), strings.Join(domain.Locales, ", "))
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
