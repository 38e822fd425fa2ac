package app

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"lion_estate/internal/domain"
)

/********** flexible numbers (admin forms post numbers as strings) **********/

// FlexFloat accepts a JSON number, a numeric string, "" or null.
// "" and null leave it unset; anything unparseable marks it Invalid so the
// validator can report the field instead of failing the whole decode.
type FlexFloat struct {
	Value   float64
	Set     bool
	Invalid bool
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat{}
	s, ok := flexText(b)
	if !ok {
		f.Invalid = true
		return nil
	}
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		f.Invalid = true
		return nil
	}
	f.Value, f.Set = v, true
	return nil
}

func (f FlexFloat) Ptr() *float64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// FlexInt is FlexFloat restricted to whole numbers.
type FlexInt struct {
	Value   int
	Set     bool
	Invalid bool
}

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	var f FlexFloat
	_ = f.UnmarshalJSON(b)
	*n = FlexInt{Invalid: f.Invalid}
	if !f.Set {
		return nil
	}
	if f.Value != math.Trunc(f.Value) || math.Abs(f.Value) > math.MaxInt32 {
		n.Invalid = true
		return nil
	}
	n.Value, n.Set = int(f.Value), true
	return nil
}

func (n FlexInt) Ptr() *int {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}

// flexText unwraps a JSON scalar into trimmed text; ok is false for
// objects, arrays and booleans.
func flexText(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		return "", true
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		return string(b), true
	}
	return "", false
}

/********** input -> domain **********/

func ptrStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// mapProperty builds the domain record for in. Translation ids are minted
// per row; on update they only matter for locales that are new.
func mapProperty(id string, in PropertyInput, now time.Time, newID func() string) domain.Property {
	p := domain.Property{
		ID:          id,
		Slug:        strings.TrimSpace(in.Slug),
		Status:      domain.Status(in.Status),
		Type:        domain.PropertyType(in.Type),
		Year:        in.Year.Ptr(),
		Price:       in.Price.Value,
		Bedrooms:    in.Bedrooms.Ptr(),
		Bathrooms:   in.Bathrooms.Ptr(),
		Area:        in.Area.Ptr(),
		Location:    strings.TrimSpace(in.Location),
		Coordinates: in.Coordinates,
		Featured:    in.Featured,
		Images:      cleanStrings(in.Images),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// Stable locale order keeps inserts and responses deterministic.
	for _, loc := range domain.Locales {
		tr, ok := in.Translations[loc]
		if !ok {
			continue
		}
		p.Translations = append(p.Translations, domain.PropertyTranslation{
			ID:          newID(),
			PropertyID:  id,
			Locale:      loc,
			Title:       strings.TrimSpace(tr.Title),
			Description: strings.TrimSpace(tr.Description),
			Subtitle:    ptrStr(tr.Subtitle),
			Features:    cleanStrings(tr.Features),
		})
	}
	return p
}
