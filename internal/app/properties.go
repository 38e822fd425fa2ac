package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lion_estate/internal/domain"
)

type PropertyService struct {
	repo          domain.PropertyRepository
	cache         domain.Cache
	cacheTTL      time.Duration
	defaultLocale string
	newID         func() string
	now           func() time.Time
}

// NewPropertyService wires the repository and an optional read cache
// (nil disables caching).
func NewPropertyService(r domain.PropertyRepository, c domain.Cache, ttl time.Duration, defaultLocale string) *PropertyService {
	if !domain.IsLocale(defaultLocale) {
		defaultLocale = domain.Locales[0]
	}
	return &PropertyService{
		repo:          r,
		cache:         c,
		cacheTTL:      ttl,
		defaultLocale: defaultLocale,
		newID:         func() string { return uuid.NewString() },
		now:           func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Locale maps an arbitrary request value onto a supported locale.
func (s *PropertyService) Locale(l string) string {
	l = strings.ToLower(strings.TrimSpace(l))
	if domain.IsLocale(l) {
		return l
	}
	return s.defaultLocale
}

/********** reads **********/

func (s *PropertyService) List(ctx context.Context, q domain.ListQuery) ([]domain.Property, error) {
	q.Locale = s.Locale(q.Locale)
	key := listKey(q.Locale, q.IncludeTranslations)
	var out []domain.Property
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	out, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	if out == nil {
		out = []domain.Property{}
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

func (s *PropertyService) Get(ctx context.Context, id, locale string) (domain.Property, error) {
	locale = s.Locale(locale)
	key := idKey(id, locale)
	var p domain.Property
	if s.cacheGet(ctx, key, &p) {
		return p, nil
	}
	p, err := s.repo.GetByID(ctx, id, locale)
	if err != nil {
		return domain.Property{}, err
	}
	s.cacheSet(ctx, key, p)
	return p, nil
}

func (s *PropertyService) GetBySlug(ctx context.Context, slug, locale string) (domain.Property, error) {
	locale = s.Locale(locale)
	key := slugKey(slug, locale)
	var p domain.Property
	if s.cacheGet(ctx, key, &p) {
		return p, nil
	}
	p, err := s.repo.GetBySlug(ctx, slug, locale)
	if err != nil {
		return domain.Property{}, err
	}
	s.cacheSet(ctx, key, p)
	return p, nil
}

/********** writes **********/

// Create stores the property and all of its translations, returning the
// stored record with every locale attached.
func (s *PropertyService) Create(ctx context.Context, in PropertyInput) (domain.Property, error) {
	if err := in.Validate(true); err != nil {
		return domain.Property{}, err
	}
	p := mapProperty(s.newID(), in, s.now(), s.newID)
	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Property{}, fmt.Errorf("create property %q: %w", p.Slug, err)
	}
	s.invalidate(ctx, p.ID, p.Slug)
	return s.repo.GetWithAllTranslations(ctx, p.ID)
}

// Update overwrites shared fields and upserts the supplied locales; locales
// missing from in keep their stored rows.
func (s *PropertyService) Update(ctx context.Context, id string, in PropertyInput) (domain.Property, error) {
	if err := in.Validate(false); err != nil {
		return domain.Property{}, err
	}
	existing, err := s.repo.GetByID(ctx, id, s.defaultLocale)
	if err != nil {
		return domain.Property{}, err
	}
	p := mapProperty(id, in, s.now(), s.newID)
	p.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, p); err != nil {
		return domain.Property{}, fmt.Errorf("update property %s: %w", id, err)
	}
	s.invalidate(ctx, id, existing.Slug, p.Slug)
	return s.repo.GetWithAllTranslations(ctx, id)
}

func (s *PropertyService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id, s.defaultLocale)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	s.invalidate(ctx, id, existing.Slug)
	return nil
}

/********** cache **********/

func listKey(locale string, incl bool) string { return fmt.Sprintf("properties:%s:%t", locale, incl) }
func idKey(id, locale string) string         { return fmt.Sprintf("property:id:%s:%s", id, locale) }
func slugKey(slug, locale string) string     { return fmt.Sprintf("property:slug:%s:%s", slug, locale) }

func (s *PropertyService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *PropertyService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// invalidate drops every list and every detail entry a mutation of id can
// affect, across all locales.
func (s *PropertyService) invalidate(ctx context.Context, id string, slugs ...string) {
	if s.cache == nil {
		return
	}
	var keys []string
	for _, l := range domain.Locales {
		keys = append(keys, listKey(l, true), listKey(l, false), idKey(id, l))
		for _, sl := range slugs {
			keys = append(keys, slugKey(sl, l))
		}
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("cache invalidation failed")
	}
}
