package app_test

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"lion_estate/internal/domain"
)

// ---- in-memory property repo with the storage-layer rules ----

type memRepo struct {
	mu    sync.Mutex
	props map[string]domain.Property
	// translations keyed by (propertyID, locale)
	trs   map[[2]string]domain.PropertyTranslation
	calls map[string]int
}

func newMemRepo() *memRepo {
	return &memRepo{
		props: map[string]domain.Property{},
		trs:   map[[2]string]domain.PropertyTranslation{},
		calls: map[string]int{},
	}
}

func (m *memRepo) slugTaken(slug, exceptID string) bool {
	for id, p := range m.props {
		if p.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (m *memRepo) Create(ctx context.Context, p domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Create"]++
	if m.slugTaken(p.Slug, "") {
		return domain.ErrConflict
	}
	for _, t := range p.Translations {
		m.trs[[2]string{p.ID, t.Locale}] = t
	}
	p.Translations = nil
	m.props[p.ID] = p
	return nil
}

func (m *memRepo) Update(ctx context.Context, p domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Update"]++
	if _, ok := m.props[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if m.slugTaken(p.Slug, p.ID) {
		return domain.ErrConflict
	}
	for _, t := range p.Translations {
		k := [2]string{p.ID, t.Locale}
		if old, ok := m.trs[k]; ok {
			t.ID = old.ID
		}
		m.trs[k] = t
	}
	p.Translations = nil
	m.props[p.ID] = p
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.props[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.props, id)
	for k := range m.trs {
		if k[0] == id {
			delete(m.trs, k)
		}
	}
	return nil
}

func (m *memRepo) withLocale(p domain.Property, locale string) domain.Property {
	p.Translations = []domain.PropertyTranslation{}
	if t, ok := m.trs[[2]string{p.ID, locale}]; ok {
		p.Translations = append(p.Translations, t)
	}
	return p
}

func (m *memRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["List"]++
	out := make([]domain.Property, 0, len(m.props))
	for _, p := range m.props {
		if q.IncludeTranslations {
			p = m.withLocale(p, q.Locale)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) GetByID(ctx context.Context, id, locale string) (domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["GetByID"]++
	p, ok := m.props[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return m.withLocale(p, locale), nil
}

func (m *memRepo) GetBySlug(ctx context.Context, slug, locale string) (domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["GetBySlug"]++
	for _, p := range m.props {
		if p.Slug == slug {
			return m.withLocale(p, locale), nil
		}
	}
	return domain.Property{}, domain.ErrNotFound
}

func (m *memRepo) GetWithAllTranslations(ctx context.Context, id string) (domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.props[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	p.Translations = []domain.PropertyTranslation{}
	for _, l := range domain.Locales {
		if t, ok := m.trs[[2]string{id, l}]; ok {
			p.Translations = append(p.Translations, t)
		}
	}
	return p, nil
}

func (m *memRepo) translationCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.trs {
		if k[0] == id {
			n++
		}
	}
	return n
}

// ---- JSON round-tripping cache, like the Redis adapter ----

type fakeCache struct {
	store map[string][]byte
	ttls  map[string]time.Duration
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	if c.ttls == nil {
		c.ttls = map[string]time.Duration{}
	}
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.store, k)
	}
	c.dels = append(c.dels, keys...)
	return nil
}

// ---- admins ----

type memAdmins struct {
	byID map[string]domain.Admin
}

func (m *memAdmins) CreateAdmin(ctx context.Context, a domain.Admin) error {
	if m.byID == nil {
		m.byID = map[string]domain.Admin{}
	}
	for _, x := range m.byID {
		if x.Email == a.Email {
			return domain.ErrConflict
		}
	}
	m.byID[a.ID] = a
	return nil
}

func (m *memAdmins) FindAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	for _, a := range m.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Admin{}, domain.ErrNotFound
}

func (m *memAdmins) FindAdminByID(ctx context.Context, id string) (domain.Admin, error) {
	a, ok := m.byID[id]
	if !ok {
		return domain.Admin{}, domain.ErrNotFound
	}
	return a, nil
}

func ptr[T any](v T) *T { return &v }
