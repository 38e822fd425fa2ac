package httpserver_test

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"lion_estate/internal/domain"
)

// memRepo keeps properties and translation rows apart, like the SQL schema.
type memRepo struct {
	mu    sync.Mutex
	props map[string]domain.Property
	trs   map[[2]string]domain.PropertyTranslation
}

func newMemRepo() *memRepo {
	return &memRepo{props: map[string]domain.Property{}, trs: map[[2]string]domain.PropertyTranslation{}}
}

func (m *memRepo) Create(_ context.Context, p domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.props {
		if x.Slug == p.Slug {
			return domain.ErrConflict
		}
	}
	m.put(p)
	return nil
}

func (m *memRepo) Update(_ context.Context, p domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.props[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, x := range m.props {
		if x.Slug == p.Slug && id != p.ID {
			return domain.ErrConflict
		}
	}
	m.put(p)
	return nil
}

func (m *memRepo) put(p domain.Property) {
	for _, t := range p.Translations {
		k := [2]string{p.ID, t.Locale}
		if old, ok := m.trs[k]; ok {
			t.ID = old.ID
		}
		m.trs[k] = t
	}
	p.Translations = nil
	m.props[p.ID] = p
}

func (m *memRepo) Delete(_ context.Context, id string) error {
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

func (m *memRepo) List(_ context.Context, q domain.ListQuery) ([]domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m *memRepo) GetByID(_ context.Context, id, locale string) (domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.props[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return m.withLocale(p, locale), nil
}

func (m *memRepo) GetBySlug(_ context.Context, slug, locale string) (domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.props {
		if p.Slug == slug {
			return m.withLocale(p, locale), nil
		}
	}
	return domain.Property{}, domain.ErrNotFound
}

func (m *memRepo) GetWithAllTranslations(_ context.Context, id string) (domain.Property, error) {
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

type memAdmins struct {
	mu   sync.Mutex
	byID map[string]domain.Admin
}

func (m *memAdmins) CreateAdmin(_ context.Context, a domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m *memAdmins) FindAdminByEmail(_ context.Context, email string) (domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Admin{}, domain.ErrNotFound
}

func (m *memAdmins) FindAdminByID(_ context.Context, id string) (domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.Admin{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *memAdmins) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

// memImages records saved uploads.
type memImages struct {
	mu    sync.Mutex
	saved map[string][]byte
	types map[string]string
	err   error
}

func (m *memImages) Save(_ context.Context, filename, contentType string, body io.ReadSeeker, _ int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = map[string][]byte{}
		m.types = map[string]string{}
	}
	m.saved[filename] = buf.Bytes()
	m.types[filename] = contentType
	return "/uploads/properties/" + filename, nil
}
