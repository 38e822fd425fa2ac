package domain

import (
	"context"
	"io"
	"time"
)

type AdminRepository interface {
	CreateAdmin(ctx context.Context, a Admin) error
	FindAdminByEmail(ctx context.Context, email string) (Admin, error)
	FindAdminByID(ctx context.Context, id string) (Admin, error)
}

type PropertyRepository interface {
	// Write paths; Create and Update are atomic with their translation rows.
	Create(ctx context.Context, p Property) error
	Update(ctx context.Context, p Property) error
	Delete(ctx context.Context, id string) error

	// Read paths; locale selects the single translation row joined in.
	List(ctx context.Context, q ListQuery) ([]Property, error)
	GetByID(ctx context.Context, id, locale string) (Property, error)
	GetBySlug(ctx context.Context, slug, locale string) (Property, error)
	GetWithAllTranslations(ctx context.Context, id string) (Property, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ImageStore persists an uploaded image and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, body io.ReadSeeker, size int64) (string, error)
}

type ListQuery struct {
	Locale              string
	IncludeTranslations bool
}
