package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"lion_estate/internal/domain"
)

func propertyArgs(p domain.Property) ([]any, error) {
	imgs, err := valJSON(p.Images)
	if err != nil {
		return nil, err
	}
	var coords any
	if p.Coordinates != nil {
		if coords, err = valJSON(p.Coordinates); err != nil {
			return nil, err
		}
	}
	return []any{
		p.Slug,
		string(p.Status),
		string(p.Type),
		valInt(p.Year),
		p.Price,
		valInt(p.Bedrooms),
		valInt(p.Bathrooms),
		valF64(p.Area),
		p.Location,
		coords,
		p.Featured,
		imgs,
	}, nil
}

// Create inserts the property and its translations in one transaction.
func (r *Repo) Create(ctx context.Context, p domain.Property) error {
	shared, err := propertyArgs(p)
	if err != nil {
		return err
	}
	args := append([]any{p.ID}, shared...)
	args = append(args, p.CreatedAt, p.UpdatedAt)

	return r.withTx(ctx, func(tx dbtx) error {
		if _, err := tx.ExecContext(ctx, insertPropertySQL, args...); err != nil {
			return mapDup(err, "slug "+p.Slug)
		}
		return upsertTranslations(ctx, tx, p.ID, p.Translations)
	})
}

// Update overwrites the shared columns and upserts the given translations.
// Locales not present in p.Translations are left alone.
func (r *Repo) Update(ctx context.Context, p domain.Property) error {
	shared, err := propertyArgs(p)
	if err != nil {
		return err
	}
	args := append(shared, p.UpdatedAt, p.ID)

	return r.withTx(ctx, func(tx dbtx) error {
		var id string
		if err := tx.QueryRowContext(ctx, lockPropertySQL, p.ID).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, updatePropertySQL, args...); err != nil {
			return mapDup(err, "slug "+p.Slug)
		}
		return upsertTranslations(ctx, tx, p.ID, p.Translations)
	})
}

func upsertTranslations(ctx context.Context, tx dbtx, propertyID string, trs []domain.PropertyTranslation) error {
	if len(trs) == 0 {
		return nil
	}
	values, args, err := translationValues(propertyID, trs)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, insertTranslationsPrefix+values+upsertTranslationsOnDup, args...)
	return err
}

// Delete removes the property; translation rows go with it via the
// ON DELETE CASCADE foreign key.
func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deletePropertySQL, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context, q domain.ListQuery) ([]domain.Property, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q.IncludeTranslations {
		rows, err = r.db.QueryContext(ctx, listWithTranslationSQL, q.Locale)
	} else {
		rows, err = r.db.QueryContext(ctx, listBareSQL)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows, q.IncludeTranslations)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id, locale string) (domain.Property, error) {
	return r.getOne(ctx, getByIDSQL, locale, id)
}

func (r *Repo) GetBySlug(ctx context.Context, slug, locale string) (domain.Property, error) {
	return r.getOne(ctx, getBySlugSQL, locale, slug)
}

func (r *Repo) getOne(ctx context.Context, query string, args ...any) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, query, args...), true)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, err
}

// GetWithAllTranslations returns the property with every stored locale.
func (r *Repo) GetWithAllTranslations(ctx context.Context, id string) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, getBareByIDSQL, id), false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Property{}, domain.ErrNotFound
		}
		return domain.Property{}, err
	}

	rows, err := r.db.QueryContext(ctx, listTranslationsSQL, id)
	if err != nil {
		return domain.Property{}, err
	}
	defer rows.Close()

	p.Translations = []domain.PropertyTranslation{}
	for rows.Next() {
		var (
			tr       = domain.PropertyTranslation{PropertyID: id, Features: []string{}}
			subtitle sql.NullString
			features []byte
		)
		if err := rows.Scan(&tr.ID, &tr.Locale, &tr.Title, &tr.Description, &subtitle, &features); err != nil {
			return domain.Property{}, err
		}
		if subtitle.Valid {
			s := subtitle.String
			tr.Subtitle = &s
		}
		if len(features) > 0 {
			if err := json.Unmarshal(features, &tr.Features); err != nil {
				return domain.Property{}, err
			}
		}
		p.Translations = append(p.Translations, tr)
	}
	if err := rows.Err(); err != nil {
		return domain.Property{}, err
	}
	return p, nil
}
