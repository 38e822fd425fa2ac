package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"lion_estate/internal/domain"
)

// erDupEntry is MySQL's duplicate-key error number.
const erDupEntry = 1062

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// valJSON marshals v; nil slices are stored as [] so JSON columns stay NOT NULL.
func valJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

// mapDup turns a duplicate-key failure into domain.ErrConflict.
func mapDup(err error, what string) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == erDupEntry {
		return fmt.Errorf("%s already exists: %w", what, domain.ErrConflict)
	}
	return err
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// withTx runs fn in a transaction, committing only when fn succeeds.
func (r *Repo) withTx(ctx context.Context, fn func(tx dbtx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

type rowScanner interface{ Scan(dest ...any) error }

// scanProperty reads propertyCols, plus translationCols when withTr is set.
func scanProperty(s rowScanner, withTr bool) (domain.Property, error) {
	var (
		p                         domain.Property
		year, bedrooms, bathrooms sql.NullInt64
		area                      sql.NullFloat64
		coordsJSON, imagesJSON    []byte
		trID, trLocale, trTitle   sql.NullString
		trDesc, trSubtitle        sql.NullString
		trFeatures                []byte
	)
	dest := []any{
		&p.ID, &p.Slug, &p.Status, &p.Type, &year, &p.Price, &bedrooms, &bathrooms,
		&area, &p.Location, &coordsJSON, &p.Featured, &imagesJSON, &p.CreatedAt, &p.UpdatedAt,
	}
	if withTr {
		dest = append(dest, &trID, &trLocale, &trTitle, &trDesc, &trSubtitle, &trFeatures)
	}
	if err := s.Scan(dest...); err != nil {
		return domain.Property{}, err
	}

	p.Year = nullInt(year)
	p.Bedrooms = nullInt(bedrooms)
	p.Bathrooms = nullInt(bathrooms)
	if area.Valid {
		a := area.Float64
		p.Area = &a
	}
	if len(coordsJSON) > 0 && string(coordsJSON) != "null" {
		var c domain.Coordinates
		if err := json.Unmarshal(coordsJSON, &c); err != nil {
			return domain.Property{}, fmt.Errorf("decode coordinates of %s: %w", p.ID, err)
		}
		p.Coordinates = &c
	}
	p.Images = []string{}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return domain.Property{}, fmt.Errorf("decode images of %s: %w", p.ID, err)
		}
	}

	if withTr {
		p.Translations = []domain.PropertyTranslation{}
		if trID.Valid {
			tr := domain.PropertyTranslation{
				ID:          trID.String,
				PropertyID:  p.ID,
				Locale:      trLocale.String,
				Title:       trTitle.String,
				Description: trDesc.String,
				Features:    []string{},
			}
			if trSubtitle.Valid {
				s := trSubtitle.String
				tr.Subtitle = &s
			}
			if len(trFeatures) > 0 {
				if err := json.Unmarshal(trFeatures, &tr.Features); err != nil {
					return domain.Property{}, fmt.Errorf("decode features of %s/%s: %w", p.ID, tr.Locale, err)
				}
			}
			p.Translations = append(p.Translations, tr)
		}
	}
	return p, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// translationValues builds the VALUES list and args for a multi-row insert.
func translationValues(propertyID string, trs []domain.PropertyTranslation) (string, []any, error) {
	values := make([]string, 0, len(trs))
	args := make([]any, 0, len(trs)*7)
	for _, t := range trs {
		feats, err := valJSON(t.Features)
		if err != nil {
			return "", nil, err
		}
		values = append(values, "(?,?,?,?,?,?,?)")
		args = append(args, t.ID, propertyID, t.Locale, t.Title, t.Description, valStr(t.Subtitle), feats)
	}
	return strings.Join(values, ","), args, nil
}
