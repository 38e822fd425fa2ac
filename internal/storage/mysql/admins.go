package mysql

import (
	"context"
	"database/sql"
	"errors"

	"lion_estate/internal/domain"
)

func (r *Repo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.db.ExecContext(ctx, insertAdminSQL, a.ID, a.Email, a.PasswordHash, valStr(a.Name), a.CreatedAt)
	return mapDup(err, "admin "+a.Email)
}

func (r *Repo) FindAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	return r.findAdmin(ctx, findAdminByEmailSQL, email)
}

func (r *Repo) FindAdminByID(ctx context.Context, id string) (domain.Admin, error) {
	return r.findAdmin(ctx, findAdminByIDSQL, id)
}

func (r *Repo) findAdmin(ctx context.Context, query, arg string) (domain.Admin, error) {
	var (
		a    domain.Admin
		name sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &name, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Admin{}, err
	}
	if name.Valid {
		n := name.String
		a.Name = &n
	}
	return a, nil
}
