package assets

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, name, number string, categoryID int64, unit Unit) (*Asset, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO assets (name, number, category_id, unit, active)
		VALUES ($1,$2,$3,$4,TRUE)
		RETURNING id, name, number, category_id, unit, active, created_at
	`, name, number, categoryID, unit)

	var a Asset
	if err := row.Scan(&a.ID, &a.Name, &a.Number, &a.CategoryID, &a.Unit, &a.Active, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Asset, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT a.id, a.name, a.number, a.category_id, COALESCE(c.name,''), a.unit, a.active, a.created_at
		FROM assets a
		LEFT JOIN asset_categories c ON c.id = a.category_id
		WHERE a.id = $1
	`, id)
	var a Asset
	if err := row.Scan(&a.ID, &a.Name, &a.Number, &a.CategoryID, &a.Category, &a.Unit, &a.Active, &a.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repo) UpdateName(ctx context.Context, id int64, name string) (*Asset, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE assets SET name=$2 WHERE id=$1
		RETURNING id, name, number, category_id, unit, active, created_at
	`, id, name)
	var a Asset
	if err := row.Scan(&a.ID, &a.Name, &a.Number, &a.CategoryID, &a.Unit, &a.Active, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) SetActive(ctx context.Context, id int64, active bool) (*Asset, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE assets SET active=$2 WHERE id=$1
		RETURNING id, name, number, category_id, unit, active, created_at
	`, id, active)
	var a Asset
	if err := row.Scan(&a.ID, &a.Name, &a.Number, &a.CategoryID, &a.Unit, &a.Active, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repo) List(ctx context.Context, onlyActive bool) ([]Asset, error) {
	q := `
		SELECT a.id, a.name, a.number, a.category_id, COALESCE(c.name,''), a.unit, a.active, a.created_at
		FROM assets a
		LEFT JOIN asset_categories c ON c.id = a.category_id
	`
	if onlyActive {
		q += " WHERE a.active = TRUE"
	}
	q += " ORDER BY c.name, a.name"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Number, &a.CategoryID, &a.Category, &a.Unit, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SearchByName matches by name or inventory number, case-insensitive.
func (r *Repo) SearchByName(ctx context.Context, q string, onlyActive bool) ([]Asset, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}
	like := "%" + strings.ToLower(q) + "%"

	base := `
		SELECT a.id, a.name, a.number, a.category_id, COALESCE(c.name,''), a.unit, a.active, a.created_at
		FROM assets a
		LEFT JOIN asset_categories c ON c.id = a.category_id
		WHERE LOWER(a.name) LIKE $1 OR LOWER(a.number) LIKE $1
	`

	var rows pgx.Rows
	var err error
	if onlyActive {
		rows, err = r.pool.Query(ctx, base+` AND a.active = TRUE ORDER BY c.name, a.name`, like)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY c.name, a.name`, like)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Number, &a.CategoryID, &a.Category, &a.Unit, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) ListByCategory(ctx context.Context, categoryID int64) ([]Asset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, number, category_id, unit, active, created_at
		FROM assets
		WHERE category_id = $1
		ORDER BY name
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Number, &a.CategoryID, &a.Unit, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
