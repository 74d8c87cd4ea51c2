package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

/* Stations */

func (r *Repo) CreateStation(ctx context.Context, name string, departmentID *int64) (*Station, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO stations (name, department_id) VALUES ($1,$2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, department_id, active, created_at
	`, name, departmentID)
	var s Station
	err := row.Scan(&s.ID, &s.Name, &s.DepartmentID, &s.Active, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return r.GetStationByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) GetStationByID(ctx context.Context, id int64) (*Station, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, department_id, active, created_at
		FROM stations WHERE id = $1
	`, id)
	var s Station
	if err := row.Scan(&s.ID, &s.Name, &s.DepartmentID, &s.Active, &s.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) GetStationByName(ctx context.Context, name string) (*Station, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, department_id, active, created_at
		FROM stations WHERE name = $1
	`, name)
	var s Station
	if err := row.Scan(&s.ID, &s.Name, &s.DepartmentID, &s.Active, &s.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) ListStations(ctx context.Context) ([]Station, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, department_id, active, created_at
		FROM stations
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Station
	for rows.Next() {
		var s Station
		if err := rows.Scan(&s.ID, &s.Name, &s.DepartmentID, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateStationName(ctx context.Context, id int64, name string) (*Station, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE stations SET name=$2 WHERE id=$1
		RETURNING id, name, department_id, active, created_at
	`, id, name)
	var s Station
	if err := row.Scan(&s.ID, &s.Name, &s.DepartmentID, &s.Active, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) SetStationActive(ctx context.Context, id int64, active bool) (*Station, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE stations SET active=$2 WHERE id=$1
		RETURNING id, name, department_id, active, created_at
	`, id, active)
	var s Station
	if err := row.Scan(&s.ID, &s.Name, &s.DepartmentID, &s.Active, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

/* Departments */

func (r *Repo) CreateDepartment(ctx context.Context, name string) (*Department, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO departments (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, active, created_at
	`, name)
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Active, &d.CreatedAt)
	if err == pgx.ErrNoRows {
		return r.getDepartmentByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) getDepartmentByName(ctx context.Context, name string) (*Department, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, active, created_at FROM departments WHERE name = $1
	`, name)
	var d Department
	if err := row.Scan(&d.ID, &d.Name, &d.Active, &d.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *Repo) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, active, created_at FROM departments ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Active, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

/* Categories */

func (r *Repo) CreateCategory(ctx context.Context, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO asset_categories (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, active, created_at
	`, name)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return r.GetCategoryByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) GetCategoryByName(ctx context.Context, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, active, created_at
		FROM asset_categories WHERE name = $1
	`, name)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, active, created_at
		FROM asset_categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateCategoryName(ctx context.Context, id int64, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE asset_categories SET name=$2 WHERE id=$1
		RETURNING id, name, active, created_at
	`, id, name)
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
