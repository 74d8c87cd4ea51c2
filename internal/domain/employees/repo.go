package employees

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, fullName, personnelNumber string, departmentID *int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO employees (full_name, personnel_number, department_id)
		VALUES ($1,$2,$3)
		RETURNING id, full_name, personnel_number, department_id, active, created_at
	`, fullName, personnelNumber, departmentID)

	var e Employee
	if err := row.Scan(&e.ID, &e.FullName, &e.PersonnelNumber, &e.DepartmentID, &e.Active, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, personnel_number, department_id, active, created_at
		FROM employees WHERE id = $1
	`, id)

	var e Employee
	if err := row.Scan(&e.ID, &e.FullName, &e.PersonnelNumber, &e.DepartmentID, &e.Active, &e.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repo) List(ctx context.Context, onlyActive bool) ([]Employee, error) {
	q := `
		SELECT id, full_name, personnel_number, department_id, active, created_at
		FROM employees
	`
	if onlyActive {
		q += " WHERE active = TRUE"
	}
	q += " ORDER BY full_name"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.FullName, &e.PersonnelNumber, &e.DepartmentID, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) SetDepartment(ctx context.Context, id int64, departmentID *int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE employees SET department_id=$2 WHERE id=$1
		RETURNING id, full_name, personnel_number, department_id, active, created_at
	`, id, departmentID)

	var e Employee
	if err := row.Scan(&e.ID, &e.FullName, &e.PersonnelNumber, &e.DepartmentID, &e.Active, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) SetActive(ctx context.Context, id int64, active bool) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE employees SET active=$2 WHERE id=$1
		RETURNING id, full_name, personnel_number, department_id, active, created_at
	`, id, active)

	var e Employee
	if err := row.Scan(&e.ID, &e.FullName, &e.PersonnelNumber, &e.DepartmentID, &e.Active, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
