package catalog

import "time"

// Station is a physical location that can hold allocated assets. A station
// may belong to a department; standalone stations carry no department.
type Station struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
