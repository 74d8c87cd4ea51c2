package employees

import "time"

type Employee struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"full_name"`
	PersonnelNumber string    `json:"personnel_number"`
	DepartmentID    *int64    `json:"department_id,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}
