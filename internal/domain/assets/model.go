package assets

import "time"

type Unit string

const (
	UnitPcs Unit = "pcs"
	UnitSet Unit = "set"
)

type Asset struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Number     string    `json:"number"` // inventory number
	CategoryID int64     `json:"category_id"`
	Category   string    `json:"category,omitempty"` // category name, for display
	Unit       Unit      `json:"unit"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}
