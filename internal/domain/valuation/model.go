package valuation

import "time"

// AllocationRow is the flattened display projection of one allocation line:
// the owner it sits with, the batch it was drawn from, and that batch's own
// purchase price. Every report view consumes this one shape instead of
// re-flattening nested allocations itself.
type AllocationRow struct {
	OwnerKind     string    `json:"owner_kind"`
	OwnerID       int64     `json:"owner_id"`
	OwnerName     string    `json:"owner_name"`
	BatchID       int64     `json:"batch_id"`
	BatchName     string    `json:"batch_name,omitempty"`
	PurchasePrice float64   `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
	Quantity      int64     `json:"quantity"`
	SerialNumber  string    `json:"serial_number,omitempty"`
}

// Value prices the row at its own batch's purchase price. Batches of one
// asset may carry different prices, so an asset-level unit price would be
// wrong here.
func (r AllocationRow) Value() float64 { return float64(r.Quantity) * r.PurchasePrice }

// Summary holds the derived quantities and values of one asset.
type Summary struct {
	AssetID           int64   `json:"asset_id"`
	TotalQuantity     int64   `json:"total_quantity"`
	AssignedQuantity  int64   `json:"assigned_quantity"`
	RemainingQuantity int64   `json:"remaining_quantity"`
	TotalValue        float64 `json:"total_value"`
	AssignedValue     float64 `json:"assigned_value"`
	RemainingValue    float64 `json:"remaining_value"`
}

// GroupTotal is one row of a grouped valuation (by station, employee,
// department or category).
type GroupTotal struct {
	GroupID  int64   `json:"group_id"`
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Value    float64 `json:"value"`
}
