package batches

import "time"

// Batch is one purchase lot of an asset: a fixed price, a fixed quantity
// and a remaining pool that allocations draw from.
type Batch struct {
	ID                int64     `json:"id"`
	AssetID           int64     `json:"asset_id"`
	PurchasePrice     float64   `json:"purchase_price"`
	Quantity          int64     `json:"quantity"`
	RemainingQuantity int64     `json:"remaining_quantity"`
	PurchaseDate      time.Time `json:"purchase_date"`
	Name              string    `json:"name,omitempty"`
	Remarks           string    `json:"remarks,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Untouched reports whether nothing has ever been allocated from the batch.
func (b Batch) Untouched() bool { return b.RemainingQuantity == b.Quantity }

// TotalCost is quantity times purchase price for the whole lot.
func (b Batch) TotalCost() float64 { return float64(b.Quantity) * b.PurchasePrice }
