package valuation

import "github.com/Spok95/asset-ledger/internal/domain/batches"

// TotalValue is the cost basis of everything ever purchased: quantity times
// purchase price per lot. It does not change when allocations move around.
func TotalValue(lots []batches.Batch) float64 {
	var sum float64
	for _, b := range lots {
		sum += float64(b.Quantity) * b.PurchasePrice
	}
	return sum
}

// RemainingValue prices the unallocated portion of each lot at that lot's
// purchase price.
func RemainingValue(lots []batches.Batch) float64 {
	var sum float64
	for _, b := range lots {
		sum += float64(b.RemainingQuantity) * b.PurchasePrice
	}
	return sum
}

// AssignedValue sums the batch-costed value of allocation rows.
func AssignedValue(rows []AllocationRow) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Value()
	}
	return sum
}

// GroupValue folds rows into per-key quantity/value totals.
func GroupValue(rows []AllocationRow, key func(AllocationRow) int64) map[int64]GroupTotal {
	out := make(map[int64]GroupTotal)
	for _, r := range rows {
		k := key(r)
		g := out[k]
		g.GroupID = k
		g.Quantity += r.Quantity
		g.Value += r.Value()
		out[k] = g
	}
	return out
}
