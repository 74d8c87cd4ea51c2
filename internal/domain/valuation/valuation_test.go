package valuation

import (
	"testing"

	"github.com/Spok95/asset-ledger/internal/domain/batches"
)

func TestTotalValueBatchCosted(t *testing.T) {
	lots := []batches.Batch{
		{ID: 1, Quantity: 10, RemainingQuantity: 10, PurchasePrice: 1000},
		{ID: 2, Quantity: 5, RemainingQuantity: 5, PurchasePrice: 1200},
	}
	if got := TotalValue(lots); got != 16000 {
		t.Fatalf("TotalValue = %v, want 16000", got)
	}
}

func TestTotalValueInvariantUnderAllocation(t *testing.T) {
	lots := []batches.Batch{
		{ID: 1, Quantity: 10, RemainingQuantity: 10, PurchasePrice: 1000},
	}
	before := TotalValue(lots)

	// Allocate 4 units to a station: remaining drops, total must not.
	lots[0].RemainingQuantity -= 4
	rows := []AllocationRow{{BatchID: 1, PurchasePrice: 1000, Quantity: 4, OwnerKind: "station", OwnerID: 1}}

	if got := TotalValue(lots); got != before {
		t.Fatalf("TotalValue changed: %v -> %v", before, got)
	}
	if got := AssignedValue(rows); got != 4000 {
		t.Fatalf("AssignedValue = %v, want 4000", got)
	}
	if got := RemainingValue(lots); got != 6000 {
		t.Fatalf("RemainingValue = %v, want 6000", got)
	}
	if AssignedValue(rows)+RemainingValue(lots) != before {
		t.Fatalf("assigned + remaining != total")
	}
}

func TestAssignedValueUsesEachRowsBatchPrice(t *testing.T) {
	// Two batches of the same asset at different prices: never a single
	// asset-level unit price.
	rows := []AllocationRow{
		{BatchID: 1, PurchasePrice: 1000, Quantity: 2},
		{BatchID: 2, PurchasePrice: 1500, Quantity: 2},
	}
	if got := AssignedValue(rows); got != 5000 {
		t.Fatalf("AssignedValue = %v, want 5000", got)
	}
}

func TestGroupValue(t *testing.T) {
	rows := []AllocationRow{
		{OwnerKind: "station", OwnerID: 1, BatchID: 1, PurchasePrice: 100, Quantity: 3},
		{OwnerKind: "station", OwnerID: 1, BatchID: 2, PurchasePrice: 200, Quantity: 1},
		{OwnerKind: "station", OwnerID: 2, BatchID: 1, PurchasePrice: 100, Quantity: 5},
	}
	byStation := GroupValue(rows, func(r AllocationRow) int64 { return r.OwnerID })

	if g := byStation[1]; g.Quantity != 4 || g.Value != 500 {
		t.Fatalf("station 1: %+v", g)
	}
	if g := byStation[2]; g.Quantity != 5 || g.Value != 500 {
		t.Fatalf("station 2: %+v", g)
	}
}
