package batches

import "testing"

func TestUntouched(t *testing.T) {
	b := Batch{Quantity: 10, RemainingQuantity: 10}
	if !b.Untouched() {
		t.Fatalf("fresh batch must be untouched")
	}
	b.RemainingQuantity = 6
	if b.Untouched() {
		t.Fatalf("drawn-from batch must not be untouched")
	}
}

func TestTotalCost(t *testing.T) {
	b := Batch{Quantity: 10, PurchasePrice: 1000}
	if got := b.TotalCost(); got != 10000 {
		t.Fatalf("TotalCost = %v, want 10000", got)
	}
}
