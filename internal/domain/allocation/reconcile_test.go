package allocation

import (
	"errors"
	"testing"
)

func TestValidateEditGrowWithinTrueLimit(t *testing.T) {
	// Batch 1: quantity 10, 4 already held by this station, remaining 6.
	// Requesting 6 is fine: trueLimit = 6 + 4 = 10.
	remaining := map[int64]int64{1: 6}
	original := []Row{{ID: 11, BatchID: 1, Quantity: 4}}
	draft := Draft{Rows: []DraftRow{{ID: 11, BatchID: 1, Quantity: 6}}}

	diff, err := ValidateEdit(remaining, original, draft)
	if err != nil {
		t.Fatalf("ValidateEdit: %v", err)
	}
	if len(diff.Update) != 1 || diff.Update[0].ID != 11 || diff.Update[0].Quantity != 6 || diff.Update[0].OldQuantity != 4 {
		t.Fatalf("unexpected update set: %+v", diff.Update)
	}
	if len(diff.Remove) != 0 || len(diff.Insert) != 0 {
		t.Fatalf("unexpected remove/insert: %+v", diff)
	}
	if diff.DeltaByBatch[1] != 2 {
		t.Fatalf("delta for batch 1 = %d, want 2", diff.DeltaByBatch[1])
	}
}

func TestValidateEditOverAllocation(t *testing.T) {
	// remaining=3, no prior usage, requesting 7 must fail with the batch id
	// and both numbers.
	remaining := map[int64]int64{1: 3}
	draft := Draft{Rows: []DraftRow{{BatchID: 1, Quantity: 7}}}

	_, err := ValidateEdit(remaining, nil, draft)
	var oe *OverAllocationError
	if !errors.As(err, &oe) {
		t.Fatalf("want OverAllocationError, got %v", err)
	}
	if oe.BatchID != 1 || oe.TrueLimit != 3 || oe.Requested != 7 {
		t.Fatalf("wrong error payload: %+v", oe)
	}
}

func TestValidateEditShrinkNeverRejected(t *testing.T) {
	// Shrinking a row must pass even with remaining 0.
	remaining := map[int64]int64{1: 0}
	original := []Row{{ID: 5, BatchID: 1, Quantity: 10}}
	draft := Draft{Rows: []DraftRow{{ID: 5, BatchID: 1, Quantity: 3}}}

	diff, err := ValidateEdit(remaining, original, draft)
	if err != nil {
		t.Fatalf("ValidateEdit: %v", err)
	}
	if diff.DeltaByBatch[1] != -7 {
		t.Fatalf("delta = %d, want -7", diff.DeltaByBatch[1])
	}
}

func TestValidateEditRemovedRowsReturnQuantity(t *testing.T) {
	remaining := map[int64]int64{1: 0, 2: 5}
	original := []Row{
		{ID: 1, BatchID: 1, Quantity: 4},
		{ID: 2, BatchID: 2, Quantity: 2},
	}
	// Row 1 dropped entirely, row 2 kept, one new row from batch 2.
	draft := Draft{Rows: []DraftRow{
		{ID: 2, BatchID: 2, Quantity: 2},
		{BatchID: 2, Quantity: 5},
	}}

	diff, err := ValidateEdit(remaining, original, draft)
	if err != nil {
		t.Fatalf("ValidateEdit: %v", err)
	}
	if len(diff.Remove) != 1 || diff.Remove[0].ID != 1 {
		t.Fatalf("remove set: %+v", diff.Remove)
	}
	if len(diff.Insert) != 1 || diff.Insert[0].BatchID != 2 || diff.Insert[0].Quantity != 5 {
		t.Fatalf("insert set: %+v", diff.Insert)
	}
	if len(diff.Update) != 0 {
		t.Fatalf("update set: %+v", diff.Update)
	}
	if diff.DeltaByBatch[1] != -4 || diff.DeltaByBatch[2] != 5 {
		t.Fatalf("deltas: %+v", diff.DeltaByBatch)
	}
}

func TestValidateEditZeroQuantityRowsDroppedSilently(t *testing.T) {
	// A row with a batch selected but no quantity is "not requested",
	// not an error.
	remaining := map[int64]int64{1: 5}
	draft := Draft{Rows: []DraftRow{
		{BatchID: 1, Quantity: 0},
		{BatchID: 1, Quantity: 2},
		{BatchID: 0, Quantity: 0},
	}}

	diff, err := ValidateEdit(remaining, nil, draft)
	if err != nil {
		t.Fatalf("ValidateEdit: %v", err)
	}
	if len(diff.Insert) != 1 || diff.Insert[0].Quantity != 2 {
		t.Fatalf("insert set: %+v", diff.Insert)
	}
}

func TestValidateEditBatchRequired(t *testing.T) {
	remaining := map[int64]int64{}
	draft := Draft{Rows: []DraftRow{{BatchID: 0, Quantity: 3}}}

	_, err := ValidateEdit(remaining, nil, draft)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "batch_id" {
		t.Fatalf("want batch_id ValidationError, got %v", err)
	}
}

func TestValidateEditNegativeQuantity(t *testing.T) {
	remaining := map[int64]int64{1: 5}
	draft := Draft{Rows: []DraftRow{{BatchID: 1, Quantity: -1}}}

	_, err := ValidateEdit(remaining, nil, draft)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "quantity" {
		t.Fatalf("want quantity ValidationError, got %v", err)
	}
}

func TestValidateEditUnknownBatch(t *testing.T) {
	remaining := map[int64]int64{1: 5}
	draft := Draft{Rows: []DraftRow{{BatchID: 99, Quantity: 1}}}

	_, err := ValidateEdit(remaining, nil, draft)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "batch_id" {
		t.Fatalf("want batch_id ValidationError, got %v", err)
	}
}

func TestValidateEditAggregateTarget(t *testing.T) {
	remaining := map[int64]int64{1: 10, 2: 10}
	draft := Draft{
		Rows: []DraftRow{
			{BatchID: 1, Quantity: 4},
			{BatchID: 2, Quantity: 3},
		},
		TargetQuantity: 6,
	}

	_, err := ValidateEdit(remaining, nil, draft)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "quantity" {
		t.Fatalf("want quantity ValidationError, got %v", err)
	}

	draft.TargetQuantity = 7
	if _, err := ValidateEdit(remaining, nil, draft); err != nil {
		t.Fatalf("within target: %v", err)
	}
}

func TestValidateEditDeterministicOffender(t *testing.T) {
	// Both batches overdrawn: the lower id is reported.
	remaining := map[int64]int64{7: 0, 3: 0}
	draft := Draft{Rows: []DraftRow{
		{BatchID: 7, Quantity: 1},
		{BatchID: 3, Quantity: 1},
	}}

	for i := 0; i < 20; i++ {
		_, err := ValidateEdit(remaining, nil, draft)
		var oe *OverAllocationError
		if !errors.As(err, &oe) {
			t.Fatalf("want OverAllocationError, got %v", err)
		}
		if oe.BatchID != 3 {
			t.Fatalf("offender = %d, want 3", oe.BatchID)
		}
	}
}

func TestValidateEditStaleRowID(t *testing.T) {
	remaining := map[int64]int64{1: 5}
	draft := Draft{Rows: []DraftRow{{ID: 42, BatchID: 1, Quantity: 1}}}

	_, err := ValidateEdit(remaining, nil, draft)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestValidateEditMoveBetweenBatches(t *testing.T) {
	// Moving a row's quantity from batch 1 to batch 2 returns to 1 and
	// consumes from 2 in one diff.
	remaining := map[int64]int64{1: 0, 2: 4}
	original := []Row{{ID: 9, BatchID: 1, Quantity: 3}}
	draft := Draft{Rows: []DraftRow{{ID: 9, BatchID: 2, Quantity: 3}}}

	diff, err := ValidateEdit(remaining, original, draft)
	if err != nil {
		t.Fatalf("ValidateEdit: %v", err)
	}
	if len(diff.Update) != 1 || diff.Update[0].BatchID != 2 {
		t.Fatalf("update set: %+v", diff.Update)
	}
	if diff.DeltaByBatch[1] != -3 || diff.DeltaByBatch[2] != 3 {
		t.Fatalf("deltas: %+v", diff.DeltaByBatch)
	}
}

func TestValidateEditNoChange(t *testing.T) {
	remaining := map[int64]int64{1: 2}
	original := []Row{{ID: 9, BatchID: 1, Quantity: 3, SerialNumber: "SN-1"}}
	draft := Draft{Rows: []DraftRow{{ID: 9, BatchID: 1, Quantity: 3, SerialNumber: "SN-1"}}}

	diff, err := ValidateEdit(remaining, original, draft)
	if err != nil {
		t.Fatalf("ValidateEdit: %v", err)
	}
	if !diff.Empty() {
		t.Fatalf("diff not empty: %+v", diff)
	}
	if len(diff.DeltaByBatch) != 0 {
		t.Fatalf("deltas: %+v", diff.DeltaByBatch)
	}
}
