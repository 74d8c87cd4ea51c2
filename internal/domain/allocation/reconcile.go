package allocation

import (
	"fmt"
	"sort"
)

// ValidateEdit checks a full replacement draft for one owner against the
// batches it touches and, when the draft is acceptable, expresses it as a
// diff over the owner's existing rows.
//
// Validating each draft row directly against remaining_quantity would
// wrongly reject edits that merely keep or shrink the owner's own current
// usage, because remaining_quantity already excludes that usage. The correct
// ceiling per batch is
//
//	trueLimit = remaining + originalUsage(owner)
//
// remaining holds remaining_quantity for every batch the validator may see;
// a draft row referencing a batch absent from the map fails validation.
// Batches are checked in ascending id order so the reported offender is
// deterministic.
func ValidateEdit(remaining map[int64]int64, original []Row, draft Draft) (Diff, error) {
	rows, err := normalizeDraft(draft.Rows)
	if err != nil {
		return Diff{}, err
	}

	originalUsage := make(map[int64]int64, len(original))
	byID := make(map[int64]Row, len(original))
	for _, r := range original {
		originalUsage[r.BatchID] += r.Quantity
		byID[r.ID] = r
	}

	requested := make(map[int64]int64, len(rows))
	var total int64
	for _, r := range rows {
		requested[r.BatchID] += r.Quantity
		total += r.Quantity
	}

	for _, batchID := range sortedKeys(requested) {
		rem, ok := remaining[batchID]
		if !ok {
			return Diff{}, &ValidationError{Field: "batch_id", Reason: fmt.Sprintf("unknown batch %d", batchID)}
		}
		trueLimit := rem + originalUsage[batchID]
		if requested[batchID] > trueLimit {
			return Diff{}, &OverAllocationError{BatchID: batchID, TrueLimit: trueLimit, Requested: requested[batchID]}
		}
	}

	if draft.TargetQuantity > 0 && total > draft.TargetQuantity {
		return Diff{}, &ValidationError{
			Field:  "quantity",
			Reason: fmt.Sprintf("total %d exceeds allocation target %d", total, draft.TargetQuantity),
		}
	}

	diff := Diff{DeltaByBatch: map[int64]int64{}}
	seen := make(map[int64]bool, len(rows))
	for _, r := range rows {
		if r.ID == 0 {
			diff.Insert = append(diff.Insert, Row{BatchID: r.BatchID, Quantity: r.Quantity, SerialNumber: r.SerialNumber})
			continue
		}
		old, ok := byID[r.ID]
		if !ok {
			return Diff{}, fmt.Errorf("row %d: %w", r.ID, ErrNotFound)
		}
		seen[r.ID] = true
		if old.BatchID != r.BatchID || old.Quantity != r.Quantity || old.SerialNumber != r.SerialNumber {
			diff.Update = append(diff.Update, RowChange{
				ID:           r.ID,
				OldQuantity:  old.Quantity,
				BatchID:      r.BatchID,
				Quantity:     r.Quantity,
				SerialNumber: r.SerialNumber,
			})
		}
	}
	for _, r := range original {
		if !seen[r.ID] {
			diff.Remove = append(diff.Remove, r)
		}
	}

	for id, q := range requested {
		if d := q - originalUsage[id]; d != 0 {
			diff.DeltaByBatch[id] = d
		}
	}
	for id, q := range originalUsage {
		if _, ok := requested[id]; !ok && q != 0 {
			diff.DeltaByBatch[id] = -q
		}
	}

	return diff, nil
}

// normalizeDraft applies the row-acceptance policy: a row with a batch but an
// empty or zero quantity is dropped silently (treated as "not requested"),
// a fully empty row is dropped, and a row with a quantity but no batch
// selected is an error. Negative quantities never pass.
func normalizeDraft(rows []DraftRow) ([]DraftRow, error) {
	out := rows[:0:0]
	for i, r := range rows {
		if r.Quantity < 0 {
			return nil, &ValidationError{Field: "quantity", Reason: fmt.Sprintf("row %d: must not be negative", i)}
		}
		if r.BatchID == 0 {
			if r.Quantity == 0 {
				continue
			}
			return nil, &ValidationError{Field: "batch_id", Reason: fmt.Sprintf("row %d: batch required", i)}
		}
		if r.Quantity == 0 {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func sortedKeys(m map[int64]int64) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
