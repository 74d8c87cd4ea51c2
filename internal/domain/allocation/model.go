package allocation

import "time"

type OwnerKind string

const (
	OwnerStation  OwnerKind = "station"
	OwnerEmployee OwnerKind = "employee"
)

// Owner identifies whose allocation set is being read or edited.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   int64     `json:"id"`
}

// Row is one persisted batch-level line of an owner's allocation set.
type Row struct {
	ID           int64     `json:"id"`
	Owner        Owner     `json:"owner"`
	BatchID      int64     `json:"batch_id"`
	Quantity     int64     `json:"quantity"`
	SerialNumber string    `json:"serial_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DraftRow is one line of the edit form as submitted: batch may be unselected
// (0) and quantity may be empty (0). ID is 0 for rows added in this edit.
type DraftRow struct {
	ID           int64
	BatchID      int64
	Quantity     int64
	SerialNumber string
}

// Draft is the full desired allocation set for one owner. The UI resubmits
// every row on edit, so the draft replaces the owner's prior set wholesale.
// TargetQuantity is the station's aggregate target for the asset; 0 means the
// target is not tracked and the aggregate check is skipped.
type Draft struct {
	Rows           []DraftRow
	TargetQuantity int64
}

// Diff is the accepted edit expressed as row operations. Quantities returned
// by Remove/Update and consumed by Update/Insert net out per batch; the
// engine applies the whole diff, and the per-batch remaining adjustments, in
// one transaction.
type Diff struct {
	Remove []Row
	Update []RowChange
	Insert []Row

	// DeltaByBatch is requested - originalUsage per batch; positive values
	// consume from the batch's remaining pool, negative values return to it.
	DeltaByBatch map[int64]int64
}

type RowChange struct {
	ID           int64
	OldQuantity  int64
	BatchID      int64
	Quantity     int64
	SerialNumber string
}

// Empty reports whether the diff would change nothing.
func (d Diff) Empty() bool {
	return len(d.Remove) == 0 && len(d.Update) == 0 && len(d.Insert) == 0
}

// Assignment is a unit-level hand-out to an employee, tied to exactly one
// batch so the unit keeps its purchase cost and serial.
type Assignment struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	BatchID      int64     `json:"batch_id"`
	Quantity     int64     `json:"quantity"`
	SerialNumber string    `json:"serial_number,omitempty"`
	AssignedAt   time.Time `json:"assigned_at"`
}
