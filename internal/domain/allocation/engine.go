package allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/asset-ledger/internal/infra/metrics"
)

// Engine applies allocation changes against the batch ledger. Every mutation
// runs in one transaction with the touched batch rows locked, so concurrent
// edits of the same batch serialize and the loser revalidates against the
// committed remaining pool instead of a stale read.
type Engine struct{ pool *pgxpool.Pool }

func NewEngine(pool *pgxpool.Pool) *Engine { return &Engine{pool: pool} }

// Allocate draws quantity from one batch into a new row for the owner.
func (e *Engine) Allocate(ctx context.Context, owner Owner, batchID, quantity int64, serial string) (*Row, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be > 0"}
	}
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var remaining int64
	err = tx.QueryRow(ctx, `
		SELECT remaining_quantity FROM purchase_batches WHERE id = $1 FOR UPDATE
	`, batchID).Scan(&remaining)
	if err == pgx.ErrNoRows {
		return nil, &ValidationError{Field: "batch_id", Reason: fmt.Sprintf("unknown batch %d", batchID)}
	}
	if err != nil {
		return nil, err
	}
	if quantity > remaining {
		return nil, &OverAllocationError{BatchID: batchID, TrueLimit: remaining, Requested: quantity}
	}

	var r Row
	r.Owner = owner
	if err = tx.QueryRow(ctx, `
		INSERT INTO batch_allocations (owner_type, owner_id, batch_id, quantity, serial_number)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, batch_id, quantity, serial_number, created_at
	`, owner.Kind, owner.ID, batchID, quantity, serial).Scan(&r.ID, &r.BatchID, &r.Quantity, &r.SerialNumber, &r.CreatedAt); err != nil {
		return nil, err
	}
	if _, err = tx.Exec(ctx, `
		UPDATE purchase_batches SET remaining_quantity = remaining_quantity - $2 WHERE id = $1
	`, batchID, quantity); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &r, nil
}

// Deallocate removes a row and returns its quantity to the batch pool.
func (e *Engine) Deallocate(ctx context.Context, allocationID int64) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var batchID, quantity int64
	err = tx.QueryRow(ctx, `
		SELECT batch_id, quantity FROM batch_allocations WHERE id = $1
	`, allocationID).Scan(&batchID, &quantity)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `
		UPDATE purchase_batches SET remaining_quantity = remaining_quantity + $2 WHERE id = $1
	`, batchID, quantity); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM batch_allocations WHERE id = $1`, allocationID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListRows returns the owner's current allocation rows for one asset.
func (e *Engine) ListRows(ctx context.Context, owner Owner, assetID int64) ([]Row, error) {
	rows, err := e.pool.Query(ctx, `
		SELECT ba.id, ba.batch_id, ba.quantity, ba.serial_number, ba.created_at
		FROM batch_allocations ba
		JOIN purchase_batches pb ON pb.id = ba.batch_id
		WHERE ba.owner_type = $1 AND ba.owner_id = $2 AND pb.asset_id = $3
		ORDER BY ba.id
	`, owner.Kind, owner.ID, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r := Row{Owner: owner}
		if err := rows.Scan(&r.ID, &r.BatchID, &r.Quantity, &r.SerialNumber, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ApplyEditedSet replaces the owner's allocation set for one asset with the
// draft. Validation and diffing are delegated to ValidateEdit; the accepted
// diff commits as a whole or not at all. For station owners the aggregate
// target is read from the station's allocation record when the draft does
// not carry one.
func (e *Engine) ApplyEditedSet(ctx context.Context, owner Owner, assetID int64, draft Draft) (Diff, error) {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return Diff{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	original, err := loadRows(ctx, tx, owner, assetID)
	if err != nil {
		return Diff{}, err
	}

	ids := make(map[int64]bool)
	for _, r := range original {
		ids[r.BatchID] = true
	}
	for _, r := range draft.Rows {
		if r.BatchID != 0 {
			ids[r.BatchID] = true
		}
	}
	remaining, err := lockBatches(ctx, tx, assetID, ids)
	if err != nil {
		return Diff{}, err
	}

	if owner.Kind == OwnerStation && draft.TargetQuantity == 0 {
		if draft.TargetQuantity, err = stationTarget(ctx, tx, owner.ID, assetID); err != nil {
			return Diff{}, err
		}
	}

	diff, err := ValidateEdit(remaining, original, draft)
	if err != nil {
		metrics.AllocationEdits.WithLabelValues("rejected").Inc()
		return Diff{}, err
	}

	for _, r := range diff.Remove {
		if _, err = tx.Exec(ctx, `DELETE FROM batch_allocations WHERE id = $1`, r.ID); err != nil {
			return Diff{}, err
		}
	}
	for _, c := range diff.Update {
		if _, err = tx.Exec(ctx, `
			UPDATE batch_allocations SET batch_id = $2, quantity = $3, serial_number = $4 WHERE id = $1
		`, c.ID, c.BatchID, c.Quantity, c.SerialNumber); err != nil {
			return Diff{}, err
		}
	}
	for _, r := range diff.Insert {
		if _, err = tx.Exec(ctx, `
			INSERT INTO batch_allocations (owner_type, owner_id, batch_id, quantity, serial_number)
			VALUES ($1,$2,$3,$4,$5)
		`, owner.Kind, owner.ID, r.BatchID, r.Quantity, r.SerialNumber); err != nil {
			return Diff{}, err
		}
	}
	for batchID, delta := range diff.DeltaByBatch {
		if _, err = tx.Exec(ctx, `
			UPDATE purchase_batches SET remaining_quantity = remaining_quantity - $2 WHERE id = $1
		`, batchID, delta); err != nil {
			return Diff{}, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return Diff{}, err
	}
	metrics.AllocationEdits.WithLabelValues("applied").Inc()
	return diff, nil
}

// AssignToEmployee hands a unit from a batch to an employee, recording the
// serial so transfers keep the unit's identity.
func (e *Engine) AssignToEmployee(ctx context.Context, employeeID, batchID, quantity int64, serial string, at time.Time) (*Assignment, error) {
	if quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be > 0"}
	}
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var remaining int64
	err = tx.QueryRow(ctx, `
		SELECT remaining_quantity FROM purchase_batches WHERE id = $1 FOR UPDATE
	`, batchID).Scan(&remaining)
	if err == pgx.ErrNoRows {
		return nil, &ValidationError{Field: "batch_id", Reason: fmt.Sprintf("unknown batch %d", batchID)}
	}
	if err != nil {
		return nil, err
	}
	if quantity > remaining {
		return nil, &OverAllocationError{BatchID: batchID, TrueLimit: remaining, Requested: quantity}
	}

	var a Assignment
	if err = tx.QueryRow(ctx, `
		INSERT INTO employee_assignments (employee_id, batch_id, quantity, serial_number, assigned_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, employee_id, batch_id, quantity, serial_number, assigned_at
	`, employeeID, batchID, quantity, serial, at).Scan(&a.ID, &a.EmployeeID, &a.BatchID, &a.Quantity, &a.SerialNumber, &a.AssignedAt); err != nil {
		return nil, err
	}
	if _, err = tx.Exec(ctx, `
		UPDATE purchase_batches SET remaining_quantity = remaining_quantity - $2 WHERE id = $1
	`, batchID, quantity); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReturnAssignment takes a unit back from an employee into the batch pool.
func (e *Engine) ReturnAssignment(ctx context.Context, assignmentID int64) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var batchID, quantity int64
	err = tx.QueryRow(ctx, `
		SELECT batch_id, quantity FROM employee_assignments WHERE id = $1
	`, assignmentID).Scan(&batchID, &quantity)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `
		UPDATE purchase_batches SET remaining_quantity = remaining_quantity + $2 WHERE id = $1
	`, batchID, quantity); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM employee_assignments WHERE id = $1`, assignmentID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (e *Engine) ListAssignments(ctx context.Context, employeeID int64) ([]Assignment, error) {
	rows, err := e.pool.Query(ctx, `
		SELECT id, employee_id, batch_id, quantity, serial_number, assigned_at
		FROM employee_assignments
		WHERE employee_id = $1
		ORDER BY id
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.BatchID, &a.Quantity, &a.SerialNumber, &a.AssignedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func loadRows(ctx context.Context, tx pgx.Tx, owner Owner, assetID int64) ([]Row, error) {
	rows, err := tx.Query(ctx, `
		SELECT ba.id, ba.batch_id, ba.quantity, ba.serial_number, ba.created_at
		FROM batch_allocations ba
		JOIN purchase_batches pb ON pb.id = ba.batch_id
		WHERE ba.owner_type = $1 AND ba.owner_id = $2 AND pb.asset_id = $3
		ORDER BY ba.id
	`, owner.Kind, owner.ID, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r := Row{Owner: owner}
		if err := rows.Scan(&r.ID, &r.BatchID, &r.Quantity, &r.SerialNumber, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// lockBatches locks every referenced batch in ascending id order and returns
// their remaining pools. A referenced batch of a different asset is rejected
// before the validator ever sees it.
func lockBatches(ctx context.Context, tx pgx.Tx, assetID int64, ids map[int64]bool) (map[int64]int64, error) {
	if len(ids) == 0 {
		return map[int64]int64{}, nil
	}
	list := make([]int64, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	rows, err := tx.Query(ctx, `
		SELECT id, asset_id, remaining_quantity
		FROM purchase_batches
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`, list)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	remaining := make(map[int64]int64, len(list))
	for rows.Next() {
		var id, batchAsset, rem int64
		if err := rows.Scan(&id, &batchAsset, &rem); err != nil {
			return nil, err
		}
		if batchAsset != assetID {
			return nil, &ValidationError{Field: "batch_id", Reason: fmt.Sprintf("batch %d belongs to a different asset", id)}
		}
		remaining[id] = rem
	}
	return remaining, rows.Err()
}

func stationTarget(ctx context.Context, tx pgx.Tx, stationID, assetID int64) (int64, error) {
	var target int64
	err := tx.QueryRow(ctx, `
		SELECT quantity FROM station_allocations WHERE station_id = $1 AND asset_id = $2
	`, stationID, assetID).Scan(&target)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return target, err
}
