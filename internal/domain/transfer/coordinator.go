// Package transfer moves employee assignments between employees. A transfer
// is an ownership change only: batch_id, serial_number and the batch's
// remaining pool are never touched.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/asset-ledger/internal/infra/metrics"
)

var (
	ErrSameEmployee = errors.New("source and target employee are the same")
	ErrNotFound     = errors.New("assignment not found for source employee")
)

type Coordinator struct{ pool *pgxpool.Pool }

func NewCoordinator(pool *pgxpool.Pool) *Coordinator { return &Coordinator{pool: pool} }

// TransferAll reassigns every assignment of the source employee to the target.
// Returns the number of moved rows.
func (c *Coordinator) TransferAll(ctx context.Context, sourceID, targetID int64) (int64, error) {
	if sourceID == targetID {
		return 0, ErrSameEmployee
	}
	tag, err := c.pool.Exec(ctx, `
		UPDATE employee_assignments SET employee_id = $2 WHERE employee_id = $1
	`, sourceID, targetID)
	if err != nil {
		return 0, err
	}
	metrics.Transfers.Add(float64(tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

// TransferSelected reassigns the given assignment ids from source to target.
// Every id must currently belong to the source employee; otherwise nothing
// moves.
func (c *Coordinator) TransferSelected(ctx context.Context, sourceID, targetID int64, ids []int64) error {
	if sourceID == targetID {
		return ErrSameEmployee
	}
	if len(ids) == 0 {
		return nil
	}
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT id FROM employee_assignments
		WHERE employee_id = $1 AND id = ANY($2)
		FOR UPDATE
	`, sourceID, ids)
	if err != nil {
		return err
	}
	owned := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		owned[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, id := range ids {
		if !owned[id] {
			return fmt.Errorf("assignment %d: %w", id, ErrNotFound)
		}
	}

	if _, err = tx.Exec(ctx, `
		UPDATE employee_assignments SET employee_id = $2
		WHERE employee_id = $1 AND id = ANY($3)
	`, sourceID, targetID, ids); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return err
	}
	metrics.Transfers.Add(float64(len(ids)))
	return nil
}
