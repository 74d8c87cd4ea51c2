package valuation

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Aggregator computes derived values straight from the ledger tables. All
// sums are batch-costed: each allocation row is priced at its own batch's
// purchase price.
type Aggregator struct{ pool *pgxpool.Pool }

func NewAggregator(pool *pgxpool.Pool) *Aggregator { return &Aggregator{pool: pool} }

// AssetSummary derives totals from the batch table alone: the remaining pool
// already accounts for every allocation, so assigned = total - remaining.
func (a *Aggregator) AssetSummary(ctx context.Context, assetID int64) (*Summary, error) {
	s := Summary{AssetID: assetID}
	err := a.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(remaining_quantity), 0),
			COALESCE(SUM(quantity * purchase_price), 0),
			COALESCE(SUM(remaining_quantity * purchase_price), 0)
		FROM purchase_batches
		WHERE asset_id = $1
	`, assetID).Scan(&s.TotalQuantity, &s.RemainingQuantity, &s.TotalValue, &s.RemainingValue)
	if err != nil {
		return nil, err
	}
	s.AssignedQuantity = s.TotalQuantity - s.RemainingQuantity
	s.AssignedValue = s.TotalValue - s.RemainingValue
	return &s, nil
}

const flattenedRows = `
	SELECT 'station', st.id, st.name,
	       pb.id, pb.name, pb.purchase_price, pb.purchase_date,
	       ba.quantity, ba.serial_number
	FROM batch_allocations ba
	JOIN purchase_batches pb ON pb.id = ba.batch_id
	JOIN stations st ON st.id = ba.owner_id AND ba.owner_type = 'station'
	WHERE pb.asset_id = $1
	UNION ALL
	SELECT 'employee', e.id, e.full_name,
	       pb.id, pb.name, pb.purchase_price, pb.purchase_date,
	       ba.quantity, ba.serial_number
	FROM batch_allocations ba
	JOIN purchase_batches pb ON pb.id = ba.batch_id
	JOIN employees e ON e.id = ba.owner_id AND ba.owner_type = 'employee'
	WHERE pb.asset_id = $1
	UNION ALL
	SELECT 'employee', e.id, e.full_name,
	       pb.id, pb.name, pb.purchase_price, pb.purchase_date,
	       ea.quantity, ea.serial_number
	FROM employee_assignments ea
	JOIN purchase_batches pb ON pb.id = ea.batch_id
	JOIN employees e ON e.id = ea.employee_id
	WHERE pb.asset_id = $1
`

// employeeHoldings unifies both ways an employee can hold stock: direct batch
// allocations and unit-level assignments.
const employeeHoldings = `
	SELECT ba.owner_id AS employee_id, ba.quantity, pb.purchase_price
	FROM batch_allocations ba
	JOIN purchase_batches pb ON pb.id = ba.batch_id
	WHERE pb.asset_id = $1 AND ba.owner_type = 'employee'
	UNION ALL
	SELECT ea.employee_id, ea.quantity, pb.purchase_price
	FROM employee_assignments ea
	JOIN purchase_batches pb ON pb.id = ea.batch_id
	WHERE pb.asset_id = $1
`

// Rows is the single flatten-allocations projection used by every report
// view: station rows and employee assignment rows side by side, each carrying
// its batch's price.
func (a *Aggregator) Rows(ctx context.Context, assetID int64) ([]AllocationRow, error) {
	rows, err := a.pool.Query(ctx, flattenedRows+` ORDER BY 1, 2, 4`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AllocationRow
	for rows.Next() {
		var r AllocationRow
		if err := rows.Scan(
			&r.OwnerKind,
			&r.OwnerID,
			&r.OwnerName,
			&r.BatchID,
			&r.BatchName,
			&r.PurchasePrice,
			&r.PurchaseDate,
			&r.Quantity,
			&r.SerialNumber,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ByStation sums batch-costed values of station allocations per station.
func (a *Aggregator) ByStation(ctx context.Context, assetID int64) ([]GroupTotal, error) {
	return a.groupQuery(ctx, `
		SELECT st.id, st.name, COALESCE(SUM(ba.quantity),0), COALESCE(SUM(ba.quantity * pb.purchase_price),0)
		FROM batch_allocations ba
		JOIN purchase_batches pb ON pb.id = ba.batch_id
		JOIN stations st ON st.id = ba.owner_id AND ba.owner_type = 'station'
		WHERE pb.asset_id = $1
		GROUP BY st.id, st.name
		ORDER BY st.name
	`, assetID)
}

// ByEmployee sums batch-costed values of all employee holdings per employee.
func (a *Aggregator) ByEmployee(ctx context.Context, assetID int64) ([]GroupTotal, error) {
	return a.groupQuery(ctx, `
		SELECT e.id, e.full_name, COALESCE(SUM(h.quantity),0), COALESCE(SUM(h.quantity * h.purchase_price),0)
		FROM (`+employeeHoldings+`) h
		JOIN employees e ON e.id = h.employee_id
		GROUP BY e.id, e.full_name
		ORDER BY e.full_name
	`, assetID)
}

// ByDepartment composes department totals through department -> employee -> holding.
func (a *Aggregator) ByDepartment(ctx context.Context, assetID int64) ([]GroupTotal, error) {
	return a.groupQuery(ctx, `
		SELECT d.id, d.name, COALESCE(SUM(h.quantity),0), COALESCE(SUM(h.quantity * h.purchase_price),0)
		FROM (`+employeeHoldings+`) h
		JOIN employees e ON e.id = h.employee_id
		JOIN departments d ON d.id = e.department_id
		GROUP BY d.id, d.name
		ORDER BY d.name
	`, assetID)
}

// ByCategory sums batch-costed assigned value across all assets per category.
func (a *Aggregator) ByCategory(ctx context.Context) ([]GroupTotal, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT c.id, c.name,
		       COALESCE(SUM(pb.quantity - pb.remaining_quantity),0),
		       COALESCE(SUM((pb.quantity - pb.remaining_quantity) * pb.purchase_price),0)
		FROM purchase_batches pb
		JOIN assets a ON a.id = pb.asset_id
		JOIN asset_categories c ON c.id = a.category_id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroups(rows)
}

func (a *Aggregator) groupQuery(ctx context.Context, q string, assetID int64) ([]GroupTotal, error) {
	rows, err := a.pool.Query(ctx, q, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGroups(rows)
}
