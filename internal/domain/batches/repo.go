package batches

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const batchCols = `id, asset_id, purchase_price, quantity, remaining_quantity, purchase_date, name, remarks, created_at`

func scanBatch(row pgx.Row) (*Batch, error) {
	var b Batch
	if err := row.Scan(
		&b.ID,
		&b.AssetID,
		&b.PurchasePrice,
		&b.Quantity,
		&b.RemainingQuantity,
		&b.PurchaseDate,
		&b.Name,
		&b.Remarks,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

// Add creates a purchase lot. The remaining pool starts full.
func (r *Repo) Add(ctx context.Context, assetID int64, price float64, quantity int64, date time.Time, name, remarks string) (*Batch, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO purchase_batches (asset_id, purchase_price, quantity, remaining_quantity, purchase_date, name, remarks)
		VALUES ($1,$2,$3,$3,$4,$5,$6)
		RETURNING `+batchCols+`
	`, assetID, price, quantity, date, name, remarks)
	return scanBatch(row)
}

// UpdateParams carries the editable fields of a batch. Quantity is accepted
// here only so the immutability rule can be reported instead of silently
// ignoring the field.
type UpdateParams struct {
	Price    *float64
	Date     *time.Time
	Name     *string
	Remarks  *string
	Quantity *int64
}

func (r *Repo) Update(ctx context.Context, id int64, p UpdateParams) (*Batch, error) {
	if p.Quantity != nil {
		return nil, ErrQuantityImmutable
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE purchase_batches SET
			purchase_price = COALESCE($2, purchase_price),
			purchase_date  = COALESCE($3, purchase_date),
			name           = COALESCE($4, name),
			remarks        = COALESCE($5, remarks)
		WHERE id = $1
		RETURNING `+batchCols+`
	`, id, p.Price, p.Date, p.Name, p.Remarks)
	b, err := scanBatch(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return b, err
}

// Delete removes a batch that was never drawn from. The row is locked first
// so a concurrent allocation cannot slip in between the check and the delete.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var quantity, remaining int64
	err = tx.QueryRow(ctx, `
		SELECT quantity, remaining_quantity FROM purchase_batches WHERE id = $1 FOR UPDATE
	`, id).Scan(&quantity, &remaining)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if remaining != quantity {
		return ErrInUse
	}
	if _, err = tx.Exec(ctx, `DELETE FROM purchase_batches WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Batch, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+batchCols+` FROM purchase_batches WHERE id = $1
	`, id)
	b, err := scanBatch(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// ListByAsset returns the asset's lots in purchase order.
func (r *Repo) ListByAsset(ctx context.Context, assetID int64) ([]Batch, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+batchCols+`
		FROM purchase_batches
		WHERE asset_id = $1
		ORDER BY purchase_date ASC, id ASC
	`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(
			&b.ID,
			&b.AssetID,
			&b.PurchasePrice,
			&b.Quantity,
			&b.RemainingQuantity,
			&b.PurchaseDate,
			&b.Name,
			&b.Remarks,
			&b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
