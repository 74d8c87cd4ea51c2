package allocation

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Target is a station's aggregate allocation record for one asset: the total
// quantity the station is supposed to hold. The per-batch rows of the station
// must sum to at most this target.
type Target struct {
	ID        int64     `json:"id"`
	AssetID   int64     `json:"asset_id"`
	StationID int64     `json:"station_id"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type TargetRepo struct{ pool *pgxpool.Pool }

func NewTargetRepo(pool *pgxpool.Pool) *TargetRepo { return &TargetRepo{pool: pool} }

func (r *TargetRepo) Set(ctx context.Context, assetID, stationID, quantity int64) (*Target, error) {
	if quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO station_allocations (asset_id, station_id, quantity)
		VALUES ($1,$2,$3)
		ON CONFLICT (asset_id, station_id)
		DO UPDATE SET quantity = EXCLUDED.quantity
		RETURNING id, asset_id, station_id, quantity, created_at
	`, assetID, stationID, quantity)

	var t Target
	if err := row.Scan(&t.ID, &t.AssetID, &t.StationID, &t.Quantity, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TargetRepo) Get(ctx context.Context, assetID, stationID int64) (*Target, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, asset_id, station_id, quantity, created_at
		FROM station_allocations
		WHERE asset_id = $1 AND station_id = $2
	`, assetID, stationID)

	var t Target
	if err := row.Scan(&t.ID, &t.AssetID, &t.StationID, &t.Quantity, &t.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TargetRepo) ListByAsset(ctx context.Context, assetID int64) ([]Target, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, asset_id, station_id, quantity, created_at
		FROM station_allocations
		WHERE asset_id = $1
		ORDER BY station_id
	`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Target
	for rows.Next() {
		var t Target
		if err := rows.Scan(&t.ID, &t.AssetID, &t.StationID, &t.Quantity, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
