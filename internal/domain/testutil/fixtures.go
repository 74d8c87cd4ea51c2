package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func SeedCategory(tb testing.TB, ctx context.Context, pool *pgxpool.Pool) int64 {
	tb.Helper()
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO asset_categories (name) VALUES ($1) RETURNING id
	`, uniqueName("cat")).Scan(&id)
	if err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return id
}

func SeedAsset(tb testing.TB, ctx context.Context, pool *pgxpool.Pool, categoryID int64) int64 {
	tb.Helper()
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO assets (name, number, category_id) VALUES ($1,$2,$3) RETURNING id
	`, uniqueName("asset"), uniqueName("inv"), categoryID).Scan(&id)
	if err != nil {
		tb.Fatalf("seed asset: %v", err)
	}
	return id
}

func SeedStation(tb testing.TB, ctx context.Context, pool *pgxpool.Pool) int64 {
	tb.Helper()
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO stations (name) VALUES ($1) RETURNING id
	`, uniqueName("station")).Scan(&id)
	if err != nil {
		tb.Fatalf("seed station: %v", err)
	}
	return id
}

func SeedEmployee(tb testing.TB, ctx context.Context, pool *pgxpool.Pool) int64 {
	tb.Helper()
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO employees (full_name) VALUES ($1) RETURNING id
	`, uniqueName("employee")).Scan(&id)
	if err != nil {
		tb.Fatalf("seed employee: %v", err)
	}
	return id
}

func SeedBatch(tb testing.TB, ctx context.Context, pool *pgxpool.Pool, assetID int64, price float64, quantity int64) int64 {
	tb.Helper()
	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO purchase_batches (asset_id, purchase_price, quantity, remaining_quantity, purchase_date)
		VALUES ($1,$2,$3,$3,now())
		RETURNING id
	`, assetID, price, quantity).Scan(&id)
	if err != nil {
		tb.Fatalf("seed batch: %v", err)
	}
	return id
}

func BatchRemaining(tb testing.TB, ctx context.Context, pool *pgxpool.Pool, batchID int64) int64 {
	tb.Helper()
	var remaining int64
	err := pool.QueryRow(ctx, `
		SELECT remaining_quantity FROM purchase_batches WHERE id = $1
	`, batchID).Scan(&remaining)
	if err != nil {
		tb.Fatalf("batch remaining: %v", err)
	}
	return remaining
}
