package batches_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Spok95/asset-ledger/internal/domain/batches"
	"github.com/Spok95/asset-ledger/internal/domain/testutil"
)

func TestBatchLedger(t *testing.T) {
	pool := testutil.Pool(t)
	ctx := context.Background()

	catID := testutil.SeedCategory(t, ctx, pool)
	assetID := testutil.SeedAsset(t, ctx, pool, catID)

	repo := batches.NewRepo(pool)

	older := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Inserted out of order on purpose; listing must sort by purchase date.
	b2, err := repo.Add(ctx, assetID, 1200, 5, newer, "June lot", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	b1, err := repo.Add(ctx, assetID, 1000, 10, older, "January lot", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b1.RemainingQuantity != b1.Quantity {
		t.Fatalf("fresh batch remaining = %d, want %d", b1.RemainingQuantity, b1.Quantity)
	}

	list, err := repo.ListByAsset(ctx, assetID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByAsset: err=%v len=%d", err, len(list))
	}
	if list[0].ID != b1.ID || list[1].ID != b2.ID {
		t.Fatalf("order: got [%d %d], want [%d %d]", list[0].ID, list[1].ID, b1.ID, b2.ID)
	}

	// Price and name are editable, quantity is not.
	newPrice := 1100.0
	upd, err := repo.Update(ctx, b1.ID, batches.UpdateParams{Price: &newPrice})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.PurchasePrice != 1100 || upd.Quantity != 10 {
		t.Fatalf("updated batch: %+v", upd)
	}
	q := int64(20)
	if _, err := repo.Update(ctx, b1.ID, batches.UpdateParams{Quantity: &q}); !errors.Is(err, batches.ErrQuantityImmutable) {
		t.Fatalf("quantity update: %v", err)
	}

	if err := repo.Delete(ctx, b2.ID); err != nil {
		t.Fatalf("Delete untouched: %v", err)
	}
	if err := repo.Delete(ctx, b2.ID); !errors.Is(err, batches.ErrNotFound) {
		t.Fatalf("Delete deleted: %v", err)
	}
}

func TestAddBatchValidation(t *testing.T) {
	pool := testutil.Pool(t)
	ctx := context.Background()

	repo := batches.NewRepo(pool)
	if _, err := repo.Add(ctx, 1, 100, 0, time.Now(), "", ""); !errors.Is(err, batches.ErrInvalidQuantity) {
		t.Fatalf("zero quantity: %v", err)
	}
	if _, err := repo.Add(ctx, 1, -5, 1, time.Now(), "", ""); !errors.Is(err, batches.ErrInvalidPrice) {
		t.Fatalf("negative price: %v", err)
	}
}
