package allocation_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Spok95/asset-ledger/internal/domain/allocation"
	"github.com/Spok95/asset-ledger/internal/domain/batches"
	"github.com/Spok95/asset-ledger/internal/domain/testutil"
)

func TestEngineAllocateAndEdit(t *testing.T) {
	pool := testutil.Pool(t)
	ctx := context.Background()

	catID := testutil.SeedCategory(t, ctx, pool)
	assetID := testutil.SeedAsset(t, ctx, pool, catID)
	stationID := testutil.SeedStation(t, ctx, pool)
	batchID := testutil.SeedBatch(t, ctx, pool, assetID, 1000, 10)

	engine := allocation.NewEngine(pool)
	owner := allocation.Owner{Kind: allocation.OwnerStation, ID: stationID}

	row, err := engine.Allocate(ctx, owner, batchID, 4, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got := testutil.BatchRemaining(t, ctx, pool, batchID); got != 6 {
		t.Fatalf("remaining after allocate = %d, want 6", got)
	}

	// Grow the same row to 6: trueLimit = 6 + 4 = 10, so this must pass.
	draft := allocation.Draft{Rows: []allocation.DraftRow{{ID: row.ID, BatchID: batchID, Quantity: 6}}}
	if _, err := engine.ApplyEditedSet(ctx, owner, assetID, draft); err != nil {
		t.Fatalf("ApplyEditedSet grow: %v", err)
	}
	if got := testutil.BatchRemaining(t, ctx, pool, batchID); got != 4 {
		t.Fatalf("remaining after edit = %d, want 4", got)
	}

	// Over-allocating rejects the whole edit and leaves state untouched.
	draft = allocation.Draft{Rows: []allocation.DraftRow{{ID: row.ID, BatchID: batchID, Quantity: 20}}}
	_, err = engine.ApplyEditedSet(ctx, owner, assetID, draft)
	var oe *allocation.OverAllocationError
	if !errors.As(err, &oe) {
		t.Fatalf("want OverAllocationError, got %v", err)
	}
	if oe.TrueLimit != 10 || oe.Requested != 20 {
		t.Fatalf("error payload: %+v", oe)
	}
	if got := testutil.BatchRemaining(t, ctx, pool, batchID); got != 4 {
		t.Fatalf("remaining after rejected edit = %d, want 4", got)
	}

	// The batch is in use now, so it cannot be deleted.
	batchRepo := batches.NewRepo(pool)
	if err := batchRepo.Delete(ctx, batchID); !errors.Is(err, batches.ErrInUse) {
		t.Fatalf("Delete in-use batch: %v", err)
	}

	// Empty draft returns everything; then the batch deletes cleanly.
	if _, err := engine.ApplyEditedSet(ctx, owner, assetID, allocation.Draft{}); err != nil {
		t.Fatalf("ApplyEditedSet clear: %v", err)
	}
	if got := testutil.BatchRemaining(t, ctx, pool, batchID); got != 10 {
		t.Fatalf("remaining after clear = %d, want 10", got)
	}
	if err := batchRepo.Delete(ctx, batchID); err != nil {
		t.Fatalf("Delete untouched batch: %v", err)
	}
}

func TestEngineDeallocateReturnsQuantity(t *testing.T) {
	pool := testutil.Pool(t)
	ctx := context.Background()

	catID := testutil.SeedCategory(t, ctx, pool)
	assetID := testutil.SeedAsset(t, ctx, pool, catID)
	stationID := testutil.SeedStation(t, ctx, pool)
	batchID := testutil.SeedBatch(t, ctx, pool, assetID, 500, 8)

	engine := allocation.NewEngine(pool)
	owner := allocation.Owner{Kind: allocation.OwnerStation, ID: stationID}

	row, err := engine.Allocate(ctx, owner, batchID, 3, "")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := engine.Deallocate(ctx, row.ID); err != nil {
		t.Fatalf("Deallocate: %v", err)
	}
	if got := testutil.BatchRemaining(t, ctx, pool, batchID); got != 8 {
		t.Fatalf("remaining after deallocate = %d, want 8", got)
	}
	if err := engine.Deallocate(ctx, row.ID); !errors.Is(err, allocation.ErrNotFound) {
		t.Fatalf("double deallocate: %v", err)
	}
}

func TestEngineConcurrentEditsCannotOverdraw(t *testing.T) {
	pool := testutil.Pool(t)
	ctx := context.Background()

	catID := testutil.SeedCategory(t, ctx, pool)
	assetID := testutil.SeedAsset(t, ctx, pool, catID)
	batchID := testutil.SeedBatch(t, ctx, pool, assetID, 500, 3)

	engine := allocation.NewEngine(pool)
	owners := []allocation.Owner{
		{Kind: allocation.OwnerStation, ID: testutil.SeedStation(t, ctx, pool)},
		{Kind: allocation.OwnerStation, ID: testutil.SeedStation(t, ctx, pool)},
	}

	// Both editors want 2 of the 3 remaining units. The batch row lock forces
	// the second edit to revalidate against the first one's decrement, so
	// exactly one can win.
	errs := make(chan error, len(owners))
	var wg sync.WaitGroup
	for _, owner := range owners {
		wg.Add(1)
		go func(owner allocation.Owner) {
			defer wg.Done()
			draft := allocation.Draft{Rows: []allocation.DraftRow{{BatchID: batchID, Quantity: 2}}}
			_, err := engine.ApplyEditedSet(ctx, owner, assetID, draft)
			errs <- err
		}(owner)
	}
	wg.Wait()
	close(errs)

	var applied, rejected int
	for err := range errs {
		if err == nil {
			applied++
			continue
		}
		var oe *allocation.OverAllocationError
		if !errors.As(err, &oe) {
			t.Fatalf("unexpected error: %v", err)
		}
		rejected++
	}
	if applied != 1 || rejected != 1 {
		t.Fatalf("got %d applied and %d rejected edits, want 1 and 1", applied, rejected)
	}
	if got := testutil.BatchRemaining(t, ctx, pool, batchID); got != 1 {
		t.Fatalf("remaining = %d, want 1", got)
	}
}
