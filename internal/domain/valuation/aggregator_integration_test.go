package valuation_test

import (
	"context"
	"testing"
	"time"

	"github.com/Spok95/asset-ledger/internal/domain/allocation"
	"github.com/Spok95/asset-ledger/internal/domain/testutil"
	"github.com/Spok95/asset-ledger/internal/domain/valuation"
)

// Every way stock can leave the remaining pool must show up in the flattened
// rows, otherwise the row sum drifts away from the summary's assigned value.
func TestAggregatorRowsCoverAllOwnerKinds(t *testing.T) {
	pool := testutil.Pool(t)
	ctx := context.Background()

	catID := testutil.SeedCategory(t, ctx, pool)
	assetID := testutil.SeedAsset(t, ctx, pool, catID)
	stationID := testutil.SeedStation(t, ctx, pool)
	employeeID := testutil.SeedEmployee(t, ctx, pool)
	batchID := testutil.SeedBatch(t, ctx, pool, assetID, 250, 10)

	engine := allocation.NewEngine(pool)
	if _, err := engine.Allocate(ctx, allocation.Owner{Kind: allocation.OwnerStation, ID: stationID}, batchID, 3, ""); err != nil {
		t.Fatalf("Allocate station: %v", err)
	}
	if _, err := engine.Allocate(ctx, allocation.Owner{Kind: allocation.OwnerEmployee, ID: employeeID}, batchID, 2, ""); err != nil {
		t.Fatalf("Allocate employee: %v", err)
	}
	if _, err := engine.AssignToEmployee(ctx, employeeID, batchID, 1, "SN-77", time.Now()); err != nil {
		t.Fatalf("AssignToEmployee: %v", err)
	}

	agg := valuation.NewAggregator(pool)
	rows, err := agg.Rows(ctx, assetID)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("flattened rows = %d, want 3", len(rows))
	}
	var employeeQty int64
	for _, r := range rows {
		if r.OwnerKind == "employee" {
			if r.OwnerID != employeeID {
				t.Fatalf("employee row owner = %d, want %d", r.OwnerID, employeeID)
			}
			employeeQty += r.Quantity
		}
	}
	if employeeQty != 3 {
		t.Fatalf("employee quantity in rows = %d, want 3", employeeQty)
	}

	summary, err := agg.AssetSummary(ctx, assetID)
	if err != nil {
		t.Fatalf("AssetSummary: %v", err)
	}
	if got := valuation.AssignedValue(rows); got != summary.AssignedValue {
		t.Fatalf("row sum %v != summary assigned value %v", got, summary.AssignedValue)
	}

	byEmp, err := agg.ByEmployee(ctx, assetID)
	if err != nil {
		t.Fatalf("ByEmployee: %v", err)
	}
	if len(byEmp) != 1 || byEmp[0].GroupID != employeeID {
		t.Fatalf("ByEmployee groups: %+v", byEmp)
	}
	if byEmp[0].Quantity != 3 || byEmp[0].Value != 750 {
		t.Fatalf("ByEmployee total = %+v, want quantity 3 value 750", byEmp[0])
	}
}
