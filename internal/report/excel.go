// Package report renders the stocktaking workbook for an asset: its purchase
// lots and the flattened allocation rows, every line priced at its own
// batch's purchase cost.
package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/asset-ledger/internal/domain/assets"
	"github.com/Spok95/asset-ledger/internal/domain/batches"
	"github.com/Spok95/asset-ledger/internal/domain/valuation"
)

type Exporter struct {
	assets    *assets.Repo
	batches   *batches.Repo
	valuation *valuation.Aggregator
}

func NewExporter(assetRepo *assets.Repo, batchRepo *batches.Repo, agg *valuation.Aggregator) *Exporter {
	return &Exporter{assets: assetRepo, batches: batchRepo, valuation: agg}
}

// AssetReport builds the .xlsx workbook in memory.
func (e *Exporter) AssetReport(ctx context.Context, assetID int64) ([]byte, error) {
	asset, err := e.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, fmt.Errorf("asset %d not found", assetID)
	}
	lots, err := e.batches.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	rows, err := e.valuation.Rows(ctx, assetID)
	if err != nil {
		return nil, err
	}
	summary, err := e.valuation.AssetSummary(ctx, assetID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"asset_id", "asset_name", "asset_number",
		"batch_id", "batch_name", "purchase_date", "purchase_price",
		"quantity", "remaining_quantity", "batch_value",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, b := range lots {
		line := []interface{}{
			asset.ID, asset.Name, asset.Number,
			b.ID, b.Name, b.PurchaseDate.Format("2006-01-02"), b.PurchasePrice,
			b.Quantity, b.RemainingQuantity, b.TotalCost(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return nil, err
		}
		row++
	}

	totals := []interface{}{
		"totals", "", "", "", "", "", "",
		summary.TotalQuantity, summary.RemainingQuantity, summary.TotalValue,
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return nil, err
	}

	const allocSheet = "allocations"
	if _, err := f.NewSheet(allocSheet); err != nil {
		return nil, err
	}
	allocHeader := []interface{}{
		"owner_kind", "owner_id", "owner_name",
		"batch_id", "batch_name", "purchase_price",
		"quantity", "serial_number", "value",
	}
	if err := f.SetSheetRow(allocSheet, "A1", &allocHeader); err != nil {
		return nil, err
	}
	row = 2
	for _, r := range rows {
		line := []interface{}{
			r.OwnerKind, r.OwnerID, r.OwnerName,
			r.BatchID, r.BatchName, r.PurchasePrice,
			r.Quantity, r.SerialNumber, r.Value(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(allocSheet, cell, &line); err != nil {
			return nil, err
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
