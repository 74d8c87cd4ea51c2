package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Spok95/asset-ledger/internal/domain/valuation"
)

func (a *API) assetValuation(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	s, err := a.valuation.AssetSummary(r.Context(), assetID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *API) valuationRows(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	rows, err := a.valuation.Rows(r.Context(), assetID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) valuationByStation(w http.ResponseWriter, r *http.Request) {
	a.grouped(w, r, a.valuation.ByStation)
}

func (a *API) valuationByEmployee(w http.ResponseWriter, r *http.Request) {
	a.grouped(w, r, a.valuation.ByEmployee)
}

func (a *API) valuationByDepartment(w http.ResponseWriter, r *http.Request) {
	a.grouped(w, r, a.valuation.ByDepartment)
}

func (a *API) grouped(w http.ResponseWriter, r *http.Request, q func(context.Context, int64) ([]valuation.GroupTotal, error)) {
	assetID, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	out, err := q(r.Context(), assetID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) valuationByCategory(w http.ResponseWriter, r *http.Request) {
	out, err := a.valuation.ByCategory(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) assetReport(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	data, err := a.reports.AssetReport(r.Context(), assetID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	name := fmt.Sprintf("asset_%d_%s.xlsx", assetID, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}
