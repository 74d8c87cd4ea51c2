package http

import (
	"net/http"
	"time"

	"github.com/Spok95/asset-ledger/internal/domain/allocation"
)

func ownerFromRequest(kind string, id int64) (allocation.Owner, bool) {
	k := allocation.OwnerKind(kind)
	if k != allocation.OwnerStation && k != allocation.OwnerEmployee {
		return allocation.Owner{}, false
	}
	if id <= 0 {
		return allocation.Owner{}, false
	}
	return allocation.Owner{Kind: k, ID: id}, true
}

func (a *API) allocate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerKind    string `json:"owner_kind"`
		OwnerID      int64  `json:"owner_id"`
		BatchID      int64  `json:"batch_id"`
		Quantity     int64  `json:"quantity"`
		SerialNumber string `json:"serial_number"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "malformed body"})
		return
	}
	owner, ok := ownerFromRequest(req.OwnerKind, req.OwnerID)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "owner_kind must be station or employee", Field: "owner_kind"})
		return
	}
	row, err := a.engine.Allocate(r.Context(), owner, req.BatchID, req.Quantity, req.SerialNumber)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (a *API) deallocate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	if err := a.engine.Deallocate(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyEditedSet replaces the owner's whole allocation set for the asset.
// The UI sends every desired row; the engine validates against trueLimit and
// applies the diff atomically.
func (a *API) applyEditedSet(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	var req struct {
		OwnerKind string `json:"owner_kind"`
		OwnerID   int64  `json:"owner_id"`
		Rows      []struct {
			ID           int64  `json:"id"`
			BatchID      int64  `json:"batch_id"`
			Quantity     int64  `json:"quantity"`
			SerialNumber string `json:"serial_number"`
		} `json:"rows"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "malformed body"})
		return
	}
	owner, ok := ownerFromRequest(req.OwnerKind, req.OwnerID)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "owner_kind must be station or employee", Field: "owner_kind"})
		return
	}
	draft := allocation.Draft{Rows: make([]allocation.DraftRow, 0, len(req.Rows))}
	for _, row := range req.Rows {
		draft.Rows = append(draft.Rows, allocation.DraftRow{
			ID:           row.ID,
			BatchID:      row.BatchID,
			Quantity:     row.Quantity,
			SerialNumber: row.SerialNumber,
		})
	}
	if _, err := a.engine.ApplyEditedSet(r.Context(), owner, assetID, draft); err != nil {
		a.writeError(w, err)
		return
	}
	rows, err := a.engine.ListRows(r.Context(), owner, assetID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) setTarget(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	var req struct {
		StationID int64 `json:"station_id"`
		Quantity  int64 `json:"quantity"`
	}
	if err := decode(r, &req); err != nil || req.StationID <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "station_id required", Field: "station_id"})
		return
	}
	t, err := a.targets.Set(r.Context(), assetID, req.StationID, req.Quantity)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

/* Employee assignments */

func (a *API) assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID   int64  `json:"employee_id"`
		BatchID      int64  `json:"batch_id"`
		Quantity     int64  `json:"quantity"`
		SerialNumber string `json:"serial_number"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "malformed body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	asg, err := a.engine.AssignToEmployee(r.Context(), req.EmployeeID, req.BatchID, req.Quantity, req.SerialNumber, time.Now())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asg)
}

func (a *API) returnAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	if err := a.engine.ReturnAssignment(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	out, err := a.engine.ListAssignments(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// transferHandler moves assignments between employees: all of them when
// assignment_ids is empty, otherwise only the listed ones.
func (a *API) transferHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceEmployeeID int64   `json:"source_employee_id"`
		TargetEmployeeID int64   `json:"target_employee_id"`
		AssignmentIDs    []int64 `json:"assignment_ids"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "malformed body"})
		return
	}
	if req.SourceEmployeeID <= 0 || req.TargetEmployeeID <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "source and target employee required", Field: "employee_id"})
		return
	}
	if len(req.AssignmentIDs) == 0 {
		moved, err := a.transfers.TransferAll(r.Context(), req.SourceEmployeeID, req.TargetEmployeeID)
		if err != nil {
			a.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"moved": moved})
		return
	}
	if err := a.transfers.TransferSelected(r.Context(), req.SourceEmployeeID, req.TargetEmployeeID, req.AssignmentIDs); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"moved": int64(len(req.AssignmentIDs))})
}
