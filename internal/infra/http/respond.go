package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/asset-ledger/internal/domain/allocation"
	"github.com/Spok95/asset-ledger/internal/domain/batches"
	"github.com/Spok95/asset-ledger/internal/domain/transfer"
)

type errorBody struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	BatchID   int64  `json:"batch_id,omitempty"`
	TrueLimit int64  `json:"true_limit,omitempty"`
	Requested int64  `json:"requested,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps business errors to statuses and field-level payloads so the
// UI can render specific messages. Anything unrecognized is an infrastructure
// failure and stays generic.
func (a *API) writeError(w http.ResponseWriter, err error) {
	var ve *allocation.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Reason, Field: ve.Field})
		return
	}
	var oe *allocation.OverAllocationError
	if errors.As(err, &oe) {
		writeJSON(w, http.StatusConflict, errorBody{
			Error:     oe.Error(),
			BatchID:   oe.BatchID,
			TrueLimit: oe.TrueLimit,
			Requested: oe.Requested,
		})
		return
	}
	switch {
	case errors.Is(err, batches.ErrInvalidQuantity), errors.Is(err, batches.ErrInvalidPrice):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, batches.ErrQuantityImmutable),
		errors.Is(err, batches.ErrInUse),
		errors.Is(err, transfer.ErrSameEmployee):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, batches.ErrNotFound),
		errors.Is(err, allocation.ErrNotFound),
		errors.Is(err, transfer.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	default:
		a.log.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
