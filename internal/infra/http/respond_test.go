package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/asset-ledger/internal/domain/allocation"
	"github.com/Spok95/asset-ledger/internal/domain/batches"
	"github.com/Spok95/asset-ledger/internal/domain/transfer"
)

func testAPI() *API {
	return &API{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestWriteErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&allocation.ValidationError{Field: "batch_id", Reason: "batch required"}, http.StatusUnprocessableEntity},
		{&allocation.OverAllocationError{BatchID: 1, TrueLimit: 3, Requested: 7}, http.StatusConflict},
		{batches.ErrInvalidQuantity, http.StatusUnprocessableEntity},
		{batches.ErrQuantityImmutable, http.StatusConflict},
		{batches.ErrInUse, http.StatusConflict},
		{transfer.ErrSameEmployee, http.StatusConflict},
		{batches.ErrNotFound, http.StatusNotFound},
		{allocation.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("assignment 55: %w", transfer.ErrNotFound), http.StatusNotFound},
		{pgx.ErrNoRows, http.StatusNotFound},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}

	api := testAPI()
	for _, c := range cases {
		rec := httptest.NewRecorder()
		api.writeError(rec, c.err)
		if rec.Code != c.want {
			t.Fatalf("%v: status = %d, want %d", c.err, rec.Code, c.want)
		}
	}
}

func TestWriteErrorOverAllocationPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	testAPI().writeError(rec, &allocation.OverAllocationError{BatchID: 5, TrueLimit: 3, Requested: 7})

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.BatchID != 5 || body.TrueLimit != 3 || body.Requested != 7 {
		t.Fatalf("payload: %+v", body)
	}
}

func TestWriteErrorInternalIsGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	testAPI().writeError(rec, errors.New("pq: password authentication failed"))

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "internal error" {
		t.Fatalf("storage detail leaked: %q", body.Error)
	}
}
