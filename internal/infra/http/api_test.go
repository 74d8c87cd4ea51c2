package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testMux() *http.ServeMux {
	mux := http.NewServeMux()
	testAPI().Register(mux)
	return mux
}

func TestPatchRoutesRejectEmptyBody(t *testing.T) {
	mux := testMux()
	for _, path := range []string{
		"/api/stations/1",
		"/api/employees/1",
		"/api/assets/1",
		"/api/categories/1",
	} {
		req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("PATCH %s empty body: status = %d, want %d", path, rec.Code, http.StatusUnprocessableEntity)
		}
	}
}

func TestPatchRoutesRejectBadID(t *testing.T) {
	mux := testMux()
	req := httptest.NewRequest(http.MethodPatch, "/api/stations/zero", strings.NewReader(`{"active":false}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad id: status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestPatchRenameRejectsBlankName(t *testing.T) {
	mux := testMux()
	for _, path := range []string{"/api/stations/1", "/api/assets/1"} {
		req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{"name":""}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("PATCH %s blank name: status = %d, want %d", path, rec.Code, http.StatusUnprocessableEntity)
		}
	}
}
