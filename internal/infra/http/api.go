package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Spok95/asset-ledger/internal/domain/allocation"
	"github.com/Spok95/asset-ledger/internal/domain/assets"
	"github.com/Spok95/asset-ledger/internal/domain/batches"
	"github.com/Spok95/asset-ledger/internal/domain/catalog"
	"github.com/Spok95/asset-ledger/internal/domain/employees"
	"github.com/Spok95/asset-ledger/internal/domain/transfer"
	"github.com/Spok95/asset-ledger/internal/domain/valuation"
	"github.com/Spok95/asset-ledger/internal/report"
)

// API is the JSON surface over the allocation engine and its supporting
// repos. One handler per operation, one request DTO per handler; boundary
// validation happens here, business rules stay in the domain packages.
type API struct {
	log *slog.Logger

	catalog   *catalog.Repo
	assets    *assets.Repo
	employees *employees.Repo
	batches   *batches.Repo
	targets   *allocation.TargetRepo
	engine    *allocation.Engine
	transfers *transfer.Coordinator
	valuation *valuation.Aggregator
	reports   *report.Exporter
}

func NewAPI(
	log *slog.Logger,
	catalogRepo *catalog.Repo,
	assetRepo *assets.Repo,
	employeeRepo *employees.Repo,
	batchRepo *batches.Repo,
	targetRepo *allocation.TargetRepo,
	engine *allocation.Engine,
	transfers *transfer.Coordinator,
	agg *valuation.Aggregator,
	reports *report.Exporter,
) *API {
	return &API{
		log:       log,
		catalog:   catalogRepo,
		assets:    assetRepo,
		employees: employeeRepo,
		batches:   batchRepo,
		targets:   targetRepo,
		engine:    engine,
		transfers: transfers,
		valuation: agg,
		reports:   reports,
	}
}

func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/categories", a.createCategory)
	mux.HandleFunc("GET /api/categories", a.listCategories)
	mux.HandleFunc("PATCH /api/categories/{id}", a.updateCategory)
	mux.HandleFunc("GET /api/categories/{id}/assets", a.assetsByCategory)
	mux.HandleFunc("POST /api/departments", a.createDepartment)
	mux.HandleFunc("GET /api/departments", a.listDepartments)
	mux.HandleFunc("POST /api/stations", a.createStation)
	mux.HandleFunc("GET /api/stations", a.listStations)
	mux.HandleFunc("GET /api/stations/{id}", a.getStation)
	mux.HandleFunc("PATCH /api/stations/{id}", a.updateStation)
	mux.HandleFunc("POST /api/employees", a.createEmployee)
	mux.HandleFunc("GET /api/employees", a.listEmployees)
	mux.HandleFunc("PATCH /api/employees/{id}", a.updateEmployee)
	mux.HandleFunc("POST /api/assets", a.createAsset)
	mux.HandleFunc("GET /api/assets", a.listAssets)
	mux.HandleFunc("PATCH /api/assets/{id}", a.updateAsset)

	mux.HandleFunc("POST /api/assets/{id}/batches", a.addBatch)
	mux.HandleFunc("GET /api/assets/{id}/batches", a.listBatches)
	mux.HandleFunc("PATCH /api/batches/{id}", a.updateBatch)
	mux.HandleFunc("DELETE /api/batches/{id}", a.deleteBatch)

	mux.HandleFunc("POST /api/allocations", a.allocate)
	mux.HandleFunc("DELETE /api/allocations/{id}", a.deallocate)
	mux.HandleFunc("PUT /api/assets/{id}/allocations", a.applyEditedSet)
	mux.HandleFunc("POST /api/assets/{id}/targets", a.setTarget)

	mux.HandleFunc("POST /api/assignments", a.assign)
	mux.HandleFunc("DELETE /api/assignments/{id}", a.returnAssignment)
	mux.HandleFunc("GET /api/employees/{id}/assignments", a.listAssignments)
	mux.HandleFunc("POST /api/transfers", a.transferHandler)

	mux.HandleFunc("GET /api/assets/{id}/valuation", a.assetValuation)
	mux.HandleFunc("GET /api/assets/{id}/valuation/rows", a.valuationRows)
	mux.HandleFunc("GET /api/assets/{id}/valuation/by-station", a.valuationByStation)
	mux.HandleFunc("GET /api/assets/{id}/valuation/by-employee", a.valuationByEmployee)
	mux.HandleFunc("GET /api/assets/{id}/valuation/by-department", a.valuationByDepartment)
	mux.HandleFunc("GET /api/valuation/by-category", a.valuationByCategory)
	mux.HandleFunc("GET /api/assets/{id}/report.xlsx", a.assetReport)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (a *API) badPath(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "invalid id", Field: "id"})
}

/* Catalog */

func (a *API) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "name required", Field: "name"})
		return
	}
	c, err := a.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) listCategories(w http.ResponseWriter, r *http.Request) {
	out, err := a.catalog.ListCategories(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "name required", Field: "name"})
		return
	}
	c, err := a.catalog.UpdateCategoryName(r.Context(), id, req.Name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) assetsByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	out, err := a.assets.ListByCategory(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) createDepartment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "name required", Field: "name"})
		return
	}
	d, err := a.catalog.CreateDepartment(r.Context(), req.Name)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (a *API) listDepartments(w http.ResponseWriter, r *http.Request) {
	out, err := a.catalog.ListDepartments(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) createStation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		DepartmentID *int64 `json:"department_id"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "name required", Field: "name"})
		return
	}
	s, err := a.catalog.CreateStation(r.Context(), req.Name, req.DepartmentID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (a *API) listStations(w http.ResponseWriter, r *http.Request) {
	out, err := a.catalog.ListStations(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	s, err := a.catalog.GetStationByID(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if s == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "station not found"})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *API) updateStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	var req struct {
		Name   *string `json:"name"`
		Active *bool   `json:"active"`
	}
	if err := decode(r, &req); err != nil || (req.Name == nil && req.Active == nil) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "nothing to update"})
		return
	}
	if req.Name != nil && *req.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "name required", Field: "name"})
		return
	}
	var (
		s   *catalog.Station
		err error
	)
	if req.Name != nil {
		if s, err = a.catalog.UpdateStationName(r.Context(), id, *req.Name); err != nil {
			a.writeError(w, err)
			return
		}
	}
	if req.Active != nil {
		if s, err = a.catalog.SetStationActive(r.Context(), id, *req.Active); err != nil {
			a.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *API) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName        string `json:"full_name"`
		PersonnelNumber string `json:"personnel_number"`
		DepartmentID    *int64 `json:"department_id"`
	}
	if err := decode(r, &req); err != nil || req.FullName == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "full_name required", Field: "full_name"})
		return
	}
	e, err := a.employees.Create(r.Context(), req.FullName, req.PersonnelNumber, req.DepartmentID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (a *API) listEmployees(w http.ResponseWriter, r *http.Request) {
	out, err := a.employees.List(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	var req struct {
		DepartmentID *int64 `json:"department_id"`
		Active       *bool  `json:"active"`
	}
	if err := decode(r, &req); err != nil || (req.DepartmentID == nil && req.Active == nil) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "nothing to update"})
		return
	}
	var (
		e   *employees.Employee
		err error
	)
	if req.DepartmentID != nil {
		if e, err = a.employees.SetDepartment(r.Context(), id, req.DepartmentID); err != nil {
			a.writeError(w, err)
			return
		}
	}
	if req.Active != nil {
		if e, err = a.employees.SetActive(r.Context(), id, *req.Active); err != nil {
			a.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, e)
}

func (a *API) createAsset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Number     string `json:"number"`
		CategoryID int64  `json:"category_id"`
		Unit       string `json:"unit"`
	}
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "name required", Field: "name"})
		return
	}
	asset, err := a.assets.Create(r.Context(), req.Name, req.Number, req.CategoryID, assets.Unit(req.Unit))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (a *API) listAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	onlyActive := q.Get("active") == "true"
	var (
		out []assets.Asset
		err error
	)
	if s := q.Get("q"); s != "" {
		out, err = a.assets.SearchByName(r.Context(), s, onlyActive)
	} else {
		out, err = a.assets.List(r.Context(), onlyActive)
	}
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	var req struct {
		Name   *string `json:"name"`
		Active *bool   `json:"active"`
	}
	if err := decode(r, &req); err != nil || (req.Name == nil && req.Active == nil) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "nothing to update"})
		return
	}
	if req.Name != nil && *req.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "name required", Field: "name"})
		return
	}
	var (
		asset *assets.Asset
		err   error
	)
	if req.Name != nil {
		if asset, err = a.assets.UpdateName(r.Context(), id, *req.Name); err != nil {
			a.writeError(w, err)
			return
		}
	}
	if req.Active != nil {
		if asset, err = a.assets.SetActive(r.Context(), id, *req.Active); err != nil {
			a.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, asset)
}

/* Batch ledger */

func (a *API) addBatch(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	var req struct {
		Price    float64   `json:"price"`
		Quantity int64     `json:"quantity"`
		Date     time.Time `json:"date"`
		Name     string    `json:"name"`
		Remarks  string    `json:"remarks"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "malformed body"})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}
	b, err := a.batches.Add(r.Context(), assetID, req.Price, req.Quantity, req.Date, req.Name, req.Remarks)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (a *API) listBatches(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	out, err := a.batches.ListByAsset(r.Context(), assetID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) updateBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	var req struct {
		Price    *float64   `json:"price"`
		Date     *time.Time `json:"date"`
		Name     *string    `json:"name"`
		Remarks  *string    `json:"remarks"`
		Quantity *int64     `json:"quantity"`
	}
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "malformed body"})
		return
	}
	b, err := a.batches.Update(r.Context(), id, batches.UpdateParams{
		Price:    req.Price,
		Date:     req.Date,
		Name:     req.Name,
		Remarks:  req.Remarks,
		Quantity: req.Quantity,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (a *API) deleteBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		a.badPath(w)
		return
	}
	if err := a.batches.Delete(r.Context(), id); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
