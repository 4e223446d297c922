package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"greensupply/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService the routes call into.
type Handler struct {
	svc app.ApplicationService
}

// NewHandler creates and wires the chi router with all routes. rateLimit uses the
// limiter format ("120-M" is 120 requests per minute per client IP).
func NewHandler(svc app.ApplicationService, allowedOrigins, rateLimit string) (http.Handler, error) {
	limit, err := RateLimit(rateLimit)
	if err != nil {
		return nil, err
	}

	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health (not rate limited) ─────────────────────────────────────────────
	r.Get("/api/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Catalog ───────────────────────────────────────────────────────────
		r.Get("/api/products", h.apiListProducts)
		r.Post("/api/products", h.apiCreateProduct)
		r.Get("/api/products/{id}", h.apiGetProduct)
		r.Patch("/api/products/{id}", h.apiUpdateProduct)
		r.Delete("/api/products/{id}", h.apiDeleteProduct)
		r.Get("/api/products/{id}/stock", h.apiProductStock)

		r.Get("/api/warehouses", h.apiListWarehouses)
		r.Post("/api/warehouses", h.apiCreateWarehouse)
		r.Get("/api/warehouses/{id}", h.apiGetWarehouse)
		r.Patch("/api/warehouses/{id}", h.apiUpdateWarehouse)
		r.Delete("/api/warehouses/{id}", h.apiDeleteWarehouse)
		r.Get("/api/warehouses/{id}/stock", h.apiWarehouseStock)

		// ── Stock ─────────────────────────────────────────────────────────────
		r.Get("/api/stock", h.apiListStock)
		r.Get("/api/stock/{productId}/total", h.apiTotalStock)
		r.Get("/api/stock/{productId}/{warehouseId}", h.apiStockAt)

		// ── Transfers ─────────────────────────────────────────────────────────
		r.Get("/api/transfers", h.apiListTransfers)
		r.Post("/api/transfers", h.apiCreateTransfer)
		r.Post("/api/transfers/schedule", h.apiScheduleTransfer)
		r.Post("/api/transfers/{id}/complete", h.apiCompleteTransfer)
		r.Post("/api/transfers/{id}/cancel", h.apiCancelTransfer)

		// ── Alerts ────────────────────────────────────────────────────────────
		r.Get("/api/alerts", h.apiListAlerts)
		r.Post("/api/alerts/generate", h.apiGenerateAlerts)
		r.Get("/api/alerts/assessment", h.apiAssessStock)
		r.Patch("/api/alerts/{id}", h.apiUpdateAlertStatus)

		// ── Reporting & admin ─────────────────────────────────────────────────
		r.Get("/api/dashboard", h.apiDashboard)
		r.Get("/api/reports/inventory.xlsx", h.apiInventoryReport)
		r.Get("/api/schema", h.apiSchema)
		r.Post("/api/admin/reset", h.apiReset)
	})

	return r, nil
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// intParam parses a positive integer URL parameter, writing a 400 on failure.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		writeError(w, r, fmt.Sprintf("invalid %s", name), "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

// intQuery parses an optional integer query parameter. Absent means 0.
func intQuery(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeError(w, r, fmt.Sprintf("invalid %s query parameter", name), "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
