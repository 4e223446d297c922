package web

import (
	"net/http"

	"greensupply/internal/app"
)

// ── Stock ─────────────────────────────────────────────────────────────────────

// apiListStock handles GET /api/stock.
func (h *Handler) apiListStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListStock(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiTotalStock handles GET /api/stock/{productId}/total. Unknown products total 0.
func (h *Handler) apiTotalStock(w http.ResponseWriter, r *http.Request) {
	productID, ok := intParam(w, r, "productId")
	if !ok {
		return
	}
	total, err := h.svc.GetTotalStock(r.Context(), productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		ProductID  int `json:"productId"`
		TotalStock int `json:"totalStock"`
	}
	writeJSON(w, response{ProductID: productID, TotalStock: total})
}

// apiStockAt handles GET /api/stock/{productId}/{warehouseId}. A product with no
// entry in the warehouse reports quantity 0.
func (h *Handler) apiStockAt(w http.ResponseWriter, r *http.Request) {
	productID, ok := intParam(w, r, "productId")
	if !ok {
		return
	}
	warehouseID, ok := intParam(w, r, "warehouseId")
	if !ok {
		return
	}
	qty, err := h.svc.GetStockAt(r.Context(), productID, warehouseID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	type response struct {
		ProductID   int `json:"productId"`
		WarehouseID int `json:"warehouseId"`
		Quantity    int `json:"quantity"`
	}
	writeJSON(w, response{ProductID: productID, WarehouseID: warehouseID, Quantity: qty})
}

// ── Transfers ─────────────────────────────────────────────────────────────────

// apiListTransfers handles GET /api/transfers?productId=&warehouseId=&status=.
func (h *Handler) apiListTransfers(w http.ResponseWriter, r *http.Request) {
	productID, ok := intQuery(w, r, "productId")
	if !ok {
		return
	}
	warehouseID, ok := intQuery(w, r, "warehouseId")
	if !ok {
		return
	}
	result, err := h.svc.ListTransfers(r.Context(), app.TransferListRequest{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Status:      r.URL.Query().Get("status"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiCreateTransfer handles POST /api/transfers.
func (h *Handler) apiCreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req app.TransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.svc.CreateTransfer(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, t)
}

// apiScheduleTransfer handles POST /api/transfers/schedule.
func (h *Handler) apiScheduleTransfer(w http.ResponseWriter, r *http.Request) {
	var req app.TransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.svc.ScheduleTransfer(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, t)
}

// apiCompleteTransfer handles POST /api/transfers/{id}/complete.
func (h *Handler) apiCompleteTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	t, err := h.svc.CompleteTransfer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, t)
}

// apiCancelTransfer handles POST /api/transfers/{id}/cancel with an optional {"notes"} body.
func (h *Handler) apiCancelTransfer(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Notes string `json:"notes"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, &body) {
		return
	}
	t, err := h.svc.CancelTransfer(r.Context(), id, body.Notes)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, t)
}
