package web

import (
	"net/http"

	"greensupply/internal/app"
)

// apiListAlerts handles GET /api/alerts?productId=&status=&level=.
func (h *Handler) apiListAlerts(w http.ResponseWriter, r *http.Request) {
	productID, ok := intQuery(w, r, "productId")
	if !ok {
		return
	}
	q := r.URL.Query()
	result, err := h.svc.ListAlerts(r.Context(), app.AlertListRequest{
		ProductID: productID,
		Status:    q.Get("status"),
		Level:     q.Get("level"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiGenerateAlerts handles POST /api/alerts/generate.
func (h *Handler) apiGenerateAlerts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GenerateAlerts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiAssessStock handles GET /api/alerts/assessment.
func (h *Handler) apiAssessStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.AssessStock(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiUpdateAlertStatus handles PATCH /api/alerts/{id} with {"status", "notes"}.
func (h *Handler) apiUpdateAlertStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, r, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	a, err := h.svc.UpdateAlertStatus(r.Context(), app.UpdateAlertStatusRequest{
		ID:     id,
		Status: body.Status,
		Notes:  body.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, a)
}
