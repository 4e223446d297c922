package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greensupply/internal/adapters/web"
	"greensupply/internal/app"
	"greensupply/internal/core"
	"greensupply/internal/store"
	"greensupply/internal/store/memory"
)

func newTestHandler(t *testing.T, rateLimit string) http.Handler {
	t.Helper()
	es := memory.NewStore()
	require.NoError(t, store.Seed(context.Background(), es, false))
	svc := app.NewAppService(es, app.Options{
		CheckAvailable: true,
		FlapTolerance:  core.DefaultFlapTolerance,
		Clock:          func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) },
	})
	h, err := web.NewHandler(svc, "http://localhost:3000", rateLimit)
	require.NoError(t, err)
	return h
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, "120-M")
	rec := do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_EchoesSafeCallerID(t *testing.T) {
	h := newTestHandler(t, "120-M")

	req := httptest.NewRequest(http.MethodGet, "/api/products/999", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "abc-123", body.RequestID)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "not safe!")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, "not safe!", rec.Header().Get("X-Request-ID"))
}

func TestProducts_CRUD(t *testing.T) {
	h := newTestHandler(t, "120-M")

	rec := do(t, h, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list app.ProductListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Products, 6)

	rec = do(t, h, http.MethodPost, "/api/products",
		`{"sku":"ECO-007","name":"Compost Bin","category":"Home","unitCost":"24.50","reorderPoint":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created core.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 7, created.ID)
	assert.Equal(t, "24.5", created.UnitCost.String())

	rec = do(t, h, http.MethodPatch, "/api/products/7", `{"reorderPoint":12}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated core.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 12, updated.ReorderPoint)
	assert.Equal(t, "Compost Bin", updated.Name)

	rec = do(t, h, http.MethodDelete, "/api/products/7", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProducts_BadRequests(t *testing.T) {
	h := newTestHandler(t, "120-M")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"non-numeric id", http.MethodGet, "/api/products/abc", "", http.StatusBadRequest},
		{"zero id", http.MethodGet, "/api/products/0", "", http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/products", `{"sku":`, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/api/products", `{"sku":"X-1"}`, http.StatusBadRequest},
		{"negative reorder point", http.MethodPost, "/api/products", `{"sku":"X-1","name":"X","reorderPoint":-1}`, http.StatusBadRequest},
		{"unknown product", http.MethodPatch, "/api/products/42", `{"name":"Y"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRequestBodyLimit(t *testing.T) {
	h := newTestHandler(t, "120-M")
	big := `{"sku":"X","name":"` + strings.Repeat("a", 2<<20) + `"}`
	rec := do(t, h, http.MethodPost, "/api/products", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "REQUEST_TOO_LARGE", decodeError(t, rec).Code)
}

func TestStockEndpoints(t *testing.T) {
	h := newTestHandler(t, "120-M")

	rec := do(t, h, http.MethodGet, "/api/stock/1/total", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"productId":1,"totalStock":60}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/stock/1/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"productId":1,"warehouseId":2,"quantity":20}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/stock/1/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"productId":1,"warehouseId":3,"quantity":0}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/stock/99/total", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"productId":99,"totalStock":0}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/products/99/stock", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/warehouses/1/stock", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ws core.WarehouseStock
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ws))
	assert.Equal(t, "WH-PDX", ws.Warehouse.Code)
	assert.Equal(t, 210, ws.TotalQuantity)
}

func TestTransfers(t *testing.T) {
	h := newTestHandler(t, "120-M")

	rec := do(t, h, http.MethodPost, "/api/transfers",
		`{"productId":1,"fromWarehouseId":1,"toWarehouseId":2,"quantity":41,"initiatedBy":"ops"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decodeError(t, rec).Code)

	rec = do(t, h, http.MethodPost, "/api/transfers",
		`{"productId":1,"fromWarehouseId":1,"toWarehouseId":1,"quantity":5,"initiatedBy":"ops"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/transfers",
		`{"productId":1,"fromWarehouseId":1,"toWarehouseId":2,"quantity":10,"initiatedBy":"ops"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tr core.Transfer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	assert.Equal(t, 3, tr.ID)
	assert.Equal(t, core.TransferCompleted, tr.Status)

	rec = do(t, h, http.MethodPost, "/api/transfers/schedule",
		`{"productId":2,"fromWarehouseId":1,"toWarehouseId":3,"quantity":5,"initiatedBy":"ops"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	assert.Equal(t, core.TransferPending, tr.Status)

	rec = do(t, h, http.MethodPost, "/api/transfers/4/cancel", `{"notes":"not needed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	assert.Equal(t, core.TransferCancelled, tr.Status)
	assert.Equal(t, "not needed", tr.Notes)

	rec = do(t, h, http.MethodPost, "/api/transfers/4/complete", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/transfers?status=cancelled", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list app.TransferListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Transfers, 1)
	assert.Equal(t, 4, list.Transfers[0].ID)

	rec = do(t, h, http.MethodGet, "/api/transfers?status=lost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/transfers?productId=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlerts(t *testing.T) {
	h := newTestHandler(t, "120-M")

	rec := do(t, h, http.MethodPost, "/api/alerts/generate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var gen app.GenerateAlertsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gen))
	require.Len(t, gen.Created, 2)
	assert.Len(t, gen.Alerts, 3)

	rec = do(t, h, http.MethodGet, "/api/alerts?status=pending&level=critical", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list app.AlertListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Alerts, 1)
	assert.Equal(t, 3, list.Alerts[0].ProductID)

	rec = do(t, h, http.MethodPatch, "/api/alerts/1", `{"status":"pending"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/alerts/1", `{"status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/alerts/1", `{"status":"resolved","notes":"restocked"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var a core.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, core.AlertResolved, a.Status)
	assert.Equal(t, "restocked", a.Notes)
	assert.NotNil(t, a.ResolvedAt)

	rec = do(t, h, http.MethodPatch, "/api/alerts/77", `{"status":"resolved"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/alerts/assessment", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var assessed []core.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessed))
	assert.Len(t, assessed, 6)
}

func TestReportsAndAdmin(t *testing.T) {
	h := newTestHandler(t, "120-M")

	rec := do(t, h, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var d core.Dashboard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, 6, d.TotalProducts)
	assert.Equal(t, 3, d.TotalWarehouses)

	rec = do(t, h, http.MethodGet, "/api/reports/inventory.xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inventory.xlsx")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))

	rec = do(t, h, http.MethodGet, "/api/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products"`)

	do(t, h, http.MethodDelete, "/api/products/1", "")
	rec = do(t, h, http.MethodPost, "/api/admin/reset", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/products/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t, "120-M")

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	h := newTestHandler(t, "2-M")

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodGet, "/api/products", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", decodeError(t, rec).Code)

	rec = do(t, h, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewHandler_InvalidRate(t *testing.T) {
	_, err := web.NewHandler(nil, "", "lots")
	assert.Error(t, err)
}
