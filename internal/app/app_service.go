package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"greensupply/internal/core"
	"greensupply/internal/report"
	"greensupply/internal/store"
)

var (
	validate = validator.New()
	tracer   = otel.Tracer("greensupply/internal/app")
)

// instruments are created on the global meter provider. Creation errors leave a
// no-op instrument in place.
type instruments struct {
	opDuration    metric.Float64Histogram
	transfers     metric.Int64Counter
	alertsCreated metric.Int64Counter
}

func newInstruments() instruments {
	meter := otel.Meter("greensupply/internal/app")
	var in instruments
	var err error
	if in.opDuration, err = meter.Float64Histogram("greensupply.operation.duration",
		metric.WithUnit("s"), metric.WithDescription("Application operation latency")); err != nil {
		log.Printf("metrics: %v", err)
	}
	if in.transfers, err = meter.Int64Counter("greensupply.transfers",
		metric.WithDescription("Transfers by resulting status")); err != nil {
		log.Printf("metrics: %v", err)
	}
	if in.alertsCreated, err = meter.Int64Counter("greensupply.alerts.created",
		metric.WithDescription("Alerts created by generation runs")); err != nil {
		log.Printf("metrics: %v", err)
	}
	return in
}

func (in instruments) countTransfer(ctx context.Context, t *core.Transfer) {
	if in.transfers != nil {
		in.transfers.Add(ctx, 1, metric.WithAttributes(attribute.String("transfer.status", string(t.Status))))
	}
}

// Options tunes engine policy at the application boundary.
type Options struct {
	// CheckAvailable rejects transfers that move more than the source stock entry holds.
	CheckAvailable bool
	// FlapTolerance is the stock change required to re-alert after a closed alert.
	FlapTolerance int
	// Clock stamps transfers and alerts. Nil uses UTC wall time.
	Clock core.Clock
}

type appService struct {
	mu sync.Mutex

	store     *store.Store
	catalog   core.CatalogService
	stock     core.StockService
	transfers core.TransferService
	alerts    core.AlertService
	dashboard core.DashboardService
	opts      Options
	metrics   instruments
}

// NewAppService wires the engine services over es and returns the ApplicationService.
func NewAppService(es *store.Store, opts Options) ApplicationService {
	catalog := core.NewCatalogService(es)
	stock := core.NewStockService(es)
	alerts := core.NewAlertService(es, opts.Clock, opts.FlapTolerance)
	return &appService{
		store:     es,
		catalog:   catalog,
		stock:     stock,
		transfers: core.NewTransferService(es, opts.Clock),
		alerts:    alerts,
		dashboard: core.NewDashboardService(catalog, stock, alerts),
		opts:      opts,
		metrics:   newInstruments(),
	}
}

// begin serializes the operation and opens its span. The returned func must be
// deferred with a pointer to the method's error result.
func (s *appService) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	s.mu.Lock()
	start := time.Now()
	ctx, span := tracer.Start(ctx, "app."+op, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		failed := errp != nil && *errp != nil
		if failed {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
		if s.metrics.opDuration != nil {
			s.metrics.opDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				attribute.String("operation", op), attribute.Bool("error", failed)))
		}
		s.mu.Unlock()
	}
}

// validateRequest runs struct tag validation and reports failures as core.ErrValidation.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", core.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", core.ErrValidation, strings.Join(msgs, "; "))
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context) (_ *ProductListResult, err error) {
	ctx, end := s.begin(ctx, "ListProducts")
	defer end(&err)

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) GetProduct(ctx context.Context, id int) (_ *core.Product, err error) {
	ctx, end := s.begin(ctx, "GetProduct", attribute.Int("product.id", id))
	defer end(&err)
	return s.catalog.GetProduct(ctx, id)
}

func (s *appService) CreateProduct(ctx context.Context, req CreateProductRequest) (_ *core.Product, err error) {
	ctx, end := s.begin(ctx, "CreateProduct")
	defer end(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.catalog.CreateProduct(ctx, core.Product{
		SKU:          strings.TrimSpace(req.SKU),
		Name:         strings.TrimSpace(req.Name),
		Category:     strings.TrimSpace(req.Category),
		UnitCost:     req.UnitCost,
		ReorderPoint: req.ReorderPoint,
	})
}

func (s *appService) UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (_ *core.Product, err error) {
	ctx, end := s.begin(ctx, "UpdateProduct", attribute.Int("product.id", id))
	defer end(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.catalog.UpdateProduct(ctx, id, core.ProductPatch{
		SKU:          req.SKU,
		Name:         req.Name,
		Category:     req.Category,
		UnitCost:     req.UnitCost,
		ReorderPoint: req.ReorderPoint,
	})
}

func (s *appService) DeleteProduct(ctx context.Context, id int) (err error) {
	ctx, end := s.begin(ctx, "DeleteProduct", attribute.Int("product.id", id))
	defer end(&err)
	return s.catalog.DeleteProduct(ctx, id)
}

func (s *appService) ListWarehouses(ctx context.Context) (_ *WarehouseListResult, err error) {
	ctx, end := s.begin(ctx, "ListWarehouses")
	defer end(&err)

	warehouses, err := s.catalog.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	return &WarehouseListResult{Warehouses: warehouses}, nil
}

func (s *appService) GetWarehouse(ctx context.Context, id int) (_ *core.Warehouse, err error) {
	ctx, end := s.begin(ctx, "GetWarehouse", attribute.Int("warehouse.id", id))
	defer end(&err)
	return s.catalog.GetWarehouse(ctx, id)
}

func (s *appService) CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (_ *core.Warehouse, err error) {
	ctx, end := s.begin(ctx, "CreateWarehouse")
	defer end(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.catalog.CreateWarehouse(ctx, core.Warehouse{
		Name:     strings.TrimSpace(req.Name),
		Location: strings.TrimSpace(req.Location),
		Code:     strings.TrimSpace(req.Code),
	})
}

func (s *appService) UpdateWarehouse(ctx context.Context, id int, req UpdateWarehouseRequest) (_ *core.Warehouse, err error) {
	ctx, end := s.begin(ctx, "UpdateWarehouse", attribute.Int("warehouse.id", id))
	defer end(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.catalog.UpdateWarehouse(ctx, id, core.WarehousePatch{
		Name:     req.Name,
		Location: req.Location,
		Code:     req.Code,
	})
}

func (s *appService) DeleteWarehouse(ctx context.Context, id int) (err error) {
	ctx, end := s.begin(ctx, "DeleteWarehouse", attribute.Int("warehouse.id", id))
	defer end(&err)
	return s.catalog.DeleteWarehouse(ctx, id)
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func (s *appService) ListStock(ctx context.Context) (_ *StockListResult, err error) {
	ctx, end := s.begin(ctx, "ListStock")
	defer end(&err)

	entries, err := s.stock.ListStock(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.lookupNames(ctx)
	if err != nil {
		return nil, err
	}
	return &StockListResult{Rows: n.stockRows(entries)}, nil
}

func (s *appService) GetProductStock(ctx context.Context, productID int) (_ *ProductStockResult, err error) {
	ctx, end := s.begin(ctx, "GetProductStock", attribute.Int("product.id", productID))
	defer end(&err)

	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	entries, err := s.stock.StockLevels(ctx, productID)
	if err != nil {
		return nil, err
	}
	n, err := s.lookupNames(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductStockResult{
		Product:    *p,
		Rows:       n.stockRows(entries),
		TotalStock: core.TotalStock(entries, productID),
	}, nil
}

func (s *appService) GetTotalStock(ctx context.Context, productID int) (_ int, err error) {
	ctx, end := s.begin(ctx, "GetTotalStock", attribute.Int("product.id", productID))
	defer end(&err)
	return s.stock.TotalStock(ctx, productID)
}

func (s *appService) GetStockAt(ctx context.Context, productID, warehouseID int) (_ int, err error) {
	ctx, end := s.begin(ctx, "GetStockAt",
		attribute.Int("product.id", productID), attribute.Int("warehouse.id", warehouseID))
	defer end(&err)
	return s.stock.StockAt(ctx, productID, warehouseID)
}

func (s *appService) GetWarehouseStock(ctx context.Context, warehouseID int) (_ *core.WarehouseStock, err error) {
	ctx, end := s.begin(ctx, "GetWarehouseStock", attribute.Int("warehouse.id", warehouseID))
	defer end(&err)
	return s.stock.WarehouseStock(ctx, warehouseID)
}

// ── Transfers ─────────────────────────────────────────────────────────────────

func transferInput(req TransferRequest) core.TransferInput {
	return core.TransferInput{
		ProductID:       req.ProductID,
		FromWarehouseID: req.FromWarehouseID,
		ToWarehouseID:   req.ToWarehouseID,
		Quantity:        req.Quantity,
		InitiatedBy:     req.InitiatedBy,
		Notes:           strings.TrimSpace(req.Notes),
	}
}

func transferAttrs(req TransferRequest) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("product.id", req.ProductID),
		attribute.Int("transfer.from", req.FromWarehouseID),
		attribute.Int("transfer.to", req.ToWarehouseID),
		attribute.Int("transfer.quantity", req.Quantity),
	}
}

func (s *appService) CreateTransfer(ctx context.Context, req TransferRequest) (_ *core.Transfer, err error) {
	ctx, end := s.begin(ctx, "CreateTransfer", transferAttrs(req)...)
	defer end(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if s.opts.CheckAvailable {
		if err := s.ensureAvailable(ctx, req.ProductID, req.FromWarehouseID, req.Quantity); err != nil {
			return nil, err
		}
	}
	t, err := s.transfers.CreateTransfer(ctx, transferInput(req))
	if err != nil {
		return nil, err
	}
	s.metrics.countTransfer(ctx, t)
	log.Printf("transfer %d completed: product %d qty %d from warehouse %d to %d by %s",
		t.ID, t.ProductID, t.Quantity, t.FromWarehouseID, t.ToWarehouseID, t.InitiatedBy)
	return t, nil
}

func (s *appService) ScheduleTransfer(ctx context.Context, req TransferRequest) (_ *core.Transfer, err error) {
	ctx, end := s.begin(ctx, "ScheduleTransfer", transferAttrs(req)...)
	defer end(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	t, err := s.transfers.ScheduleTransfer(ctx, transferInput(req))
	if err != nil {
		return nil, err
	}
	s.metrics.countTransfer(ctx, t)
	log.Printf("transfer %d scheduled: product %d qty %d from warehouse %d to %d",
		t.ID, t.ProductID, t.Quantity, t.FromWarehouseID, t.ToWarehouseID)
	return t, nil
}

func (s *appService) CompleteTransfer(ctx context.Context, id int) (_ *core.Transfer, err error) {
	ctx, end := s.begin(ctx, "CompleteTransfer", attribute.Int("transfer.id", id))
	defer end(&err)

	if s.opts.CheckAvailable {
		pending, err := s.transfers.ListTransfers(ctx, core.TransferFilter{Status: core.TransferPending})
		if err != nil {
			return nil, err
		}
		for _, t := range pending {
			if t.ID != id {
				continue
			}
			if err := s.ensureAvailable(ctx, t.ProductID, t.FromWarehouseID, t.Quantity); err != nil {
				return nil, err
			}
		}
	}
	t, err := s.transfers.CompleteTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	s.metrics.countTransfer(ctx, t)
	log.Printf("transfer %d completed", t.ID)
	return t, nil
}

func (s *appService) CancelTransfer(ctx context.Context, id int, notes string) (_ *core.Transfer, err error) {
	ctx, end := s.begin(ctx, "CancelTransfer", attribute.Int("transfer.id", id))
	defer end(&err)

	t, err := s.transfers.CancelTransfer(ctx, id, strings.TrimSpace(notes))
	if err != nil {
		return nil, err
	}
	s.metrics.countTransfer(ctx, t)
	log.Printf("transfer %d cancelled", t.ID)
	return t, nil
}

func (s *appService) ListTransfers(ctx context.Context, req TransferListRequest) (_ *TransferListResult, err error) {
	ctx, end := s.begin(ctx, "ListTransfers")
	defer end(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	transfers, err := s.transfers.ListTransfers(ctx, core.TransferFilter{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Status:      core.TransferStatus(req.Status),
	})
	if err != nil {
		return nil, err
	}
	n, err := s.lookupNames(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]TransferRow, 0, len(transfers))
	for _, t := range transfers {
		rows = append(rows, TransferRow{
			Transfer:    t,
			ProductName: n.products[t.ProductID].Name,
			FromCode:    n.warehouses[t.FromWarehouseID].Code,
			ToCode:      n.warehouses[t.ToWarehouseID].Code,
		})
	}
	return &TransferListResult{Transfers: rows}, nil
}

// ensureAvailable checks that the source warehouse holds at least qty of the product.
// A source without a stock entry passes: the transfer then only credits the
// destination. Unknown ids are reported as core.ErrNotFound before any comparison.
func (s *appService) ensureAvailable(ctx context.Context, productID, warehouseID, qty int) error {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return err
	}
	w, err := s.catalog.GetWarehouse(ctx, warehouseID)
	if err != nil {
		return err
	}
	entries, err := s.stock.StockLevels(ctx, productID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.WarehouseID == warehouseID && qty > e.Quantity {
			return fmt.Errorf("%w: %s holds %d, requested %d", core.ErrInsufficientStock, w.Code, e.Quantity, qty)
		}
	}
	return nil
}

// ── Alerts ────────────────────────────────────────────────────────────────────

func (s *appService) ListAlerts(ctx context.Context, req AlertListRequest) (_ *AlertListResult, err error) {
	ctx, end := s.begin(ctx, "ListAlerts")
	defer end(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	alerts, err := s.alerts.ListAlerts(ctx, core.AlertFilter{
		ProductID: req.ProductID,
		Status:    core.AlertStatus(req.Status),
		Level:     core.AlertLevel(req.Level),
	})
	if err != nil {
		return nil, err
	}
	n, err := s.lookupNames(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]AlertRow, 0, len(alerts))
	for _, a := range alerts {
		p := n.products[a.ProductID]
		rows = append(rows, AlertRow{Alert: a, SKU: p.SKU, ProductName: p.Name})
	}
	return &AlertListResult{Alerts: rows}, nil
}

func (s *appService) GenerateAlerts(ctx context.Context) (_ *GenerateAlertsResult, err error) {
	ctx, end := s.begin(ctx, "GenerateAlerts")
	defer end(&err)

	before, err := s.alerts.ListAlerts(ctx, core.AlertFilter{})
	if err != nil {
		return nil, err
	}
	alerts, err := s.alerts.GenerateAlerts(ctx)
	if err != nil {
		return nil, err
	}
	created := alerts[:len(alerts)-len(before)]
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("alerts.created", len(created)))
	if s.metrics.alertsCreated != nil {
		s.metrics.alertsCreated.Add(ctx, int64(len(created)))
	}
	log.Printf("alert generation: %d new, %d total", len(created), len(alerts))
	return &GenerateAlertsResult{Created: created, Alerts: alerts}, nil
}

func (s *appService) UpdateAlertStatus(ctx context.Context, req UpdateAlertStatusRequest) (_ *core.Alert, err error) {
	ctx, end := s.begin(ctx, "UpdateAlertStatus",
		attribute.Int("alert.id", req.ID), attribute.String("alert.status", req.Status))
	defer end(&err)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.alerts.UpdateAlertStatus(ctx, req.ID, core.AlertStatus(req.Status), strings.TrimSpace(req.Notes))
}

func (s *appService) AssessStock(ctx context.Context) (_ []core.Assessment, err error) {
	ctx, end := s.begin(ctx, "AssessStock")
	defer end(&err)
	return s.alerts.Assess(ctx)
}

// ── Reporting & administration ────────────────────────────────────────────────

func (s *appService) GetDashboard(ctx context.Context) (_ *core.Dashboard, err error) {
	ctx, end := s.begin(ctx, "GetDashboard")
	defer end(&err)
	return s.dashboard.Dashboard(ctx)
}

func (s *appService) ExportInventory(ctx context.Context, w io.Writer) (err error) {
	ctx, end := s.begin(ctx, "ExportInventory")
	defer end(&err)

	items, err := s.stock.InventoryOverview(ctx)
	if err != nil {
		return err
	}
	warehouses, err := s.catalog.ListWarehouses(ctx)
	if err != nil {
		return err
	}
	inv := report.Inventory{
		GeneratedAt:  time.Now().UTC(),
		Items:        items,
		ProductNames: make(map[int]string, len(items)),
	}
	if s.opts.Clock != nil {
		inv.GeneratedAt = s.opts.Clock()
	}
	for _, it := range items {
		inv.ProductNames[it.Product.ID] = it.Product.Name
	}
	for _, wh := range warehouses {
		ws, err := s.stock.WarehouseStock(ctx, wh.ID)
		if err != nil {
			return err
		}
		inv.Warehouses = append(inv.Warehouses, *ws)
	}
	if inv.Alerts, err = s.alerts.ListAlerts(ctx, core.AlertFilter{}); err != nil {
		return err
	}
	return report.WriteInventoryXLSX(w, inv)
}

func (s *appService) SnapshotSchema() ([]byte, error) {
	return report.SnapshotSchema()
}

func (s *appService) ResetData(ctx context.Context) (err error) {
	ctx, end := s.begin(ctx, "ResetData")
	defer end(&err)

	if err := store.Seed(ctx, s.store, true); err != nil {
		return fmt.Errorf("failed to reset data: %w", err)
	}
	log.Println("store reset to seed data")
	return nil
}

// ── Display names ─────────────────────────────────────────────────────────────

type names struct {
	products   map[int]core.Product
	warehouses map[int]core.Warehouse
}

func (s *appService) lookupNames(ctx context.Context) (*names, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	warehouses, err := s.catalog.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	n := &names{
		products:   make(map[int]core.Product, len(products)),
		warehouses: make(map[int]core.Warehouse, len(warehouses)),
	}
	for _, p := range products {
		n.products[p.ID] = p
	}
	for _, w := range warehouses {
		n.warehouses[w.ID] = w
	}
	return n, nil
}

func (n *names) stockRows(entries []core.StockEntry) []StockRow {
	rows := make([]StockRow, 0, len(entries))
	for _, e := range entries {
		p := n.products[e.ProductID]
		rows = append(rows, StockRow{
			StockEntry:    e,
			SKU:           p.SKU,
			ProductName:   p.Name,
			WarehouseCode: n.warehouses[e.WarehouseID].Code,
		})
	}
	return rows
}
