package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Dashboard is the headline view of the whole inventory.
type Dashboard struct {
	TotalProducts   int             `json:"totalProducts"`
	TotalWarehouses int             `json:"totalWarehouses"`
	InventoryValue  decimal.Decimal `json:"inventoryValue"`
	PendingAlerts   int             `json:"pendingAlerts"`
	Alerts          AlertSummary    `json:"alerts"`
	Inventory       []InventoryItem `json:"inventory"`
}

type DashboardService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type dashboardService struct {
	catalog CatalogService
	stock   StockService
	alerts  AlertService
}

func NewDashboardService(catalog CatalogService, stock StockService, alerts AlertService) DashboardService {
	return &dashboardService{catalog: catalog, stock: stock, alerts: alerts}
}

func (s *dashboardService) Dashboard(ctx context.Context) (*Dashboard, error) {
	warehouses, err := s.catalog.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.stock.InventoryOverview(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.alerts.Summary(ctx)
	if err != nil {
		return nil, err
	}

	value, err := s.stock.TotalInventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		TotalProducts:   len(items),
		TotalWarehouses: len(warehouses),
		InventoryValue:  value,
		PendingAlerts:   summary.Pending,
		Alerts:          *summary,
		Inventory:       items,
	}, nil
}
