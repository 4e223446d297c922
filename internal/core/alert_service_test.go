package core_test

import (
	"errors"
	"testing"

	"greensupply/internal/core"
)

func TestClassify_ThresholdBoundaries(t *testing.T) {
	tests := []struct {
		stock     int
		level     core.AlertLevel
		recommend int
	}{
		{0, core.LevelCritical, 300},
		{49, core.LevelCritical, 201},
		{50, core.LevelLow, 150},
		{99, core.LevelLow, 101},
		{100, core.LevelAdequate, 0},
		{499, core.LevelAdequate, 0},
		{500, core.LevelOverstocked, 0},
		{-10, core.LevelCritical, 260},
	}
	for _, tt := range tests {
		got := core.Classify(tt.stock, 100)
		if got.Level != tt.level || got.RecommendedOrderQuantity != tt.recommend {
			t.Errorf("Classify(%d, 100) = %+v, want %s/%d", tt.stock, got, tt.level, tt.recommend)
		}
		if again := core.Classify(tt.stock, 100); again != got {
			t.Errorf("Classify(%d, 100) not deterministic: %+v vs %+v", tt.stock, got, again)
		}
	}
}

func TestClassify_RoundsUp(t *testing.T) {
	// R=5: 2.5*5 - 1 = 11.5
	if got := core.Classify(1, 5); got.Level != core.LevelCritical || got.RecommendedOrderQuantity != 12 {
		t.Errorf("Classify(1, 5) = %+v, want critical/12", got)
	}
}

func TestClassify_ZeroReorderPoint(t *testing.T) {
	if got := core.Classify(0, 0); got.Level != core.LevelCritical || got.RecommendedOrderQuantity != 0 {
		t.Errorf("Classify(0, 0) = %+v", got)
	}
	if got := core.Classify(3, 0); got.Level != core.LevelOverstocked {
		t.Errorf("Classify(3, 0) = %+v", got)
	}
}

func TestAlertService_GenerateAlerts(t *testing.T) {
	s, ctx := setupStore(t,
		[]core.Product{product(1, 100), product(2, 100), product(3, 100)},
		[]core.StockEntry{
			{ID: 1, ProductID: 1, WarehouseID: 1, Quantity: 30},
			{ID: 2, ProductID: 1, WarehouseID: 2, Quantity: 30},
			{ID: 3, ProductID: 2, WarehouseID: 1, Quantity: 200},
		})
	svc := core.NewAlertService(s, fixedClock, core.DefaultFlapTolerance)

	alerts, err := svc.GenerateAlerts(ctx)
	if err != nil {
		t.Fatalf("GenerateAlerts failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %+v", alerts)
	}
	if alerts[0].ID != 1 || alerts[0].ProductID != 1 || alerts[0].AlertLevel != core.LevelLow || alerts[0].RecommendedOrderQuantity != 140 {
		t.Errorf("unexpected first alert %+v", alerts[0])
	}
	if alerts[1].ID != 2 || alerts[1].ProductID != 3 || alerts[1].AlertLevel != core.LevelCritical || alerts[1].RecommendedOrderQuantity != 300 {
		t.Errorf("unexpected second alert %+v", alerts[1])
	}
	for _, a := range alerts {
		if a.Status != core.AlertPending || !a.CreatedAt.Equal(fixedNow) || a.ReorderPoint != 100 {
			t.Errorf("unexpected alert fields %+v", a)
		}
	}

	// Repeated generation never adds a second live alert.
	for i := 0; i < 3; i++ {
		again, err := svc.GenerateAlerts(ctx)
		if err != nil {
			t.Fatalf("GenerateAlerts failed: %v", err)
		}
		if len(again) != 2 {
			t.Fatalf("duplicate live alerts after pass %d: %+v", i, again)
		}
	}
}

func TestAlertService_FlapSuppression(t *testing.T) {
	tests := []struct {
		name      string
		liveStock int
		wantNew   bool
	}{
		{"within tolerance", 42, false},
		{"at tolerance", 45, false},
		{"beyond tolerance", 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ctx := setupStore(t,
				[]core.Product{product(1, 100)},
				[]core.StockEntry{{ID: 1, ProductID: 1, WarehouseID: 1, Quantity: tt.liveStock}})
			if err := s.SetAlerts(ctx, []core.Alert{{
				ID: 3, ProductID: 1, TotalStock: 40, ReorderPoint: 100,
				AlertLevel: core.LevelCritical, Status: core.AlertResolved, CreatedAt: fixedNow,
			}}); err != nil {
				t.Fatalf("seed alerts: %v", err)
			}
			svc := core.NewAlertService(s, fixedClock, core.DefaultFlapTolerance)

			alerts, err := svc.GenerateAlerts(ctx)
			if err != nil {
				t.Fatalf("GenerateAlerts failed: %v", err)
			}
			if got := len(alerts) == 2; got != tt.wantNew {
				t.Fatalf("new alert = %v, want %v (%+v)", got, tt.wantNew, alerts)
			}
			if tt.wantNew && (alerts[0].ID != 4 || alerts[0].AlertLevel != core.LevelCritical) {
				t.Errorf("unexpected new alert %+v", alerts[0])
			}
		})
	}
}

func TestAlertService_LiveAlertBlocksRegardlessOfHistory(t *testing.T) {
	s, ctx := setupStore(t, []core.Product{product(1, 100)}, nil)
	if err := s.SetAlerts(ctx, []core.Alert{
		{ID: 2, ProductID: 1, TotalStock: 80, Status: core.AlertAcknowledged, AlertLevel: core.LevelLow},
		{ID: 1, ProductID: 1, TotalStock: 90, Status: core.AlertDismissed, AlertLevel: core.LevelLow},
	}); err != nil {
		t.Fatalf("seed alerts: %v", err)
	}
	svc := core.NewAlertService(s, fixedClock, core.DefaultFlapTolerance)

	alerts, err := svc.GenerateAlerts(ctx)
	if err != nil {
		t.Fatalf("GenerateAlerts failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Errorf("acknowledged alert should block a new one, got %+v", alerts)
	}
}

func TestAlertService_UpdateAlertStatus(t *testing.T) {
	s, ctx := setupStore(t, []core.Product{product(1, 100)}, nil)
	if err := s.SetAlerts(ctx, []core.Alert{
		{ID: 1, ProductID: 1, Status: core.AlertPending, AlertLevel: core.LevelCritical, Notes: "original"},
	}); err != nil {
		t.Fatalf("seed alerts: %v", err)
	}
	svc := core.NewAlertService(s, fixedClock, core.DefaultFlapTolerance)

	a, err := svc.UpdateAlertStatus(ctx, 1, core.AlertAcknowledged, "")
	if err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}
	if a.AcknowledgedAt == nil || a.Notes != "original" {
		t.Errorf("unexpected acknowledged alert %+v", a)
	}

	a, err = svc.UpdateAlertStatus(ctx, 1, core.AlertResolved, "restocked")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if a.ResolvedAt == nil || a.DismissedAt != nil || a.Notes != "restocked" {
		t.Errorf("unexpected resolved alert %+v", a)
	}

	stored, _ := svc.ListAlerts(ctx, core.AlertFilter{})
	if stored[0].Status != core.AlertResolved || stored[0].AcknowledgedAt == nil {
		t.Errorf("status change not persisted: %+v", stored[0])
	}

	if _, err := svc.UpdateAlertStatus(ctx, 1, core.AlertDismissed, ""); !errors.Is(err, core.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition from terminal status, got %v", err)
	}
	if _, err := svc.UpdateAlertStatus(ctx, 42, core.AlertResolved, ""); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.UpdateAlertStatus(ctx, 1, core.AlertStatus("archived"), ""); !errors.Is(err, core.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestAlertService_SummaryAndFilters(t *testing.T) {
	s, ctx := setupStore(t, []core.Product{product(1, 100), product(2, 100)}, nil)
	if err := s.SetAlerts(ctx, []core.Alert{
		{ID: 3, ProductID: 2, Status: core.AlertPending, AlertLevel: core.LevelLow},
		{ID: 2, ProductID: 1, Status: core.AlertPending, AlertLevel: core.LevelCritical},
		{ID: 1, ProductID: 1, Status: core.AlertResolved, AlertLevel: core.LevelCritical},
	}); err != nil {
		t.Fatalf("seed alerts: %v", err)
	}
	svc := core.NewAlertService(s, fixedClock, core.DefaultFlapTolerance)

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	want := core.AlertSummary{Total: 3, Pending: 2, Closed: 1, CriticalPending: 1, LowPending: 1}
	if *sum != want {
		t.Errorf("Summary = %+v, want %+v", *sum, want)
	}

	list, _ := svc.ListAlerts(ctx, core.AlertFilter{ProductID: 1, Level: core.LevelCritical})
	if len(list) != 2 {
		t.Errorf("expected 2 critical alerts for product 1, got %d", len(list))
	}
	list, _ = svc.ListAlerts(ctx, core.AlertFilter{Status: core.AlertPending})
	if len(list) != 2 || list[0].ID != 3 {
		t.Errorf("unexpected pending list %+v", list)
	}
}
