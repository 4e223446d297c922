package core

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultFlapTolerance is how far live stock must move away from the snapshot of the
// last closed alert before a product is alerted again.
const DefaultFlapTolerance = 5

var (
	criticalFactor = decimal.NewFromFloat(2.5)
	lowFactor      = decimal.NewFromInt(2)
)

// Classification is the alert tier for one stock level and the quantity to order.
type Classification struct {
	Level                    AlertLevel `json:"alertLevel"`
	RecommendedOrderQuantity int        `json:"recommendedOrderQuantity"`
}

// Classify maps aggregate stock against a reorder point R:
//
//	stock == 0          critical, order R*3
//	stock <  R*0.5      critical, order ceil(R*2.5 - stock)
//	stock <  R          low,      order ceil(R*2 - stock)
//	stock >= R*5        overstocked
//	otherwise           adequate
//
// Negative stock classifies as critical.
func Classify(totalStock, reorderPoint int) Classification {
	s := int64(totalStock)
	r := int64(reorderPoint)
	switch {
	case s == 0:
		return Classification{Level: LevelCritical, RecommendedOrderQuantity: int(r * 3)}
	case 2*s < r:
		return Classification{Level: LevelCritical, RecommendedOrderQuantity: orderUpTo(criticalFactor, r, s)}
	case s < r:
		return Classification{Level: LevelLow, RecommendedOrderQuantity: orderUpTo(lowFactor, r, s)}
	case s >= 5*r:
		return Classification{Level: LevelOverstocked}
	default:
		return Classification{Level: LevelAdequate}
	}
}

// orderUpTo returns ceil(factor*r - s), never below zero.
func orderUpTo(factor decimal.Decimal, r, s int64) int {
	q := factor.Mul(decimal.NewFromInt(r)).Sub(decimal.NewFromInt(s)).Ceil().IntPart()
	if q < 0 {
		return 0
	}
	return int(q)
}

// Assessment is the live classification of one product. It is never persisted.
type Assessment struct {
	Product    Product `json:"product"`
	TotalStock int     `json:"totalStock"`
	Classification
}

// AlertFilter narrows ListAlerts. Zero fields match everything.
type AlertFilter struct {
	ProductID int
	Status    AlertStatus
	Level     AlertLevel
}

// AlertSummary counts alerts by lifecycle position.
type AlertSummary struct {
	Total           int `json:"total"`
	Pending         int `json:"pending"`
	Acknowledged    int `json:"acknowledged"`
	Closed          int `json:"closed"`
	CriticalPending int `json:"criticalPending"`
	LowPending      int `json:"lowPending"`
}

// AlertService classifies stock and owns the alert lifecycle.
type AlertService interface {
	// GenerateAlerts reconciles every product against its existing alerts and
	// returns the full alert collection with any new alerts first.
	GenerateAlerts(ctx context.Context) ([]Alert, error)
	// UpdateAlertStatus moves an alert along its state machine. Notes replace the
	// existing notes only when non-empty.
	UpdateAlertStatus(ctx context.Context, id int, status AlertStatus, notes string) (*Alert, error)
	ListAlerts(ctx context.Context, filter AlertFilter) ([]Alert, error)
	Summary(ctx context.Context) (*AlertSummary, error)
	// Assess classifies every product without persisting anything.
	Assess(ctx context.Context) ([]Assessment, error)
}

type alertService struct {
	store         EntityStore
	now           Clock
	flapTolerance int
}

// NewAlertService returns an AlertService backed by store. A nil clock uses UTC wall
// time; a negative flapTolerance uses DefaultFlapTolerance.
func NewAlertService(store EntityStore, clock Clock, flapTolerance int) AlertService {
	if clock == nil {
		clock = systemClock
	}
	if flapTolerance < 0 {
		flapTolerance = DefaultFlapTolerance
	}
	return &alertService{store: store, now: clock, flapTolerance: flapTolerance}
}

// ── Generation ────────────────────────────────────────────────────────────────

func (s *alertService) GenerateAlerts(ctx context.Context) ([]Alert, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	alerts, err := s.store.Alerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	ids, err := newIDAllocator(ctx, s.store, CollectionAlerts, maxID(alerts, alertKey))
	if err != nil {
		return nil, err
	}

	now := s.now()
	var created []Alert
	for _, p := range products {
		total := TotalStock(stock, p.ID)
		c := Classify(total, p.ReorderPoint)
		if !s.warranted(alerts, p.ID, total, c.Level) {
			continue
		}
		created = append(created, Alert{
			ID:                       ids.Next(),
			ProductID:                p.ID,
			TotalStock:               total,
			ReorderPoint:             p.ReorderPoint,
			AlertLevel:               c.Level,
			Status:                   AlertPending,
			RecommendedOrderQuantity: c.RecommendedOrderQuantity,
			CreatedAt:                now,
		})
	}
	if len(created) == 0 {
		return alerts, nil
	}

	updated := append(created, alerts...)
	if err := s.store.SetAlerts(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save alerts: %w", err)
	}
	if err := ids.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// warranted decides whether a product at the given stock level needs a new alert.
// A live alert always blocks. After a closed alert, stock must have moved by more
// than the flap tolerance since that alert's snapshot.
func (s *alertService) warranted(alerts []Alert, productID, total int, level AlertLevel) bool {
	if !level.Actionable() {
		return false
	}
	var lastClosed *Alert
	for i := range alerts {
		a := &alerts[i]
		if a.ProductID != productID {
			continue
		}
		if !a.Status.Terminal() {
			return false
		}
		if lastClosed == nil || a.ID > lastClosed.ID {
			lastClosed = a
		}
	}
	if lastClosed == nil {
		return true
	}
	diff := total - lastClosed.TotalStock
	if diff < 0 {
		diff = -diff
	}
	return diff > s.flapTolerance
}

// ── Lifecycle ─────────────────────────────────────────────────────────────────

var alertTransitions = map[AlertStatus][]AlertStatus{
	AlertPending:      {AlertAcknowledged, AlertResolved, AlertDismissed},
	AlertAcknowledged: {AlertResolved, AlertDismissed},
}

func canTransition(from, to AlertStatus) bool {
	for _, s := range alertTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *alertService) UpdateAlertStatus(ctx context.Context, id int, status AlertStatus, notes string) (*Alert, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown alert status %q", ErrValidation, status)
	}
	alerts, err := s.store.Alerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	i := -1
	for j, a := range alerts {
		if a.ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		return nil, fmt.Errorf("alert %d: %w", id, ErrNotFound)
	}

	a := alerts[i]
	if !canTransition(a.Status, status) {
		return nil, fmt.Errorf("alert %d is %s, cannot become %s: %w", id, a.Status, status, ErrInvalidTransition)
	}

	now := s.now()
	a.Status = status
	switch status {
	case AlertAcknowledged:
		a.AcknowledgedAt = &now
	case AlertResolved:
		a.ResolvedAt = &now
	case AlertDismissed:
		a.DismissedAt = &now
	}
	if notes != "" {
		a.Notes = notes
	}

	alerts[i] = a
	if err := s.store.SetAlerts(ctx, alerts); err != nil {
		return nil, fmt.Errorf("failed to save alerts: %w", err)
	}
	return &a, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *alertService) ListAlerts(ctx context.Context, filter AlertFilter) ([]Alert, error) {
	alerts, err := s.store.Alerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	out := make([]Alert, 0, len(alerts))
	for _, a := range alerts {
		if filter.ProductID != 0 && a.ProductID != filter.ProductID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Level != "" && a.AlertLevel != filter.Level {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *alertService) Summary(ctx context.Context) (*AlertSummary, error) {
	alerts, err := s.store.Alerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	sum := &AlertSummary{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Status {
		case AlertPending:
			sum.Pending++
			switch a.AlertLevel {
			case LevelCritical:
				sum.CriticalPending++
			case LevelLow:
				sum.LowPending++
			}
		case AlertAcknowledged:
			sum.Acknowledged++
		default:
			sum.Closed++
		}
	}
	return sum, nil
}

func (s *alertService) Assess(ctx context.Context) ([]Assessment, error) {
	products, err := s.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	stock, err := s.store.Stock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}
	out := make([]Assessment, 0, len(products))
	for _, p := range products {
		total := TotalStock(stock, p.ID)
		out = append(out, Assessment{Product: p, TotalStock: total, Classification: Classify(total, p.ReorderPoint)})
	}
	return out, nil
}
