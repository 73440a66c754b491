package services

import (
	"context"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/internal/layout"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/internal/registry"
	"github.com/GregMSThompson/dashboard-backend/pkg/helpers"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

// layoutStore is the in-memory dashboard the API reads and mutates.
type layoutStore interface {
	Snapshot() layout.Snapshot
	Widget(id string) (models.WidgetConfig, bool)
	UpdateWidgetEnabled(id string, enabled bool)
	UpdateLayout(newLayout []models.LayoutEntry)
	Subscribe(fn func(layout.Snapshot)) func()
}

// dashboardPersistence is the part of the gateway the API triggers directly.
type dashboardPersistence interface {
	SaveDashboard(ctx context.Context)
	LoadDashboard(ctx context.Context)
	Identity() dto.SessionResponse
}

type widgetRegistry interface {
	Lookup(widgetType string) (registry.Renderer, bool)
	Catalog() []dto.WidgetTypeEntry
}

type dashboardService struct {
	store    layoutStore
	gateway  dashboardPersistence
	registry widgetRegistry
}

func NewDashboardService(store layoutStore, gateway dashboardPersistence, registry widgetRegistry) *dashboardService {
	return &dashboardService{store: store, gateway: gateway, registry: registry}
}

// GetDashboard builds the grid view. Only enabled widgets are placed; layout
// entries that match no enabled widget are left out of the placement.
func (s *dashboardService) GetDashboard(ctx context.Context) (dto.DashboardView, error) {
	return s.view(s.store.Snapshot()), nil
}

func (s *dashboardService) view(snap layout.Snapshot) dto.DashboardView {
	byID := make(map[string]models.LayoutEntry, len(snap.Layout))
	for _, e := range snap.Layout {
		byID[e.I] = e
	}

	enabled := make([]dto.GridWidget, 0, len(snap.Widgets))
	for _, w := range snap.Widgets {
		if !w.Enabled {
			continue
		}
		gw := dto.GridWidget{WidgetConfig: w}
		if e, ok := byID[w.ID]; ok {
			gw.Layout = helpers.Ptr(e)
		}
		enabled = append(enabled, gw)
	}

	return dto.DashboardView{
		Identity: s.gateway.Identity().Identity,
		Grid:     dto.DefaultGrid(),
		Enabled:  enabled,
		Widgets:  orEmpty(snap.Widgets),
		Layout:   orEmpty(snap.Layout),
		Empty:    len(enabled) == 0,
	}
}

func (s *dashboardService) SetWidgetEnabled(ctx context.Context, widgetID string, enabled bool) error {
	log := logger.FromContext(ctx)
	s.store.UpdateWidgetEnabled(widgetID, enabled)
	log.Debug("widget visibility changed", "widget_id", widgetID, "enabled", enabled)
	return nil
}

func (s *dashboardService) UpdateLayout(ctx context.Context, req dto.UpdateLayoutRequest) error {
	if req.Layout == nil {
		return errs.NewValidationError("layout is required")
	}
	s.store.UpdateLayout(req.Layout)
	return nil
}

func (s *dashboardService) Save(ctx context.Context) {
	s.gateway.SaveDashboard(ctx)
}

func (s *dashboardService) Load(ctx context.Context) {
	s.gateway.LoadDashboard(ctx)
}

func (s *dashboardService) WidgetTypes() []dto.WidgetTypeEntry {
	return s.registry.Catalog()
}

func (s *dashboardService) GetWidgetData(ctx context.Context, widgetID string) (dto.WidgetDataResponse, error) {
	w, ok := s.store.Widget(widgetID)
	if !ok {
		return dto.WidgetDataResponse{}, errs.NewNotFoundError("widget not found")
	}
	renderer, ok := s.registry.Lookup(w.Type)
	if !ok {
		return dto.WidgetDataResponse{}, errs.NewValidationError("unknown widget type: " + w.Type)
	}
	data, err := renderer.Render(ctx)
	if err != nil {
		return dto.WidgetDataResponse{}, err
	}
	return dto.WidgetDataResponse{
		WidgetID: widgetID,
		Type:     w.Type,
		Data:     data,
	}, nil
}

// Watch calls fn with the grid view after every dashboard change until the
// returned func is called.
func (s *dashboardService) Watch(fn func(dto.DashboardView)) func() {
	return s.store.Subscribe(func(snap layout.Snapshot) {
		fn(s.view(snap))
	})
}
