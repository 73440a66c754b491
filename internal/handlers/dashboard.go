package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/internal/response"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

type DashboardService interface {
	GetDashboard(ctx context.Context) (dto.DashboardView, error)
	SetWidgetEnabled(ctx context.Context, widgetID string, enabled bool) error
	UpdateLayout(ctx context.Context, req dto.UpdateLayoutRequest) error
	Save(ctx context.Context)
	Load(ctx context.Context)
	WidgetTypes() []dto.WidgetTypeEntry
	GetWidgetData(ctx context.Context, widgetID string) (dto.WidgetDataResponse, error)
	Watch(fn func(dto.DashboardView)) func()
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetDashboard)
	r.Put("/layout", h.UpdateLayout)
	r.Put("/widgets/{widgetId}", h.SetWidgetEnabled)
	r.Get("/widgets/{widgetId}/data", h.GetWidgetData)
	r.Get("/widget-types", h.GetWidgetTypes)
	r.Post("/save", h.Save)
	r.Post("/load", h.Load)
	r.Get("/events", h.Events)
	return r
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.DashboardSvc.GetDashboard(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

func (h *dashboardHandlers) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLayoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.DashboardSvc.UpdateLayout(r.Context(), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) SetWidgetEnabled(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	var req dto.UpdateWidgetEnabledRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if req.Enabled == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("enabled is required"))
		return
	}
	if err := h.DashboardSvc.SetWidgetEnabled(r.Context(), widgetID, *req.Enabled); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) GetWidgetData(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	data, err := h.DashboardSvc.GetWidgetData(r.Context(), widgetID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *dashboardHandlers) GetWidgetTypes(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.WidgetTypes())
}

func (h *dashboardHandlers) Save(w http.ResponseWriter, r *http.Request) {
	h.DashboardSvc.Save(r.Context())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// Load re-reads the signed-in user's dashboard and returns the resulting view.
func (h *dashboardHandlers) Load(w http.ResponseWriter, r *http.Request) {
	h.DashboardSvc.Load(r.Context())
	h.GetDashboard(w, r)
}

// Events streams the grid view as server-sent events: the current view first,
// then one event per change. A slow client only receives the latest view.
func (h *dashboardHandlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.ResponseHandler.WriteError(w, r, http.StatusInternalServerError, "streaming_unsupported", "streaming is not supported")
		return
	}

	updates := make(chan dto.DashboardView, 1)
	stop := h.DashboardSvc.Watch(func(v dto.DashboardView) {
		for {
			select {
			case updates <- v:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer stop()

	view, err := h.DashboardSvc.GetDashboard(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	log := logger.FromContext(r.Context())
	log.Info("dashboard stream opened")
	defer log.Info("dashboard stream closed")

	for {
		if err := writeEvent(w, "dashboard", view); err != nil {
			log.Warn("error writing dashboard event", "error", err)
			return
		}
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		case view = <-updates:
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
