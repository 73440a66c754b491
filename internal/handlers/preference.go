package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/response"
)

type PreferenceService interface {
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) (string, error)
	ToggleTheme(ctx context.Context) (string, error)
}

type preferenceHandlers struct {
	ResponseHandler response.ResponseHandler
	PreferenceSvc   PreferenceService
}

func NewPreferenceHandlers(deps *Deps) *preferenceHandlers {
	return &preferenceHandlers{
		ResponseHandler: deps.ResponseHandler,
		PreferenceSvc:   deps.PreferenceSvc,
	}
}

func (h *preferenceHandlers) PreferenceRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/theme", h.GetTheme)
	r.Put("/theme", h.SetTheme)
	r.Post("/theme/toggle", h.ToggleTheme)
	return r
}

func (h *preferenceHandlers) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.PreferenceSvc.Theme(r.Context())
	h.writeTheme(w, r, theme, err)
}

func (h *preferenceHandlers) SetTheme(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateThemeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	theme, err := h.PreferenceSvc.SetTheme(r.Context(), req.Theme)
	h.writeTheme(w, r, theme, err)
}

func (h *preferenceHandlers) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.PreferenceSvc.ToggleTheme(r.Context())
	h.writeTheme(w, r, theme, err)
}

func (h *preferenceHandlers) writeTheme(w http.ResponseWriter, r *http.Request, theme string, err error) {
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.ThemeResponse{Theme: theme})
}
