package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/middleware"
	"github.com/GregMSThompson/dashboard-backend/internal/response"
)

type SessionService interface {
	Identity() dto.SessionResponse
	SignIn(ctx context.Context, uid string) error
	SignOut(ctx context.Context) error
}

type sessionHandlers struct {
	ResponseHandler response.ResponseHandler
	SessionSvc      SessionService
	Auth            func(http.Handler) http.Handler
}

func NewSessionHandlers(deps *Deps) *sessionHandlers {
	return &sessionHandlers{
		ResponseHandler: deps.ResponseHandler,
		SessionSvc:      deps.SessionSvc,
		Auth:            middleware.NewMiddleware(deps.Firebase).FirebaseAuth,
	}
}

func (h *sessionHandlers) SessionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetSession)
	r.With(h.Auth).Post("/", h.SignIn)
	r.Delete("/", h.SignOut)
	return r
}

func (h *sessionHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.SessionSvc.Identity())
}

// SignIn switches the dashboard to the user of the verified ID token.
func (h *sessionHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	if err := h.SessionSvc.SignIn(r.Context(), uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.SessionSvc.Identity())
}

func (h *sessionHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionSvc.SignOut(r.Context()); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.SessionSvc.Identity())
}
