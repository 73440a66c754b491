package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/dashboard-backend/internal/handlers"
	"github.com/GregMSThompson/dashboard-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	dh := handlers.NewDashboardHandlers(deps)
	sh := handlers.NewSessionHandlers(deps)
	th := handlers.NewTodoHandlers(deps)
	ph := handlers.NewPreferenceHandlers(deps)

	r.Mount("/dashboard", dh.DashboardRoutes())
	r.Mount("/session", sh.SessionRoutes())
	r.Mount("/todos", th.TodoRoutes())
	r.Mount("/preferences", ph.PreferenceRoutes())
	return r
}
