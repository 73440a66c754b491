package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/dashboard-backend/internal/middleware"
	"github.com/GregMSThompson/dashboard-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        middleware.TokenVerifier
	DashboardSvc    DashboardService
	SessionSvc      SessionService
	TodoSvc         TodoService
	PreferenceSvc   PreferenceService
}
