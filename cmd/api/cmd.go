package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/dashboard-backend/internal/bootstrap"
	"github.com/GregMSThompson/dashboard-backend/internal/config"
	"github.com/GregMSThompson/dashboard-backend/internal/handlers"
	"github.com/GregMSThompson/dashboard-backend/internal/layout"
	"github.com/GregMSThompson/dashboard-backend/internal/registry"
	"github.com/GregMSThompson/dashboard-backend/internal/response"
	"github.com/GregMSThompson/dashboard-backend/internal/router"
	"github.com/GregMSThompson/dashboard-backend/internal/services"
	"github.com/GregMSThompson/dashboard-backend/internal/store"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	ctx := logger.ToContext(context.Background(), bs.Log)

	// stores
	lstore := store.NewLocalStore(bs.LocalDB)
	tstore := store.NewTodoStore(lstore)
	dstore := store.NewDashboardStore(bs.Firestore)

	// dashboard session
	reg := registry.NewDefault(registry.Options{MockLatency: cfg.MockLatency}, tstore)
	state := layout.NewStore(reg)
	gateway := services.NewPersistenceGateway(bs.Log, state, dstore, lstore, reg, services.GatewayOptions{
		AutosaveDelay: cfg.AutosaveDelay,
		SaveTimeout:   cfg.SaveTimeout,
	})
	exitOnError("loading local dashboard failed", gateway.LoadLocal(ctx), bs.Log)

	// services
	dserv := services.NewDashboardService(state, gateway, reg)
	tserv := services.NewTodoService(tstore)
	pserv := services.NewPreferenceService(lstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.DashboardSvc = dserv
	deps.SessionSvc = gateway
	deps.TodoSvc = tserv
	deps.PreferenceSvc = pserv

	// router
	r := router.NewRouter(deps)
	srv := router.NewServer(ctx, ":"+cfg.Port, r)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		bs.Log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	}()

	<-sigCtx.Done()
	bs.Log.Info("shutting down")

	// Cloud Run kills the container 10s after SIGTERM; the final save must fit.
	drainCtx, cancelDrain := context.WithTimeout(ctx, 3*time.Second)
	defer cancelDrain()
	if err := srv.Shutdown(drainCtx); err != nil {
		bs.Log.Error("server shutdown failed", "error", err)
	}
	gateway.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := bs.Close(shutdownCtx); err != nil {
		bs.Log.Error("closing clients failed", "error", err)
	}
}
