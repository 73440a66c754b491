package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/internal/layout"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/pkg/debounce"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

// remoteDashboardStore is the per-user document store used once signed in.
type remoteDashboardStore interface {
	Get(ctx context.Context, uid string) (*models.Dashboard, error)
	Put(ctx context.Context, uid string, d *models.Dashboard) error
}

// localEntryStore is the key-value store used while anonymous.
type localEntryStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetMany(ctx context.Context, entries map[string][]byte) error
}

// dashboardState is the Layout Store as seen by the gateway.
type dashboardState interface {
	Snapshot() layout.Snapshot
	Replace(widgets []models.WidgetConfig, layout []models.LayoutEntry)
	Subscribe(fn func(layout.Snapshot)) func()
}

type GatewayOptions struct {
	AutosaveDelay time.Duration
	SaveTimeout   time.Duration
}

// persistenceGateway decides where the dashboard is stored from the current
// identity and auto-saves every change after a quiet period.
type persistenceGateway struct {
	log      *slog.Logger
	state    dashboardState
	remote   remoteDashboardStore
	local    localEntryStore
	defaults layout.Defaults
	tracer   trace.Tracer
	timeout  time.Duration
	now      func() time.Time

	// transitionMu serialises sign-in, sign-out and every save, so a save
	// always targets the identity that owned the change.
	transitionMu sync.Mutex
	mu           sync.RWMutex
	uid          string
	dirty        bool

	autosave    *debounce.Debouncer
	unsubscribe func()
}

func NewPersistenceGateway(log *slog.Logger, state dashboardState, remote remoteDashboardStore, local localEntryStore, defaults layout.Defaults, opts GatewayOptions) *persistenceGateway {
	if opts.AutosaveDelay <= 0 {
		opts.AutosaveDelay = time.Second
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 10 * time.Second
	}

	g := &persistenceGateway{
		log:      log,
		state:    state,
		remote:   remote,
		local:    local,
		defaults: defaults,
		tracer:   otel.Tracer("dashboard-backend/persistence"),
		timeout:  opts.SaveTimeout,
		now:      time.Now,
	}
	g.autosave = debounce.New(opts.AutosaveDelay, g.autosaveNow)
	g.unsubscribe = state.Subscribe(func(layout.Snapshot) { g.markDirty() })
	return g
}

// UID returns the signed-in user id, or "" when anonymous.
func (g *persistenceGateway) UID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.uid
}

func (g *persistenceGateway) Identity() dto.SessionResponse {
	uid := g.UID()
	if uid == "" {
		return dto.SessionResponse{Identity: dto.IdentityAnonymous}
	}
	return dto.SessionResponse{Identity: dto.IdentityAuthenticated, UID: uid}
}

func (g *persistenceGateway) markDirty() {
	g.mu.Lock()
	g.dirty = true
	g.mu.Unlock()
	g.autosave.Trigger()
}

func (g *persistenceGateway) takeDirty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	dirty := g.dirty
	g.dirty = false
	return dirty
}

func (g *persistenceGateway) autosaveNow() {
	g.transitionMu.Lock()
	defer g.transitionMu.Unlock()
	g.flushPending()
}

// flushPending writes unsaved changes under the current identity.
// The caller holds transitionMu.
func (g *persistenceGateway) flushPending() {
	g.autosave.Cancel()
	if !g.takeDirty() {
		return
	}
	ctx, cancel := context.WithTimeout(logger.ToContext(context.Background(), g.log), g.timeout)
	defer cancel()
	g.saveAs(ctx, g.UID())
}

// SaveDashboard writes the whole in-memory dashboard once. Failures are logged, never returned.
func (g *persistenceGateway) SaveDashboard(ctx context.Context) {
	g.transitionMu.Lock()
	defer g.transitionMu.Unlock()
	g.saveAs(ctx, g.UID())
}

func (g *persistenceGateway) saveAs(ctx context.Context, uid string) {
	ctx, span := g.tracer.Start(ctx, "dashboard.save", trace.WithAttributes(identityAttr(uid)))
	defer span.End()

	log := logger.FromContext(ctx)
	snap := g.state.Snapshot()

	var err error
	if uid != "" {
		err = g.remote.Put(ctx, uid, &models.Dashboard{
			Widgets:   snap.Widgets,
			Layout:    snap.Layout,
			UpdatedAt: g.now(),
		})
	} else {
		err = g.saveLocal(ctx, snap)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		log.Error("error saving dashboard", "error", err, "authenticated", uid != "")
		return
	}
	log.Debug("dashboard saved", "authenticated", uid != "", "widgets", len(snap.Widgets), "layout", len(snap.Layout))
}

func (g *persistenceGateway) saveLocal(ctx context.Context, snap layout.Snapshot) error {
	widgets, err := json.Marshal(orEmpty(snap.Widgets))
	if err != nil {
		return err
	}
	entries, err := json.Marshal(orEmpty(snap.Layout))
	if err != nil {
		return err
	}
	return g.local.SetMany(ctx, map[string][]byte{
		dto.LocalKeyWidgets: widgets,
		dto.LocalKeyLayout:  entries,
	})
}

// LoadDashboard replaces the in-memory dashboard with the signed-in user's
// document when one exists. It does nothing while anonymous.
func (g *persistenceGateway) LoadDashboard(ctx context.Context) {
	uid := g.UID()
	if uid == "" {
		return
	}
	ctx, span := g.tracer.Start(ctx, "dashboard.load", trace.WithAttributes(identityAttr(uid)))
	defer span.End()

	log := logger.FromContext(ctx)
	d, err := g.remote.Get(ctx, uid)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			span.SetAttributes(attribute.Bool("dashboard.found", false))
			log.Info("no saved dashboard, keeping current state")
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		log.Error("error loading dashboard", "error", err)
		return
	}
	span.SetAttributes(attribute.Bool("dashboard.found", true))

	widgets := d.Widgets
	if widgets == nil {
		widgets = g.defaults.DefaultWidgets()
	}
	entries := d.Layout
	if entries == nil {
		entries = g.defaults.DefaultLayout()
	}
	g.state.Replace(widgets, entries)
	log.Info("dashboard loaded", "widgets", len(widgets), "layout", len(entries))
}

// LoadLocal applies whichever local entries exist over the in-memory dashboard.
// A malformed entry is returned as an error and nothing is applied.
func (g *persistenceGateway) LoadLocal(ctx context.Context) error {
	snap := g.state.Snapshot()
	found := false

	raw, ok, err := g.local.Get(ctx, dto.LocalKeyWidgets)
	if err != nil {
		return err
	}
	if ok {
		var widgets []models.WidgetConfig
		if err := json.Unmarshal(raw, &widgets); err != nil {
			return fmt.Errorf("decode %s: %w", dto.LocalKeyWidgets, err)
		}
		snap.Widgets = widgets
		found = true
	}

	raw, ok, err = g.local.Get(ctx, dto.LocalKeyLayout)
	if err != nil {
		return err
	}
	if ok {
		var entries []models.LayoutEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("decode %s: %w", dto.LocalKeyLayout, err)
		}
		snap.Layout = entries
		found = true
	}

	if found {
		g.state.Replace(snap.Widgets, snap.Layout)
		logger.FromContext(ctx).Info("local dashboard loaded")
	}
	return nil
}

// SignIn switches to the authenticated identity uid and loads its dashboard.
// A pending auto-save is written under the previous identity first.
func (g *persistenceGateway) SignIn(ctx context.Context, uid string) error {
	if uid == "" {
		return errs.NewValidationError("uid is required")
	}
	g.transitionMu.Lock()
	defer g.transitionMu.Unlock()

	if g.UID() == uid {
		return nil
	}
	g.flushPending()

	g.mu.Lock()
	g.uid = uid
	g.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Info("identity changed", "identity", dto.IdentityAuthenticated)
	g.LoadDashboard(ctx)
	return nil
}

// SignOut returns to the anonymous identity and re-reads the local dashboard.
// Remote data is not copied to local storage.
func (g *persistenceGateway) SignOut(ctx context.Context) error {
	g.transitionMu.Lock()
	defer g.transitionMu.Unlock()

	if g.UID() == "" {
		return nil
	}
	g.flushPending()

	g.mu.Lock()
	g.uid = ""
	g.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Info("identity changed", "identity", dto.IdentityAnonymous)
	return g.LoadLocal(ctx)
}

// Shutdown writes a pending auto-save and stops reacting to changes.
func (g *persistenceGateway) Shutdown() {
	g.unsubscribe()
	g.autosave.Stop()

	g.transitionMu.Lock()
	defer g.transitionMu.Unlock()
	g.flushPending()
}

func identityAttr(uid string) attribute.KeyValue {
	if uid == "" {
		return attribute.String("dashboard.identity", dto.IdentityAnonymous)
	}
	return attribute.String("dashboard.identity", dto.IdentityAuthenticated)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
