package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// --- Stub service ---

type stubDashboardService struct {
	view         dto.DashboardView
	viewErr      error
	updateErr    error
	enableErr    error
	dataResp     dto.WidgetDataResponse
	dataErr      error
	types        []dto.WidgetTypeEntry
	saves, loads int

	lastLayout    dto.UpdateLayoutRequest
	lastEnableID  string
	lastEnabled   bool
	enableCalled  bool
	lastDataID    string
	watchMu       sync.Mutex
	watchers      []func(dto.DashboardView)
	stoppedWatchs int
}

func (s *stubDashboardService) GetDashboard(context.Context) (dto.DashboardView, error) {
	return s.view, s.viewErr
}

func (s *stubDashboardService) SetWidgetEnabled(_ context.Context, id string, enabled bool) error {
	s.enableCalled = true
	s.lastEnableID = id
	s.lastEnabled = enabled
	return s.enableErr
}

func (s *stubDashboardService) UpdateLayout(_ context.Context, req dto.UpdateLayoutRequest) error {
	s.lastLayout = req
	return s.updateErr
}

func (s *stubDashboardService) Save(context.Context) { s.saves++ }
func (s *stubDashboardService) Load(context.Context) { s.loads++ }

func (s *stubDashboardService) WidgetTypes() []dto.WidgetTypeEntry { return s.types }

func (s *stubDashboardService) GetWidgetData(_ context.Context, id string) (dto.WidgetDataResponse, error) {
	s.lastDataID = id
	return s.dataResp, s.dataErr
}

func (s *stubDashboardService) Watch(fn func(dto.DashboardView)) func() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	s.watchers = append(s.watchers, fn)
	return func() {
		s.watchMu.Lock()
		s.stoppedWatchs++
		s.watchMu.Unlock()
	}
}

func (s *stubDashboardService) emit(v dto.DashboardView) bool {
	s.watchMu.Lock()
	fns := append([]func(dto.DashboardView){}, s.watchers...)
	s.watchMu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
	return len(fns) > 0
}

func newDashboardHandlersForTest(svc *stubDashboardService) (*dashboardHandlers, *stubResponseHandler) {
	resp := &stubResponseHandler{}
	return NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc}), resp
}

// --- Tests ---

func TestGetDashboard_OK(t *testing.T) {
	svc := &stubDashboardService{view: dto.DashboardView{Identity: dto.IdentityAnonymous}}
	h, resp := newDashboardHandlersForTest(svc)

	rr := httptest.NewRecorder()
	h.GetDashboard(rr, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if view, ok := resp.writeSuccessData.(dto.DashboardView); !ok || view.Identity != dto.IdentityAnonymous {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestGetDashboard_ServiceError(t *testing.T) {
	svc := &stubDashboardService{viewErr: errors.New("boom")}
	h, resp := newDashboardHandlersForTest(svc)

	h.GetDashboard(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestUpdateLayout_OK(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newDashboardHandlersForTest(svc)

	body := `{"layout":[{"i":"weather","x":1,"y":2,"w":3,"h":4}]}`
	h.UpdateLayout(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/dashboard/layout", strings.NewReader(body)))

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess to be called")
	}
	want := models.LayoutEntry{I: "weather", X: 1, Y: 2, W: 3, H: 4}
	if len(svc.lastLayout.Layout) != 1 || svc.lastLayout.Layout[0] != want {
		t.Fatalf("service received %+v, want [%+v]", svc.lastLayout.Layout, want)
	}
}

func TestUpdateLayout_InvalidJSON(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newDashboardHandlersForTest(svc)

	h.UpdateLayout(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/dashboard/layout", strings.NewReader("{")))

	var ve *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestUpdateLayout_ServiceError(t *testing.T) {
	svc := &stubDashboardService{updateErr: errs.NewValidationError("layout is required")}
	h, resp := newDashboardHandlersForTest(svc)

	h.UpdateLayout(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/dashboard/layout", strings.NewReader(`{}`)))

	if !resp.handleErrorCalled || !errors.Is(resp.handleError, svc.updateErr) {
		t.Fatalf("expected service error to be handled, got %v", resp.handleError)
	}
}

func TestSetWidgetEnabled_OK(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newDashboardHandlersForTest(svc)

	req := httptest.NewRequest(http.MethodPut, "/dashboard/widgets/news", strings.NewReader(`{"enabled":false}`))
	req = withChiParam(req, "widgetId", "news")
	h.SetWidgetEnabled(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess to be called")
	}
	if svc.lastEnableID != "news" || svc.lastEnabled {
		t.Fatalf("service received id=%q enabled=%v", svc.lastEnableID, svc.lastEnabled)
	}
}

func TestSetWidgetEnabled_MissingField(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newDashboardHandlersForTest(svc)

	req := httptest.NewRequest(http.MethodPut, "/dashboard/widgets/news", strings.NewReader(`{}`))
	req = withChiParam(req, "widgetId", "news")
	h.SetWidgetEnabled(httptest.NewRecorder(), req)

	if svc.enableCalled {
		t.Fatal("service should not be called without enabled")
	}
	var ve *errs.ValidationError
	if !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestGetWidgetData_OK(t *testing.T) {
	svc := &stubDashboardService{dataResp: dto.WidgetDataResponse{WidgetID: "stocks", Type: dto.WidgetTypeStocks}}
	h, resp := newDashboardHandlersForTest(svc)

	req := withChiParam(httptest.NewRequest(http.MethodGet, "/dashboard/widgets/stocks/data", nil), "widgetId", "stocks")
	h.GetWidgetData(httptest.NewRecorder(), req)

	if svc.lastDataID != "stocks" {
		t.Fatalf("service received id %q", svc.lastDataID)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatal("expected WriteSuccess with 200")
	}
}

func TestGetWidgetData_NotFound(t *testing.T) {
	svc := &stubDashboardService{dataErr: errs.NewNotFoundError("widget not found")}
	h, resp := newDashboardHandlersForTest(svc)

	req := withChiParam(httptest.NewRequest(http.MethodGet, "/dashboard/widgets/x/data", nil), "widgetId", "x")
	h.GetWidgetData(httptest.NewRecorder(), req)

	var nf *errs.NotFoundError
	if !errors.As(resp.handleError, &nf) {
		t.Fatalf("expected not found error, got %v", resp.handleError)
	}
}

func TestGetWidgetTypes_OK(t *testing.T) {
	svc := &stubDashboardService{types: []dto.WidgetTypeEntry{{Type: dto.WidgetTypeWeather}}}
	h, resp := newDashboardHandlersForTest(svc)

	h.GetWidgetTypes(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard/widget-types", nil))

	types, ok := resp.writeSuccessData.([]dto.WidgetTypeEntry)
	if !ok || len(types) != 1 {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestSaveAndLoad(t *testing.T) {
	svc := &stubDashboardService{}
	h, resp := newDashboardHandlersForTest(svc)

	h.Save(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/dashboard/save", nil))
	h.Load(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/dashboard/load", nil))

	if svc.saves != 1 || svc.loads != 1 {
		t.Fatalf("saves=%d loads=%d, want 1 and 1", svc.saves, svc.loads)
	}
	if _, ok := resp.writeSuccessData.(dto.DashboardView); !ok {
		t.Fatalf("load should return the dashboard view, got %#v", resp.writeSuccessData)
	}
}

func TestEvents_StreamsInitialViewAndChanges(t *testing.T) {
	svc := &stubDashboardService{view: dto.DashboardView{Identity: dto.IdentityAnonymous}}
	h, _ := newDashboardHandlersForTest(svc)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/dashboard/events", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Events(rr, req)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for !svc.emit(dto.DashboardView{Identity: dto.IdentityAuthenticated, Empty: true}) {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after the client left")
	}

	body := rr.Body.String()
	if got := rr.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q", got)
	}
	if strings.Count(body, "event: dashboard\n") != 2 {
		t.Fatalf("expected two dashboard events, got:\n%s", body)
	}
	if !strings.Contains(body, `"identity":"anonymous"`) || !strings.Contains(body, `"identity":"authenticated"`) {
		t.Fatalf("unexpected stream body:\n%s", body)
	}
	if svc.stoppedWatchs != 1 {
		t.Fatalf("watch should be stopped once, got %d", svc.stoppedWatchs)
	}
}
