package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
)

type stubPreferenceService struct {
	theme string
	err   error
}

func (s *stubPreferenceService) Theme(context.Context) (string, error) { return s.theme, s.err }

func (s *stubPreferenceService) SetTheme(_ context.Context, theme string) (string, error) {
	if theme != dto.ThemeLight && theme != dto.ThemeDark {
		return "", errs.NewValidationError("theme must be light or dark")
	}
	s.theme = theme
	return theme, nil
}

func (s *stubPreferenceService) ToggleTheme(context.Context) (string, error) {
	if s.theme == dto.ThemeDark {
		s.theme = dto.ThemeLight
	} else {
		s.theme = dto.ThemeDark
	}
	return s.theme, s.err
}

func TestGetTheme_OK(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewPreferenceHandlers(&Deps{ResponseHandler: resp, PreferenceSvc: &stubPreferenceService{theme: dto.ThemeLight}})

	h.GetTheme(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/preferences/theme", nil))

	if got, _ := resp.writeSuccessData.(dto.ThemeResponse); got.Theme != dto.ThemeLight {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}

func TestGetTheme_ServiceError(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewPreferenceHandlers(&Deps{ResponseHandler: resp, PreferenceSvc: &stubPreferenceService{err: errors.New("locked")}})

	h.GetTheme(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/preferences/theme", nil))

	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatal("expected HandleError only")
	}
}

func TestSetTheme_Invalid(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewPreferenceHandlers(&Deps{ResponseHandler: resp, PreferenceSvc: &stubPreferenceService{}})

	h.SetTheme(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/preferences/theme", strings.NewReader(`{"theme":"blue"}`)))

	var ve *errs.ValidationError
	if !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestToggleTheme_OK(t *testing.T) {
	svc := &stubPreferenceService{theme: dto.ThemeLight}
	resp := &stubResponseHandler{}
	h := NewPreferenceHandlers(&Deps{ResponseHandler: resp, PreferenceSvc: svc})

	h.ToggleTheme(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/preferences/theme/toggle", nil))

	if got, _ := resp.writeSuccessData.(dto.ThemeResponse); got.Theme != dto.ThemeDark {
		t.Fatalf("unexpected data: %#v", resp.writeSuccessData)
	}
}
