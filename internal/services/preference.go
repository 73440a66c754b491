package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
)

type preferencePStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type preferenceService struct {
	store preferencePStore
	mu    sync.Mutex
}

func NewPreferenceService(store preferencePStore) *preferenceService {
	return &preferenceService{store: store}
}

// Theme returns the stored theme, light when none was chosen yet.
func (s *preferenceService) Theme(ctx context.Context) (string, error) {
	raw, ok, err := s.store.Get(ctx, dto.LocalKeyTheme)
	if err != nil {
		return "", err
	}
	if !ok {
		return dto.ThemeLight, nil
	}
	var theme string
	if err := json.Unmarshal(raw, &theme); err != nil || !validTheme(theme) {
		return dto.ThemeLight, nil
	}
	return theme, nil
}

func (s *preferenceService) SetTheme(ctx context.Context, theme string) (string, error) {
	if !validTheme(theme) {
		return "", errs.NewValidationError("theme must be light or dark")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return theme, s.write(ctx, theme)
}

func (s *preferenceService) ToggleTheme(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := dto.ThemeDark
	if current == dto.ThemeDark {
		next = dto.ThemeLight
	}
	return next, s.write(ctx, next)
}

func (s *preferenceService) write(ctx context.Context, theme string) error {
	raw, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, dto.LocalKeyTheme, raw)
}

func validTheme(theme string) bool {
	return theme == dto.ThemeLight || theme == dto.ThemeDark
}
