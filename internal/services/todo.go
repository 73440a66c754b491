package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/pkg/logger"
)

type todoTStore interface {
	List(ctx context.Context) ([]models.TodoItem, error)
	Save(ctx context.Context, items []models.TodoItem) error
}

// todoService edits the to-do list. The list is always stored locally,
// whatever the dashboard identity.
type todoService struct {
	store todoTStore
	// mu serialises read-modify-write cycles on the stored list.
	mu sync.Mutex
}

func NewTodoService(store todoTStore) *todoService {
	return &todoService{store: store}
}

func (s *todoService) List(ctx context.Context) ([]models.TodoItem, error) {
	return s.store.List(ctx)
}

// Add puts a new item at the top of the list.
func (s *todoService) Add(ctx context.Context, text string) (*models.TodoItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errs.NewValidationError("text is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	item := models.TodoItem{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.store.Save(ctx, append([]models.TodoItem{item}, items...)); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("todo added", "todo_id", item.ID)
	return &item, nil
}

func (s *todoService) Toggle(ctx context.Context, id string) (*models.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Completed = !items[i].Completed
		if err := s.store.Save(ctx, items); err != nil {
			return nil, err
		}
		item := items[i]
		return &item, nil
	}
	return nil, errs.NewNotFoundError("todo not found")
}

func (s *todoService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.TodoItem, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return errs.NewNotFoundError("todo not found")
	}
	if err := s.store.Save(ctx, kept); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("todo deleted", "todo_id", id)
	return nil
}
