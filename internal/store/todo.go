package store

import (
	"context"
	"encoding/json"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/errs"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// todoStore keeps the whole to-do list as one JSON array in the local store.
type todoStore struct {
	local *localStore
}

func NewTodoStore(local *localStore) *todoStore {
	return &todoStore{local: local}
}

func (s *todoStore) List(ctx context.Context) ([]models.TodoItem, error) {
	raw, ok, err := s.local.Get(ctx, dto.LocalKeyTodos)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.TodoItem{}, nil
	}
	var items []models.TodoItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse todo list", err)
	}
	if items == nil {
		items = []models.TodoItem{}
	}
	return items, nil
}

func (s *todoStore) Save(ctx context.Context, items []models.TodoItem) error {
	if items == nil {
		items = []models.TodoItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return errs.NewDatabaseError("write", "failed to encode todo list", err)
	}
	return s.local.Set(ctx, dto.LocalKeyTodos, raw)
}
