package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
	"github.com/GregMSThompson/dashboard-backend/internal/response"
)

type TodoService interface {
	List(ctx context.Context) ([]models.TodoItem, error)
	Add(ctx context.Context, text string) (*models.TodoItem, error)
	Toggle(ctx context.Context, id string) (*models.TodoItem, error)
	Delete(ctx context.Context, id string) error
}

type todoHandlers struct {
	ResponseHandler response.ResponseHandler
	TodoSvc         TodoService
}

func NewTodoHandlers(deps *Deps) *todoHandlers {
	return &todoHandlers{
		ResponseHandler: deps.ResponseHandler,
		TodoSvc:         deps.TodoSvc,
	}
}

func (h *todoHandlers) TodoRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTodos)
	r.Post("/", h.AddTodo)
	r.Put("/{todoId}/toggle", h.ToggleTodo)
	r.Delete("/{todoId}", h.DeleteTodo)
	return r
}

func (h *todoHandlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	items, err := h.TodoSvc.List(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, items)
}

func (h *todoHandlers) AddTodo(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	item, err := h.TodoSvc.Add(r.Context(), req.Text)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, item)
}

func (h *todoHandlers) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	item, err := h.TodoSvc.Toggle(r.Context(), chi.URLParam(r, "todoId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, item)
}

func (h *todoHandlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.TodoSvc.Delete(r.Context(), chi.URLParam(r, "todoId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
