package registry

import (
	"context"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// Renderer produces the payload a widget displays.
type Renderer interface {
	Render(ctx context.Context) (any, error)
}

type RendererFunc func(ctx context.Context) (any, error)

func (f RendererFunc) Render(ctx context.Context) (any, error) { return f(ctx) }

// Definition is the static metadata of one widget type.
type Definition struct {
	Type     string
	Title    string
	Enabled  bool
	Layout   models.LayoutEntry
	Renderer Renderer
}

// Registry maps widget types to their definitions, in registration order.
type Registry struct {
	defs   []Definition
	byType map[string]Definition
}

func New(defs ...Definition) *Registry {
	r := &Registry{byType: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if _, dup := r.byType[d.Type]; dup {
			continue
		}
		r.defs = append(r.defs, d)
		r.byType[d.Type] = d
	}
	return r
}

func (r *Registry) Lookup(widgetType string) (Renderer, bool) {
	d, ok := r.byType[widgetType]
	if !ok || d.Renderer == nil {
		return nil, false
	}
	return d.Renderer, true
}

// DefaultWidgets returns one widget per registered type; the widget id is the type.
func (r *Registry) DefaultWidgets() []models.WidgetConfig {
	out := make([]models.WidgetConfig, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, models.WidgetConfig{
			ID:      d.Type,
			Type:    d.Type,
			Title:   d.Title,
			Enabled: d.Enabled,
		})
	}
	return out
}

func (r *Registry) DefaultLayout() []models.LayoutEntry {
	out := make([]models.LayoutEntry, 0, len(r.defs))
	for _, d := range r.defs {
		entry := d.Layout
		entry.I = d.Type
		out = append(out, entry)
	}
	return out
}

func (r *Registry) Catalog() []dto.WidgetTypeEntry {
	out := make([]dto.WidgetTypeEntry, 0, len(r.defs))
	for _, d := range r.defs {
		entry := d.Layout
		entry.I = d.Type
		out = append(out, dto.WidgetTypeEntry{
			Type:    d.Type,
			Title:   d.Title,
			Enabled: d.Enabled,
			Layout:  entry,
		})
	}
	return out
}

// TodoLister reads the current to-do list.
type TodoLister interface {
	List(ctx context.Context) ([]models.TodoItem, error)
}

// Options tunes the built-in renderers.
type Options struct {
	// MockLatency keeps the simulated loading delay of the mock data widgets.
	MockLatency bool
}

// NewDefault builds the registry of the four built-in widgets.
func NewDefault(opts Options, todos TodoLister) *Registry {
	return New(
		Definition{
			Type:     dto.WidgetTypeWeather,
			Title:    "Weather",
			Enabled:  true,
			Layout:   models.LayoutEntry{X: 0, Y: 0, W: 2, H: 2},
			Renderer: weatherRenderer{delay: latency(opts, weatherDelay)},
		},
		Definition{
			Type:     dto.WidgetTypeNews,
			Title:    "News",
			Enabled:  true,
			Layout:   models.LayoutEntry{X: 2, Y: 0, W: 4, H: 3},
			Renderer: newsRenderer{delay: latency(opts, newsDelay)},
		},
		Definition{
			Type:     dto.WidgetTypeStocks,
			Title:    "Stock Market",
			Enabled:  true,
			Layout:   models.LayoutEntry{X: 0, Y: 2, W: 3, H: 2},
			Renderer: stocksRenderer{delay: latency(opts, stocksDelay)},
		},
		Definition{
			Type:     dto.WidgetTypeTodo,
			Title:    "To-Do List",
			Enabled:  true,
			Layout:   models.LayoutEntry{X: 3, Y: 2, W: 3, H: 3},
			Renderer: todoRenderer{todos: todos},
		},
	)
}
