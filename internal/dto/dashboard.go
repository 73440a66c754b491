package dto

import (
	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// Widget type constants
const (
	WidgetTypeWeather = "weather"
	WidgetTypeNews    = "news"
	WidgetTypeStocks  = "stocks"
	WidgetTypeTodo    = "todo"
)

// Local storage keys
const (
	LocalKeyWidgets = "dashboard-widgets"
	LocalKeyLayout  = "dashboard-layout"
	LocalKeyTodos   = "dashboard-todos"
	LocalKeyTheme   = "dashboard-theme"
)

// Theme constants
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Identity states
const (
	IdentityAnonymous     = "anonymous"
	IdentityAuthenticated = "authenticated"
)

// --- Grid settings ---

type GridSettings struct {
	Breakpoints map[string]int `json:"breakpoints"`
	Cols        map[string]int `json:"cols"`
	RowHeight   int            `json:"rowHeight"`
	Margin      [2]int         `json:"margin"`
	CompactType string         `json:"compactType"`
	Draggable   bool           `json:"isDraggable"`
	Resizable   bool           `json:"isResizable"`
}

// DefaultGrid mirrors the responsive grid the front end draws.
func DefaultGrid() GridSettings {
	return GridSettings{
		Breakpoints: map[string]int{"lg": 1200, "md": 996, "sm": 768, "xs": 480, "xxs": 0},
		Cols:        map[string]int{"lg": 6, "md": 4, "sm": 2, "xs": 1, "xxs": 1},
		RowHeight:   120,
		Margin:      [2]int{16, 16},
		CompactType: "vertical",
		Draggable:   true,
		Resizable:   true,
	}
}

// --- Request types ---

type UpdateLayoutRequest struct {
	Layout []models.LayoutEntry `json:"layout"`
}

type UpdateWidgetEnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

type CreateTodoRequest struct {
	Text string `json:"text"`
}

type UpdateThemeRequest struct {
	Theme string `json:"theme"`
}

// --- Response types ---

// GridWidget is an enabled widget placed on the grid. Layout is nil when the
// widget has no layout entry yet.
type GridWidget struct {
	models.WidgetConfig
	Layout *models.LayoutEntry `json:"layout"`
}

type DashboardView struct {
	Identity string                `json:"identity"`
	Grid     GridSettings          `json:"grid"`
	Enabled  []GridWidget          `json:"enabled"`
	Widgets  []models.WidgetConfig `json:"widgets"`
	Layout   []models.LayoutEntry  `json:"layout"`
	Empty    bool                  `json:"empty"`
}

type SessionResponse struct {
	Identity string `json:"identity"`
	UID      string `json:"uid,omitempty"`
}

type ThemeResponse struct {
	Theme string `json:"theme"`
}

type WidgetTypeEntry struct {
	Type    string             `json:"type"`
	Title   string             `json:"title"`
	Enabled bool               `json:"enabled"`
	Layout  models.LayoutEntry `json:"defaultLayout"`
}

type WidgetDataResponse struct {
	WidgetID string `json:"widgetId"`
	Type     string `json:"type"`
	Data     any    `json:"data"`
}

// --- Widget payloads ---

type WeatherData struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Icon        string  `json:"icon"`
}

type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
}

type StockQuote struct {
	Symbol        string       `json:"symbol"`
	Name          string       `json:"name"`
	Price         float64      `json:"price"`
	Change        float64      `json:"change"`
	ChangePercent float64      `json:"changePercent"`
	ChartData     []PricePoint `json:"chartData"`
}

type PricePoint struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// TodoWidgetData is returned for todo widgets.
type TodoWidgetData struct {
	Items     []models.TodoItem `json:"items"`
	Remaining int               `json:"remaining"`
}
