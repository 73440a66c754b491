package registry

import (
	"context"
	"time"

	"github.com/GregMSThompson/dashboard-backend/internal/dto"
)

const (
	weatherDelay = 1000 * time.Millisecond
	newsDelay    = 1200 * time.Millisecond
	stocksDelay  = 1500 * time.Millisecond
)

func latency(opts Options, d time.Duration) time.Duration {
	if !opts.MockLatency {
		return 0
	}
	return d
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type weatherRenderer struct {
	delay time.Duration
}

func (r weatherRenderer) Render(ctx context.Context) (any, error) {
	if err := wait(ctx, r.delay); err != nil {
		return nil, err
	}
	return dto.WeatherData{
		Location:    "New York, NY",
		Temperature: 22,
		Condition:   "Partly Cloudy",
		Humidity:    65,
		WindSpeed:   12,
		Icon:        "partly-cloudy",
	}, nil
}

type newsRenderer struct {
	delay time.Duration
}

func (r newsRenderer) Render(ctx context.Context) (any, error) {
	if err := wait(ctx, r.delay); err != nil {
		return nil, err
	}
	return []dto.NewsItem{
		{
			ID:          "1",
			Title:       "Tech Giants Report Strong Q4 Earnings",
			Summary:     "Major technology companies exceeded expectations in their quarterly reports...",
			URL:         "#",
			PublishedAt: "2 hours ago",
			Source:      "Tech News",
		},
		{
			ID:          "2",
			Title:       "Global Markets React to Economic Data",
			Summary:     "Stock markets worldwide showed mixed reactions to latest economic indicators...",
			URL:         "#",
			PublishedAt: "4 hours ago",
			Source:      "Financial Times",
		},
		{
			ID:          "3",
			Title:       "Innovation in Renewable Energy Sector",
			Summary:     "New breakthrough technologies promise to revolutionize clean energy production...",
			URL:         "#",
			PublishedAt: "6 hours ago",
			Source:      "Green Tech",
		},
	}, nil
}

type stocksRenderer struct {
	delay time.Duration
}

func (r stocksRenderer) Render(ctx context.Context) (any, error) {
	if err := wait(ctx, r.delay); err != nil {
		return nil, err
	}
	return []dto.StockQuote{
		{
			Symbol: "AAPL", Name: "Apple Inc.", Price: 175.25, Change: 2.15, ChangePercent: 1.24,
			ChartData: intraday(173, 174, 173.5, 175, 175.25),
		},
		{
			Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 2840.50, Change: -15.30, ChangePercent: -0.54,
			ChartData: intraday(2855, 2850, 2845, 2842, 2840.50),
		},
		{
			Symbol: "TSLA", Name: "Tesla Inc.", Price: 245.80, Change: 8.45, ChangePercent: 3.56,
			ChartData: intraday(237, 240, 242, 244, 245.80),
		},
	}, nil
}

// intraday spreads prices over hourly ticks from the 9:30 open.
func intraday(prices ...float64) []dto.PricePoint {
	ticks := []string{"9:30", "10:30", "11:30", "12:30", "13:30"}
	out := make([]dto.PricePoint, 0, len(prices))
	for i, p := range prices {
		if i >= len(ticks) {
			break
		}
		out = append(out, dto.PricePoint{Time: ticks[i], Price: p})
	}
	return out
}

type todoRenderer struct {
	todos TodoLister
}

func (r todoRenderer) Render(ctx context.Context) (any, error) {
	items, err := r.todos.List(ctx)
	if err != nil {
		return nil, err
	}
	remaining := 0
	for _, it := range items {
		if !it.Completed {
			remaining++
		}
	}
	return dto.TodoWidgetData{Items: items, Remaining: remaining}, nil
}
