package models

import "time"

// WidgetConfig is one widget known to the dashboard. Identity is ID.
type WidgetConfig struct {
	ID      string `firestore:"id" json:"id"`
	Type    string `firestore:"type" json:"type"` // "weather","news","stocks","todo"
	Title   string `firestore:"title" json:"title"`
	Enabled bool   `firestore:"enabled" json:"enabled"`
}

// LayoutEntry is the grid position and span of one widget. I references WidgetConfig.ID.
type LayoutEntry struct {
	I string `firestore:"i" json:"i"`
	X int    `firestore:"x" json:"x"`
	Y int    `firestore:"y" json:"y"`
	W int    `firestore:"w" json:"w"`
	H int    `firestore:"h" json:"h"`
}

// Dashboard is the persisted dashboard document, written wholesale.
type Dashboard struct {
	Widgets   []WidgetConfig `firestore:"widgets" json:"widgets"`
	Layout    []LayoutEntry  `firestore:"layout" json:"layout"`
	UpdatedAt time.Time      `firestore:"updatedAt" json:"updatedAt"`
}
