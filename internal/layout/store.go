package layout

import (
	"slices"
	"sync"

	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

// Defaults supplies the widget set and layout a new dashboard starts with.
type Defaults interface {
	DefaultWidgets() []models.WidgetConfig
	DefaultLayout() []models.LayoutEntry
}

// Snapshot is a point-in-time copy of the dashboard state.
type Snapshot struct {
	Widgets []models.WidgetConfig
	Layout  []models.LayoutEntry
}

// Store holds the in-memory widgets and layout of one dashboard session.
// Every mutation notifies subscribers after the lock is released.
type Store struct {
	mu      sync.Mutex
	widgets []models.WidgetConfig
	layout  []models.LayoutEntry

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

func NewStore(defaults Defaults) *Store {
	return &Store{
		widgets: slices.Clone(defaults.DefaultWidgets()),
		layout:  slices.Clone(defaults.DefaultLayout()),
		subs:    make(map[int]func(Snapshot)),
	}
}

func (s *Store) Widgets() []models.WidgetConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.widgets)
}

func (s *Store) Layout() []models.LayoutEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.layout)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Widgets: slices.Clone(s.widgets),
		Layout:  slices.Clone(s.layout),
	}
}

// Widget returns the widget with the given id.
func (s *Store) Widget(id string) (models.WidgetConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.widgets {
		if w.ID == id {
			return w, true
		}
	}
	return models.WidgetConfig{}, false
}

// UpdateWidgetEnabled sets the enabled flag of widget id. Unknown ids are ignored.
func (s *Store) UpdateWidgetEnabled(id string, enabled bool) {
	s.mu.Lock()
	next := make([]models.WidgetConfig, len(s.widgets))
	for i, w := range s.widgets {
		if w.ID == id {
			w.Enabled = enabled
		}
		next[i] = w
	}
	s.widgets = next
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// UpdateLayout replaces the whole layout. Entry ids are not checked against the widgets.
func (s *Store) UpdateLayout(newLayout []models.LayoutEntry) {
	s.mu.Lock()
	s.layout = slices.Clone(newLayout)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Replace swaps both collections in one step.
func (s *Store) Replace(widgets []models.WidgetConfig, layout []models.LayoutEntry) {
	s.mu.Lock()
	s.widgets = slices.Clone(widgets)
	s.layout = slices.Clone(layout)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Subscribe registers fn for every later change and returns a func that removes it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(Snapshot{Widgets: slices.Clone(snap.Widgets), Layout: slices.Clone(snap.Layout)})
	}
}
