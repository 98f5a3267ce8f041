package workflow

import (
	"sync"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
)

// View is the map-facing part of the store.
type View struct {
	Center domain.Coordinate
	Marker domain.Coordinate
}

// Store holds the authoritative coordinate for a visit together with the
// location input buffers. Both text buffers are kept across mode switches.
type Store struct {
	mu             sync.Mutex
	view           View
	mode           domain.LocationMode
	addressText    string
	coordinateText string

	observers map[int]func(View)
	nextID    int
}

// NewStore returns a store with center and marker at initial, in address mode.
func NewStore(initial domain.Coordinate) *Store {
	return &Store{
		view:      View{Center: initial, Marker: initial},
		mode:      domain.ModeAddress,
		observers: make(map[int]func(View)),
	}
}

func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Store) Center() domain.Coordinate { return s.View().Center }

func (s *Store) Marker() domain.Coordinate { return s.View().Marker }

func (s *Store) Mode() domain.LocationMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Store) SetMode(m domain.LocationMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

func (s *Store) AddressText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addressText
}

func (s *Store) SetAddressText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addressText = text
}

func (s *Store) CoordinateText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coordinateText
}

func (s *Store) SetCoordinateText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coordinateText = text
}

// Query returns the active location input, selected by the current mode.
func (s *Store) Query() domain.LocationQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == domain.ModeCoordinates {
		return domain.CoordinateQuery(s.coordinateText)
	}
	return domain.AddressQuery(s.addressText)
}

// OnCenterChange registers fn to be called after every committed coordinate.
// Observers run outside the store lock, in no particular order. The returned
// function removes the registration.
func (s *Store) OnCenterChange(fn func(View)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

// commit moves both marker and center to c.
func (s *Store) commit(c domain.Coordinate) {
	s.mu.Lock()
	s.view = View{Center: c, Marker: c}
	s.notifyLocked()
}

// commitFix commits a device fix and writes its canonical text into both buffers.
func (s *Store) commitFix(c domain.Coordinate) {
	s.mu.Lock()
	text := c.FixText()
	s.addressText = text
	s.coordinateText = text
	s.view = View{Center: c, Marker: c}
	s.notifyLocked()
}

// notifyLocked snapshots the observers, releases the lock, then calls them.
func (s *Store) notifyLocked() {
	v := s.view
	fns := make([]func(View), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
