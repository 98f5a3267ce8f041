package workflow

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- geocoder ---

type fakeGeocoder struct {
	mu      sync.Mutex
	calls   int
	queries []string
	result  domain.GeocodingResult
	err     error
	// release, when non-nil, blocks ForwardGeocode until closed.
	release chan struct{}
	started chan struct{}
}

func (g *fakeGeocoder) ForwardGeocode(_ context.Context, query string) (domain.GeocodingResult, error) {
	g.mu.Lock()
	g.calls++
	g.queries = append(g.queries, query)
	g.mu.Unlock()

	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	return g.result, g.err
}

func (g *fakeGeocoder) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// --- device ---

type fakeDevice struct {
	pos domain.Coordinate
	err error
}

func (d *fakeDevice) CurrentPosition(context.Context) (domain.Coordinate, error) {
	return d.pos, d.err
}

// --- analyzer ---

type fakeAnalyzer struct {
	mu       sync.Mutex
	calls    int
	requests []domain.AnalysisRequest
	result   domain.RiskAssessment
	err      error
	release  chan struct{}
	started  chan struct{}
}

func (a *fakeAnalyzer) Analyze(_ context.Context, req domain.AnalysisRequest) (domain.RiskAssessment, error) {
	a.mu.Lock()
	a.calls++
	a.requests = append(a.requests, req)
	a.mu.Unlock()

	if a.started != nil {
		a.started <- struct{}{}
	}
	if a.release != nil {
		<-a.release
	}
	return a.result, a.err
}

func (a *fakeAnalyzer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func (a *fakeAnalyzer) lastRequest() domain.AnalysisRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests[len(a.requests)-1]
}

// --- publisher ---

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.AssessmentEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev domain.AssessmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

// --- map surface ---

type cameraMove struct {
	Center   domain.Coordinate
	Zoom     int
	Duration time.Duration
}

type fakeMap struct {
	mu      sync.Mutex
	moves   []cameraMove
	markers []domain.Coordinate
}

func (m *fakeMap) SetMarker(pos domain.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, pos)
}

func (m *fakeMap) FlyTo(center domain.Coordinate, zoom int, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moves = append(m.moves, cameraMove{Center: center, Zoom: zoom, Duration: d})
}

func (m *fakeMap) Moves() []cameraMove {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]cameraMove(nil), m.moves...)
}

// --- fixtures ---

var mumbai = domain.Coordinate{Lat: 19.076, Lng: 72.8777}

func mumbaiGeocoder() *fakeGeocoder {
	return &fakeGeocoder{result: domain.GeocodingResult{Lat: 19.076, Lng: 72.8777, FormattedAddress: "Mumbai, Maharashtra, India"}}
}

func newTestResolver(g domain.Geocoder, d domain.DeviceLocator) (*Resolver, *Store) {
	store := NewStore(domain.DefaultCenter)
	return NewResolver(store, g, d, discardLogger(), observability.NewMetricsForTesting()), store
}

func sampleAssessment() domain.RiskAssessment {
	return domain.RiskAssessment{
		Score: 85,
		Risks: domain.RiskFactors{
			{Category: "flood", RiskFactor: domain.RiskFactor{Level: domain.RiskLow, Value: 10}},
		},
		Projection: []domain.ProjectionPoint{{Year: 2030, Risk: 20}},
		ID:         "x1",
	}
}
