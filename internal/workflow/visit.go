package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

// VisitState is the position of a visit in its lifecycle.
type VisitState int

const (
	StateIdle VisitState = iota
	StateResolving
	StateLocated
	StateSubmitting
	StateAnalyzed
)

func (s VisitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateLocated:
		return "located"
	case StateSubmitting:
		return "submitting"
	case StateAnalyzed:
		return "analyzed"
	default:
		return "unknown"
	}
}

// Deps are the collaborators of a visit. Geocoder and Analyzer are required.
// Device, Publisher and Map are optional. A nil Logger discards output and nil
// Metrics are counted but never exported.
type Deps struct {
	Geocoder  domain.Geocoder
	Device    domain.DeviceLocator
	Analyzer  domain.Analyzer
	Publisher AssessmentPublisher
	Map       MapSurface
	Logger    *slog.Logger
	Metrics   *observability.Metrics
}

// Visit is one pass through the workflow:
//
//	Idle → Resolving → Located → Submitting → Analyzed
//
// A failed step returns to the state it started from. Analyzed is terminal;
// start a new Visit to analyze another property.
type Visit struct {
	mu        sync.Mutex
	state     VisitState
	closed    bool
	result    *domain.RiskAssessment
	store     *Store
	resolver  *Resolver
	submitter *Submitter
	detachMap func()
}

// NewVisit starts a visit centered on domain.DefaultCenter.
func NewVisit(deps Deps) *Visit {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.NewMetricsForTesting()
	}
	store := NewStore(domain.DefaultCenter)
	v := &Visit{
		state:     StateIdle,
		store:     store,
		resolver:  NewResolver(store, deps.Geocoder, deps.Device, deps.Logger, deps.Metrics),
		submitter: NewSubmitter(deps.Analyzer, deps.Publisher, deps.Logger, deps.Metrics),
		detachMap: func() {},
	}
	if deps.Map != nil {
		v.detachMap = NewMapSynchronizer(deps.Map, deps.Metrics).Attach(store)
	}
	return v
}

func (v *Visit) State() VisitState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Busy reports whether a resolution or submission is outstanding.
func (v *Visit) Busy() bool {
	s := v.State()
	return s == StateResolving || s == StateSubmitting
}

// Store exposes the visit's coordinate store for reading and for editing the
// input buffers.
func (v *Visit) Store() *Store { return v.store }

func (v *Visit) SetMode(m domain.LocationMode) { v.store.SetMode(m) }

func (v *Visit) SetAddressText(text string) { v.store.SetAddressText(text) }

func (v *Visit) SetCoordinateText(text string) { v.store.SetCoordinateText(text) }

// FetchLocation resolves the active input. An empty address is a silent no-op.
func (v *Visit) FetchLocation(ctx context.Context) error {
	q := v.store.Query()
	return v.resolve(func() error {
		_, err := v.resolver.Resolve(ctx, q)
		return err
	})
}

// UseDeviceLocation resolves the device's current position.
func (v *Visit) UseDeviceLocation(ctx context.Context) error {
	return v.resolve(func() error {
		_, err := v.resolver.ResolveFromDevice(ctx)
		return err
	})
}

func (v *Visit) resolve(run func() error) error {
	prev, err := v.enter(StateResolving, StateIdle, StateLocated)
	if err != nil {
		return err
	}

	err = run()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return domain.ErrVisitEnded
	}
	switch {
	case err == nil:
		v.state = StateLocated
		return nil
	case errors.Is(err, domain.ErrInputEmpty):
		v.state = prev
		return nil
	default:
		v.state = prev
		return err
	}
}

// Submit analyzes the located property. It requires the Located state.
func (v *Visit) Submit(ctx context.Context, in domain.FinancialInputs) (domain.RiskAssessment, error) {
	if _, err := v.enter(StateSubmitting, StateLocated); err != nil {
		return domain.RiskAssessment{}, err
	}

	result, err := v.submitter.Submit(ctx, v.store.Marker(), in, v.store.AddressText())

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return domain.RiskAssessment{}, domain.ErrVisitEnded
	}
	if err != nil {
		v.state = StateLocated
		return domain.RiskAssessment{}, err
	}
	v.state = StateAnalyzed
	v.result = &result
	return result, nil
}

// Result returns the hand-off payload once the visit is Analyzed.
func (v *Visit) Result() (domain.RiskAssessment, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.result == nil {
		return domain.RiskAssessment{}, false
	}
	return *v.result, true
}

// Close ends the visit. Outstanding requests are discarded when they settle
// and the map stops following the store.
func (v *Visit) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.resolver.Close()
	v.submitter.Close()
	v.detachMap()
}

// enter moves to next if the visit is in one of from, returning the prior state.
func (v *Visit) enter(next VisitState, from ...VisitState) (VisitState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return v.state, domain.ErrVisitEnded
	}
	cur := v.state
	for _, s := range from {
		if cur == s {
			v.state = next
			return cur, nil
		}
	}
	switch cur {
	case StateResolving, StateSubmitting:
		return cur, domain.ErrBusy
	case StateAnalyzed:
		return cur, domain.ErrVisitEnded
	default:
		return cur, domain.ErrNotLocated
	}
}
