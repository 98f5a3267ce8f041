package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

const modeDevice = "device"

// Resolver turns location input into a committed coordinate. It is the only
// writer of coordinates to its Store.
type Resolver struct {
	store    *Store
	geocoder domain.Geocoder
	device   domain.DeviceLocator
	op       Operation
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewResolver creates a resolver writing to store. device may be nil when the
// host has no position source.
func NewResolver(store *Store, geocoder domain.Geocoder, device domain.DeviceLocator, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{
		store:    store,
		geocoder: geocoder,
		device:   device,
		logger:   logger,
		metrics:  metrics,
	}
}

// Busy reports whether a resolution is in flight.
func (r *Resolver) Busy() bool { return r.op.Busy() }

// Resolve resolves q and commits the result as both marker and center.
// An empty address returns domain.ErrInputEmpty without touching the store.
// On any failure the store is unchanged.
func (r *Resolver) Resolve(ctx context.Context, q domain.LocationQuery) (domain.Coordinate, error) {
	mode := q.Mode.String()
	if q.Mode == domain.ModeAddress && strings.TrimSpace(q.Text) == "" {
		r.record(mode, "empty")
		return domain.Coordinate{}, domain.ErrInputEmpty
	}

	ticket, err := r.op.Begin()
	if err != nil {
		r.record(mode, "busy")
		return domain.Coordinate{}, err
	}

	var c domain.Coordinate
	switch q.Mode {
	case domain.ModeCoordinates:
		c, err = domain.ParseCoordinateText(q.Text)
	default:
		c, err = r.geocode(ctx, q.Text)
	}
	if err != nil {
		return r.fail(ticket, mode, err)
	}
	return r.succeed(ticket, mode, c, false)
}

// ResolveFromDevice asks the device for its position and commits the fix,
// writing its six-decimal text into both input buffers.
func (r *Resolver) ResolveFromDevice(ctx context.Context) (domain.Coordinate, error) {
	if r.device == nil {
		r.record(modeDevice, "error")
		return domain.Coordinate{}, domain.NewUnsupportedError()
	}

	ticket, err := r.op.Begin()
	if err != nil {
		r.record(modeDevice, "busy")
		return domain.Coordinate{}, err
	}

	c, err := r.device.CurrentPosition(ctx)
	if err != nil {
		if k := domain.KindOf(err); k != domain.KindUnsupported && k != domain.KindPermissionDenied {
			err = domain.NewPermissionDeniedError(err)
		}
		return r.fail(ticket, modeDevice, err)
	}
	if err := c.Validate(); err != nil {
		return r.fail(ticket, modeDevice, domain.NewParseError(domain.MsgInvalidCoordinatesReceived, err))
	}
	return r.succeed(ticket, modeDevice, c, true)
}

func (r *Resolver) geocode(ctx context.Context, text string) (domain.Coordinate, error) {
	query := strings.TrimSpace(text)
	res, err := r.geocoder.ForwardGeocode(ctx, query)
	if err != nil {
		if domain.KindOf(err) == domain.KindUnknown {
			err = domain.NewServiceUnavailableError(domain.MsgGeocodeUnavailable, err)
		}
		return domain.Coordinate{}, err
	}

	// The reply is committed as received; only validity is checked.
	c := domain.Coordinate{Lat: res.Lat, Lng: res.Lng}
	if err := c.Validate(); err != nil {
		return domain.Coordinate{}, domain.NewParseError(domain.MsgInvalidCoordinatesReceived, err)
	}
	return c, nil
}

func (r *Resolver) succeed(t Ticket, mode string, c domain.Coordinate, fix bool) (domain.Coordinate, error) {
	committed := t.Succeed(func() {
		if fix {
			r.store.commitFix(c)
		} else {
			r.store.commit(c)
		}
	})
	if !committed {
		r.record(mode, "discarded")
		r.logger.Debug("late location discarded", "mode", mode)
		return domain.Coordinate{}, domain.ErrVisitEnded
	}

	r.record(mode, "success")
	r.logger.Info("location resolved", "mode", mode, "lat", c.Lat, "lng", c.Lng)
	return c, nil
}

func (r *Resolver) fail(t Ticket, mode string, err error) (domain.Coordinate, error) {
	if !t.Fail(err) {
		r.record(mode, "discarded")
		return domain.Coordinate{}, domain.ErrVisitEnded
	}

	r.record(mode, "error")
	level := slog.LevelWarn
	if errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	r.logger.Log(context.Background(), level, "location resolution failed",
		"mode", mode, "kind", domain.KindOf(err), "error", err)
	return domain.Coordinate{}, err
}

func (r *Resolver) record(mode, outcome string) {
	r.metrics.LocationResolutions.WithLabelValues(mode, outcome).Inc()
}

// Close discards any in-flight resolution and refuses new ones.
func (r *Resolver) Close() { r.op.Close() }
