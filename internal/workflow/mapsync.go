package workflow

import (
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

// Camera animation parameters for every followed center.
const (
	CameraZoom     = 13
	CameraDuration = 1500 * time.Millisecond
)

// MapSurface is the map rendering surface: a marker plus an animated camera.
type MapSurface interface {
	SetMarker(pos domain.Coordinate)
	FlyTo(center domain.Coordinate, zoom int, duration time.Duration)
}

// CenterSource is the read side of a Store.
type CenterSource interface {
	View() View
	OnCenterChange(fn func(View)) (cancel func())
}

// MapSynchronizer makes a map surface follow a store's center. It only
// reads from the store.
type MapSynchronizer struct {
	surface MapSurface
	metrics *observability.Metrics
}

func NewMapSynchronizer(surface MapSurface, metrics *observability.Metrics) *MapSynchronizer {
	return &MapSynchronizer{surface: surface, metrics: metrics}
}

// Attach flies the camera to the current center and then to every committed
// center until the returned detach function is called.
func (m *MapSynchronizer) Attach(src CenterSource) (detach func()) {
	detach = src.OnCenterChange(m.follow)
	m.follow(src.View())
	return detach
}

func (m *MapSynchronizer) follow(v View) {
	m.surface.SetMarker(v.Marker)
	m.surface.FlyTo(v.Center, CameraZoom, CameraDuration)
	m.metrics.CameraMoves.Inc()
}
