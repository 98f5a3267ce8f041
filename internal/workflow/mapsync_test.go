package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSynchronizer_FliesOnAttachAndEveryCommit(t *testing.T) {
	surface := &fakeMap{}
	metrics := observability.NewMetricsForTesting()
	r, store := newTestResolver(mumbaiGeocoder(), nil)

	detach := NewMapSynchronizer(surface, metrics).Attach(store)
	defer detach()

	_, err := r.Resolve(context.Background(), domain.AddressQuery("Mumbai, India"))
	require.NoError(t, err)

	// Re-resolving the same place still moves the camera.
	_, err = r.Resolve(context.Background(), domain.CoordinateQuery("19.076, 72.8777"))
	require.NoError(t, err)

	assert.Equal(t, []cameraMove{
		{Center: domain.DefaultCenter, Zoom: 13, Duration: 1500 * time.Millisecond},
		{Center: mumbai, Zoom: 13, Duration: 1500 * time.Millisecond},
		{Center: mumbai, Zoom: 13, Duration: 1500 * time.Millisecond},
	}, surface.Moves())
	assert.Equal(t, []domain.Coordinate{domain.DefaultCenter, mumbai, mumbai}, surface.markers)
	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.CameraMoves), 0)
}

func TestMapSynchronizer_NoMoveOnFailedResolution(t *testing.T) {
	surface := &fakeMap{}
	r, store := newTestResolver(&fakeGeocoder{}, nil)
	NewMapSynchronizer(surface, observability.NewMetricsForTesting()).Attach(store)

	_, err := r.Resolve(context.Background(), domain.CoordinateQuery("abc, 72"))
	require.Error(t, err)

	assert.Len(t, surface.Moves(), 1)
}

func TestMapSynchronizer_Detach(t *testing.T) {
	surface := &fakeMap{}
	store := NewStore(domain.DefaultCenter)
	detach := NewMapSynchronizer(surface, observability.NewMetricsForTesting()).Attach(store)

	detach()
	store.commit(mumbai)

	assert.Len(t, surface.Moves(), 1)
}
