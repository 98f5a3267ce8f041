//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Mumbai, India")
	require.NoError(t, err)

	assert.InDelta(t, 19.07, result.Lat, 0.2, "lat should be near Mumbai")
	assert.InDelta(t, 72.87, result.Lng, 0.2, "lng should be near Mumbai")
	assert.Contains(t, result.FormattedAddress, "Mumbai")
	assert.Greater(t, result.Confidence, 0.5)

	_, err = domain.NewCoordinate(result.Lat, result.Lng)
	assert.NoError(t, err)
}

func TestSmoke_ForwardGeocode_Nonsense(t *testing.T) {
	c := smokeClient(t)

	// Mapbox's fuzzy matching may still return a feature for nonsense input;
	// either way the only acceptable error is not-found.
	_, err := c.ForwardGeocode(context.Background(), "XYZNONEXISTENT99 QQQ")
	if err != nil {
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	}
}
