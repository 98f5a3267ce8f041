package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/riskengine"
)

const sampleCSV = `Name,Address,Lat,Lng
PROP-1,"Mumbai, India",19.0760,72.8777
PROP-2,"London, United Kingdom",51.5074,-0.1278
`

func TestReadProperties(t *testing.T) {
	props, err := readProperties(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Len(t, props, 2)
	assert.Equal(t, "PROP-1", props[0].name)
	assert.Equal(t, "Mumbai, India", props[0].address)
	assert.Equal(t, domain.Coordinate{Lat: 19.076, Lng: 72.8777}, props[0].coord)
}

func TestReadProperties_Invalid(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"header only", "Name,Address,Lat,Lng\n"},
		{"non-numeric", "Name,Address,Lat,Lng\nP,A,north,1\n"},
		{"out of range", "Name,Address,Lat,Lng\nP,A,95,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readProperties(strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestGenerate(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(riskengine.FixtureTime))
	t.Cleanup(func() { domain.SetClock(nil) })

	props, err := readProperties(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	fixtures, events, err := generate(props)
	require.NoError(t, err)

	require.Len(t, fixtures, 2)
	assert.Equal(t, domain.AssessmentID("mock-001"), fixtures[0].Response.ID)
	assert.Equal(t, domain.AssessmentID("mock-002"), fixtures[1].Response.ID)
	assert.InDelta(t, 68.4, fixtures[0].Response.Score, 1e-9)
	assert.Equal(t, "PROP-1", fixtures[0].Request.PropertyName)
	assert.Equal(t, domain.Coordinate{Lat: 19.076, Lng: 72.8777}, fixtures[0].Response.Location)

	require.Len(t, events, 2)
	assert.Equal(t, riskengine.FixtureTime, events[0].AnalyzedAt)
	assert.Equal(t, fixtures[1].Response.ID, events[1].ID)

	var buf bytes.Buffer
	printStats(&buf, fixtures)
	assert.Contains(t, buf.String(), "Total: 2")
	assert.Contains(t, buf.String(), "mock-001")
}
