package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/riskengine"
)

const propertiesCSV = `Name,Address,Lat,Lng
PROP-1,"Mumbai, India",19.0760,72.8777
PROP-2,"Sydney, Australia",-33.8688,151.2093
`

// writeFixtures writes a consistent fixture set and returns the three paths.
func writeFixtures(t *testing.T, tamper func([]fixture, []domain.AssessmentEvent)) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	domain.SetClock(clockwork.NewFakeClockAt(riskengine.FixtureTime))
	t.Cleanup(func() { domain.SetClock(nil) })

	props := []struct {
		name, address string
		c             domain.Coordinate
	}{
		{"PROP-1", "Mumbai, India", domain.Coordinate{Lat: 19.076, Lng: 72.8777}},
		{"PROP-2", "Sydney, Australia", domain.Coordinate{Lat: -33.8688, Lng: 151.2093}},
	}

	var fixtures []fixture
	var events []domain.AssessmentEvent
	for i, p := range props {
		req := domain.NewAnalysisRequest(p.c, domain.FinancialInputs{AssetValue: 1, LoanTerm: domain.LoanTerm30, PropertyID: p.name}, p.address)
		score, risks, projection := riskengine.Evaluate(p.c)
		id := domain.AssessmentID([]string{"m1", "m2"}[i])

		var f fixture
		f.Request = req
		f.Response.RiskFactors = risks
		f.Response.Projection = projection
		f.Response.Score = score
		f.Response.ID = id
		f.Response.Location = p.c
		fixtures = append(fixtures, f)

		events = append(events, domain.NewAssessmentEvent(req, f.assessment()))
	}
	if tamper != nil {
		tamper(fixtures, events)
	}

	csvPath := filepath.Join(dir, "properties.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(propertiesCSV), 0o600))
	return csvPath, writeJSONFile(t, dir, "analyses.json", fixtures), writeJSONFile(t, dir, "events.json", events)
}

func writeJSONFile(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRun_Consistent(t *testing.T) {
	csvPath, analyses, events := writeFixtures(t, nil)

	var out bytes.Buffer
	code := run(&out, csvPath, analyses, events)

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "Records: 2 CSV, 2 analyses, 2 events")
}

func TestRun_DetectsDrift(t *testing.T) {
	tests := []struct {
		name    string
		tamper  func([]fixture, []domain.AssessmentEvent)
		message string
	}{
		{"score drift", func(f []fixture, _ []domain.AssessmentEvent) { f[0].Response.Score += 1 }, "model gives"},
		{"factor order", func(f []fixture, _ []domain.AssessmentEvent) {
			f[1].Response.RiskFactors[0], f[1].Response.RiskFactors[1] = f[1].Response.RiskFactors[1], f[1].Response.RiskFactors[0]
		}, "factor 0 is heat"},
		{"duplicate id", func(f []fixture, e []domain.AssessmentEvent) { f[1].Response.ID = "m1"; e[1].ID = "m1" }, "duplicate id"},
		{"event clock", func(_ []fixture, e []domain.AssessmentEvent) { e[0].AnalyzedAt = e[0].AnalyzedAt.Add(1) }, "analyzed_at"},
		{"event loan term", func(_ []fixture, e []domain.AssessmentEvent) { e[1].LoanTerm = int(domain.LoanTerm15) }, "request fields"},
		{"renamed property", func(f []fixture, _ []domain.AssessmentEvent) { f[0].Request.PropertyName = "other" }, `fixture has "other"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csvPath, analyses, events := writeFixtures(t, tt.tamper)

			var out bytes.Buffer
			code := run(&out, csvPath, analyses, events)

			assert.Equal(t, 1, code)
			assert.Contains(t, out.String(), tt.message)
			assert.Contains(t, out.String(), "Validation FAILED.")
		})
	}
}

func TestRun_MissingFile(t *testing.T) {
	var out bytes.Buffer
	code := run(&out, filepath.Join(t.TempDir(), "nope.csv"), "", "")

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "FATAL: load CSV")
}
