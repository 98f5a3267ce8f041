// Command validate performs integrity checks across the property CSV and the
// fixtures generated from it by genmock. It verifies row parity, reproduces
// every analysis with the risk model, and checks response and event shape.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv data/properties.csv \
//	  -analyses-json data/mock/analyses.json \
//	  -events-json data/mock/assessment_events.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/riskengine"
)

var factorOrder = []string{"flood", "heat", "storm", "sea_level"}

var projectionYears = []int{2030, 2040, 2050, 2060, 2070}

const tolerance = 1e-9

type fixture struct {
	Request  domain.AnalysisRequest `json:"request"`
	Response struct {
		RiskFactors domain.RiskFactors       `json:"risk_factors"`
		Projection  []domain.ProjectionPoint `json:"projection"`
		Score       float64                  `json:"score"`
		ID          domain.AssessmentID      `json:"id"`
		Location    domain.Coordinate        `json:"location"`
	} `json:"response"`
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func (f *fixture) assessment() domain.RiskAssessment {
	return domain.RiskAssessment{
		Score:      f.Response.Score,
		Risks:      f.Response.RiskFactors,
		Projection: f.Response.Projection,
		ID:         f.Response.ID,
	}
}

func main() {
	csvPath := flag.String("csv", "", "property CSV used by genmock")
	analysesJSON := flag.String("analyses-json", "", "path to analyses fixture")
	eventsJSON := flag.String("events-json", "", "path to assessment events fixture")
	flag.Parse()

	if *csvPath == "" || *analysesJSON == "" || *eventsJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(os.Stdout, *csvPath, *analysesJSON, *eventsJSON))
}

func run(w io.Writer, csvPath, analysesPath, eventsPath string) int {
	fmt.Fprintln(w, "=== Climate Score Fixture Validation ===")
	fmt.Fprintln(w)

	rows, err := loadCSV(csvPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load CSV: %v\n", err)
		return 1
	}
	fixtures, err := loadJSON[fixture](analysesPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load analyses JSON: %v\n", err)
		return 1
	}
	events, err := loadJSON[domain.AssessmentEvent](eventsPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load events JSON: %v\n", err)
		return 1
	}

	// Events are rebuilt under the clock genmock stamps them with.
	domain.SetClock(clockwork.NewFakeClockAt(riskengine.FixtureTime))
	defer domain.SetClock(nil)

	phases := []*phase{
		validateParity(rows, fixtures),
		validateModel(fixtures),
		validateShape(fixtures),
		validateEvents(fixtures, events),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-32s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d CSV, %d analyses, %d events\n", len(rows), len(fixtures), len(events))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

type csvRow struct {
	lineNum int
	fields  map[string]string
}

func loadCSV(path string) ([]csvRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	header := all[0]
	rows := make([]csvRow, 0, len(all)-1)
	for i, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[strings.TrimSpace(h)] = strings.TrimSpace(row[j])
			}
		}
		rows = append(rows, csvRow{lineNum: i + 2, fields: fields})
	}
	return rows, nil
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phases ──

func validateParity(rows []csvRow, fixtures []fixture) *phase {
	p := &phase{name: "CSV ↔ analyses parity"}
	if len(rows) != len(fixtures) {
		p.errorf("row count: CSV=%d analyses=%d", len(rows), len(fixtures))
	}
	for i := range min(len(rows), len(fixtures)) {
		row, req := rows[i], fixtures[i].Request
		if row.fields["Name"] != req.PropertyName {
			p.errorf("line %d: property %q, fixture has %q", row.lineNum, row.fields["Name"], req.PropertyName)
		}
		if row.fields["Address"] != req.Address {
			p.errorf("line %d: address %q, fixture has %q", row.lineNum, row.fields["Address"], req.Address)
		}
		lat, _ := strconv.ParseFloat(row.fields["Lat"], 64)
		lng, _ := strconv.ParseFloat(row.fields["Lng"], 64)
		if lat != req.Lat || lng != req.Lng {
			p.errorf("line %d: coordinates (%v, %v), fixture has (%v, %v)", row.lineNum, lat, lng, req.Lat, req.Lng)
		}
	}
	return p
}

func validateModel(fixtures []fixture) *phase {
	p := &phase{name: "Risk model reproduction"}
	for i := range fixtures {
		f := &fixtures[i]
		score, risks, projection := riskengine.Evaluate(f.Request.Coordinate())

		if !approx(score, f.Response.Score) {
			p.errorf("%s: score %v, model gives %v", f.Response.ID, f.Response.Score, score)
		}
		for _, want := range risks {
			got, ok := f.Response.RiskFactors.Get(want.Category)
			if !ok {
				p.errorf("%s: missing factor %s", f.Response.ID, want.Category)
				continue
			}
			if got.Level != want.Level || !approx(got.Value, want.Value) {
				p.errorf("%s: %s = %s/%v, model gives %s/%v", f.Response.ID, want.Category, got.Level, got.Value, want.Level, want.Value)
			}
		}
		for j := range min(len(projection), len(f.Response.Projection)) {
			if !approx(projection[j].Risk, f.Response.Projection[j].Risk) {
				p.errorf("%s: projection %d = %v, model gives %v", f.Response.ID, projection[j].Year, f.Response.Projection[j].Risk, projection[j].Risk)
			}
		}
	}
	return p
}

func validateShape(fixtures []fixture) *phase {
	p := &phase{name: "Response shape"}
	seen := make(map[domain.AssessmentID]bool, len(fixtures))
	for i := range fixtures {
		r := &fixtures[i].Response
		if r.ID == "" {
			p.errorf("fixture %d: empty id", i)
		} else if seen[r.ID] {
			p.errorf("fixture %d: duplicate id %s", i, r.ID)
		}
		seen[r.ID] = true

		if len(r.RiskFactors) != len(factorOrder) {
			p.errorf("%s: %d risk factors, want %d", r.ID, len(r.RiskFactors), len(factorOrder))
		} else {
			for j, cat := range factorOrder {
				if r.RiskFactors[j].Category != cat {
					p.errorf("%s: factor %d is %s, want %s", r.ID, j, r.RiskFactors[j].Category, cat)
				}
			}
		}
		for _, f := range r.RiskFactors {
			if f.Value < 0 || f.Value > 100 {
				p.errorf("%s: %s value %v outside 0-100", r.ID, f.Category, f.Value)
			}
		}

		if len(r.Projection) != len(projectionYears) {
			p.errorf("%s: %d projection points, want %d", r.ID, len(r.Projection), len(projectionYears))
		} else {
			for j, year := range projectionYears {
				if r.Projection[j].Year != year {
					p.errorf("%s: projection %d is year %d, want %d", r.ID, j, r.Projection[j].Year, year)
				}
			}
		}

		if r.Location != fixtures[i].Request.Coordinate() {
			p.errorf("%s: location %v does not echo the request", r.ID, r.Location)
		}
	}
	return p
}

func validateEvents(fixtures []fixture, events []domain.AssessmentEvent) *phase {
	p := &phase{name: "Analyses ↔ events alignment"}
	if len(fixtures) != len(events) {
		p.errorf("count: analyses=%d events=%d", len(fixtures), len(events))
	}
	for i := range min(len(fixtures), len(events)) {
		f, ev := &fixtures[i], &events[i]
		want := domain.NewAssessmentEvent(f.Request, f.assessment())
		if ev.ID != want.ID {
			p.errorf("event %d: id %s, analysis has %s", i, ev.ID, want.ID)
			continue
		}
		if !approx(ev.Score, want.Score) {
			p.errorf("%s: event score %v, analysis has %v", ev.ID, ev.Score, want.Score)
		}
		if ev.Location != want.Location || ev.Address != want.Address {
			p.errorf("%s: event location does not match request", ev.ID)
		}
		if ev.PropertyName != want.PropertyName || ev.AssetValue != want.AssetValue || ev.LoanTerm != want.LoanTerm {
			p.errorf("%s: event request fields do not match analysis", ev.ID)
		}
		if !ev.AnalyzedAt.Equal(want.AnalyzedAt) {
			p.errorf("%s: analyzed_at %s, want %s", ev.ID, ev.AnalyzedAt.Format(time.RFC3339), want.AnalyzedAt.Format(time.RFC3339))
		}
	}
	return p
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}
