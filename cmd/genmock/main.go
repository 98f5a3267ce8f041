// Command genmock reads a CSV of properties and generates analysis fixtures
// for the client and backend test suites. It runs the real risk engine so the
// fixtures match what the backend serves.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv data/properties.csv \
//	  -analyses-out data/mock/analyses.json \
//	  -events-out data/mock/assessment_events.json
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/present"
	"github.com/couchcryptid/climate-credit-score/internal/riskengine"
)

// fixture pairs an analyze request with the response the backend returns.
type fixture struct {
	Request  domain.AnalysisRequest `json:"request"`
	Response analysisResponse       `json:"response"`
}

type analysisResponse struct {
	RiskFactors domain.RiskFactors       `json:"risk_factors"`
	Projection  []domain.ProjectionPoint `json:"projection"`
	Score       float64                  `json:"score"`
	ID          domain.AssessmentID      `json:"id"`
	Location    domain.Coordinate        `json:"location"`
}

type property struct {
	name    string
	address string
	coord   domain.Coordinate
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "CSV with Name, Address, Lat, Lng columns")
	analysesOut := flag.String("analyses-out", "", "output path for analyze request/response fixtures")
	eventsOut := flag.String("events-out", "", "output path for assessment event fixtures")
	flag.Parse()

	if *csvPath == "" || *analysesOut == "" || *eventsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv, -analyses-out, -events-out")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	props, err := readProperties(f)
	if err != nil {
		return fmt.Errorf("processing %s: %w", *csvPath, err)
	}

	// Fixed clock for reproducible AnalyzedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(riskengine.FixtureTime))
	defer domain.SetClock(nil)

	fixtures, events, err := generate(props)
	if err != nil {
		return err
	}
	log.Printf("total: %d properties", len(fixtures))

	if err := writeJSON(*analysesOut, fixtures); err != nil {
		return fmt.Errorf("writing analyses fixture: %w", err)
	}
	log.Printf("wrote analyses fixture: %s", *analysesOut)

	if err := writeJSON(*eventsOut, events); err != nil {
		return fmt.Errorf("writing events fixture: %w", err)
	}
	log.Printf("wrote events fixture: %s", *eventsOut)

	printStats(os.Stdout, fixtures)
	return nil
}

func readProperties(r io.Reader) ([]property, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows")
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}

	props := make([]property, 0, len(rows)-1)
	for n, row := range rows[1:] {
		lat, errLat := strconv.ParseFloat(get(row, colIdx, "Lat"), 64)
		lng, errLng := strconv.ParseFloat(get(row, colIdx, "Lng"), 64)
		if errLat != nil || errLng != nil {
			return nil, fmt.Errorf("row %d: invalid coordinates", n+2)
		}
		c, err := domain.NewCoordinate(lat, lng)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		props = append(props, property{
			name:    get(row, colIdx, "Name"),
			address: get(row, colIdx, "Address"),
			coord:   c,
		})
	}
	return props, nil
}

// generate runs each property through the engine with sequential ids.
func generate(props []property) ([]fixture, []domain.AssessmentEvent, error) {
	seq := 0
	engine := riskengine.New(len(props), slog.New(slog.NewTextHandler(io.Discard, nil)),
		riskengine.WithIDFunc(func() string {
			seq++
			return fmt.Sprintf("mock-%03d", seq)
		}))

	fixtures := make([]fixture, 0, len(props))
	events := make([]domain.AssessmentEvent, 0, len(props))
	for _, p := range props {
		in := domain.FinancialInputs{AssetValue: domain.DefaultAssetValue, LoanTerm: domain.LoanTerm30, PropertyID: p.name}
		req := domain.NewAnalysisRequest(p.coord, in, p.address)

		a, err := engine.Analyze(context.Background(), req)
		if err != nil {
			return nil, nil, fmt.Errorf("analyze %s: %w", p.name, err)
		}
		fixtures = append(fixtures, fixture{
			Request: req,
			Response: analysisResponse{
				RiskFactors: a.Risks,
				Projection:  a.Projection,
				Score:       a.Score,
				ID:          a.ID,
				Location:    p.coord,
			},
		})
		events = append(events, domain.NewAssessmentEvent(req, a))
	}
	return fixtures, events, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats summarizes the fixtures for updating test assertions.
func printStats(w io.Writer, fixtures []fixture) {
	safe := 0
	levels := map[domain.RiskLevel]int{}
	for i := range fixtures {
		r := &fixtures[i].Response
		if present.Recommend(r.Score).Safe {
			safe++
		}
		for _, f := range r.RiskFactors {
			levels[f.Level]++
		}
	}

	fmt.Fprintln(w, "\n=== Stats for updating test assertions ===")
	fmt.Fprintf(w, "Total: %d\n", len(fixtures))
	fmt.Fprintf(w, "Standard rate (score >= %d): %d, risk premium: %d\n", present.SafeScore, safe, len(fixtures)-safe)
	fmt.Fprintf(w, "Factor levels: high=%d, medium=%d, low=%d\n",
		levels[domain.RiskHigh], levels[domain.RiskMedium], levels[domain.RiskLow])
	for i := range fixtures {
		r := &fixtures[i].Response
		fmt.Fprintf(w, "  %s %-24s score=%g\n", r.ID, fixtures[i].Request.Address, r.Score)
	}
}
