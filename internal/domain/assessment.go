package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RiskLevel is the qualitative band of a risk factor.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskFactor is a single category's level and 0–100 value.
type RiskFactor struct {
	Level RiskLevel `json:"level"`
	Value float64   `json:"value"`
}

// NamedRiskFactor pairs a category key (flood, heat, storm, sea_level, ...) with its factor.
type NamedRiskFactor struct {
	Category string
	RiskFactor
}

// RiskFactors is a category → factor mapping that keeps insertion order.
// It encodes as, and decodes from, a JSON object.
type RiskFactors []NamedRiskFactor

// Get returns the factor for category, if present.
func (rf RiskFactors) Get(category string) (RiskFactor, bool) {
	for _, f := range rf {
		if f.Category == category {
			return f.RiskFactor, true
		}
	}
	return RiskFactor{}, false
}

func (rf RiskFactors) MarshalJSON() ([]byte, error) {
	if rf == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range rf {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.RiskFactor)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (rf *RiskFactors) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("risk factors: %w", err)
	}
	if tok == nil {
		*rf = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("risk factors: expected object, got %v", tok)
	}

	out := RiskFactors{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("risk factors: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("risk factors: unexpected key %v", tok)
		}
		var f RiskFactor
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("risk factor %q: %w", key, err)
		}
		// A repeated key keeps its first position and takes the last value.
		if i, seen := index[key]; seen {
			out[i].RiskFactor = f
			continue
		}
		index[key] = len(out)
		out = append(out, NamedRiskFactor{Category: key, RiskFactor: f})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("risk factors: %w", err)
	}
	*rf = out
	return nil
}

// ProjectionPoint is the projected risk for one year.
type ProjectionPoint struct {
	Year int     `json:"year"`
	Risk float64 `json:"risk"`
}

// AssessmentID is the opaque identifier assigned by the Analysis Service.
// Services may send it as a JSON string or number.
type AssessmentID string

func (id *AssessmentID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*id = ""
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = AssessmentID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("assessment id: %w", err)
	}
	*id = AssessmentID(n.String())
	return nil
}

// RiskAssessment is the result of a successful analysis. Its JSON form is the
// hand-off payload carried from submission to presentation.
type RiskAssessment struct {
	Score      float64           `json:"score"`
	Risks      RiskFactors       `json:"risks"`
	Projection []ProjectionPoint `json:"projection"`
	ID         AssessmentID      `json:"id"`
}

// DefaultAssessment is rendered when the presenter receives no hand-off
// payload, e.g. after direct navigation to the results screen.
func DefaultAssessment() RiskAssessment {
	return RiskAssessment{
		Score: 72,
		Risks: RiskFactors{
			{Category: "flood", RiskFactor: RiskFactor{Level: RiskMedium, Value: 50}},
			{Category: "heat", RiskFactor: RiskFactor{Level: RiskHigh, Value: 80}},
			{Category: "storm", RiskFactor: RiskFactor{Level: RiskLow, Value: 30}},
			{Category: "sea_level", RiskFactor: RiskFactor{Level: RiskLow, Value: 10}},
		},
		Projection: []ProjectionPoint{
			{Year: 2030, Risk: 20},
			{Year: 2040, Risk: 35},
			{Year: 2050, Risk: 55},
			{Year: 2060, Risk: 70},
			{Year: 2070, Risk: 85},
		},
	}
}
