package scoreapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type geocodeResponse struct {
	Lat         number `json:"lat"`
	Lng         number `json:"lng"`
	DisplayName string `json:"display_name"`
}

// number accepts a JSON number or a numeric string. Anything else, including
// a missing field, decodes to NaN so validation rejects it downstream.
type number struct {
	v   float64
	set bool
}

func (n number) Float64() float64 {
	if !n.set {
		return math.NaN()
	}
	return n.v
}

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		n.v, n.set = math.NaN(), true
		return nil
	}
	n.v, n.set = v, true
	return nil
}

type analyzeResponse struct {
	Score       *float64                 `json:"score"`
	RiskFactors domain.RiskFactors       `json:"risk_factors"`
	Projection  []domain.ProjectionPoint `json:"projection"`
	ID          domain.AssessmentID      `json:"id"`
}

// validate rejects a reply without the fields every assessment carries.
func (r analyzeResponse) validate() error {
	if r.Score == nil {
		return errors.New("analysis response missing score")
	}
	if len(r.Projection) == 0 {
		return errors.New("analysis response missing projection")
	}
	return nil
}

func (r analyzeResponse) assessment() domain.RiskAssessment {
	return domain.RiskAssessment{
		Score:      *r.Score,
		Risks:      r.RiskFactors,
		Projection: r.Projection,
		ID:         r.ID,
	}
}
