package domain

import "time"

// AssessmentEvent records a completed analysis for downstream consumers
// (portfolio views, audit).
type AssessmentEvent struct {
	ID           AssessmentID      `json:"id"`
	PropertyName string            `json:"property_name"`
	Address      string            `json:"address"`
	Location     Coordinate        `json:"location"`
	AssetValue   float64           `json:"asset_value"`
	LoanTerm     int               `json:"loan_term"`
	Score        float64           `json:"score"`
	Risks        RiskFactors       `json:"risk_factors"`
	Projection   []ProjectionPoint `json:"projection"`
	AnalyzedAt   time.Time         `json:"analyzed_at"`
}

// NewAssessmentEvent stamps a completed analysis with the domain clock.
func NewAssessmentEvent(req AnalysisRequest, a RiskAssessment) AssessmentEvent {
	return AssessmentEvent{
		ID:           a.ID,
		PropertyName: req.PropertyName,
		Address:      req.Address,
		Location:     req.Coordinate(),
		AssetValue:   req.AssetValue,
		LoanTerm:     req.LoanTerm,
		Score:        a.Score,
		Risks:        a.Risks,
		Projection:   a.Projection,
		AnalyzedAt:   clock.Now().UTC(),
	}
}
