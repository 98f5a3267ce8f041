package domain

import (
	"context"
	"strings"
)

// AnalysisRequest is the JSON payload sent to the Analysis Service.
type AnalysisRequest struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	AssetValue   float64 `json:"asset_value"`
	LoanTerm     int     `json:"loan_term"`
	PropertyName string  `json:"property_name"`
	Address      string  `json:"address"`
}

// NewAnalysisRequest packages a coordinate and the financial inputs. Empty
// property identifiers and address text fall back to labels derived from
// the coordinate.
func NewAnalysisRequest(c Coordinate, in FinancialInputs, addressText string) AnalysisRequest {
	property := strings.TrimSpace(in.PropertyID)
	if property == "" {
		property = "Property at " + c.Label()
	}
	address := strings.TrimSpace(addressText)
	if address == "" {
		address = c.Label()
	}
	return AnalysisRequest{
		Lat:          c.Lat,
		Lng:          c.Lng,
		AssetValue:   in.AssetValue,
		LoanTerm:     int(in.LoanTerm),
		PropertyName: property,
		Address:      address,
	}
}

// Coordinate returns the request's location.
func (r AnalysisRequest) Coordinate() Coordinate {
	return Coordinate{Lat: r.Lat, Lng: r.Lng}
}

// Analyzer computes a risk assessment for a request.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (RiskAssessment, error)
}
