// Package riskengine is the reference Analysis Service: a deterministic
// climate risk model keyed only on the coordinate.
package riskengine

import (
	"math"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
)

// Level thresholds on a 0-100 value.
const (
	highAbove   = 70
	mediumAbove = 40
)

// FixtureTime is the AnalyzedAt stamped on generated fixture events.
var FixtureTime = time.Date(2026, time.January, 15, 9, 0, 0, 0, time.UTC)

var projectionOffsets = []struct {
	year   int
	offset float64
}{
	{2030, 20},
	{2040, 35},
	{2050, 55},
	{2060, 70},
	{2070, 85},
}

// LevelFor bands a 0-100 value.
func LevelFor(v float64) domain.RiskLevel {
	switch {
	case v > highAbove:
		return domain.RiskHigh
	case v > mediumAbove:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Evaluate computes the score, risk factors, and projection for c.
//
//	flood     = frac(lat)·100
//	heat      = frac(lng)·100
//	storm     = frac(|lat+lng|)·100
//	sea_level = max(0, 100 − 2|lat|)
//	score     = 100 − mean(factors)/2
//
// frac is the floored fractional part, so negative inputs stay in [0, 1).
// Reported values are rounded to one decimal; levels use the unrounded values.
func Evaluate(c domain.Coordinate) (score float64, risks domain.RiskFactors, projection []domain.ProjectionPoint) {
	flood := floorMod(c.Lat, 1) * 100
	heat := floorMod(c.Lng, 1) * 100
	storm := floorMod(math.Abs(c.Lat+c.Lng), 1) * 100
	sea := math.Max(0, 100-math.Abs(c.Lat)*2)

	risks = domain.RiskFactors{
		factor("flood", flood),
		factor("heat", heat),
		factor("storm", storm),
		factor("sea_level", sea),
	}

	base := floorMod(c.Lat+c.Lng, 50)
	projection = make([]domain.ProjectionPoint, len(projectionOffsets))
	for i, p := range projectionOffsets {
		projection[i] = domain.ProjectionPoint{Year: p.year, Risk: round1(base + p.offset)}
	}

	avg := (flood + heat + storm + sea) / 4
	return round1(100 - avg*0.5), risks, projection
}

func factor(category string, v float64) domain.NamedRiskFactor {
	return domain.NamedRiskFactor{
		Category:   category,
		RiskFactor: domain.RiskFactor{Level: LevelFor(v), Value: round1(v)},
	}
}

// floorMod returns x mod m with the sign of m.
func floorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
