// Package present shapes a risk assessment for display: the score with its
// loan recommendation, the ordered risk list, and the chart series.
package present

import (
	"strconv"
	"strings"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
)

// SafeScore is the lowest score that gets standard loan pricing.
const SafeScore = 80

// Recommendation texts.
const (
	StandardRate = "Low climate risk. Standard interest rates apply."
	RiskPremium  = "High exposure. Recommend +0.25% risk premium on loan pricing."
)

// Chart series labels.
const (
	ProjectionLabel  = "Projected Risk (%)"
	RiskProfileLabel = "Risk Profile"
)

// Accent is the color role shared by a risk's badge and its bar.
type Accent string

const (
	AccentAlert   Accent = "alert"
	AccentPrimary Accent = "primary"
	AccentSafe    Accent = "safe"
)

// AccentFor maps a risk level to its accent. Unknown levels render as safe.
func AccentFor(level domain.RiskLevel) Accent {
	switch level {
	case domain.RiskHigh:
		return AccentAlert
	case domain.RiskMedium:
		return AccentPrimary
	default:
		return AccentSafe
	}
}

// Recommendation is the loan pricing advice for a score.
type Recommendation struct {
	Text string
	Safe bool
}

// Recommend returns standard pricing for scores of SafeScore and above and a
// risk premium otherwise.
func Recommend(score float64) Recommendation {
	if score >= SafeScore {
		return Recommendation{Text: StandardRate, Safe: true}
	}
	return Recommendation{Text: RiskPremium}
}

// RiskItem is one row of the risk list.
type RiskItem struct {
	Category string
	Label    string
	Level    domain.RiskLevel
	Value    float64
	Accent   Accent
}

// Series is a labeled chart dataset.
type Series struct {
	Label  string
	Labels []string
	Values []float64
}

// Model is everything the results screen renders.
type Model struct {
	AssessmentID   domain.AssessmentID
	Score          float64
	Fallback       bool // true when no assessment was handed off
	Recommendation Recommendation
	Risks          []RiskItem
	Projection     Series
	RiskProfile    Series
}

// Present builds the display model. A nil assessment renders the fixed
// default and marks the model as a fallback.
func Present(a *domain.RiskAssessment) Model {
	fallback := a == nil
	if fallback {
		d := domain.DefaultAssessment()
		a = &d
	}

	m := Model{
		AssessmentID:   a.ID,
		Score:          a.Score,
		Fallback:       fallback,
		Recommendation: Recommend(a.Score),
		Risks:          make([]RiskItem, 0, len(a.Risks)),
		Projection:     Series{Label: ProjectionLabel, Labels: []string{}, Values: []float64{}},
		RiskProfile:    Series{Label: RiskProfileLabel, Labels: []string{}, Values: []float64{}},
	}

	for _, f := range a.Risks {
		label := categoryLabel(f.Category)
		m.Risks = append(m.Risks, RiskItem{
			Category: f.Category,
			Label:    label,
			Level:    f.Level,
			Value:    f.Value,
			Accent:   AccentFor(f.Level),
		})
		m.RiskProfile.Labels = append(m.RiskProfile.Labels, label)
		m.RiskProfile.Values = append(m.RiskProfile.Values, f.Value)
	}

	for _, p := range a.Projection {
		m.Projection.Labels = append(m.Projection.Labels, strconv.Itoa(p.Year))
		m.Projection.Values = append(m.Projection.Values, p.Risk)
	}
	return m
}

func categoryLabel(category string) string {
	return strings.ReplaceAll(category, "_", " ")
}
