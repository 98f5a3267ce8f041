package riskengine

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/platform/lru"
)

// Engine runs the risk model and keeps recent results for lookup by id.
// It implements domain.Analyzer.
type Engine struct {
	results *lru.Cache[domain.AssessmentID, domain.RiskAssessment]
	newID   func() string
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDFunc replaces the random assessment id generator.
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New creates an engine retaining up to maxResults results.
func New(maxResults int, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		results: lru.New[domain.AssessmentID, domain.RiskAssessment](maxResults),
		newID:   uuid.NewString,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze validates the request coordinate, evaluates it, and stores the result.
func (e *Engine) Analyze(_ context.Context, req domain.AnalysisRequest) (domain.RiskAssessment, error) {
	c, err := domain.NewCoordinate(req.Lat, req.Lng)
	if err != nil {
		return domain.RiskAssessment{}, err
	}

	score, risks, projection := Evaluate(c)
	a := domain.RiskAssessment{
		Score:      score,
		Risks:      risks,
		Projection: projection,
		ID:         domain.AssessmentID(e.newID()),
	}
	if e.results.Put(a.ID, a) {
		e.logger.Debug("oldest stored result evicted")
	}
	e.logger.Info("analysis computed", "id", a.ID, "property_name", req.PropertyName, "score", score)
	return a, nil
}

// Result returns a stored result.
func (e *Engine) Result(id domain.AssessmentID) (domain.RiskAssessment, bool) {
	return e.results.Get(id)
}
