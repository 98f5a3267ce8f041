package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

// AssessmentPublisher forwards completed analyses to downstream consumers.
type AssessmentPublisher interface {
	Publish(ctx context.Context, ev domain.AssessmentEvent) error
}

// Submitter sends a located property to the Analysis Service. It never
// retries.
type Submitter struct {
	analyzer  domain.Analyzer
	publisher AssessmentPublisher
	op        Operation
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewSubmitter creates a submitter. publisher may be nil.
func NewSubmitter(analyzer domain.Analyzer, publisher AssessmentPublisher, logger *slog.Logger, metrics *observability.Metrics) *Submitter {
	return &Submitter{
		analyzer:  analyzer,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Busy reports whether a submission is outstanding.
func (s *Submitter) Busy() bool { return s.op.Busy() }

// Submit analyzes the property at c. It refuses with domain.ErrBusy while a
// previous submission is outstanding.
func (s *Submitter) Submit(ctx context.Context, c domain.Coordinate, in domain.FinancialInputs, addressText string) (domain.RiskAssessment, error) {
	if err := in.Validate(); err != nil {
		s.metrics.AnalysisSubmissions.WithLabelValues("invalid").Inc()
		return domain.RiskAssessment{}, err
	}

	ticket, err := s.op.Begin()
	if err != nil {
		s.metrics.AnalysisSubmissions.WithLabelValues("busy").Inc()
		return domain.RiskAssessment{}, err
	}

	req := domain.NewAnalysisRequest(c, in, addressText)
	start := time.Now()
	result, err := s.analyzer.Analyze(ctx, req)
	s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if domain.KindOf(err) != domain.KindServiceUnavailable {
			err = domain.NewServiceUnavailableError(domain.MsgAnalysisFailed, err)
		}
		if !ticket.Fail(err) {
			return domain.RiskAssessment{}, domain.ErrVisitEnded
		}
		s.metrics.AnalysisSubmissions.WithLabelValues("error").Inc()
		s.logger.Warn("analysis failed", "property_name", req.PropertyName, "error", err)
		return domain.RiskAssessment{}, err
	}

	if !ticket.Succeed(nil) {
		s.logger.Debug("late analysis discarded", "id", result.ID)
		return domain.RiskAssessment{}, domain.ErrVisitEnded
	}
	s.metrics.AnalysisSubmissions.WithLabelValues("success").Inc()
	s.logger.Info("analysis complete",
		"id", result.ID,
		"property_name", req.PropertyName,
		"score", result.Score,
		"duration", time.Since(start),
	)

	s.publish(ctx, req, result)
	return result, nil
}

// Close discards any outstanding submission and refuses new ones.
func (s *Submitter) Close() { s.op.Close() }

func (s *Submitter) publish(ctx context.Context, req domain.AnalysisRequest, result domain.RiskAssessment) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, domain.NewAssessmentEvent(req, result)); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("assessment publish failed", "id", result.ID, "error", err)
		return
	}
	s.metrics.AssessmentsPublished.Inc()
}
