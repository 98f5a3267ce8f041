// Package scoreapi is the HTTP client for the Geocoding and Analysis
// services, which share one base URL.
package scoreapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

// Client implements domain.Geocoder and domain.Analyzer against the service API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a client for the services at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ForwardGeocode calls GET /api/geocode?q=. A non-success reply is a not-found
// carrying the service's error message when it sent one.
func (c *Client) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	u := c.baseURL + "/api/geocode?" + url.Values{"q": {query}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.GeocodeAPIDuration.WithLabelValues("api").Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.GeocodingResult{}, domain.NewServiceUnavailableError(domain.MsgGeocodeUnavailable,
			fmt.Errorf("geocode request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
		c.logger.Debug("geocode rejected", "status", resp.StatusCode, "error", body.Error)
		return domain.GeocodingResult{}, domain.NewNotFoundError(body.Error)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.GeocodingResult{}, domain.NewServiceUnavailableError(domain.MsgGeocodeUnavailable,
			fmt.Errorf("decode geocode response: %w", err))
	}

	return domain.GeocodingResult{
		Lat:              body.Lat.Float64(),
		Lng:              body.Lng.Float64(),
		FormattedAddress: body.DisplayName,
	}, nil
}

// Analyze calls POST /api/analyze. Any failure, including a non-success status,
// is reported as service unavailable.
func (c *Client) Analyze(ctx context.Context, r domain.AnalysisRequest) (domain.RiskAssessment, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", bytes.NewReader(payload))
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RiskAssessment{}, unavailable(fmt.Errorf("analysis request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.RiskAssessment{}, unavailable(fmt.Errorf("analysis service: status %d: %s", resp.StatusCode, bytes.TrimSpace(body)))
	}

	var body analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.RiskAssessment{}, unavailable(fmt.Errorf("decode analysis response: %w", err))
	}
	if err := body.validate(); err != nil {
		return domain.RiskAssessment{}, unavailable(err)
	}
	return body.assessment(), nil
}

func unavailable(err error) error {
	return domain.NewServiceUnavailableError(domain.MsgAnalysisFailed, err)
}
