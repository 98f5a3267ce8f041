package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
)

const (
	msgQueryRequired  = "Query parameter 'q' is required"
	msgLocationMiss   = "Location not found"
	msgGeocodeDown    = "Geocoding service unavailable"
	msgInvalidBody    = "Invalid request body"
	msgResultNotFound = "Analysis not found"
)

// maxBodyBytes bounds an analyze request body.
const maxBodyBytes = 64 << 10

type errorBody struct {
	Error string `json:"error"`
}

type geocodeBody struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	DisplayName string  `json:"display_name"`
}

type analysisBody struct {
	RiskFactors domain.RiskFactors       `json:"risk_factors"`
	Projection  []domain.ProjectionPoint `json:"projection"`
	Score       float64                  `json:"score"`
	ID          domain.AssessmentID      `json:"id"`
	Location    *domain.Coordinate       `json:"location,omitempty"`
}

func newAnalysisBody(a domain.RiskAssessment) analysisBody {
	return analysisBody{
		RiskFactors: a.Risks,
		Projection:  a.Projection,
		Score:       a.Score,
		ID:          a.ID,
	}
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.metrics.GeocodesServed.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgQueryRequired})
		return
	}
	if s.geocoder == nil {
		s.metrics.GeocodesServed.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: msgGeocodeDown})
		return
	}

	res, err := s.geocoder.ForwardGeocode(r.Context(), q)
	switch {
	case domain.KindOf(err) == domain.KindNotFound:
		s.metrics.GeocodesServed.WithLabelValues("not_found").Inc()
		writeJSON(w, http.StatusNotFound, errorBody{Error: msgLocationMiss})
		return
	case err != nil:
		s.metrics.GeocodesServed.WithLabelValues("error").Inc()
		s.logger.Warn("geocode failed", "query", q, "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: msgGeocodeDown})
		return
	}

	s.metrics.GeocodesServed.WithLabelValues("found").Inc()
	writeJSON(w, http.StatusOK, geocodeBody{Lat: res.Lat, Lng: res.Lng, DisplayName: q})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req domain.AnalysisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidBody})
		return
	}
	if req.LoanTerm == 0 {
		req.LoanTerm = int(domain.LoanTerm30)
	}

	a, err := s.engine.Analyze(r.Context(), req)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) && de.Kind == domain.KindParse {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: de.Message})
			return
		}
		s.logger.Error("analysis failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: domain.MsgAnalysisFailed})
		return
	}

	s.metrics.AnalysesServed.Inc()
	body := newAnalysisBody(a)
	loc := req.Coordinate()
	body.Location = &loc
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	a, ok := s.engine.Result(domain.AssessmentID(r.PathValue("id")))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: msgResultNotFound})
		return
	}
	writeJSON(w, http.StatusOK, newAnalysisBody(a))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client disconnects are not actionable
}
