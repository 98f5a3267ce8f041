package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultCenter is the map position before any location has been resolved
// (geographic center of India).
var DefaultCenter = Coordinate{Lat: 20.5937, Lng: 78.9629}

// Coordinate is a validated WGS-84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate validates lat/lng and returns the pair.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	c := Coordinate{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate reports whether both components are finite and in range.
func (c Coordinate) Validate() error {
	switch {
	case !isFinite(c.Lat) || !isFinite(c.Lng):
		return NewParseError(MsgInvalidCoordinates, fmt.Errorf("non-finite pair (%v, %v)", c.Lat, c.Lng))
	case c.Lat < -90 || c.Lat > 90:
		return NewParseError(MsgInvalidCoordinates, fmt.Errorf("latitude %v out of range", c.Lat))
	case c.Lng < -180 || c.Lng > 180:
		return NewParseError(MsgInvalidCoordinates, fmt.Errorf("longitude %v out of range", c.Lng))
	}
	return nil
}

// FixText renders the canonical six-decimal form written back after a device fix.
func (c Coordinate) FixText() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng)
}

// Label renders the four-decimal form used for synthesized labels.
func (c Coordinate) Label() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}

// ParseCoordinateText parses "<lat>, <lng>".
func ParseCoordinateText(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, NewParseError(MsgInvalidCoordinates, fmt.Errorf("expected \"lat, lng\", got %q", s))
	}
	lat, err := parseComponent(parts[0])
	if err != nil {
		return Coordinate{}, NewParseError(MsgInvalidCoordinates, fmt.Errorf("latitude: %w", err))
	}
	lng, err := parseComponent(parts[1])
	if err != nil {
		return Coordinate{}, NewParseError(MsgInvalidCoordinates, fmt.Errorf("longitude: %w", err))
	}
	return NewCoordinate(lat, lng)
}

func parseComponent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !isFinite(v) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
