package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
// Lat/Lng are passed through as received; callers validate them.
type GeocodingResult struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"` // 0.0–1.0 provider confidence score
}

// Geocoder resolves free text to a coordinate pair.
type Geocoder interface {
	// ForwardGeocode looks up query. A miss is reported as a KindNotFound error.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}

// DeviceLocator is the platform's current-position primitive.
type DeviceLocator interface {
	CurrentPosition(ctx context.Context) (Coordinate, error)
}
