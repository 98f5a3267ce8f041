package domain

import "strings"

// LocationMode selects which text buffer a LocationQuery is built from.
type LocationMode int

const (
	ModeAddress LocationMode = iota
	ModeCoordinates
)

func (m LocationMode) String() string {
	switch m {
	case ModeAddress:
		return "address"
	case ModeCoordinates:
		return "coordinates"
	default:
		return "unknown"
	}
}

// ParseLocationMode accepts "address" or "coordinates".
func ParseLocationMode(s string) (LocationMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "address":
		return ModeAddress, true
	case "coordinates", "coords":
		return ModeCoordinates, true
	}
	return ModeAddress, false
}

// LocationQuery is the active form of location input: free-text address or
// raw "lat, lng" text, tagged by Mode.
type LocationQuery struct {
	Mode LocationMode
	Text string
}

func AddressQuery(text string) LocationQuery {
	return LocationQuery{Mode: ModeAddress, Text: text}
}

func CoordinateQuery(text string) LocationQuery {
	return LocationQuery{Mode: ModeCoordinates, Text: text}
}
