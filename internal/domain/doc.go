// Package domain models the property-location and climate-risk data that
// flows through the analysis workflow.
//
// # Coordinates
//
// A Coordinate is a WGS-84 latitude/longitude pair. Both components must be
// finite, latitude within [-90, 90] and longitude within [-180, 180]. Values
// are only ever constructed through NewCoordinate or ParseCoordinateText, so a
// Coordinate held anywhere in the workflow has already been validated.
//
// Two textual forms are used:
//
//	"19.076000, 72.877700"   FixText, six decimals, written back after a device fix
//	"19.0760, 72.8777"       Label, four decimals, used for synthesized property labels
//
// Coordinate text typed by a user is "<lat>, <lng>": exactly one comma,
// whitespace around either number is ignored.
//
// # Risk assessments
//
// The Analysis Service replies with a score, a mapping of risk category to
// {level, value} and a multi-year projection:
//
//	{
//	  "score": 85,
//	  "risk_factors": {"flood": {"level": "Low", "value": 10}},
//	  "projection": [{"year": 2030, "risk": 20}],
//	  "id": "x1"
//	}
//
// The order of risk_factors is significant for presentation, so RiskFactors
// decodes the JSON object into an ordered slice instead of a Go map.
//
// Scores are documented as 0–100. The reference service rounds to one
// decimal, so Score is a float64.
package domain
