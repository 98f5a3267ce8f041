package main

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
)

// logMap is the terminal stand-in for the map view.
type logMap struct {
	logger *slog.Logger
}

func (m logMap) SetMarker(pos domain.Coordinate) {
	m.logger.Debug("marker placed", "lat", pos.Lat, "lng", pos.Lng)
}

func (m logMap) FlyTo(center domain.Coordinate, zoom int, duration time.Duration) {
	m.logger.Debug("camera moved", "lat", center.Lat, "lng", center.Lng, "zoom", zoom, "duration", duration)
}
