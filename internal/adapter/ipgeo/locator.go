// Package ipgeo approximates the device position from the host's public IP,
// using the ip-api.com JSON format.
package ipgeo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
)

// Locator implements domain.DeviceLocator.
type Locator struct {
	url        string
	httpClient *http.Client
}

func NewLocator(url string, timeout time.Duration) *Locator {
	return &Locator{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type response struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition returns the approximate position. Every failure is reported
// as permission denied, the way a refused platform prompt would be.
func (l *Locator) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.Coordinate{}, domain.NewPermissionDeniedError(fmt.Errorf("create request: %w", err))
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, domain.NewPermissionDeniedError(fmt.Errorf("ip lookup: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, domain.NewPermissionDeniedError(fmt.Errorf("ip lookup: status %d", resp.StatusCode))
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinate{}, domain.NewPermissionDeniedError(fmt.Errorf("decode ip lookup: %w", err))
	}
	if body.Status != "success" {
		return domain.Coordinate{}, domain.NewPermissionDeniedError(fmt.Errorf("ip lookup %s: %s", body.Status, body.Message))
	}
	return domain.Coordinate{Lat: body.Lat, Lng: body.Lon}, nil
}
