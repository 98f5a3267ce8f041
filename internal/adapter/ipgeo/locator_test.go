package ipgeo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","country":"India","lat":19.0748,"lon":72.8856,"query":"203.0.113.7"}`))
	}))
	defer srv.Close()

	got, err := NewLocator(srv.URL, time.Second).CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinate{Lat: 19.0748, Lng: 72.8856}, got)
}

func TestLocator_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"reserved range", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range","query":"127.0.0.1"}`))
		}},
		{"rate limited", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}},
		{"garbage", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewLocator(srv.URL, time.Second).CurrentPosition(context.Background())
			require.Error(t, err)
			assert.Equal(t, domain.KindPermissionDenied, domain.KindOf(err))
		})
	}
}
