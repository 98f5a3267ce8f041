package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/climate-credit-score/internal/adapter/geocache"
	"github.com/couchcryptid/climate-credit-score/internal/adapter/ipgeo"
	kafkaadapter "github.com/couchcryptid/climate-credit-score/internal/adapter/kafka"
	"github.com/couchcryptid/climate-credit-score/internal/adapter/mapbox"
	"github.com/couchcryptid/climate-credit-score/internal/adapter/scoreapi"
	"github.com/couchcryptid/climate-credit-score/internal/config"
	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
	"github.com/couchcryptid/climate-credit-score/internal/present"
	"github.com/couchcryptid/climate-credit-score/internal/workflow"
)

type analyzeFlags struct {
	address    string
	coords     string
	device     bool
	property   string
	assetValue float64
	loanTerm   domain.LoanTerm
	json       bool
}

func parseAnalyzeFlags(args []string, stderr io.Writer) (analyzeFlags, error) {
	var f analyzeFlags
	var loanTerm string

	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.address, "address", "", "free-text address to geocode")
	fs.StringVar(&f.coords, "coords", "", `coordinate text, "lat, lng"`)
	fs.BoolVar(&f.device, "device", false, "use the device (IP) position")
	fs.StringVar(&f.property, "property", "", "property identifier")
	fs.Float64Var(&f.assetValue, "asset-value", domain.DefaultAssetValue, "asset value")
	fs.StringVar(&loanTerm, "loan-term", "30", "loan term in years (15 or 30)")
	fs.BoolVar(&f.json, "json", false, "print the result payload as JSON")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	sources := 0
	for _, set := range []bool{f.address != "", f.coords != "", f.device} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return f, errors.New("exactly one of -address, -coords or -device is required")
	}

	term, err := domain.ParseLoanTerm(loanTerm)
	if err != nil {
		return f, err
	}
	f.loanTerm = term
	return f, nil
}

func runAnalyze(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer, logger *slog.Logger, metrics *observability.Metrics) error {
	f, err := parseAnalyzeFlags(args, stderr)
	if err != nil {
		return err
	}

	deps, cleanup := buildDeps(cfg, logger, metrics)
	defer cleanup()

	v := workflow.NewVisit(deps)
	defer v.Close()

	if err := locate(ctx, v, f); err != nil {
		return err
	}
	if v.State() != workflow.StateLocated {
		return domain.ErrNotLocated
	}
	marker := v.Store().Marker()

	a, err := v.Submit(ctx, domain.FinancialInputs{
		AssetValue: f.assetValue,
		LoanTerm:   f.loanTerm,
		PropertyID: f.property,
	})
	if err != nil {
		return err
	}

	if f.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	fmt.Fprintf(stdout, "Location\t%s\n\n", marker.Label())
	return present.Render(stdout, present.Present(&a))
}

func locate(ctx context.Context, v *workflow.Visit, f analyzeFlags) error {
	switch {
	case f.device:
		return v.UseDeviceLocation(ctx)
	case f.coords != "":
		v.SetMode(domain.ModeCoordinates)
		v.SetCoordinateText(f.coords)
	default:
		v.SetAddressText(f.address)
	}
	return v.FetchLocation(ctx)
}

// buildDeps wires the configured adapters. The returned cleanup closes
// connections opened here.
func buildDeps(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (workflow.Deps, func()) {
	var closers []func() error

	api := scoreapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, metrics, logger)

	var provider domain.Geocoder = api
	if strings.EqualFold(cfg.GeocodeProvider, config.ProviderMapbox) {
		provider = mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
	}

	var cache redis.Cmdable
	if cfg.RedisAddr != "" {
		rdb := geocache.NewRedisClient(cfg.RedisAddr)
		cache = rdb
		closers = append(closers, rdb.Close)
	}

	deps := workflow.Deps{
		Geocoder: geocache.Stack(provider, cfg, cache, metrics, logger),
		Analyzer: api,
		Map:      logMap{logger: logger},
		Logger:   logger,
		Metrics:  metrics,
	}
	if cfg.DeviceLocatorEnabled {
		deps.Device = ipgeo.NewLocator(cfg.DeviceLocatorURL, cfg.APITimeout)
	}
	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg, logger)
		deps.Publisher = w
		closers = append(closers, w.Close)
	}

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("close failed", "error", err)
			}
		}
	}
	return deps, cleanup
}
