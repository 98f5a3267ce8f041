// Command climatescore resolves a property location, requests a climate
// risk analysis, and renders the Climate Credit Score report.
//
// Usage:
//
//	climatescore analyze -address "Mumbai, India" [-property ID] [-asset-value N] [-loan-term 15|30] [-json]
//	climatescore analyze -coords "19.0760, 72.8777"
//	climatescore analyze -device
//	climatescore present [-payload result.json]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/climate-credit-score/internal/config"
	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/observability"
)

var errUsage = errors.New("usage: climatescore <analyze|present> [flags]")

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "analyze":
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger := observability.NewLoggerTo(stderr, cfg)
		return runAnalyze(ctx, cfg, args[1:], stdout, stderr, logger, observability.NewMetrics())
	case "present":
		return runPresent(args[1:], stdin, stdout, stderr)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

// describe prefers the user-facing message of classified failures.
func describe(err error) string {
	if domain.KindOf(err) != domain.KindUnknown {
		return domain.UserMessage(err)
	}
	return err.Error()
}
