package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
	"github.com/couchcryptid/climate-credit-score/internal/present"
)

func runPresent(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("present", flag.ContinueOnError)
	fs.SetOutput(stderr)
	payload := fs.String("payload", "", `result JSON file, or "-" for stdin; omit to show the sample`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := readPayload(*payload, stdin)
	if err != nil {
		return err
	}
	return present.Render(stdout, present.Present(a))
}

func readPayload(path string, stdin io.Reader) (*domain.RiskAssessment, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		return nil, nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var a domain.RiskAssessment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &a, nil
}
