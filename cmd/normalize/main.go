// Command normalize reads a One Call payload and prints the normalized
// forecast record, or its display view, as indented JSON. It runs the same
// domain code as the ETL service, which makes it handy for checking a
// payload or generating fixtures.
//
// Usage:
//
//	go run ./cmd/normalize -in payload.json -units imperial -view \
//	  -now 2024-04-26T17:00:00Z
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/forecast-etl/internal/domain"
	"github.com/couchcryptid/forecast-etl/internal/render"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	defaults := domain.DefaultOptions()

	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	in := fs.String("in", "", `payload file, or "-" for stdin`)
	location := fs.String("location", "", "location key (defaults to lat,lon)")
	units := fs.String("units", string(defaults.Units), "unit system the payload was requested in: metric, imperial or standard")
	windUnits := fs.String("wind-units", string(defaults.WindUnits), "wind display unit: ms, kmh, mph or knots")
	view := fs.Bool("view", false, "print the display view instead of the record")
	nowFlag := fs.String("now", "", "RFC3339 instant used for processed_at and alert filtering")
	beaufort := fs.Bool("beaufort", defaults.UseBeaufortInCurrent, "show current wind as Beaufort force")
	snowDepth := fs.Bool("snow-depth", defaults.ConvertSnowToDepth, "convert snow water equivalent to depth")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" {
		fs.Usage()
		return errors.New("missing required flag: -in")
	}

	if *nowFlag != "" {
		now, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			return fmt.Errorf("invalid -now: %w", err)
		}
		domain.SetClock(clockwork.NewFakeClockAt(now))
		defer domain.SetClock(nil)
	}

	data, err := readInput(*in, stdin)
	if err != nil {
		return err
	}

	opts := defaults
	opts.Units = domain.UnitSystem(strings.ToLower(*units))
	opts.WindUnits = domain.WindUnit(strings.ToLower(*windUnits))
	opts.UseBeaufortInCurrent = *beaufort
	opts.ConvertSnowToDepth = *snowDepth

	payload, err := domain.ParsePayload(data)
	if err != nil {
		return err
	}
	model, err := domain.Normalize(payload, opts)
	if err != nil {
		return err
	}

	key := *location
	if key == "" {
		key = domain.LocationKey(payload)
	}
	rec := domain.ForecastRecord{Location: key, ProcessedAt: domain.Now(), Forecast: model}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if *view {
		return enc.Encode(render.Build(rec, opts, domain.Now()))
	}
	return enc.Encode(rec)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}
