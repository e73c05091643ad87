// Command genfield generates a synthetic hazard field fixture plus the
// warning event the pipeline would compute for it. It uses the actual warn
// and domain packages so the expected output matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfield \
//	  -rows 40 -cols 60 -peak 45 \
//	  -field-out testdata/gust_field.json \
//	  -warning-out testdata/gust_warning.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ridgelight/warnmap-etl/internal/domain"
	"github.com/ridgelight/warnmap-etl/internal/warn"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rows := flag.Int("rows", 40, "grid rows")
	cols := flag.Int("cols", 60, "grid columns")
	peak := flag.Float64("peak", 45, "peak gust value at the storm center (m/s)")
	levelsFlag := flag.String("levels", "0,20,30,40,50", "comma-separated level boundaries")
	opsFlag := flag.String("ops", warn.FormatOps(warn.DefaultOps()), "filter pipeline, e.g. dilation:2,erosion:3")
	fieldOut := flag.String("field-out", "", "output path for the raw field payload JSON")
	warningOut := flag.String("warning-out", "", "output path for the expected warning JSON")
	flag.Parse()

	if *fieldOut == "" || *warningOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -field-out, -warning-out")
	}

	payload := gaussianGustField(*rows, *cols, *peak)

	params, err := paramsFromFlags(*levelsFlag, *opsFlag)
	if err != nil {
		return err
	}

	// Fix the clock for a reproducible IssuedAt.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.February, 11, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	field, coords, err := payload.BuildField(0.01, 0.7)
	if err != nil {
		return fmt.Errorf("building field: %w", err)
	}
	w, err := warn.Generate(field, coords, params)
	if err != nil {
		return fmt.Errorf("generating warning: %w", err)
	}
	event := domain.NewWarningEvent(payload, w, params.NumLevels())

	if err := writeJSON(*fieldOut, payload); err != nil {
		return err
	}
	if err := writeJSON(*warningOut, event); err != nil {
		return err
	}

	counts := event.LevelCounts
	log.Printf("%dx%d field, peak %.1f: max level %d, level counts %v",
		*rows, *cols, *peak, event.MaxLevel(), counts)
	return nil
}

// gaussianGustField builds a dense payload with a single Gaussian storm cell
// centered on the grid, dropping to calm conditions at the edges.
func gaussianGustField(rows, cols int, peak float64) domain.HazardFieldPayload {
	lat := make([]float64, 0, rows*cols)
	lon := make([]float64, 0, rows*cols)
	values := make([]float64, 0, rows*cols)

	cr, cc := float64(rows-1)/2, float64(cols-1)/2
	sigma := float64(min(rows, cols)) / 6

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			lat = append(lat, 46.0+0.1*float64(r))
			lon = append(lon, 6.0+0.1*float64(c))
			d2 := (float64(r)-cr)*(float64(r)-cr) + (float64(c)-cc)*(float64(c)-cc)
			values = append(values, peak*math.Exp(-d2/(2*sigma*sigma)))
		}
	}

	return domain.HazardFieldPayload{
		HazardType: "wind_gust",
		Unit:       "m/s",
		LeadTime:   "2026-02-11T12:00Z+24h",
		Rows:       rows,
		Cols:       cols,
		Lat:        lat,
		Lon:        lon,
		Values:     values,
	}
}

func paramsFromFlags(levelsFlag, opsFlag string) (warn.Params, error) {
	var levels []float64
	for _, p := range strings.Split(levelsFlag, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return warn.Params{}, fmt.Errorf("invalid level %q", p)
		}
		levels = append(levels, v)
	}

	ops, err := warn.ParseOps(opsFlag)
	if err != nil {
		return warn.Params{}, err
	}

	params := warn.Params{Levels: levels, Ops: ops}
	if err := params.Validate(); err != nil {
		return warn.Params{}, err
	}
	return params, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
