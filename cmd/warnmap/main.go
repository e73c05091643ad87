// Command warnmap computes a warn map for a hazard field payload offline,
// without Kafka. It reads the same JSON payload format the pipeline consumes
// and prints a per-level cell histogram, which makes it handy for tuning
// level boundaries and filter pipelines against recorded fields.
//
// Usage:
//
//	go run ./cmd/warnmap -in testdata/gust_field.json \
//	  -levels 0,19.6,27.8,36.1,43.9 -ops dilation:2,erosion:3 -min-region-size 12
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ridgelight/warnmap-etl/internal/domain"
	"github.com/ridgelight/warnmap-etl/internal/warn"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "path to a hazard field payload JSON file")
	out := flag.String("out", "", "optional output path for the warning event JSON")
	levelsFlag := flag.String("levels", "0,20,30,40,50", "comma-separated level boundaries")
	opsFlag := flag.String("ops", warn.FormatOps(warn.DefaultOps()), "filter pipeline, e.g. dilation:2,erosion:3")
	gradual := flag.Bool("gradual", false, "let higher warn regions bleed into lower levels")
	minRegionSize := flag.Int("min-region-size", 0, "dissolve regions smaller than this many cells (0 disables)")
	quantile := flag.Float64("quantile", 0.7, "ensemble collapse quantile in [0, 1]")
	relTol := flag.Float64("rel-tol", 0.01, "grid regularity tolerance for scattered payloads")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -in")
	}

	payload, err := readPayload(*in)
	if err != nil {
		return err
	}

	params, err := buildParams(*levelsFlag, *opsFlag, *gradual, *minRegionSize)
	if err != nil {
		return err
	}

	field, coords, err := payload.BuildField(*relTol, *quantile)
	if err != nil {
		return fmt.Errorf("building field: %w", err)
	}
	w, err := warn.Generate(field, coords, params)
	if err != nil {
		return fmt.Errorf("generating warning: %w", err)
	}
	event := domain.NewWarningEvent(payload, w, params.NumLevels())

	printSummary(payload, event, params.NumLevels())

	if *out != "" {
		data, err := json.MarshalIndent(event, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling warning: %w", err)
		}
		if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", *out, err)
		}
	}
	return nil
}

func readPayload(path string) (domain.HazardFieldPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.HazardFieldPayload{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var p domain.HazardFieldPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.HazardFieldPayload{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return domain.HazardFieldPayload{}, err
	}
	return p, nil
}

func buildParams(levelsFlag, opsFlag string, gradual bool, minRegionSize int) (warn.Params, error) {
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

	params := warn.Params{
		Levels:          levels,
		Ops:             ops,
		GradualDecrease: gradual,
		MinRegionSize:   minRegionSize,
	}
	if err := params.Validate(); err != nil {
		return warn.Params{}, err
	}
	return params, nil
}

func printSummary(p domain.HazardFieldPayload, e domain.WarningEvent, numLevels int) {
	fmt.Printf("%s (%s), %dx%d cells\n", e.HazardType, p.Unit, e.Rows, e.Cols)
	if e.LeadTime != "" {
		fmt.Printf("lead time: %s\n", e.LeadTime)
	}
	fmt.Printf("max warn level: %d\n", e.MaxLevel())
	for lvl := 0; lvl < numLevels; lvl++ {
		fmt.Printf("  level %d: %6d cells\n", lvl, e.LevelCounts[lvl])
	}
	if e.CellsClampedLow > 0 || e.CellsClampedHigh > 0 {
		fmt.Printf("clamped cells: %d below, %d above the configured boundaries\n",
			e.CellsClampedLow, e.CellsClampedHigh)
	}
}
