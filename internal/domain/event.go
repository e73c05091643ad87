package domain

import (
	"context"
	"time"

	"github.com/ridgelight/warnmap-etl/internal/warn"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// HazardFieldPayload is the JSON structure published by the upstream field
// extractor: one scalar hazard field (or a set of ensemble member fields)
// over geographic coordinates.
//
// Two layouts are accepted:
//
//   - dense: Rows and Cols are set; Lat, Lon and Values (or each Members
//     entry) hold Rows*Cols cells flattened row-major, latitude ascending
//     with row and longitude with column;
//   - scattered: Rows and Cols are zero; Lat, Lon and Values (or Members
//     entries) are parallel per-point arrays, to be regridded onto the
//     enclosing rectangle.
//
// Values and Members are mutually exclusive; Members carries one array per
// ensemble member, all over the same coordinates.
type HazardFieldPayload struct {
	HazardType string      `json:"hazard_type"`
	Unit       string      `json:"unit,omitempty"`
	LeadTime   string      `json:"lead_time,omitempty"`
	Rows       int         `json:"rows,omitempty"`
	Cols       int         `json:"cols,omitempty"`
	Lat        []float64   `json:"lat"`
	Lon        []float64   `json:"lon"`
	Values     []float64   `json:"values,omitempty"`
	Members    [][]float64 `json:"members,omitempty"`
}

// WarningEvent is the processed form destined for the sink topic: a discrete
// warn level for every cell of the field's coordinate grid.
type WarningEvent struct {
	ID         string `json:"id"`
	HazardType string `json:"hazard_type"`
	Unit       string `json:"unit,omitempty"`
	LeadTime   string `json:"lead_time,omitempty"`

	Rows   int          `json:"rows"`
	Cols   int          `json:"cols"`
	Levels []int        `json:"levels"` // row-major, one warn level per cell
	Coords []warn.Coord `json:"coords"` // row-major, matching Levels

	// LevelCounts holds the number of cells per warn level, indexed by level.
	LevelCounts []int `json:"level_counts"`

	// Clamp diagnostics from binning; nonzero values hint at upstream
	// data-quality problems or miscalibrated level boundaries.
	CellsClampedLow  int `json:"cells_clamped_low,omitempty"`
	CellsClampedHigh int `json:"cells_clamped_high,omitempty"`

	IssuedAt time.Time `json:"issued_at"`
}

// MaxLevel returns the highest warn level present in the event, or 0 for an
// empty level map.
func (e WarningEvent) MaxLevel() int {
	max := 0
	for _, lvl := range e.Levels {
		if lvl > max {
			max = lvl
		}
	}
	return max
}
