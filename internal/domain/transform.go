package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ridgelight/warnmap-etl/internal/warn"
)

// ParseRawEvent deserializes a RawEvent's value into a HazardFieldPayload
// and validates its layout.
func ParseRawEvent(raw RawEvent) (HazardFieldPayload, error) {
	var p HazardFieldPayload
	if err := json.Unmarshal(raw.Value, &p); err != nil {
		return HazardFieldPayload{}, fmt.Errorf("parse raw event: %w", err)
	}
	if err := p.Validate(); err != nil {
		return HazardFieldPayload{}, err
	}
	return p, nil
}

// Validate checks the payload layout without touching the numeric content;
// value-level problems (irregular grids, outliers) surface later from the
// warn computation.
func (p HazardFieldPayload) Validate() error {
	if p.HazardType == "" {
		return errors.New("payload missing hazard_type")
	}
	if len(p.Values) > 0 && len(p.Members) > 0 {
		return errors.New("payload sets both values and members")
	}
	if len(p.Values) == 0 && len(p.Members) == 0 {
		return errors.New("payload has neither values nor members")
	}
	if len(p.Lat) == 0 || len(p.Lat) != len(p.Lon) {
		return fmt.Errorf("payload has %d lat and %d lon entries", len(p.Lat), len(p.Lon))
	}

	cells := len(p.Lat)
	if p.Dense() {
		if p.Rows <= 0 || p.Cols <= 0 || p.Rows*p.Cols != cells {
			return fmt.Errorf("dense payload is %dx%d but has %d coordinates", p.Rows, p.Cols, cells)
		}
	}
	for i, m := range p.memberValues() {
		if len(m) != cells {
			return fmt.Errorf("member %d has %d values for %d coordinates", i, len(m), cells)
		}
	}
	return nil
}

// Dense reports whether the payload carries an already rectangular grid.
func (p HazardFieldPayload) Dense() bool { return p.Rows > 0 || p.Cols > 0 }

// memberValues returns the value arrays regardless of layout: the single
// Values array or all ensemble Members.
func (p HazardFieldPayload) memberValues() [][]float64 {
	if len(p.Members) > 0 {
		return p.Members
	}
	return [][]float64{p.Values}
}

// BuildField turns a validated payload into a dense field plus matching
// coordinates. Ensemble members are collapsed to the per-cell quantile q
// first; scattered payloads are then regridded onto the enclosing rectangle
// with relTol as the grid-regularity tolerance.
func (p HazardFieldPayload) BuildField(relTol, q float64) (*warn.Field, []warn.Coord, error) {
	members := p.memberValues()

	// Collapsing before regridding is equivalent to collapsing after (all
	// members share one coordinate set) and avoids regridding every member.
	collapsed := members[0]
	if len(members) > 1 {
		fields := make([]*warn.Field, len(members))
		for i, m := range members {
			fields[i] = &warn.Field{Rows: 1, Cols: len(m), Data: m}
		}
		grouped, err := warn.GroupEnsembles(fields, q)
		if err != nil {
			return nil, nil, fmt.Errorf("group ensembles: %w", err)
		}
		collapsed = grouped.Data
	}

	if !p.Dense() {
		return warn.Regrid(p.Lat, p.Lon, collapsed, relTol)
	}

	field := &warn.Field{Rows: p.Rows, Cols: p.Cols, Data: collapsed}
	coords := make([]warn.Coord, len(p.Lat))
	for i := range coords {
		coords[i] = warn.Coord{Lat: p.Lat[i], Lon: p.Lon[i]}
	}
	return field, coords, nil
}

// NewWarningEvent assembles the sink-topic event from a payload and the
// warning computed over it.
func NewWarningEvent(p HazardFieldPayload, w *warn.Warning, numLevels int) WarningEvent {
	return WarningEvent{
		ID:               generateID(p.HazardType, p.LeadTime, w),
		HazardType:       p.HazardType,
		Unit:             p.Unit,
		LeadTime:         p.LeadTime,
		Rows:             w.Levels.Rows,
		Cols:             w.Levels.Cols,
		Levels:           w.Levels.Data,
		Coords:           w.Coords,
		LevelCounts:      w.LevelCounts(numLevels),
		CellsClampedLow:  w.Stats.ClampedLow,
		CellsClampedHigh: w.Stats.ClampedHigh,
		IssuedAt:         clock.Now(),
	}
}

// generateID produces a deterministic ID from the warning's key fields.
// Deterministic IDs enable idempotent downstream writes and replay safety —
// reprocessing the same payload produces the same ID.
func generateID(hazardType, leadTime string, w *warn.Warning) string {
	first := w.Coords[0]
	last := w.Coords[len(w.Coords)-1]
	input := fmt.Sprintf("%s|%s|%dx%d|%.6f,%.6f|%.6f,%.6f",
		hazardType, leadTime, w.Levels.Rows, w.Levels.Cols,
		first.Lat, first.Lon, last.Lat, last.Lon)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if hazardType == "" {
		return short
	}
	return hazardType + "-" + short
}
