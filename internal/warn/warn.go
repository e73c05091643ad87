package warn

import "fmt"

// Params configures one warning generation. Immutable once a computation
// begins; Validate is expected to have been called at construction time.
type Params struct {
	// Levels are the K+1 strictly increasing boundaries defining K warn
	// levels, e.g. for wind gusts in m/s: 0, 10, 40, 80, 150, 200.
	Levels []float64

	// Ops is the morphological pipeline applied per level, in order. Empty
	// means identity (no filtering).
	Ops []Op

	// GradualDecrease makes warn levels step down one at a time between
	// adjacent regions instead of jumping straight to a lower level.
	GradualDecrease bool

	// MinRegionSize eliminates formed regions of this many cells or fewer.
	// Values <= 1 keep all regions.
	MinRegionSize int
}

// Validate checks levels and operation pipeline.
func (p Params) Validate() error {
	if err := ValidateLevels(p.Levels); err != nil {
		return err
	}
	return ValidateOps(p.Ops)
}

// NumLevels returns K, the number of warn levels the boundaries define.
func (p Params) NumLevels() int { return len(p.Levels) - 1 }

// Warning is the result of one generation run: a warn level for every cell
// of the coordinate grid. It is immutable after return.
type Warning struct {
	Levels *LevelMap
	Coords []Coord
	Stats  BinStats
}

// LevelCounts returns the number of cells per warn level, indexed 0..K-1.
func (w *Warning) LevelCounts(numLevels int) []int {
	counts := make([]int, numLevels)
	for _, lvl := range w.Levels.Data {
		if lvl >= 0 && lvl < numLevels {
			counts[lvl]++
		}
	}
	return counts
}

// Generate computes a warning from a dense field and its matching
// coordinates: bin into levels, form regions through the operation pipeline,
// optionally merge too-small regions. Errors are detected before any
// filtering work begins; no partial result is ever returned.
func Generate(field *Field, coords []Coord, p Params) (*Warning, error) {
	if field.Len() != len(coords) {
		return nil, fmt.Errorf("%w: %d field cells, %d coordinates",
			ErrShapeMismatch, field.Len(), len(coords))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	binned, stats, err := Bin(field, p.Levels)
	if err != nil {
		return nil, err
	}

	levels := FormRegions(binned, p.Ops, p.GradualDecrease)
	levels = MergeSmallRegions(levels, p.MinRegionSize)

	return &Warning{Levels: levels, Coords: coords, Stats: stats}, nil
}

// GenerateFromScattered regrids scattered (lat, lon, value) points onto a
// dense zero-padded grid, then generates the warning over it.
func GenerateFromScattered(lat, lon, val []float64, relTol float64, p Params) (*Warning, error) {
	field, coords, err := Regrid(lat, lon, val, relTol)
	if err != nil {
		return nil, err
	}
	return Generate(field, coords, p)
}
