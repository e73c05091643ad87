package warn

import (
	"fmt"
	"sort"
)

// BinStats counts the cells clamped at either end of the level range during
// binning. Clamping is a diagnostic, not an error: isolated outliers must not
// abort a large-scale computation, but silent clamping can mask upstream
// data-quality problems, so callers are expected to surface these counts.
type BinStats struct {
	ClampedLow  int `json:"clamped_low"`
	ClampedHigh int `json:"clamped_high"`
}

// ValidateLevels checks that level boundaries are usable: at least two
// entries, strictly increasing.
func ValidateLevels(levels []float64) error {
	if len(levels) < 2 {
		return fmt.Errorf("%w: need at least 2 boundaries, got %d", ErrInvalidLevels, len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			return fmt.Errorf("%w: boundaries must be strictly increasing, %v >= %v at index %d",
				ErrInvalidLevels, levels[i-1], levels[i], i)
		}
	}
	return nil
}

// Bin classifies every field value into an ordinal warn level. K+1 boundaries
// define K levels; the level of value v is the number of boundaries <= v,
// minus one, clamped to [0, K-1]. Values below the lowest boundary clamp to
// level 0, values at or above the highest clamp to level K-1; both cases are
// counted in the returned BinStats.
func Bin(f *Field, levels []float64) (*LevelMap, BinStats, error) {
	if err := ValidateLevels(levels); err != nil {
		return nil, BinStats{}, err
	}

	maxLvl := len(levels) - 2
	out := NewLevelMap(f.Rows, f.Cols)
	var stats BinStats
	for i, v := range f.Data {
		// Number of boundaries <= v: first index whose boundary exceeds v.
		lvl := sort.Search(len(levels), func(j int) bool { return levels[j] > v }) - 1
		switch {
		case lvl < 0:
			lvl = 0
			stats.ClampedLow++
		case lvl > maxLvl:
			lvl = maxLvl
			stats.ClampedHigh++
		}
		out.Data[i] = lvl
	}
	return out, stats, nil
}
