package warn

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GroupEnsembles collapses ensemble member fields into a single field by
// taking the per-cell empirical quantile q across members, e.g. q=0.5 for
// the member median or q=1 for the worst case. All members must share one
// shape. The empirical quantile is the smallest member value whose
// cumulative fraction reaches q (no interpolation), which keeps the output
// drawn from actually forecast values.
func GroupEnsembles(members []*Field, q float64) (*Field, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no ensemble members", ErrShapeMismatch)
	}
	if q < 0 || q > 1 {
		return nil, fmt.Errorf("warn: quantile %v out of [0, 1]", q)
	}

	rows, cols := members[0].Rows, members[0].Cols
	for i, m := range members[1:] {
		if m.Rows != rows || m.Cols != cols {
			return nil, fmt.Errorf("%w: member %d is %dx%d, want %dx%d",
				ErrShapeMismatch, i+1, m.Rows, m.Cols, rows, cols)
		}
	}

	out := NewField(rows, cols)
	sample := make([]float64, len(members))
	for i := range out.Data {
		for j, m := range members {
			sample[j] = m.Data[i]
		}
		sort.Float64s(sample)
		out.Data[i] = stat.Quantile(q, stat.Empirical, sample, nil)
	}
	return out, nil
}
