package warn

import (
	"fmt"
	"math"
	"sort"
)

// Regrid converts scattered (lat, lon, value) points into a dense rectangular
// field padded with zeros where no point falls. The point set must lie on a
// single regular grid per axis: the smallest positive spacing between unique
// coordinates is taken as the axis resolution, and every unique coordinate
// must sit on that raster within relTol×resolution, otherwise
// ErrGridIrregular is returned.
//
// The returned coordinate slice is the full meshgrid of both axis ranges,
// flattened row-major with latitude ascending by row and longitude ascending
// by column. On colliding input points the last write wins; collisions are a
// data-quality issue of the caller and are not validated here.
func Regrid(lat, lon, val []float64, relTol float64) (*Field, []Coord, error) {
	if len(lat) != len(lon) || len(lat) != len(val) {
		return nil, nil, fmt.Errorf("%w: %d lat, %d lon, %d values",
			ErrShapeMismatch, len(lat), len(lon), len(val))
	}
	if len(lat) == 0 {
		return nil, nil, fmt.Errorf("%w: empty point set", ErrShapeMismatch)
	}

	// Round away sub-picodegree float noise before spacing detection.
	rlat := roundAll(lat, 12)
	rlon := roundAll(lon, 12)

	latAxis, err := regularAxis(rlat, relTol, "lat")
	if err != nil {
		return nil, nil, err
	}
	lonAxis, err := regularAxis(rlon, relTol, "lon")
	if err != nil {
		return nil, nil, err
	}

	field := NewField(len(latAxis.values), len(lonAxis.values))
	for k := range val {
		r := latAxis.index(rlat[k])
		c := lonAxis.index(rlon[k])
		field.Set(r, c, val[k])
	}

	coords := make([]Coord, 0, field.Len())
	for _, la := range latAxis.values {
		for _, lo := range lonAxis.values {
			coords = append(coords, Coord{Lat: la, Lon: lo})
		}
	}
	return field, coords, nil
}

// axis is one regular coordinate axis: its full range of grid values at the
// detected resolution.
type axis struct {
	min, res float64
	values   []float64
}

// index maps a coordinate onto its axis position. The nudge compensates for
// representation error left after decimal rounding so cells just below an
// exact multiple do not truncate to the previous index.
func (a axis) index(coord float64) int {
	return int(math.Floor((coord-a.min)/a.res + 1e-9))
}

// regularAxis detects the resolution of one coordinate axis (smallest
// positive difference between sorted unique values) and validates that every
// unique value lies on the resulting raster within relTol of the resolution.
func regularAxis(coords []float64, relTol float64, name string) (axis, error) {
	uniq := uniqueSorted(coords)
	if len(uniq) == 1 {
		// Degenerate single-row/column axis; any resolution represents it.
		return axis{min: uniq[0], res: 1, values: uniq}, nil
	}

	res := math.Inf(1)
	for i := 1; i < len(uniq); i++ {
		if d := uniq[i] - uniq[i-1]; d > 0 && d < res {
			res = d
		}
	}

	min := uniq[0]
	for _, u := range uniq {
		steps := (u - min) / res
		if math.Abs(steps-math.Round(steps)) > relTol {
			return axis{}, fmt.Errorf("%w: %s value %v is off-raster for resolution %v",
				ErrGridIrregular, name, u, res)
		}
	}

	n := int(math.Round((uniq[len(uniq)-1]-min)/res)) + 1
	values := make([]float64, n)
	for i := range values {
		values[i] = min + float64(i)*res
	}
	return axis{min: min, res: res, values: values}, nil
}

func uniqueSorted(v []float64) []float64 {
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	uniq := sorted[:1]
	for _, x := range sorted[1:] {
		if x != uniq[len(uniq)-1] {
			uniq = append(uniq, x)
		}
	}
	return uniq
}

func roundAll(v []float64, decimals int) []float64 {
	scale := math.Pow(10, float64(decimals))
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Round(x*scale) / scale
	}
	return out
}
