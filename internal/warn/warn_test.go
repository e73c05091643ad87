package warn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		Levels:        []float64{0, 10, 40, 80},
		MinRegionSize: 0,
	}
}

func uniformCoords(n int) []Coord {
	coords := make([]Coord, n)
	for i := range coords {
		coords[i] = Coord{Lat: float64(i), Lon: 0}
	}
	return coords
}

func TestGenerate_EndToEnd(t *testing.T) {
	// A 5x5 gust field: a solid severe block and one noisy outlier cell.
	field := &Field{Rows: 5, Cols: 5, Data: []float64{
		5, 5, 5, 5, 5,
		5, 50, 50, 5, 5,
		5, 50, 50, 5, 5,
		5, 5, 5, 5, 90,
		5, 5, 5, 5, 5,
	}}
	p := testParams()
	p.MinRegionSize = 1 // merging disabled at <= 1

	w, err := Generate(field, uniformCoords(25), p)
	require.NoError(t, err)

	// Empty pipeline: binning carries through unchanged.
	assert.Equal(t, []int{
		0, 0, 0, 0, 0,
		0, 2, 2, 0, 0,
		0, 2, 2, 0, 0,
		0, 0, 0, 0, 2,
		0, 0, 0, 0, 0,
	}, w.Levels.Data)
	assert.Equal(t, BinStats{ClampedHigh: 1}, w.Stats)
}

func TestGenerate_MergesSmallRegions(t *testing.T) {
	field := &Field{Rows: 5, Cols: 5, Data: []float64{
		5, 5, 5, 5, 5,
		5, 50, 50, 5, 5,
		5, 50, 50, 5, 5,
		5, 5, 5, 5, 90,
		5, 5, 5, 5, 5,
	}}
	p := testParams()
	p.MinRegionSize = 2

	w, err := Generate(field, uniformCoords(25), p)
	require.NoError(t, err)

	// The 2x2 block survives, the lone outlier does not.
	assert.Equal(t, []int{
		0, 0, 0, 0, 0,
		0, 2, 2, 0, 0,
		0, 2, 2, 0, 0,
		0, 0, 0, 0, 0,
		0, 0, 0, 0, 0,
	}, w.Levels.Data)
}

func TestGenerate_ShapeMismatch(t *testing.T) {
	_, err := Generate(NewField(2, 2), uniformCoords(3), testParams())
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestGenerate_InvalidParams(t *testing.T) {
	p := testParams()
	p.Levels = []float64{7}
	_, err := Generate(NewField(1, 1), uniformCoords(1), p)
	assert.ErrorIs(t, err, ErrInvalidLevels)

	p = testParams()
	p.Ops = []Op{{Kind: OpKind(9), Size: 1}}
	_, err = Generate(NewField(1, 1), uniformCoords(1), p)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestGenerateFromScattered(t *testing.T) {
	// Four points on a 0.5 degree 2x2 grid.
	lat := []float64{47.0, 47.0, 47.5, 47.5}
	lon := []float64{8.0, 8.5, 8.0, 8.5}
	val := []float64{5, 45, 45, 45}

	w, err := GenerateFromScattered(lat, lon, val, 0.01, testParams())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 2, 2}, w.Levels.Data)
	assert.Equal(t, []Coord{{47.0, 8.0}, {47.0, 8.5}, {47.5, 8.0}, {47.5, 8.5}}, w.Coords)
}

func TestGenerateFromScattered_Irregular(t *testing.T) {
	_, err := GenerateFromScattered(
		[]float64{0, 0.5, 1.3}, []float64{0, 0, 0}, []float64{1, 2, 3},
		0.01, testParams())
	assert.ErrorIs(t, err, ErrGridIrregular)
}

func TestWarning_LevelCounts(t *testing.T) {
	w := &Warning{Levels: &LevelMap{Rows: 2, Cols: 3, Data: []int{0, 0, 1, 2, 2, 2}}}

	assert.Equal(t, []int{2, 1, 3}, w.LevelCounts(3))
}

func TestParams_Validate(t *testing.T) {
	p := Params{Levels: []float64{0, 10, 40}, Ops: DefaultOps()}
	require.NoError(t, p.Validate())
	assert.Equal(t, 2, p.NumLevels())

	p.Ops = append(p.Ops, Op{Kind: OpMedian, Size: 0})
	assert.ErrorIs(t, p.Validate(), ErrInvalidOperation)
}
