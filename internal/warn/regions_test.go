package warn

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormRegions_EmptyPipelineIsIdentity(t *testing.T) {
	binned := &LevelMap{Rows: 4, Cols: 5, Data: []int{
		0, 0, 1, 1, 0,
		0, 3, 3, 1, 0,
		2, 3, 3, 0, 0,
		2, 2, 0, 0, 1,
	}}

	got := FormRegions(binned, nil, false)

	if diff := cmp.Diff(binned, got); diff != "" {
		t.Errorf("identity violated (-want +got):\n%s", diff)
	}
}

func TestFormRegions_FlatField(t *testing.T) {
	binned := NewLevelMap(3, 3)
	for i := range binned.Data {
		binned.Data[i] = 2
	}

	// No level iteration happens; the pipeline must not run at all, so even
	// an aggressive erosion cannot disturb the uniform map.
	got := FormRegions(binned, []Op{{Kind: OpErode, Size: 5}}, false)

	assert.Equal(t, binned.Data, got.Data)
}

func TestFormRegions_InputNotMutated(t *testing.T) {
	binned := &LevelMap{Rows: 2, Cols: 2, Data: []int{0, 2, 1, 0}}
	orig := append([]int(nil), binned.Data...)

	FormRegions(binned, []Op{{Kind: OpDilate, Size: 1}}, true)

	assert.Equal(t, orig, binned.Data)
}

func TestFormRegions_HigherLevelsNeverOverwritten(t *testing.T) {
	// A level-2 block bordered by a level-1 block on background 0. The
	// level-1 iteration runs later and its dilation reaches into the level-2
	// block, but the max-merge must keep every originally level-2 cell at 2.
	binned := &LevelMap{Rows: 3, Cols: 6, Data: []int{
		0, 2, 2, 1, 1, 0,
		0, 2, 2, 1, 1, 0,
		0, 2, 2, 1, 1, 0,
	}}

	got := FormRegions(binned, []Op{{Kind: OpDilate, Size: 1}}, false)

	for i, lvl := range binned.Data {
		if lvl == 2 {
			assert.Equal(t, 2, got.Data[i], "cell %d lost its higher level", i)
		}
	}
}

func TestFormRegions_GradualDecreaseWithoutOps(t *testing.T) {
	// Without filtering, gradual decrease changes nothing: the bleed mask
	// only re-selects cells the map already holds at a higher level.
	binned := &LevelMap{Rows: 1, Cols: 5, Data: []int{0, 0, 2, 0, 0}}

	exact := FormRegions(binned, nil, false)
	gradual := FormRegions(binned, nil, true)

	assert.Equal(t, binned.Data, exact.Data)
	assert.Equal(t, binned.Data, gradual.Data)
}

func TestFormRegions_GradualDecreaseBleedsOneLevelAtATime(t *testing.T) {
	// A 3x3 level-2 core on background 0, three levels defined, one
	// dilation step. With gradual decrease the dilated level-2 region is
	// wrapped by a level-1 ring; without it the map jumps 2 -> 0 directly.
	binned := NewLevelMap(9, 9)
	for r := 3; r <= 5; r++ {
		for c := 3; c <= 5; c++ {
			binned.Set(r, c, 2)
		}
	}
	ops := []Op{{Kind: OpDilate, Size: 1}}

	abrupt := FormRegions(binned, ops, false)
	gradual := FormRegions(binned, ops, true)

	// Exact selection: level 1 is empty in the input, so nothing is 1.
	assert.NotContains(t, abrupt.Data, 1)

	// Gradual: some level-1 cells exist, and no cell at level 2 has a
	// 4-neighbor below level 1 (no direct 2 -> 0 step).
	assert.Contains(t, gradual.Data, 1)
	for r := 0; r < gradual.Rows; r++ {
		for c := 0; c < gradual.Cols; c++ {
			if gradual.At(r, c) != 2 {
				continue
			}
			for _, n := range [][2]int{{r - 1, c}, {r + 1, c}, {r, c - 1}, {r, c + 1}} {
				if n[0] < 0 || n[0] >= gradual.Rows || n[1] < 0 || n[1] >= gradual.Cols {
					continue
				}
				assert.GreaterOrEqual(t, gradual.At(n[0], n[1]), 1,
					"level 2 cell (%d,%d) borders level 0 at (%d,%d)", r, c, n[0], n[1])
			}
		}
	}
}

func TestFormRegions_NonZeroBaseLevel(t *testing.T) {
	// When the minimum binned level is 1, unassigned cells stay at 1, not 0.
	binned := &LevelMap{Rows: 2, Cols: 3, Data: []int{1, 1, 3, 1, 3, 1}}

	got := FormRegions(binned, nil, false)

	require.Equal(t, []int{1, 1, 3, 1, 3, 1}, got.Data)
	assert.Equal(t, 1, got.Min())
}

func TestFormRegions_ShapePreserved(t *testing.T) {
	binned := NewLevelMap(6, 11)
	binned.Set(2, 4, 3)

	got := FormRegions(binned, DefaultOps(), true)

	assert.Equal(t, binned.Rows, got.Rows)
	assert.Equal(t, binned.Cols, got.Cols)
}
