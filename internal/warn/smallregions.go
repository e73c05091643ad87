package warn

// eightNeighbors is the connectivity used for region labeling throughout.
var eightNeighbors = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// MergeSmallRegions eliminates connected warning regions of minSize cells or
// fewer. A region is a maximal 8-connected set of cells sharing one warn
// level. minSize <= 1 disables merging and returns the input unchanged.
//
// The correction runs in two deterministic passes over a private copy
// shifted by +1, so genuine level-0 regions are not confused with the
// labeling background:
//
//  1. every too-small region is raised to the map's maximum level, absorbing
//     tiny outliers toward the most severe level present;
//  2. levels are walked from the maximum down to one above the minimum; the
//     too-small components of each level are demoted one level, cascading
//     until they either join a large enough region or reach the minimum.
//
// A single-pass shrink-to-neighbor rule would be ambiguous for a small
// region bordering several levels; this scheme trades that ambiguity for a
// reproducible bias: raise first, then step down.
func MergeSmallRegions(m *LevelMap, minSize int) *LevelMap {
	if minSize <= 1 {
		return m
	}

	w := m.Clone()
	for i := range w.Data {
		w.Data[i]++
	}

	increaseLevels(w, minSize)
	resetLevels(w, minSize)

	for i := range w.Data {
		w.Data[i]--
	}
	return w
}

// increaseLevels raises every too-small equal-value region to the global
// maximum level. Operates in place on the shifted working copy.
func increaseLevels(w *LevelMap, minSize int) {
	max := w.Max()
	labels, count := labelRegions(w)
	sizes := labelSizes(labels, count)
	for i, lbl := range labels {
		if lbl != 0 && sizes[lbl] <= minSize {
			w.Data[i] = max
		}
	}
}

// resetLevels demotes too-small regions one level at a time, walking levels
// from the maximum down to one above the minimum. A component demoted at
// level i is re-examined when the walk reaches i-1, so undersized promotions
// cascade down until they merge into a large enough region or bottom out.
// Operates in place on the shifted working copy.
func resetLevels(w *LevelMap, minSize int) {
	min := w.Min()
	for lvl := w.Max(); lvl > min; lvl-- {
		iso := NewLevelMap(w.Rows, w.Cols)
		for i, v := range w.Data {
			if v == lvl {
				iso.Data[i] = v
			}
		}

		labels, count := labelRegions(iso)
		sizes := labelSizes(labels, count)
		for i, lbl := range labels {
			if lbl != 0 && sizes[lbl] <= minSize {
				w.Data[i] = lvl - 1
			}
		}
	}
}

// labelRegions labels the 8-connected components of equal nonzero value.
// Zero cells are background and keep label 0. Returns the flat label array
// (labels 1..count) and the component count.
func labelRegions(m *LevelMap) ([]int, int) {
	labels := make([]int, m.Len())
	queue := make([]int, 0, m.Len())
	count := 0

	for start, v := range m.Data {
		if v == 0 || labels[start] != 0 {
			continue
		}
		count++
		labels[start] = count
		queue = append(queue[:0], start)

		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			r, c := idx/m.Cols, idx%m.Cols

			for _, n := range eightNeighbors {
				nr, nc := r+n[0], c+n[1]
				if nr < 0 || nr >= m.Rows || nc < 0 || nc >= m.Cols {
					continue
				}
				nidx := nr*m.Cols + nc
				if labels[nidx] == 0 && m.Data[nidx] == v {
					labels[nidx] = count
					queue = append(queue, nidx)
				}
			}
		}
	}
	return labels, count
}

// labelSizes returns cell counts indexed by label (index 0 unused).
func labelSizes(labels []int, count int) []int {
	sizes := make([]int, count+1)
	for _, lbl := range labels {
		sizes[lbl]++
	}
	return sizes
}
