package warn

import "sort"

// diskOffsets returns the (dr, dc) offsets of a Euclidean disk structuring
// element: all cells with dr²+dc² <= radius².
func diskOffsets(radius int) [][2]int {
	r2 := radius * radius
	offsets := make([][2]int, 0, (2*radius+1)*(2*radius+1))
	for dr := -radius; dr <= radius; dr++ {
		for dc := -radius; dc <= radius; dc++ {
			if dr*dr+dc*dc <= r2 {
				offsets = append(offsets, [2]int{dr, dc})
			}
		}
	}
	return offsets
}

// dilate replaces every cell with the maximum over the disk neighborhood,
// growing regions of interest. Out-of-bounds neighbors count as zero.
func dilate(m *LevelMap, radius int) *LevelMap {
	offsets := diskOffsets(radius)
	out := NewLevelMap(m.Rows, m.Cols)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			max := 0
			for _, off := range offsets {
				nr, nc := r+off[0], c+off[1]
				if nr < 0 || nr >= m.Rows || nc < 0 || nc >= m.Cols {
					continue
				}
				if v := m.At(nr, nc); v > max {
					max = v
				}
			}
			out.Set(r, c, max)
		}
	}
	return out
}

// erode replaces every cell with the minimum over the disk neighborhood,
// shrinking regions and eliminating thin or small ones. Out-of-bounds
// neighbors count as zero, so regions touching the border erode inward.
func erode(m *LevelMap, radius int) *LevelMap {
	offsets := diskOffsets(radius)
	out := NewLevelMap(m.Rows, m.Cols)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			min := m.At(r, c)
			for _, off := range offsets {
				nr, nc := r+off[0], c+off[1]
				v := 0
				if nr >= 0 && nr < m.Rows && nc >= 0 && nc < m.Cols {
					v = m.At(nr, nc)
				}
				if v < min {
					min = v
				}
			}
			out.Set(r, c, min)
		}
	}
	return out
}

// medianFilter replaces every cell with the median of a window×window square
// neighborhood, smoothing region boundaries without blurring levels.
// Out-of-bounds neighbors count as zero. For even window sizes the upper
// median (element n/2 of the sorted neighborhood) is taken.
func medianFilter(m *LevelMap, window int) *LevelMap {
	half := window / 2
	// For even windows the square extends one cell less on the top/left,
	// matching a (window × window) footprint anchored at the center.
	lo := -half
	if window%2 == 0 {
		lo = -half + 1
	}

	out := NewLevelMap(m.Rows, m.Cols)
	buf := make([]int, 0, window*window)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			buf = buf[:0]
			for dr := lo; dr <= half; dr++ {
				for dc := lo; dc <= half; dc++ {
					nr, nc := r+dr, c+dc
					if nr >= 0 && nr < m.Rows && nc >= 0 && nc < m.Cols {
						buf = append(buf, m.At(nr, nc))
					} else {
						buf = append(buf, 0)
					}
				}
			}
			sort.Ints(buf)
			out.Set(r, c, buf[len(buf)/2])
		}
	}
	return out
}
