package warn

// Coord is a WGS-84 latitude/longitude pair for one grid cell.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Field is a dense 2-D scalar hazard field in row-major order.
type Field struct {
	Rows, Cols int
	Data       []float64
}

// NewField allocates a zero-filled field of the given shape.
func NewField(rows, cols int) *Field {
	return &Field{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the value at row r, column c.
func (f *Field) At(r, c int) float64 { return f.Data[r*f.Cols+c] }

// Set stores v at row r, column c.
func (f *Field) Set(r, c int, v float64) { f.Data[r*f.Cols+c] = v }

// Len returns the cell count.
func (f *Field) Len() int { return f.Rows * f.Cols }

// LevelMap is a dense 2-D map of integer warn levels in row-major order.
type LevelMap struct {
	Rows, Cols int
	Data       []int
}

// NewLevelMap allocates a zero-filled level map of the given shape.
func NewLevelMap(rows, cols int) *LevelMap {
	return &LevelMap{Rows: rows, Cols: cols, Data: make([]int, rows*cols)}
}

// At returns the level at row r, column c.
func (m *LevelMap) At(r, c int) int { return m.Data[r*m.Cols+c] }

// Set stores lvl at row r, column c.
func (m *LevelMap) Set(r, c, lvl int) { m.Data[r*m.Cols+c] = lvl }

// Len returns the cell count.
func (m *LevelMap) Len() int { return m.Rows * m.Cols }

// Clone returns a deep copy of the map.
func (m *LevelMap) Clone() *LevelMap {
	out := &LevelMap{Rows: m.Rows, Cols: m.Cols, Data: make([]int, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// Min returns the smallest level in the map. Empty maps return 0.
func (m *LevelMap) Min() int {
	if len(m.Data) == 0 {
		return 0
	}
	min := m.Data[0]
	for _, v := range m.Data[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest level in the map. Empty maps return 0.
func (m *LevelMap) Max() int {
	if len(m.Data) == 0 {
		return 0
	}
	max := m.Data[0]
	for _, v := range m.Data[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
