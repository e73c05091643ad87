package warn

import (
	"fmt"
	"strconv"
	"strings"
)

// OpKind identifies one morphological operation. The set is closed: pipelines
// are validated at construction time so an unknown kind can never surface
// mid-computation.
type OpKind int

const (
	OpDilate OpKind = iota
	OpErode
	OpMedian
)

var opKindNames = map[OpKind]string{
	OpDilate: "dilation",
	OpErode:  "erosion",
	OpMedian: "median_filtering",
}

func (k OpKind) String() string {
	if s, ok := opKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k OpKind) MarshalText() ([]byte, error) {
	s, ok := opKindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: kind %d", ErrInvalidOperation, int(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OpKind) UnmarshalText(text []byte) error {
	for kind, name := range opKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidOperation, string(text))
}

// Op is one step of a morphological pipeline: an operation kind and its
// structuring parameter (disk radius for dilation/erosion, square window
// width for median filtering).
type Op struct {
	Kind OpKind `json:"kind"`
	Size int    `json:"size"`
}

// DefaultOps is the operation pipeline used when none is configured:
// a small dilation to close gaps, an erosion to drop specks, a wide dilation
// to consolidate regions, and a median filter to smooth region boundaries.
func DefaultOps() []Op {
	return []Op{
		{Kind: OpDilate, Size: 2},
		{Kind: OpErode, Size: 3},
		{Kind: OpDilate, Size: 7},
		{Kind: OpMedian, Size: 15},
	}
}

// ValidateOps checks every step of a pipeline. An empty pipeline is valid
// (identity).
func ValidateOps(ops []Op) error {
	for i, op := range ops {
		if _, ok := opKindNames[op.Kind]; !ok {
			return fmt.Errorf("%w: step %d has kind %d", ErrInvalidOperation, i, int(op.Kind))
		}
		if op.Size <= 0 {
			return fmt.Errorf("%w: step %d (%s) has size %d, want > 0", ErrInvalidOperation, i, op.Kind, op.Size)
		}
	}
	return nil
}

// ParseOps parses a pipeline spec of the form
// "dilation:2,erosion:3,dilation:7,median_filtering:15".
// An empty string yields an empty (identity) pipeline.
func ParseOps(s string) ([]Op, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	ops := make([]Op, 0, len(parts))
	for _, part := range parts {
		name, sizeStr, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q, want name:size", ErrInvalidOperation, part)
		}
		var kind OpKind
		if err := kind.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
			return nil, err
		}
		size, err := strconv.Atoi(strings.TrimSpace(sizeStr))
		if err != nil {
			return nil, fmt.Errorf("%w: size %q: %v", ErrInvalidOperation, sizeStr, err)
		}
		ops = append(ops, Op{Kind: kind, Size: size})
	}
	if err := ValidateOps(ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// FormatOps renders a pipeline back into the ParseOps string form.
func FormatOps(ops []Op) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%s:%d", op.Kind, op.Size)
	}
	return strings.Join(parts, ",")
}

// applyOps runs the pipeline over the mask in listed order. The pipeline is
// assumed validated; each step returns a new map.
func applyOps(m *LevelMap, ops []Op) *LevelMap {
	for _, op := range ops {
		switch op.Kind {
		case OpDilate:
			m = dilate(m, op.Size)
		case OpErode:
			m = erode(m, op.Size)
		case OpMedian:
			m = medianFilter(m, op.Size)
		}
	}
	return m
}
