package warn

import "errors"

var (
	// ErrShapeMismatch reports input slices or grids whose cell counts disagree.
	ErrShapeMismatch = errors.New("warn: shape mismatch")

	// ErrGridIrregular reports scattered points that cannot be represented on a
	// single regular grid within the configured tolerance.
	ErrGridIrregular = errors.New("warn: points do not form a regular grid")

	// ErrInvalidLevels reports level boundaries that are not strictly
	// increasing or have fewer than two entries.
	ErrInvalidLevels = errors.New("warn: invalid level boundaries")

	// ErrInvalidOperation reports an unknown operation kind or a non-positive
	// filter size in an operation pipeline.
	ErrInvalidOperation = errors.New("warn: invalid operation")
)
