// Package warn classifies a 2-D scalar hazard field (e.g. wind gust speed)
// into discrete warn levels and consolidates the result into contiguous,
// decision-ready warning regions.
//
// # Pipeline
//
// The full computation is: scattered points → [Regrid] (optional) → [Bin] →
// [FormRegions] → [MergeSmallRegions] (optional). Each step is a pure
// value-in/value-out function; no step mutates its input.
//
// # Grid conventions
//
// Grids are flat row-major arrays with explicit Rows/Cols. Cell (r, c) of a
// grid corresponds to element r*Cols+c of its matching coordinate slice.
// Latitude ascends with the row index, longitude with the column index.
//
// # Region forming
//
// [FormRegions] iterates warn levels from highest to lowest. For each level
// it builds an integer mask (level value where selected, zero elsewhere),
// pushes the mask through the configured morphological operation pipeline,
// and merges the result into the running map with an element-wise maximum,
// so regions formed for more severe levels are never overwritten by less
// severe ones.
//
// Under Params.GradualDecrease the selection for level L also includes every
// cell the running map already holds above L, which makes severe regions
// bleed outward one level at a time instead of dropping straight to the
// background level.
//
// # Morphological operations
//
// Dilation and erosion use a Euclidean disk structuring element, median
// filtering a square window; all three treat out-of-bounds neighbors as zero
// and generalize to integer-valued masks (max, min and median over levels).
//
// # Small regions
//
// [MergeSmallRegions] removes 8-connected equal-level regions at or below a
// cell-count threshold in two deterministic passes: small regions are first
// raised to the map's maximum level, then stepped down one level at a time
// until they either join a large enough region or reach the minimum level.
package warn
