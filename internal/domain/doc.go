// Package domain models hazard field payloads and the warning events
// computed from them.
//
// # Data source
//
// Hazard fields originate from an upstream extractor service that pulls
// forecast model output (e.g. COSMO wind gust ensembles), reduces it to one
// scalar field per lead time, and publishes the field as JSON to the Kafka
// source topic. Fields arrive either as dense rectangular grids or as
// scattered point sets covering a non-rectangular domain (a country outline,
// a coastal strip); scattered sets are regridded onto the enclosing
// rectangle with zero padding before classification.
//
// # Ensembles
//
// A payload may carry several ensemble member value arrays over one
// coordinate set. Members are collapsed to a single field by a per-cell
// empirical quantile before warn levels are computed; the quantile is
// service configuration (e.g. 0.7 for a conservatively high estimate, 1.0
// for the worst case).
//
// # Coordinate conventions
//
// All per-cell arrays are flattened row-major: latitude ascends with the row
// index, longitude with the column index. The coordinate arrays of a dense
// payload pair every cell with its WGS-84 (lat, lon); no CRS handling or
// reprojection happens here.
//
// # ID generation
//
// Warning IDs are deterministic SHA-256 hashes of hazard type, lead time,
// grid shape and corner coordinates. Replaying a raw payload therefore
// produces the same ID, enabling idempotent downstream writes. See
// [NewWarningEvent].
package domain
