package lattice

import "errors"

// Sentinel errors. Callers match them with errors.Is; wrapped variants carry
// the offending value.
var (
	// ErrUnknownTruncation reports a truncation mode outside the recognized
	// set. It is raised at construction, before any computation.
	ErrUnknownTruncation = errors.New("lattice: unknown truncation mode")

	// ErrSphericalTruncation reports use of the spherical truncation, which
	// is declared but not implemented.
	ErrSphericalTruncation = errors.New("lattice: spherical truncation is not implemented")

	// ErrNonIntegerCount reports a harmonic count with a fractional part.
	ErrNonIntegerCount = errors.New("lattice: harmonic count must be an integer")

	// ErrInvalidCount reports a harmonic count below one.
	ErrInvalidCount = errors.New("lattice: harmonic count must be positive")

	// ErrNoRasterizer reports a shape-mask call on a lattice constructed
	// without a rasterizer.
	ErrNoRasterizer = errors.New("lattice: no rasterizer configured")
)
