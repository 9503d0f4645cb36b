package lattice

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/photonworks/bravais/grid"
)

// DefaultResolution is the per-axis grid resolution used when none is
// configured.
const DefaultResolution = 256

// Vec3 is a real 3-vector.
type Vec3 [3]float64

// Dot returns the scalar product v·o.
func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

// Cross returns the vector product v×o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Basis holds the three lattice basis vectors. They become the columns of
// the cell matrix.
type Basis [3]Vec3

// GVector is one reciprocal-lattice harmonic: an integer index triple over
// the reciprocal basis vectors.
type GVector [3]int

// Truncation selects the harmonic-generation algorithm.
type Truncation string

const (
	TruncationParallelogrammic Truncation = "parallelogrammic"
	TruncationSpherical        Truncation = "spherical"
)

// IsValid reports whether t is a recognized truncation mode.
func (t Truncation) IsValid() bool {
	switch t {
	case TruncationParallelogrammic, TruncationSpherical:
		return true
	}
	return false
}

// Options configures lattice construction. The zero value is usable: it
// normalizes to a 256^3 grid with parallelogrammic truncation and no
// rasterizer.
type Options struct {
	// Discretization is the per-axis grid resolution. One value broadcasts
	// to all three axes; three values are taken as given. Defaults to
	// DefaultResolution per axis. Values are not range-checked here: a
	// non-positive resolution only fails once a field is allocated.
	Discretization []int `json:"discretization,omitempty"`

	// Truncation picks the harmonic-generation algorithm. Defaults to
	// TruncationParallelogrammic.
	Truncation Truncation `json:"truncation,omitempty"`

	// Harmonics, when non-empty, bypasses algorithmic truncation entirely:
	// Lattice.Harmonics returns exactly this list, in this order.
	Harmonics []GVector `json:"harmonics,omitempty"`

	// Rasterizer backs the shape-mask methods. Leaving it nil disables
	// them.
	Rasterizer Rasterizer `json:"-"`
}

// Normalize applies defaults for unset fields and validates the rest. The
// receiver is not modified.
func (o Options) Normalize() (Options, error) {
	opts := o

	switch len(opts.Discretization) {
	case 0:
		opts.Discretization = []int{DefaultResolution, DefaultResolution, DefaultResolution}
	case 1:
		n := opts.Discretization[0]
		opts.Discretization = []int{n, n, n}
	case 3:
		opts.Discretization = append([]int(nil), opts.Discretization...)
	default:
		return opts, fmt.Errorf("lattice: discretization needs 1 or 3 values, got %d", len(opts.Discretization))
	}

	if opts.Truncation == "" {
		opts.Truncation = TruncationParallelogrammic
	}
	if !opts.Truncation.IsValid() {
		return opts, fmt.Errorf("%w: %q", ErrUnknownTruncation, opts.Truncation)
	}

	if len(opts.Harmonics) > 0 {
		opts.Harmonics = append([]GVector(nil), opts.Harmonics...)
	}

	return opts, nil
}

// Lattice is an immutable unit-cell descriptor. Construct with New.
type Lattice struct {
	basis      Basis
	dims       grid.Dims
	truncation Truncation
	override   []GVector
	rasterizer Rasterizer
}

// New constructs a lattice from its basis vectors and options. The basis is
// not checked for linear independence; a degenerate basis surfaces later as
// the inversion error from Reciprocal.
func New(basis Basis, opts Options) (*Lattice, error) {
	norm, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	d, err := grid.NewDims(norm.Discretization...)
	if err != nil {
		return nil, err
	}
	return &Lattice{
		basis:      basis,
		dims:       d,
		truncation: norm.Truncation,
		override:   norm.Harmonics,
		rasterizer: norm.Rasterizer,
	}, nil
}

// Basis returns the lattice basis vectors.
func (l *Lattice) Basis() Basis { return l.basis }

// Dims returns the per-axis grid resolution.
func (l *Lattice) Dims() grid.Dims { return l.dims }

// Truncation returns the configured harmonic-generation mode.
func (l *Lattice) Truncation() Truncation { return l.truncation }

// Volume returns the unit-cell volume |(v0×v1)·v2|.
func (l *Lattice) Volume() float64 {
	return math.Abs(l.basis[0].Cross(l.basis[1]).Dot(l.basis[2]))
}

// Matrix returns a fresh copy of the 3×3 cell matrix, basis vectors as
// columns.
func (l *Lattice) Matrix() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for col, v := range l.basis {
		for row := 0; row < 3; row++ {
			m.Set(row, col, v[row])
		}
	}
	return m
}

// Reciprocal returns the reciprocal cell matrix 2π(M⁻¹)ᵀ, whose columns are
// the reciprocal basis vectors. A singular cell matrix surfaces as the
// inversion error, untranslated.
func (l *Lattice) Reciprocal() (*mat.Dense, error) {
	var inv mat.Dense
	if err := inv.Inverse(l.Matrix()); err != nil {
		return nil, err
	}
	r := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r.Set(i, j, 2*math.Pi*inv.At(j, i))
		}
	}
	return r, nil
}

// ReciprocalVectors returns the three reciprocal basis vectors, the columns
// of Reciprocal.
func (l *Lattice) ReciprocalVectors() ([3]Vec3, error) {
	var out [3]Vec3
	r, err := l.Reciprocal()
	if err != nil {
		return out, err
	}
	for i := 0; i < 3; i++ {
		out[i] = Vec3{r.At(0, i), r.At(1, i), r.At(2, i)}
	}
	return out, nil
}
