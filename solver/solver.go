package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/photonworks/bravais/fourier"
	"github.com/photonworks/bravais/grid"
	"github.com/photonworks/bravais/lattice"
)

var (
	// ErrZeroPermittivity reports a permittivity field with a zero node,
	// which cannot be inverted.
	ErrZeroPermittivity = errors.New("solver: permittivity is zero somewhere on the grid")

	// ErrNotSymmetric reports a permittivity whose inverse spectrum has
	// imaginary parts beyond tolerance. The symmetric eigensolver needs a
	// real structure with inversion symmetry.
	ErrNotSymmetric = errors.New("solver: permittivity spectrum is not real-symmetric")
)

// DefaultSymTol bounds the relative imaginary residue tolerated in the
// operator entries.
const DefaultSymTol = 1e-8

// Options tunes a Solver. The zero value keeps every band and applies
// DefaultSymTol.
type Options struct {
	// Bands caps how many of the lowest bands each solve reports. Zero or
	// negative keeps all of them, one per harmonic.
	Bands int

	// SymTol overrides DefaultSymTol when positive.
	SymTol float64
}

// Solver holds everything that is fixed across wavevectors: the inverse
// permittivity spectrum and the truncated harmonic set with its physical
// reciprocal vectors.
type Solver struct {
	lat    *lattice.Lattice
	eta    *fourier.Spectrum
	g      []lattice.GVector
	kg     []lattice.Vec3
	bands  int
	symTol float64
}

// New builds a solver for one structure: eps is the relative permittivity
// sampled on the lattice grid, nh the requested harmonic count. The actual
// harmonic count, and with it the operator size, follows the lattice's
// truncation rule.
func New(lat *lattice.Lattice, eps *grid.Complex, nh int, opts Options) (*Solver, error) {
	if lat == nil {
		return nil, errors.New("solver: nil lattice")
	}
	if eps == nil {
		return nil, errors.New("solver: nil permittivity field")
	}

	eta, err := grid.NewComplex(eps.Dims)
	if err != nil {
		return nil, err
	}
	for n, v := range eps.Data {
		if v == 0 {
			return nil, fmt.Errorf("%w: node %d", ErrZeroPermittivity, n)
		}
		eta.Data[n] = 1 / v
	}

	spec, err := fourier.Transform(eta)
	if err != nil {
		return nil, err
	}

	g, err := lat.Harmonics(nh)
	if err != nil {
		return nil, err
	}
	rec, err := lat.ReciprocalVectors()
	if err != nil {
		return nil, err
	}

	kg := make([]lattice.Vec3, len(g))
	for m, h := range g {
		for axis := 0; axis < 3; axis++ {
			for r := 0; r < 3; r++ {
				kg[m][r] += float64(h[axis]) * rec[axis][r]
			}
		}
	}

	s := &Solver{
		lat:    lat,
		eta:    spec,
		g:      g,
		kg:     kg,
		bands:  opts.Bands,
		symTol: opts.SymTol,
	}
	if s.bands <= 0 || s.bands > len(g) {
		s.bands = len(g)
	}
	if s.symTol <= 0 {
		s.symTol = DefaultSymTol
	}
	return s, nil
}

// NumHarmonics returns the size of the truncated basis, which is also the
// operator dimension.
func (s *Solver) NumHarmonics() int { return len(s.g) }

// Harmonics returns the truncated harmonic set the solver expands over.
func (s *Solver) Harmonics() []lattice.GVector {
	return append([]lattice.GVector(nil), s.g...)
}

// SolveK computes the band frequencies at a single wavevector, ascending,
// capped at the configured band count.
func (s *Solver) SolveK(k lattice.Vec3) ([]float64, error) {
	n := len(s.g)

	norms := make([]float64, n)
	for m := range s.g {
		kk := lattice.Vec3{k[0] + s.kg[m][0], k[1] + s.kg[m][1], k[2] + s.kg[m][2]}
		norms[m] = kk.Norm()
	}

	// The operator is filled from the upper triangle. Imaginary residue in
	// the coefficients is tracked and rejected, not silently dropped.
	theta := mat.NewSymDense(n, nil)
	var maxImag, maxAbs float64
	for m := 0; m < n; m++ {
		for j := m; j < n; j++ {
			diff := s.eta.Coefficient(
				s.g[m][0]-s.g[j][0],
				s.g[m][1]-s.g[j][1],
				s.g[m][2]-s.g[j][2],
			)
			v := norms[m] * norms[j] * real(diff)
			theta.SetSym(m, j, v)

			if im := math.Abs(norms[m] * norms[j] * imag(diff)); im > maxImag {
				maxImag = im
			}
			if av := norms[m] * norms[j] * cmplx.Abs(diff); av > maxAbs {
				maxAbs = av
			}
		}
	}
	if maxImag > s.symTol*math.Max(1, maxAbs) {
		return nil, fmt.Errorf("%w: imaginary residue %g", ErrNotSymmetric, maxImag)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(theta, false); !ok {
		return nil, fmt.Errorf("solver: eigendecomposition failed at k=%v", k)
	}
	vals := eig.Values(nil)

	freqs := make([]float64, s.bands)
	for i := range freqs {
		freqs[i] = math.Sqrt(math.Max(vals[i], 0))
	}
	return freqs, nil
}

// Result is one full band-structure computation over a wavevector path.
type Result struct {
	// ID names the run; the run store keys on it.
	ID string `json:"id"`

	// Ks and Distances describe the sampled path.
	Ks        []lattice.Vec3 `json:"ks"`
	Distances []float64      `json:"distances"`

	// Frequencies holds one ascending band list per path sample.
	Frequencies [][]float64 `json:"frequencies"`

	// Ticks are the path vertices, for axis labeling.
	Ticks []Tick `json:"ticks"`
}

// NumBands returns how many bands every sample carries.
func (r *Result) NumBands() int {
	if len(r.Frequencies) == 0 {
		return 0
	}
	return len(r.Frequencies[0])
}

// Band extracts band b across all samples.
func (r *Result) Band(b int) []float64 {
	out := make([]float64, len(r.Frequencies))
	for i, f := range r.Frequencies {
		out[i] = f[b]
	}
	return out
}

// Solve walks the path and solves every sample. Cancelling the context
// abandons the run between wavevectors.
func (s *Solver) Solve(ctx context.Context, path *Path) (*Result, error) {
	if path == nil || len(path.Samples) == 0 {
		return nil, errors.New("solver: empty path")
	}

	res := &Result{
		ID:          uuid.NewString(),
		Ks:          make([]lattice.Vec3, len(path.Samples)),
		Distances:   make([]float64, len(path.Samples)),
		Frequencies: make([][]float64, len(path.Samples)),
		Ticks:       append([]Tick(nil), path.Ticks...),
	}

	for i, sample := range path.Samples {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		freqs, err := s.SolveK(sample.K)
		if err != nil {
			return nil, fmt.Errorf("sample %d (k=%v): %w", i, sample.K, err)
		}
		res.Ks[i] = sample.K
		res.Distances[i] = sample.Distance
		res.Frequencies[i] = freqs
	}
	return res, nil
}
