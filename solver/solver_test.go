package solver

import (
	"context"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photonworks/bravais/grid"
	"github.com/photonworks/bravais/lattice"
)

func uniformSolver(t *testing.T, eps complex128, nh int, opts Options) *Solver {
	t.Helper()
	lat, err := lattice.New(
		lattice.Basis{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		lattice.Options{Discretization: []int{8}},
	)
	require.NoError(t, err)

	field, err := lat.Constant(eps)
	require.NoError(t, err)

	s, err := New(lat, field, nh, opts)
	require.NoError(t, err)
	return s
}

func TestFreePhotonBands(t *testing.T) {
	t.Parallel()

	// In a uniform dielectric the exact dispersion is ω = |k+G|/√ε; the
	// truncated operator reproduces it to rounding error.
	s := uniformSolver(t, 4, 27, Options{})
	require.Equal(t, 27, s.NumHarmonics())

	k := lattice.Vec3{0.3, 0.2, 0.1}
	freqs, err := s.SolveK(k)
	require.NoError(t, err)
	require.Len(t, freqs, 27)

	rec := 2 * math.Pi
	want := make([]float64, 0, 27)
	for _, g := range s.Harmonics() {
		kk := lattice.Vec3{
			k[0] + rec*float64(g[0]),
			k[1] + rec*float64(g[1]),
			k[2] + rec*float64(g[2]),
		}
		want = append(want, kk.Norm()/2)
	}
	sort.Float64s(want)

	for i := range want {
		assert.InDelta(t, want[i], freqs[i], 1e-8, "band %d", i)
	}
}

func TestGammaPointLowestBandIsZero(t *testing.T) {
	t.Parallel()

	s := uniformSolver(t, 1, 27, Options{})
	freqs, err := s.SolveK(lattice.Vec3{})
	require.NoError(t, err)
	assert.InDelta(t, 0, freqs[0], 1e-10)
	assert.Greater(t, freqs[1], 1.0, "first folded band at Γ sits near 2π")
}

func TestDenserDielectricScalesBandsDown(t *testing.T) {
	t.Parallel()

	k := lattice.Vec3{0.4, 0.1, 0}
	vacuum := uniformSolver(t, 1, 27, Options{})
	dense := uniformSolver(t, 4, 27, Options{})

	fv, err := vacuum.SolveK(k)
	require.NoError(t, err)
	fd, err := dense.SolveK(k)
	require.NoError(t, err)

	for i := range fv {
		assert.InDelta(t, fv[i]/2, fd[i], 1e-8, "band %d", i)
	}
}

func TestBandsCap(t *testing.T) {
	t.Parallel()

	capped := uniformSolver(t, 1, 27, Options{Bands: 5})
	freqs, err := capped.SolveK(lattice.Vec3{0.1, 0, 0})
	require.NoError(t, err)
	assert.Len(t, freqs, 5)

	over := uniformSolver(t, 1, 27, Options{Bands: 99})
	freqs, err = over.SolveK(lattice.Vec3{0.1, 0, 0})
	require.NoError(t, err)
	assert.Len(t, freqs, 27, "cap beyond the basis size keeps every band")
}

func TestZeroPermittivityRejected(t *testing.T) {
	t.Parallel()

	lat, err := lattice.New(
		lattice.Basis{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		lattice.Options{Discretization: []int{4}},
	)
	require.NoError(t, err)

	eps, err := lat.Ones()
	require.NoError(t, err)
	eps.Data[7] = 0

	_, err = New(lat, eps, 27, Options{})
	require.ErrorIs(t, err, ErrZeroPermittivity)
}

func TestComplexPermittivityRejected(t *testing.T) {
	t.Parallel()

	s := uniformSolver(t, complex(1, 1), 27, Options{})
	_, err := s.SolveK(lattice.Vec3{0.1, 0, 0})
	require.ErrorIs(t, err, ErrNotSymmetric)
}

func TestSolverNilArguments(t *testing.T) {
	t.Parallel()

	lat, err := lattice.New(
		lattice.Basis{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		lattice.Options{Discretization: []int{4}},
	)
	require.NoError(t, err)

	_, err = New(nil, nil, 27, Options{})
	assert.Error(t, err)

	_, err = New(lat, nil, 27, Options{})
	assert.Error(t, err)
}

func TestSolverPropagatesHarmonicsErrors(t *testing.T) {
	t.Parallel()

	lat, err := lattice.New(
		lattice.Basis{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		lattice.Options{Discretization: []int{4}, Truncation: lattice.TruncationSpherical},
	)
	require.NoError(t, err)

	eps, err := lat.Ones()
	require.NoError(t, err)

	_, err = New(lat, eps, 27, Options{})
	require.ErrorIs(t, err, lattice.ErrSphericalTruncation)
}

func TestSolveWalksThePath(t *testing.T) {
	t.Parallel()

	s := uniformSolver(t, 2, 27, Options{Bands: 4})
	path, err := NewPath([]KPoint{
		{Name: "Γ", K: lattice.Vec3{0, 0, 0}},
		{Name: "X", K: lattice.Vec3{math.Pi, 0, 0}},
	}, 3)
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), path)
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Frequencies, 4)
	assert.Equal(t, 4, res.NumBands())
	require.Len(t, res.Distances, 4)
	assert.Equal(t, path.Samples[3].Distance, res.Distances[3])
	require.Len(t, res.Ticks, 2)
	assert.Equal(t, "X", res.Ticks[1].Name)

	band := res.Band(0)
	require.Len(t, band, 4)
	for i, f := range band {
		assert.Equal(t, res.Frequencies[i][0], f)
	}
}

func TestSolveCancelled(t *testing.T) {
	t.Parallel()

	s := uniformSolver(t, 1, 27, Options{})
	path, err := NewPath([]KPoint{
		{Name: "Γ", K: lattice.Vec3{0, 0, 0}},
		{Name: "X", K: lattice.Vec3{math.Pi, 0, 0}},
	}, 10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Solve(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSolveEmptyPath(t *testing.T) {
	t.Parallel()

	s := uniformSolver(t, 1, 27, Options{})
	_, err := s.Solve(context.Background(), nil)
	assert.Error(t, err)
	_, err = s.Solve(context.Background(), &Path{})
	assert.Error(t, err)
}
