package lattice

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/photonworks/bravais/grid"
)

// UnitGrid samples the unit cell in fractional coordinates: each axis is a
// uniform [0,1] span with both endpoints included, stacked into a three-
// component coordinate field. Axis a of the grid follows axis a of the
// discretization, with no transposition.
func (l *Lattice) UnitGrid() (*grid.Vector, error) {
	g, err := grid.NewVector(l.dims)
	if err != nil {
		return nil, err
	}
	ax := [3][]float64{
		span01(l.dims.Nx),
		span01(l.dims.Ny),
		span01(l.dims.Nz),
	}
	for i := 0; i < l.dims.Nx; i++ {
		for j := 0; j < l.dims.Ny; j++ {
			for k := 0; k < l.dims.Nz; k++ {
				n := l.dims.Index(i, j, k)
				g.C[0][n] = ax[0][i]
				g.C[1][n] = ax[1][j]
				g.C[2][n] = ax[2][k]
			}
		}
	}
	return g, nil
}

// span01 samples [0,1] with n points, endpoints included.
func span01(n int) []float64 {
	if n == 1 {
		return []float64{0}
	}
	return floats.Span(make([]float64, n), 0, 1)
}

// Grid returns the unit grid mapped into the lattice's physical frame.
func (l *Lattice) Grid() (*grid.Vector, error) {
	ug, err := l.UnitGrid()
	if err != nil {
		return nil, err
	}
	return l.Transform(ug)
}

// Transform contracts the cell matrix against the coordinate axes of g: at
// every node the coordinate triple is replaced by matrix·triple. The input
// is left untouched.
func (l *Lattice) Transform(g *grid.Vector) (*grid.Vector, error) {
	if g == nil {
		return nil, errors.New("lattice: transform of nil grid")
	}
	out, err := grid.NewVector(g.Dims)
	if err != nil {
		return nil, err
	}
	b := l.basis
	for n := 0; n < g.Count(); n++ {
		x, y, z := g.C[0][n], g.C[1][n], g.C[2][n]
		out.C[0][n] = b[0][0]*x + b[1][0]*y + b[2][0]*z
		out.C[1][n] = b[0][1]*x + b[1][1]*y + b[2][1]*z
		out.C[2][n] = b[0][2]*x + b[1][2]*y + b[2][2]*z
	}
	return out, nil
}

// Constant returns a complex field shaped by the discretization with every
// node set to v.
func (l *Lattice) Constant(v complex128) (*grid.Complex, error) {
	f, err := grid.NewComplex(l.dims)
	if err != nil {
		return nil, err
	}
	f.Fill(v)
	return f, nil
}

// Ones returns a complex field of ones.
func (l *Lattice) Ones() (*grid.Complex, error) { return l.Constant(1) }

// Zeros returns a complex field of zeros.
func (l *Lattice) Zeros() (*grid.Complex, error) { return l.Constant(0) }

// Stripe masks the slab of the cell whose first physical coordinate lies
// within width/2 of center, boundary included on both sides.
func (l *Lattice) Stripe(center, width float64) (*grid.Mask, error) {
	g, err := l.Grid()
	if err != nil {
		return nil, err
	}
	m, err := grid.NewMask(l.dims)
	if err != nil {
		return nil, err
	}
	half := width / 2
	for n := range m.Data {
		m.Data[n] = math.Abs(g.C[0][n]-center) <= half
	}
	return m, nil
}
