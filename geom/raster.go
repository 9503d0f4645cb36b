package geom

import (
	"errors"
	"fmt"

	"github.com/photonworks/bravais/grid"
	"github.com/photonworks/bravais/lattice"
)

// Rasterizer samples shapes at every node of a coordinate grid. It is
// stateless; the zero value is ready to use and safe to share.
type Rasterizer struct{}

var _ lattice.Rasterizer = Rasterizer{}

// Mask rasterizes an arbitrary shape.
func (Rasterizer) Mask(g *grid.Vector, s lattice.Shape) (*grid.Mask, error) {
	if s == nil {
		return nil, errors.New("geom: nil shape")
	}
	return rasterize(g, s.Contains)
}

// Polygon rasterizes the closed vertex loop.
func (r Rasterizer) Polygon(g *grid.Vector, vertices [][2]float64) (*grid.Mask, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("geom: polygon needs at least 3 vertices, got %d", len(vertices))
	}
	return r.Mask(g, Polygon{Vertices: vertices})
}

// Circle rasterizes a disc.
func (r Rasterizer) Circle(g *grid.Vector, center [2]float64, radius float64) (*grid.Mask, error) {
	return r.Mask(g, Circle{Center: center, Radius: radius})
}

// Ellipse rasterizes a rotated ellipse.
func (r Rasterizer) Ellipse(g *grid.Vector, center, radii [2]float64, rotate float64) (*grid.Mask, error) {
	return r.Mask(g, Ellipse{Center: center, Radii: radii, Rotate: rotate})
}

// Square rasterizes a rotated square.
func (r Rasterizer) Square(g *grid.Vector, center [2]float64, width, rotate float64) (*grid.Mask, error) {
	return r.Mask(g, Square{Center: center, Width: width, Rotate: rotate})
}

// Rectangle rasterizes a rotated rectangle.
func (r Rasterizer) Rectangle(g *grid.Vector, center, widths [2]float64, rotate float64) (*grid.Mask, error) {
	return r.Mask(g, Rectangle{Center: center, Widths: widths, Rotate: rotate})
}

func rasterize(g *grid.Vector, contains func(x, y float64) bool) (*grid.Mask, error) {
	if g == nil {
		return nil, errors.New("geom: nil grid")
	}
	m, err := grid.NewMask(g.Dims)
	if err != nil {
		return nil, err
	}
	for n := range m.Data {
		m.Data[n] = contains(g.C[0][n], g.C[1][n])
	}
	return m, nil
}
