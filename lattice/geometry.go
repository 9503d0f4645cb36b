package lattice

import "github.com/photonworks/bravais/grid"

// Shape is a 2-D region in the lattice's physical frame. Masks extrude
// shapes along the third axis.
type Shape interface {
	// Contains reports whether the point (x, y) lies inside the shape,
	// boundary included.
	Contains(x, y float64) bool
}

// Rasterizer turns shapes into boolean membership masks over a physical
// coordinate grid. The lattice only ever calls through this interface;
// package geom carries the standard implementation.
type Rasterizer interface {
	Mask(g *grid.Vector, s Shape) (*grid.Mask, error)
	Polygon(g *grid.Vector, vertices [][2]float64) (*grid.Mask, error)
	Circle(g *grid.Vector, center [2]float64, radius float64) (*grid.Mask, error)
	Ellipse(g *grid.Vector, center, radii [2]float64, rotate float64) (*grid.Mask, error)
	Square(g *grid.Vector, center [2]float64, width, rotate float64) (*grid.Mask, error)
	Rectangle(g *grid.Vector, center, widths [2]float64, rotate float64) (*grid.Mask, error)
}

// GeometryMask rasterizes an arbitrary shape onto the physical grid.
func (l *Lattice) GeometryMask(s Shape) (*grid.Mask, error) {
	r, g, err := l.shapeContext()
	if err != nil {
		return nil, err
	}
	return r.Mask(g, s)
}

// Polygon masks the region enclosed by the given vertex loop.
func (l *Lattice) Polygon(vertices [][2]float64) (*grid.Mask, error) {
	r, g, err := l.shapeContext()
	if err != nil {
		return nil, err
	}
	return r.Polygon(g, vertices)
}

// Circle masks a disc of the given radius.
func (l *Lattice) Circle(center [2]float64, radius float64) (*grid.Mask, error) {
	r, g, err := l.shapeContext()
	if err != nil {
		return nil, err
	}
	return r.Circle(g, center, radius)
}

// Ellipse masks an ellipse with the given semi-axes, rotated by rotate
// radians about its center.
func (l *Lattice) Ellipse(center, radii [2]float64, rotate float64) (*grid.Mask, error) {
	r, g, err := l.shapeContext()
	if err != nil {
		return nil, err
	}
	return r.Ellipse(g, center, radii, rotate)
}

// Square masks a square of the given edge width, rotated by rotate radians
// about its center.
func (l *Lattice) Square(center [2]float64, width, rotate float64) (*grid.Mask, error) {
	r, g, err := l.shapeContext()
	if err != nil {
		return nil, err
	}
	return r.Square(g, center, width, rotate)
}

// Rectangle masks a rectangle with the given pair of edge widths, rotated
// by rotate radians about its center.
func (l *Lattice) Rectangle(center, widths [2]float64, rotate float64) (*grid.Mask, error) {
	r, g, err := l.shapeContext()
	if err != nil {
		return nil, err
	}
	return r.Rectangle(g, center, widths, rotate)
}

// shapeContext resolves the rasterizer and the physical grid the shape
// methods hand to it.
func (l *Lattice) shapeContext() (Rasterizer, *grid.Vector, error) {
	if l.rasterizer == nil {
		return nil, nil, ErrNoRasterizer
	}
	g, err := l.Grid()
	if err != nil {
		return nil, nil, err
	}
	return l.rasterizer, g, nil
}
