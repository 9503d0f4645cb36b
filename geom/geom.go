// Package geom provides analytic 2-D shapes and the standard rasterizer
// that samples them onto lattice grids. Shapes answer point-membership
// queries in the physical frame; the third grid axis is ignored, so a mask
// extrudes its shape along that axis.
package geom

import "math"

// Circle is a disc, boundary included.
type Circle struct {
	Center [2]float64
	Radius float64
}

// Contains reports whether (x, y) lies on or inside the circle.
func (c Circle) Contains(x, y float64) bool {
	dx, dy := x-c.Center[0], y-c.Center[1]
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Ellipse is a filled ellipse with semi-axes Radii, rotated by Rotate
// radians about its center.
type Ellipse struct {
	Center [2]float64
	Radii  [2]float64
	Rotate float64
}

// Contains reports whether (x, y) lies on or inside the ellipse. An ellipse
// with a zero semi-axis contains nothing.
func (e Ellipse) Contains(x, y float64) bool {
	if e.Radii[0] == 0 || e.Radii[1] == 0 {
		return false
	}
	u, v := toFrame(x, y, e.Center, e.Rotate)
	nu, nv := u/e.Radii[0], v/e.Radii[1]
	return nu*nu+nv*nv <= 1
}

// Rectangle is a filled rectangle with edge lengths Widths, rotated by
// Rotate radians about its center.
type Rectangle struct {
	Center [2]float64
	Widths [2]float64
	Rotate float64
}

// Contains reports whether (x, y) lies on or inside the rectangle.
func (r Rectangle) Contains(x, y float64) bool {
	u, v := toFrame(x, y, r.Center, r.Rotate)
	return math.Abs(u) <= r.Widths[0]/2 && math.Abs(v) <= r.Widths[1]/2
}

// Square is a filled square with edge length Width, rotated by Rotate
// radians about its center.
type Square struct {
	Center [2]float64
	Width  float64
	Rotate float64
}

// Contains reports whether (x, y) lies on or inside the square.
func (s Square) Contains(x, y float64) bool {
	r := Rectangle{Center: s.Center, Widths: [2]float64{s.Width, s.Width}, Rotate: s.Rotate}
	return r.Contains(x, y)
}

// Polygon is a closed polygon given as a vertex loop. The closing edge from
// the last vertex back to the first is implied. Membership follows the
// even-odd rule, so self-intersecting loops carve holes; points exactly on
// an edge may land on either side.
type Polygon struct {
	Vertices [][2]float64
}

// Contains reports whether (x, y) lies inside the polygon. A polygon with
// fewer than three vertices contains nothing.
func (p Polygon) Contains(x, y float64) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := p.Vertices[i][0], p.Vertices[i][1]
		xj, yj := p.Vertices[j][0], p.Vertices[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// toFrame translates (x, y) into a shape's own frame: origin at center,
// axes rotated by rotate radians.
func toFrame(x, y float64, center [2]float64, rotate float64) (float64, float64) {
	dx, dy := x-center[0], y-center[1]
	if rotate == 0 {
		return dx, dy
	}
	sin, cos := math.Sincos(rotate)
	return cos*dx + sin*dy, -sin*dx + cos*dy
}
