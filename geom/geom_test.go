package geom

import (
	"math"
	"testing"
)

func TestCircleContains(t *testing.T) {
	c := Circle{Center: [2]float64{0.5, 0.5}, Radius: 0.25}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 0.5, 0.5, true},
		{"inside", 0.6, 0.6, true},
		{"on boundary", 0.75, 0.5, true},
		{"just outside", 0.76, 0.5, false},
		{"far outside", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestEllipseContains(t *testing.T) {
	rot := math.Pi / 6
	e := Ellipse{Center: [2]float64{0.5, 0.5}, Radii: [2]float64{0.4, 0.2}, Rotate: rot}

	// A point 0.35 out along the rotated major axis is inside; the same
	// distance along the lab x axis is not, and neither is 0.25 along the
	// rotated minor axis.
	sin, cos := math.Sincos(rot)
	onMajor := [2]float64{0.5 + 0.35*cos, 0.5 + 0.35*sin}
	onMinor := [2]float64{0.5 - 0.25*sin, 0.5 + 0.25*cos}

	if !e.Contains(onMajor[0], onMajor[1]) {
		t.Error("point along rotated major axis not contained")
	}
	if e.Contains(0.85, 0.5) {
		t.Error("point along lab x axis contained; rotation ignored")
	}
	if e.Contains(onMinor[0], onMinor[1]) {
		t.Error("point beyond minor semi-axis contained")
	}
}

func TestEllipseZeroAxisContainsNothing(t *testing.T) {
	e := Ellipse{Center: [2]float64{0, 0}, Radii: [2]float64{0.4, 0}}
	if e.Contains(0, 0) {
		t.Error("degenerate ellipse contained its own center")
	}
}

func TestRectangleContains(t *testing.T) {
	r := Rectangle{Center: [2]float64{0.5, 0.5}, Widths: [2]float64{0.5, 0.2}}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 0.5, 0.5, true},
		{"on long edge", 0.75, 0.5, true},
		{"on short edge", 0.5, 0.6, true},
		{"corner", 0.75, 0.6, true},
		{"past long edge", 0.76, 0.5, false},
		{"past short edge", 0.5, 0.61, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSquareRotation(t *testing.T) {
	// Rotating a square by 45° pulls the edge midpoints inside the
	// footprint of the unrotated square and pushes the corners out.
	plain := Square{Center: [2]float64{0.5, 0.5}, Width: 0.5}
	tilted := Square{Center: [2]float64{0.5, 0.5}, Width: 0.5, Rotate: math.Pi / 4}

	if !plain.Contains(0.74, 0.74) {
		t.Error("corner region not contained by the unrotated square")
	}
	if tilted.Contains(0.74, 0.74) {
		t.Error("corner region still contained after rotation")
	}
	diag := 0.25 * math.Sqrt2
	if !tilted.Contains(0.5, 0.5+diag-0.01) {
		t.Error("rotated corner along +y not contained")
	}
	if plain.Contains(0.5, 0.5+diag-0.01) {
		t.Error("point beyond the unrotated edge contained")
	}
}

func TestPolygonContains(t *testing.T) {
	// Chevron: a square with a triangular notch cut into the top edge.
	chevron := Polygon{Vertices: [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0.5, 0.4}, {0, 1}}}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"lower body", 0.5, 0.2, true},
		{"inside notch", 0.5, 0.7, false},
		{"left prong", 0.1, 0.5, true},
		{"right prong", 0.9, 0.5, true},
		{"below notch apex", 0.5, 0.39, true},
		{"above notch apex", 0.5, 0.41, false},
		{"left of polygon", -0.1, 0.5, false},
		{"above polygon", 0.5, 1.1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chevron.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPolygonDegenerate(t *testing.T) {
	for _, p := range []Polygon{
		{},
		{Vertices: [][2]float64{{0, 0}}},
		{Vertices: [][2]float64{{0, 0}, {1, 1}}},
	} {
		if p.Contains(0.5, 0.5) {
			t.Errorf("polygon with %d vertices contained a point", len(p.Vertices))
		}
	}
}
