package solver

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/photonworks/bravais/lattice"
)

// KPoint is a named vertex of a wavevector path, Γ or X or M in the usual
// Brillouin-zone notation.
type KPoint struct {
	Name string       `json:"name"`
	K    lattice.Vec3 `json:"k"`
}

// Sample is one interpolated wavevector along a path, tagged with its
// cumulative arc distance from the path start.
type Sample struct {
	K        lattice.Vec3
	Distance float64
}

// Tick marks a path vertex by cumulative arc distance, for axis labeling.
type Tick struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// Path is a piecewise-linear walk through reciprocal space.
type Path struct {
	Samples []Sample
	Ticks   []Tick
}

// NewPath interpolates perSegment steps into every leg between consecutive
// vertices. Vertices are shared between legs, so the total sample count is
// 1 + perSegment×(len(vertices)−1).
func NewPath(vertices []KPoint, perSegment int) (*Path, error) {
	if len(vertices) < 2 {
		return nil, fmt.Errorf("solver: path needs at least 2 vertices, got %d", len(vertices))
	}
	if perSegment < 1 {
		return nil, fmt.Errorf("solver: steps per segment must be positive, got %d", perSegment)
	}

	steps := floats.Span(make([]float64, perSegment+1), 0, 1)

	p := &Path{
		Samples: make([]Sample, 0, 1+perSegment*(len(vertices)-1)),
		Ticks:   make([]Tick, 0, len(vertices)),
	}
	p.Samples = append(p.Samples, Sample{K: vertices[0].K})
	p.Ticks = append(p.Ticks, Tick{Name: vertices[0].Name})

	dist := 0.0
	for seg := 1; seg < len(vertices); seg++ {
		a, b := vertices[seg-1].K, vertices[seg].K
		var delta lattice.Vec3
		for r := 0; r < 3; r++ {
			delta[r] = b[r] - a[r]
		}
		legLen := delta.Norm()

		for _, t := range steps[1:] {
			var k lattice.Vec3
			for r := 0; r < 3; r++ {
				k[r] = a[r] + t*delta[r]
			}
			p.Samples = append(p.Samples, Sample{K: k, Distance: dist + t*legLen})
		}
		dist += legLen
		p.Ticks = append(p.Ticks, Tick{Name: vertices[seg].Name, Distance: dist})
	}
	return p, nil
}
