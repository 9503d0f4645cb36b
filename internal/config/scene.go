package config

import (
	"fmt"

	"github.com/photonworks/bravais/geom"
	"github.com/photonworks/bravais/grid"
	"github.com/photonworks/bravais/lattice"
)

// BuildLattice constructs the lattice this config describes, with the
// standard rasterizer attached so shape masks work.
func (c *SceneConfig) BuildLattice() (*lattice.Lattice, error) {
	opts := lattice.Options{
		Discretization: c.GetDiscretization(),
		Truncation:     c.GetTruncation(),
		Rasterizer:     geom.Rasterizer{},
	}
	for _, h := range c.Harmonics {
		opts.Harmonics = append(opts.Harmonics, lattice.GVector(h))
	}
	return lattice.New(c.GetBasis(), opts)
}

// BuildEpsilon paints the dielectric scene onto the lattice grid: the
// background permittivity first, then each shape in order. Later shapes
// overwrite earlier ones where they overlap.
func (c *SceneConfig) BuildEpsilon(lat *lattice.Lattice) (*grid.Complex, error) {
	eps, err := lat.Constant(complex(c.GetBackgroundEpsilon(), 0))
	if err != nil {
		return nil, err
	}

	for i, s := range c.Shapes {
		mask, err := s.mask(lat)
		if err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", i, s.Type, err)
		}
		v := complex(s.Epsilon, 0)
		for n, in := range mask.Data {
			if in {
				eps.Data[n] = v
			}
		}
	}
	return eps, nil
}

func (s ShapeConfig) mask(lat *lattice.Lattice) (*grid.Mask, error) {
	switch s.Type {
	case "circle":
		return lat.Circle(s.Center, s.Radius)
	case "ellipse":
		return lat.Ellipse(s.Center, s.Radii, s.Rotate)
	case "square":
		return lat.Square(s.Center, s.Width, s.Rotate)
	case "rectangle":
		return lat.Rectangle(s.Center, s.Widths, s.Rotate)
	case "polygon":
		return lat.Polygon(s.Vertices)
	case "stripe":
		return lat.Stripe(s.Center[0], s.Width)
	default:
		return nil, fmt.Errorf("unknown shape type %q", s.Type)
	}
}
