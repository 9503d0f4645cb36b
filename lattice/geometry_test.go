package lattice

import (
	"errors"
	"math"
	"testing"

	"github.com/photonworks/bravais/grid"
)

// stubRasterizer records the last delegated call so the tests can verify
// routing and argument passing without pulling in package geom.
type stubRasterizer struct {
	call   string
	grid   *grid.Vector
	args   []float64
	result *grid.Mask
	err    error
}

func (s *stubRasterizer) record(call string, g *grid.Vector, args ...float64) (*grid.Mask, error) {
	s.call = call
	s.grid = g
	s.args = args
	return s.result, s.err
}

func (s *stubRasterizer) Mask(g *grid.Vector, sh Shape) (*grid.Mask, error) {
	return s.record("mask", g)
}

func (s *stubRasterizer) Polygon(g *grid.Vector, vertices [][2]float64) (*grid.Mask, error) {
	return s.record("polygon", g, float64(len(vertices)))
}

func (s *stubRasterizer) Circle(g *grid.Vector, center [2]float64, radius float64) (*grid.Mask, error) {
	return s.record("circle", g, center[0], center[1], radius)
}

func (s *stubRasterizer) Ellipse(g *grid.Vector, center, radii [2]float64, rotate float64) (*grid.Mask, error) {
	return s.record("ellipse", g, center[0], center[1], radii[0], radii[1], rotate)
}

func (s *stubRasterizer) Square(g *grid.Vector, center [2]float64, width, rotate float64) (*grid.Mask, error) {
	return s.record("square", g, center[0], center[1], width, rotate)
}

func (s *stubRasterizer) Rectangle(g *grid.Vector, center, widths [2]float64, rotate float64) (*grid.Mask, error) {
	return s.record("rectangle", g, center[0], center[1], widths[0], widths[1], rotate)
}

type halfPlane struct{}

func (halfPlane) Contains(x, _ float64) bool { return x >= 0 }

func TestShapeMethodsRequireRasterizer(t *testing.T) {
	lat := mustLattice(t, identityBasis(), Options{Discretization: []int{2}})

	calls := []struct {
		name string
		call func() (*grid.Mask, error)
	}{
		{"GeometryMask", func() (*grid.Mask, error) { return lat.GeometryMask(halfPlane{}) }},
		{"Polygon", func() (*grid.Mask, error) { return lat.Polygon([][2]float64{{0, 0}, {1, 0}, {0, 1}}) }},
		{"Circle", func() (*grid.Mask, error) { return lat.Circle([2]float64{0, 0}, 1) }},
		{"Ellipse", func() (*grid.Mask, error) { return lat.Ellipse([2]float64{0, 0}, [2]float64{1, 2}, 0) }},
		{"Square", func() (*grid.Mask, error) { return lat.Square([2]float64{0, 0}, 1, 0) }},
		{"Rectangle", func() (*grid.Mask, error) { return lat.Rectangle([2]float64{0, 0}, [2]float64{1, 2}, 0) }},
	}

	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.call(); !errors.Is(err, ErrNoRasterizer) {
				t.Errorf("%s error = %v, want ErrNoRasterizer", tt.name, err)
			}
		})
	}
}

func TestShapeMethodsDelegate(t *testing.T) {
	want, err := grid.NewMask(grid.Dims{Nx: 2, Ny: 2, Nz: 2})
	if err != nil {
		t.Fatalf("NewMask: %v", err)
	}
	stub := &stubRasterizer{result: want}
	lat := mustLattice(t, identityBasis(), Options{
		Discretization: []int{2},
		Rasterizer:     stub,
	})

	tests := []struct {
		name     string
		call     func() (*grid.Mask, error)
		wantArgs []float64
	}{
		{"mask", func() (*grid.Mask, error) { return lat.GeometryMask(halfPlane{}) }, nil},
		{"polygon", func() (*grid.Mask, error) { return lat.Polygon([][2]float64{{0, 0}, {1, 0}, {0, 1}}) }, []float64{3}},
		{"circle", func() (*grid.Mask, error) { return lat.Circle([2]float64{0.5, 0.25}, 0.2) }, []float64{0.5, 0.25, 0.2}},
		{"ellipse", func() (*grid.Mask, error) { return lat.Ellipse([2]float64{0.5, 0.5}, [2]float64{0.3, 0.1}, 0.7) }, []float64{0.5, 0.5, 0.3, 0.1, 0.7}},
		{"square", func() (*grid.Mask, error) { return lat.Square([2]float64{0.5, 0.5}, 0.4, 0.1) }, []float64{0.5, 0.5, 0.4, 0.1}},
		{"rectangle", func() (*grid.Mask, error) { return lat.Rectangle([2]float64{0.5, 0.5}, [2]float64{0.4, 0.2}, 0) }, []float64{0.5, 0.5, 0.4, 0.2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call()
			if err != nil {
				t.Fatalf("call error: %v", err)
			}
			if got != want {
				t.Error("mask was not returned unchanged from the rasterizer")
			}
			if stub.call != tt.name {
				t.Errorf("delegated to %q, want %q", stub.call, tt.name)
			}
			if len(stub.args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", stub.args, tt.wantArgs)
			}
			for i := range tt.wantArgs {
				if stub.args[i] != tt.wantArgs[i] {
					t.Errorf("arg[%d] = %v, want %v", i, stub.args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestShapeMethodsReceivePhysicalGrid(t *testing.T) {
	// With a doubled basis the grid handed to the rasterizer spans [0,2]
	// on the first axis, not [0,1].
	stub := &stubRasterizer{}
	lat := mustLattice(t, Basis{{2, 0, 0}, {0, 1, 0}, {0, 0, 1}}, Options{
		Discretization: []int{3, 1, 1},
		Rasterizer:     stub,
	})

	if _, err := lat.Circle([2]float64{0, 0}, 1); err != nil {
		t.Fatalf("Circle: %v", err)
	}
	if stub.grid == nil {
		t.Fatal("rasterizer received no grid")
	}
	wantX := []float64{0, 1, 2}
	for i, w := range wantX {
		if math.Abs(stub.grid.C[0][i]-w) > 1e-15 {
			t.Errorf("grid x[%d] = %v, want %v", i, stub.grid.C[0][i], w)
		}
	}
}

func TestShapeMethodsPropagateRasterizerError(t *testing.T) {
	stubErr := errors.New("raster failed")
	stub := &stubRasterizer{err: stubErr}
	lat := mustLattice(t, identityBasis(), Options{
		Discretization: []int{2},
		Rasterizer:     stub,
	})

	if _, err := lat.Square([2]float64{0, 0}, 1, 0); !errors.Is(err, stubErr) {
		t.Errorf("error = %v, want the rasterizer's own error", err)
	}
}
