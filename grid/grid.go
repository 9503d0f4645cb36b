package grid

import "fmt"

// Dims is the per-axis sample resolution of a unit-cell grid.
type Dims struct {
	Nx int `json:"nx"`
	Ny int `json:"ny"`
	Nz int `json:"nz"`
}

// NewDims builds a Dims from either a single resolution, applied to all
// three axes, or three explicit per-axis resolutions. Values are not
// range-checked here; Validate is called by the field constructors.
func NewDims(n ...int) (Dims, error) {
	switch len(n) {
	case 1:
		return Dims{Nx: n[0], Ny: n[0], Nz: n[0]}, nil
	case 3:
		return Dims{Nx: n[0], Ny: n[1], Nz: n[2]}, nil
	default:
		return Dims{}, fmt.Errorf("grid: need 1 or 3 resolution values, got %d", len(n))
	}
}

// Validate checks that every axis resolution is positive.
func (d Dims) Validate() error {
	if d.Nx < 1 || d.Ny < 1 || d.Nz < 1 {
		return fmt.Errorf("grid: resolution must be positive on every axis, got (%d,%d,%d)", d.Nx, d.Ny, d.Nz)
	}
	return nil
}

// Count returns the total number of grid nodes.
func (d Dims) Count() int { return d.Nx * d.Ny * d.Nz }

// Index maps node (i,j,k) to its offset in a flat field slice.
func (d Dims) Index(i, j, k int) int { return (i*d.Ny+j)*d.Nz + k }

// Scalar is a real-valued field sampled on a unit-cell grid.
type Scalar struct {
	Dims
	Data []float64
}

// NewScalar allocates a zeroed real field.
func NewScalar(d Dims) (*Scalar, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Scalar{Dims: d, Data: make([]float64, d.Count())}, nil
}

// Complex is a complex-valued field sampled on a unit-cell grid.
type Complex struct {
	Dims
	Data []complex128
}

// NewComplex allocates a zeroed complex field.
func NewComplex(d Dims) (*Complex, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Complex{Dims: d, Data: make([]complex128, d.Count())}, nil
}

// Fill sets every node to v.
func (f *Complex) Fill(v complex128) {
	for n := range f.Data {
		f.Data[n] = v
	}
}

// Real extracts the real part of the field as a Scalar.
func (f *Complex) Real() *Scalar {
	s := &Scalar{Dims: f.Dims, Data: make([]float64, len(f.Data))}
	for n, v := range f.Data {
		s.Data[n] = real(v)
	}
	return s
}

// Mask is a boolean membership field sampled on a unit-cell grid.
type Mask struct {
	Dims
	Data []bool
}

// NewMask allocates a cleared mask.
func NewMask(d Dims) (*Mask, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Mask{Dims: d, Data: make([]bool, d.Count())}, nil
}

// CountTrue returns the number of set nodes.
func (m *Mask) CountTrue() int {
	c := 0
	for _, b := range m.Data {
		if b {
			c++
		}
	}
	return c
}

// Float converts the mask to a 0/1-valued Scalar.
func (m *Mask) Float() *Scalar {
	s := &Scalar{Dims: m.Dims, Data: make([]float64, len(m.Data))}
	for n, b := range m.Data {
		if b {
			s.Data[n] = 1
		}
	}
	return s
}

// Vector is a three-component coordinate field: C[a][n] holds component a of
// node n. All three component slices share the Dims layout.
type Vector struct {
	Dims
	C [3][]float64
}

// NewVector allocates a zeroed coordinate field.
func NewVector(d Dims) (*Vector, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	var v Vector
	v.Dims = d
	for a := range v.C {
		v.C[a] = make([]float64, d.Count())
	}
	return &v, nil
}

// At returns the coordinate triple at node (i,j,k).
func (g *Vector) At(i, j, k int) [3]float64 {
	n := g.Index(i, j, k)
	return [3]float64{g.C[0][n], g.C[1][n], g.C[2][n]}
}
