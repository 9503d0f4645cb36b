// Package fourier computes discrete Fourier spectra of fields sampled on
// unit-cell grids. The solver reads permittivity coefficients out of a
// Spectrum by reciprocal-lattice index; indices wrap modulo the grid
// resolution, matching the periodicity of the discrete transform.
package fourier

import (
	"errors"
	"fmt"

	"github.com/mjibson/go-dsp/fft"

	"github.com/photonworks/bravais/grid"
)

// Spectrum holds the normalized 3-D Fourier coefficients of a periodic
// field. Construct with Transform.
type Spectrum struct {
	dims grid.Dims
	coef []complex128
}

// Transform computes the forward discrete Fourier transform of f, one axis
// at a time, and normalizes by the node count so a constant field transforms
// to a single DC coefficient of the same value. The input is left untouched.
func Transform(f *grid.Complex) (*Spectrum, error) {
	if f == nil {
		return nil, errors.New("fourier: nil field")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if len(f.Data) != f.Count() {
		return nil, fmt.Errorf("fourier: field length %d does not match %d×%d×%d grid",
			len(f.Data), f.Nx, f.Ny, f.Nz)
	}

	d := f.Dims
	work := append([]complex128(nil), f.Data...)

	// Third-axis slices are contiguous in the flat layout.
	for i := 0; i < d.Nx; i++ {
		for j := 0; j < d.Ny; j++ {
			off := d.Index(i, j, 0)
			copy(work[off:off+d.Nz], fft.FFT(work[off:off+d.Nz]))
		}
	}

	// The other two axes are strided: gather each slice into a scratch
	// buffer, transform, scatter back.
	buf := make([]complex128, d.Ny)
	for i := 0; i < d.Nx; i++ {
		for k := 0; k < d.Nz; k++ {
			for j := 0; j < d.Ny; j++ {
				buf[j] = work[d.Index(i, j, k)]
			}
			res := fft.FFT(buf)
			for j := 0; j < d.Ny; j++ {
				work[d.Index(i, j, k)] = res[j]
			}
		}
	}

	buf = make([]complex128, d.Nx)
	for j := 0; j < d.Ny; j++ {
		for k := 0; k < d.Nz; k++ {
			for i := 0; i < d.Nx; i++ {
				buf[i] = work[d.Index(i, j, k)]
			}
			res := fft.FFT(buf)
			for i := 0; i < d.Nx; i++ {
				work[d.Index(i, j, k)] = res[i]
			}
		}
	}

	scale := complex(1/float64(d.Count()), 0)
	for n := range work {
		work[n] *= scale
	}

	return &Spectrum{dims: d, coef: work}, nil
}

// Dims returns the grid resolution the spectrum was computed on.
func (s *Spectrum) Dims() grid.Dims { return s.dims }

// Coefficient returns the Fourier coefficient of the harmonic index triple
// (h1, h2, h3). Negative and out-of-range indices wrap.
func (s *Spectrum) Coefficient(h1, h2, h3 int) complex128 {
	i := wrap(h1, s.dims.Nx)
	j := wrap(h2, s.dims.Ny)
	k := wrap(h3, s.dims.Nz)
	return s.coef[s.dims.Index(i, j, k)]
}

func wrap(h, n int) int {
	m := h % n
	if m < 0 {
		m += n
	}
	return m
}
