// Package viz renders band structures and permittivity slices to image
// files.
package viz

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/photonworks/bravais/grid"
	"github.com/photonworks/bravais/solver"
)

// legendCap bounds how many bands get a legend entry; past that the legend
// stops being readable.
const legendCap = 8

// BandDiagram renders every band of a result as one line over the path
// distance axis, with the path vertices marked as ticks. The output format
// follows the file extension.
func BandDiagram(res *solver.Result, file string) error {
	if res == nil || len(res.Distances) == 0 {
		return errors.New("viz: empty result")
	}
	nb := res.NumBands()
	if nb == 0 {
		return errors.New("viz: result has no bands")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Band structure (%d bands, %d k-points)", nb, len(res.Distances))
	p.X.Label.Text = "wavevector path"
	p.Y.Label.Text = "frequency ω (c = 1)"

	if len(res.Ticks) > 0 {
		ticks := make([]plot.Tick, len(res.Ticks))
		for i, tk := range res.Ticks {
			ticks[i] = plot.Tick{Value: tk.Distance, Label: tk.Name}
		}
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}

	colors := bandColors(nb)
	for b := 0; b < nb; b++ {
		pts := make(plotter.XYs, len(res.Distances))
		freqs := res.Band(b)
		for i, d := range res.Distances {
			pts[i] = plotter.XY{X: d, Y: freqs[i]}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("viz: band %d: %w", b, err)
		}
		line.Color = colors[b]
		line.Width = vg.Points(1)
		p.Add(line)
		if b < legendCap {
			p.Legend.Add(fmt.Sprintf("band %d", b), line)
		}
	}
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("viz: saving band diagram: %w", err)
	}
	return nil
}

// Heat renders one constant-k layer of a scalar field as a heat map, node
// indices on both axes.
func Heat(s *grid.Scalar, k int, title, file string) error {
	if s == nil {
		return errors.New("viz: nil field")
	}
	if k < 0 || k >= s.Nz {
		return fmt.Errorf("viz: layer %d outside [0,%d)", k, s.Nz)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "i"
	p.Y.Label.Text = "j"

	hm := plotter.NewHeatMap(sliceGrid{s: s, k: k}, palette.Heat(12, 1))
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, file); err != nil {
		return fmt.Errorf("viz: saving heat map: %w", err)
	}
	return nil
}

// sliceGrid adapts one z layer of a Scalar to the plotter grid interface.
type sliceGrid struct {
	s *grid.Scalar
	k int
}

func (g sliceGrid) Dims() (c, r int)   { return g.s.Nx, g.s.Ny }
func (g sliceGrid) Z(c, r int) float64 { return g.s.Data[g.s.Index(c, r, g.k)] }
func (g sliceGrid) X(c int) float64    { return float64(c) }
func (g sliceGrid) Y(r int) float64    { return float64(r) }

// bandColors spreads n distinct hues over the color wheel.
func bandColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		colors[i] = hslColor(hue, 0.7, 0.45)
	}
	return colors
}

func hslColor(h, s, l float64) color.RGBA {
	var rf, gf, bf float64
	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		q := l + s - l*s
		if l < 0.5 {
			q = l * (1 + s)
		}
		p := 2*l - q
		rf = hueComponent(p, q, h+1.0/3.0)
		gf = hueComponent(p, q, h)
		bf = hueComponent(p, q, h-1.0/3.0)
	}
	return color.RGBA{R: uint8(rf * 255), G: uint8(gf * 255), B: uint8(bf * 255), A: 255}
}

func hueComponent(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
