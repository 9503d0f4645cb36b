package monitor

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/photonworks/bravais/grid"
	"github.com/photonworks/bravais/internal/httputil"
	"github.com/photonworks/bravais/internal/runsdb"
	"github.com/photonworks/bravais/lattice"
)

// echartsAssetsHost is where rendered chart pages load the ECharts runtime
// from.
const echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// viridis gradient for value-colored scatter plots.
var viridisColors = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// handleHarmonicsChart renders the truncated harmonic basis as a scatter in
// the reciprocal x/y plane, colored by |G|. Takes the same 'nh' query
// parameter as the JSON endpoint.
func (s *Server) handleHarmonicsChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}

	requested, items, status, msg := s.harmonicsForRequest(r)
	if status != 0 {
		httputil.WriteJSONError(w, status, msg)
		return
	}

	data := make([]opts.ScatterData, 0, len(items))
	maxAbs := 0.0
	maxNorm := 0.0
	for _, it := range items {
		x, y := it.K[0], it.K[1]
		if math.Abs(x) > maxAbs {
			maxAbs = math.Abs(x)
		}
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
		if it.Norm > maxNorm {
			maxNorm = it.Norm
		}
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, it.Norm}})
	}

	// Pad so edge points stay visible
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxNorm == 0 {
		maxNorm = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Harmonic Basis", Theme: "dark", Width: "900px", Height: "900px", AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Truncated Harmonic Basis", Subtitle: fmt.Sprintf("truncation=%s requested=%g kept=%d", s.lat.Truncation(), requested, len(items))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "Gx", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Gy", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxNorm),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridisColors},
		}),
	)
	scatter.AddSeries("harmonics", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.InternalServerError(w, "failed to render chart: %v", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleBandsChart renders a stored run as a band diagram, one line per
// band over the cumulative path distance. Query params:
//   - run (optional; defaults to the most recent run)
func (s *Server) handleBandsChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "run store not configured")
		return
	}

	id := r.URL.Query().Get("run")
	if id == "" {
		runs, err := s.db.ListRuns(1)
		if err != nil {
			httputil.InternalServerError(w, "list runs: %v", err)
			return
		}
		if len(runs) == 0 {
			httputil.NotFound(w, "no runs recorded yet")
			return
		}
		id = runs[0].ID
	}

	run, err := s.db.GetRun(id)
	if errors.Is(err, runsdb.ErrRunNotFound) {
		httputil.NotFound(w, "no run %q", id)
		return
	}
	if err != nil {
		httputil.InternalServerError(w, "get run: %v", err)
		return
	}

	points, err := s.db.BandsForRun(id)
	if err != nil {
		httputil.InternalServerError(w, "load bands: %v", err)
		return
	}
	if len(points) == 0 {
		httputil.NotFound(w, "run %q has no band samples", id)
		return
	}

	// Points arrive ordered by (point, band); regroup into one series per
	// band over the shared distance axis.
	var xs []string
	series := make(map[int][]opts.LineData)
	for _, p := range points {
		if p.BandIndex == 0 {
			xs = append(xs, fmt.Sprintf("%.3f", p.Distance))
		}
		series[p.BandIndex] = append(series[p.BandIndex], opts.LineData{Value: p.Frequency})
	}
	bands := make([]int, 0, len(series))
	for b := range series {
		bands = append(bands, b)
	}
	sort.Ints(bands)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Band Structure", Theme: "dark", Width: "1100px", Height: "700px", AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Band Structure", Subtitle: fmt.Sprintf("run=%s bands=%d points=%d", run.ID, run.Bands, run.Points)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "wavevector path", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "frequency", NameLocation: "middle", NameGap: 30}),
	)
	line.SetXAxis(xs)
	for _, b := range bands {
		line.AddSeries(fmt.Sprintf("band %d", b), series[b])
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, "failed to render chart: %v", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleMaskChart rasterizes a shape onto the lattice and renders the z=0
// grid layer as a scatter colored by mask membership. Query params:
//   - shape (circle, ellipse, square, rectangle; default circle)
//   - cx, cy (shape center in fractional coordinates; default 0.5)
//   - rotate (radians; default 0)
//   - r, rx, ry, w, wx, wy (per-shape extents)
//   - max_points (optional; default 8000) to reduce payload size
func (s *Server) handleMaskChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	shape := q.Get("shape")
	if shape == "" {
		shape = "circle"
	}

	center := [2]float64{queryFloat(q, "cx", 0.5), queryFloat(q, "cy", 0.5)}
	rot := queryFloat(q, "rotate", 0)

	var mask *grid.Mask
	var err error
	switch shape {
	case "circle":
		mask, err = s.lat.Circle(center, queryFloat(q, "r", 0.25))
	case "ellipse":
		mask, err = s.lat.Ellipse(center, [2]float64{queryFloat(q, "rx", 0.3), queryFloat(q, "ry", 0.15)}, rot)
	case "square":
		mask, err = s.lat.Square(center, queryFloat(q, "w", 0.4), rot)
	case "rectangle":
		mask, err = s.lat.Rectangle(center, [2]float64{queryFloat(q, "wx", 0.5), queryFloat(q, "wy", 0.25)}, rot)
	default:
		httputil.BadRequest(w, "unknown shape %q", shape)
		return
	}
	if err != nil {
		if errors.Is(err, lattice.ErrNoRasterizer) {
			httputil.WriteJSONError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		httputil.InternalServerError(w, "rasterize %s: %v", shape, err)
		return
	}

	g, err := s.lat.Grid()
	if err != nil {
		httputil.InternalServerError(w, "lattice grid: %v", err)
		return
	}

	maxPoints := 8000
	if mp := q.Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 100 && v <= 50000 {
			maxPoints = v
		}
	}

	// Downsample the layer by stride to stay within maxPoints
	d := s.lat.Dims()
	layer := d.Nx * d.Ny
	stride := 1
	if layer > maxPoints {
		stride = int(math.Ceil(float64(layer) / float64(maxPoints)))
	}

	data := make([]opts.ScatterData, 0, layer/stride+1)
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for p := 0; p < layer; p += stride {
		n := d.Index(p/d.Ny, p%d.Ny, 0)
		x, y := g.C[0][n], g.C[1][n]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		val := 0.0
		if mask.Data[n] {
			val = 1.0
		}
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, val}})
	}

	// The cell need not be origin-centered, so pad each axis range rather
	// than forcing symmetric bounds.
	padX := (maxX - minX) * 0.05
	if padX == 0 {
		padX = 1.0
	}
	padY := (maxY - minY) * 0.05
	if padY == 0 {
		padY = 1.0
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Shape Mask", Theme: "dark", Width: "900px", Height: "900px", AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Shape Mask", Subtitle: fmt.Sprintf("shape=%s inside=%d/%d stride=%d", shape, mask.CountTrue(), d.Count(), stride)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minX - padX, Max: maxX + padX, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: minY - padY, Max: maxY + padY, Name: "y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridisColors},
		}),
	)
	scatter.AddSeries("mask", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		httputil.InternalServerError(w, "failed to render chart: %v", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func queryFloat(q url.Values, name string, def float64) float64 {
	if v := q.Get(name); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}
