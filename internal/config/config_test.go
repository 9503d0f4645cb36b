package config

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/photonworks/bravais/lattice"
	"github.com/photonworks/bravais/solver"
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

func TestLoadSceneConfig(t *testing.T) {
	cfg, err := LoadSceneConfig(filepath.Join("testdata", "square.json"))
	if err != nil {
		t.Fatalf("LoadSceneConfig: %v", err)
	}

	wantBasis := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	if cfg.BasisVectors == nil || *cfg.BasisVectors != wantBasis {
		t.Errorf("Expected basis_vectors %v, got %v", wantBasis, cfg.BasisVectors)
	}
	if diff := cmp.Diff(DiscretizationSpec{32}, *cfg.Discretization); diff != "" {
		t.Errorf("Discretization mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.GetHarmonicCount(); got != 27 {
		t.Errorf("GetHarmonicCount() = %g, want 27", got)
	}
	if got := cfg.GetBackgroundEpsilon(); got != 1.0 {
		t.Errorf("GetBackgroundEpsilon() = %g, want 1", got)
	}
	if len(cfg.Shapes) != 1 || cfg.Shapes[0].Type != "square" {
		t.Fatalf("Expected one square shape, got %+v", cfg.Shapes)
	}
	if cfg.Shapes[0].Epsilon != 8.9 {
		t.Errorf("Expected shape epsilon 8.9, got %g", cfg.Shapes[0].Epsilon)
	}
	if got := cfg.GetPerSegment(); got != 8 {
		t.Errorf("GetPerSegment() = %d, want 8", got)
	}
	if got := cfg.GetBands(); got != 6 {
		t.Errorf("GetBands() = %d, want 6", got)
	}

	wantPath := []solver.KPoint{
		{Name: "Γ", K: lattice.Vec3{0, 0, 0}},
		{Name: "X", K: lattice.Vec3{math.Pi, 0, 0}},
		{Name: "M", K: lattice.Vec3{math.Pi, math.Pi, 0}},
		{Name: "Γ", K: lattice.Vec3{0, 0, 0}},
	}
	if diff := cmp.Diff(wantPath, cfg.GetKPath()); diff != "" {
		t.Errorf("KPath mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSceneConfigRejectsExtension(t *testing.T) {
	if _, err := LoadSceneConfig("scene.yaml"); err == nil {
		t.Error("Expected error for non-JSON extension, got nil")
	}
}

func TestLoadSceneConfigMissing(t *testing.T) {
	if _, err := LoadSceneConfig("/nonexistent/path/to/scene.json"); err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadSceneConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"shapes": [`), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := LoadSceneConfig(path); err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestLoadSceneConfigInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	body := `{"shapes": [{"type": "circle", "radius": 0.2, "epsilon": -1}]}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	_, err := LoadSceneConfig(path)
	if err == nil || !strings.Contains(err.Error(), "epsilon must be positive") {
		t.Errorf("Expected epsilon validation error, got %v", err)
	}
}

func TestDiscretizationSpecUnmarshal(t *testing.T) {
	var d DiscretizationSpec
	if err := json.Unmarshal([]byte("64"), &d); err != nil {
		t.Fatalf("Unmarshal scalar: %v", err)
	}
	if diff := cmp.Diff(DiscretizationSpec{64}, d); diff != "" {
		t.Errorf("Scalar mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte("[8, 4, 2]"), &d); err != nil {
		t.Fatalf("Unmarshal array: %v", err)
	}
	if diff := cmp.Diff(DiscretizationSpec{8, 4, 2}, d); diff != "" {
		t.Errorf("Array mismatch (-want +got):\n%s", diff)
	}

	if err := json.Unmarshal([]byte(`"high"`), &d); err == nil {
		t.Error("Expected error for string discretization, got nil")
	}
}

func TestDefaults(t *testing.T) {
	cfg := EmptySceneConfig()

	if got := cfg.GetBasis(); got != (lattice.Basis{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}) {
		t.Errorf("GetBasis() = %v, want identity", got)
	}
	if got := cfg.GetDiscretization(); got != nil {
		t.Errorf("GetDiscretization() = %v, want nil", got)
	}
	if got := cfg.GetTruncation(); got != lattice.TruncationParallelogrammic {
		t.Errorf("GetTruncation() = %q, want parallelogrammic", got)
	}
	if got := cfg.GetHarmonicCount(); got != 27 {
		t.Errorf("GetHarmonicCount() = %g, want 27", got)
	}
	if got := cfg.GetBackgroundEpsilon(); got != 1.0 {
		t.Errorf("GetBackgroundEpsilon() = %g, want 1", got)
	}
	if got := cfg.GetPerSegment(); got != 16 {
		t.Errorf("GetPerSegment() = %d, want 16", got)
	}
	if got := cfg.GetBands(); got != 8 {
		t.Errorf("GetBands() = %d, want 8", got)
	}

	path := cfg.GetKPath()
	if len(path) != 4 {
		t.Fatalf("Expected 4 default path vertices, got %d", len(path))
	}
	for i, name := range []string{"Γ", "X", "M", "Γ"} {
		if path[i].Name != name {
			t.Errorf("Path vertex %d = %q, want %q", i, path[i].Name, name)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Empty config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SceneConfig)
		wantErr string
	}{
		{
			name:    "discretization two values",
			mutate:  func(c *SceneConfig) { c.Discretization = &DiscretizationSpec{8, 8} },
			wantErr: "1 or 3 values",
		},
		{
			name:    "discretization zero",
			mutate:  func(c *SceneConfig) { c.Discretization = &DiscretizationSpec{0} },
			wantErr: "must be positive",
		},
		{
			name:    "unknown truncation",
			mutate:  func(c *SceneConfig) { c.Truncation = ptrString("hexagonal") },
			wantErr: "unknown truncation",
		},
		{
			name:    "fractional harmonic count",
			mutate:  func(c *SceneConfig) { c.HarmonicCount = ptrFloat64(27.5) },
			wantErr: "integer",
		},
		{
			name:    "background epsilon zero",
			mutate:  func(c *SceneConfig) { c.BackgroundEpsilon = ptrFloat64(0) },
			wantErr: "background_epsilon must be positive",
		},
		{
			name: "unknown shape type",
			mutate: func(c *SceneConfig) {
				c.Shapes = []ShapeConfig{{Type: "blob", Epsilon: 1}}
			},
			wantErr: "unknown shape type",
		},
		{
			name: "shape epsilon missing",
			mutate: func(c *SceneConfig) {
				c.Shapes = []ShapeConfig{{Type: "circle", Radius: 0.2}}
			},
			wantErr: "epsilon must be positive",
		},
		{
			name: "degenerate polygon",
			mutate: func(c *SceneConfig) {
				c.Shapes = []ShapeConfig{{Type: "polygon", Vertices: [][2]float64{{0, 0}, {1, 1}}, Epsilon: 2}}
			},
			wantErr: "at least 3 vertices",
		},
		{
			name:    "single path vertex",
			mutate:  func(c *SceneConfig) { c.KPath = []KPointConfig{{Name: "Γ"}} },
			wantErr: "at least two",
		},
		{
			name:    "per segment zero",
			mutate:  func(c *SceneConfig) { c.PerSegment = ptrInt(0) },
			wantErr: "per_segment must be at least 1",
		},
		{
			name:    "bands zero",
			mutate:  func(c *SceneConfig) { c.Bands = ptrInt(0) },
			wantErr: "bands must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := EmptySceneConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildLattice(t *testing.T) {
	cfg, err := LoadSceneConfig(filepath.Join("testdata", "square.json"))
	if err != nil {
		t.Fatalf("LoadSceneConfig: %v", err)
	}

	lat, err := cfg.BuildLattice()
	if err != nil {
		t.Fatalf("BuildLattice: %v", err)
	}
	d := lat.Dims()
	if d.Nx != 32 || d.Ny != 32 || d.Nz != 32 {
		t.Errorf("Expected 32x32x32 grid, got %dx%dx%d", d.Nx, d.Ny, d.Nz)
	}
	if lat.Truncation() != lattice.TruncationParallelogrammic {
		t.Errorf("Expected parallelogrammic truncation, got %q", lat.Truncation())
	}
}

func TestBuildLatticeHarmonicsOverride(t *testing.T) {
	cfg := EmptySceneConfig()
	cfg.Discretization = &DiscretizationSpec{8}
	cfg.Harmonics = [][3]int{{0, 0, 0}, {1, 0, 0}}

	lat, err := cfg.BuildLattice()
	if err != nil {
		t.Fatalf("BuildLattice: %v", err)
	}
	g, err := lat.Harmonics(99)
	if err != nil {
		t.Fatalf("Harmonics: %v", err)
	}
	want := []lattice.GVector{{0, 0, 0}, {1, 0, 0}}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("Override mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEpsilon(t *testing.T) {
	cfg, err := LoadSceneConfig(filepath.Join("testdata", "square.json"))
	if err != nil {
		t.Fatalf("LoadSceneConfig: %v", err)
	}
	lat, err := cfg.BuildLattice()
	if err != nil {
		t.Fatalf("BuildLattice: %v", err)
	}

	eps, err := cfg.BuildEpsilon(lat)
	if err != nil {
		t.Fatalf("BuildEpsilon: %v", err)
	}

	// width 0.6 about the cell center covers nodes 7..24 on each axis of
	// the 32-node grid, extruded through all 32 layers
	count := 0
	for _, v := range eps.Data {
		if v == complex(8.9, 0) {
			count++
		}
	}
	if want := 18 * 18 * 32; count != want {
		t.Errorf("Expected %d nodes inside the square, got %d", want, count)
	}

	d := lat.Dims()
	if got := eps.Data[d.Index(15, 15, 0)]; got != complex(8.9, 0) {
		t.Errorf("Center node = %v, want 8.9", got)
	}
	if got := eps.Data[d.Index(0, 0, 0)]; got != complex(1, 0) {
		t.Errorf("Corner node = %v, want background 1", got)
	}
}

func TestBuildEpsilonShapeOrder(t *testing.T) {
	cfg := EmptySceneConfig()
	cfg.Discretization = &DiscretizationSpec{16, 16, 1}
	cfg.Shapes = []ShapeConfig{
		{Type: "circle", Center: [2]float64{0.5, 0.5}, Radius: 0.4, Epsilon: 4},
		{Type: "circle", Center: [2]float64{0.5, 0.5}, Radius: 0.2, Epsilon: 9},
	}

	lat, err := cfg.BuildLattice()
	if err != nil {
		t.Fatalf("BuildLattice: %v", err)
	}
	eps, err := cfg.BuildEpsilon(lat)
	if err != nil {
		t.Fatalf("BuildEpsilon: %v", err)
	}

	d := lat.Dims()
	// node (8,8) sits inside both circles; the later shape wins
	if got := eps.Data[d.Index(8, 8, 0)]; got != complex(9, 0) {
		t.Errorf("Overlap node = %v, want 9", got)
	}
	// node (3,8) is inside only the outer circle
	if got := eps.Data[d.Index(3, 8, 0)]; got != complex(4, 0) {
		t.Errorf("Annulus node = %v, want 4", got)
	}
	// corner is outside both
	if got := eps.Data[d.Index(0, 0, 0)]; got != complex(1, 0) {
		t.Errorf("Corner node = %v, want background 1", got)
	}
}

func TestBuildEpsilonStripe(t *testing.T) {
	cfg := EmptySceneConfig()
	cfg.Discretization = &DiscretizationSpec{5, 1, 1}
	cfg.Shapes = []ShapeConfig{
		{Type: "stripe", Center: [2]float64{0.5, 0}, Width: 0.5, Epsilon: 12},
	}

	lat, err := cfg.BuildLattice()
	if err != nil {
		t.Fatalf("BuildLattice: %v", err)
	}
	eps, err := cfg.BuildEpsilon(lat)
	if err != nil {
		t.Fatalf("BuildEpsilon: %v", err)
	}

	want := []complex128{1, 12, 12, 12, 1}
	for n, v := range eps.Data {
		if v != want[n] {
			t.Errorf("Node %d = %v, want %v", n, v, want[n])
		}
	}
}

func TestBuildEpsilonBadShape(t *testing.T) {
	cfg := EmptySceneConfig()
	cfg.Discretization = &DiscretizationSpec{4}
	cfg.Shapes = []ShapeConfig{
		{Type: "polygon", Vertices: [][2]float64{{0, 0}, {1, 1}}, Epsilon: 2},
	}

	lat, err := cfg.BuildLattice()
	if err != nil {
		t.Fatalf("BuildLattice: %v", err)
	}
	_, err = cfg.BuildEpsilon(lat)
	if err == nil || !strings.Contains(err.Error(), "shape 0") {
		t.Errorf("Expected shape error, got %v", err)
	}
}

func TestGetKPathCustom(t *testing.T) {
	cfg := EmptySceneConfig()
	cfg.KPath = []KPointConfig{
		{Name: "A", K: [3]float64{1, 2, 3}},
		{K: [3]float64{4, 5, 6}},
	}

	want := []solver.KPoint{
		{Name: "A", K: lattice.Vec3{1, 2, 3}},
		{K: lattice.Vec3{4, 5, 6}},
	}
	if diff := cmp.Diff(want, cfg.GetKPath()); diff != "" {
		t.Errorf("KPath mismatch (-want +got):\n%s", diff)
	}
}
