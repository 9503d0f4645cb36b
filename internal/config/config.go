// Package config loads and validates scene descriptions: the unit cell,
// the harmonic truncation, the dielectric shapes, and the wavevector path
// of a band-structure run.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/photonworks/bravais/lattice"
	"github.com/photonworks/bravais/solver"
)

// SceneConfig is the root configuration for a band-structure run. The
// schema matches the config column of the run store, so a stored run can
// be replayed from its own record. All fields are optional; the Get*
// methods provide fallback defaults, so partial configs are safe.
type SceneConfig struct {
	// Unit cell
	BasisVectors   *[3][3]float64      `json:"basis_vectors,omitempty"`
	Discretization *DiscretizationSpec `json:"discretization,omitempty"`

	// Harmonic truncation. Harmonics, when present, is an explicit basis
	// that bypasses algorithmic truncation.
	Truncation    *string  `json:"truncation,omitempty"`
	HarmonicCount *float64 `json:"harmonic_count,omitempty"`
	Harmonics     [][3]int `json:"harmonics,omitempty"`

	// Dielectric scene
	BackgroundEpsilon *float64      `json:"background_epsilon,omitempty"`
	Shapes            []ShapeConfig `json:"shapes,omitempty"`

	// Solve parameters
	KPath      []KPointConfig `json:"k_path,omitempty"`
	PerSegment *int           `json:"per_segment,omitempty"`
	Bands      *int           `json:"bands,omitempty"`
}

// DiscretizationSpec is the per-axis grid resolution. It unmarshals from
// either a bare number (broadcast to all three axes) or an array.
type DiscretizationSpec []int

func (d *DiscretizationSpec) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*d = DiscretizationSpec{n}
		return nil
	}
	var ns []int
	if err := json.Unmarshal(data, &ns); err != nil {
		return fmt.Errorf("discretization must be a number or an array of numbers: %w", err)
	}
	*d = DiscretizationSpec(ns)
	return nil
}

// ShapeConfig is one dielectric inclusion: a shape plus the permittivity
// painted inside it. Which extent fields apply depends on Type: circle
// reads radius, ellipse radii, square width, rectangle widths, polygon
// vertices, stripe center[0] and width.
type ShapeConfig struct {
	Type     string       `json:"type"`
	Center   [2]float64   `json:"center,omitempty"`
	Radius   float64      `json:"radius,omitempty"`
	Radii    [2]float64   `json:"radii,omitempty"`
	Width    float64      `json:"width,omitempty"`
	Widths   [2]float64   `json:"widths,omitempty"`
	Rotate   float64      `json:"rotate,omitempty"`
	Vertices [][2]float64 `json:"vertices,omitempty"`
	Epsilon  float64      `json:"epsilon"`
}

// KPointConfig names one vertex of the wavevector path.
type KPointConfig struct {
	Name string     `json:"name,omitempty"`
	K    [3]float64 `json:"k"`
}

// EmptySceneConfig returns a SceneConfig with all fields unset, so every
// getter answers its default.
func EmptySceneConfig() *SceneConfig {
	return &SceneConfig{}
}

// LoadSceneConfig loads a SceneConfig from a JSON file. The file must have
// a .json extension and stay under the max file size. Fields omitted from
// the JSON keep their defaults, so partial configs are safe.
func LoadSceneConfig(path string) (*SceneConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySceneConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var shapeTypes = map[string]bool{
	"circle":    true,
	"ellipse":   true,
	"square":    true,
	"rectangle": true,
	"polygon":   true,
	"stripe":    true,
}

// Validate checks that the configuration values are valid.
func (c *SceneConfig) Validate() error {
	if c.Discretization != nil {
		if n := len(*c.Discretization); n != 1 && n != 3 {
			return fmt.Errorf("discretization needs 1 or 3 values, got %d", n)
		}
		for _, v := range *c.Discretization {
			if v < 1 {
				return fmt.Errorf("discretization values must be positive, got %d", v)
			}
		}
	}

	if c.Truncation != nil && !lattice.Truncation(*c.Truncation).IsValid() {
		return fmt.Errorf("unknown truncation %q", *c.Truncation)
	}

	if c.HarmonicCount != nil {
		if _, err := lattice.CountFromFloat(*c.HarmonicCount); err != nil {
			return err
		}
	}

	if c.BackgroundEpsilon != nil && *c.BackgroundEpsilon <= 0 {
		return fmt.Errorf("background_epsilon must be positive, got %g", *c.BackgroundEpsilon)
	}

	for i, s := range c.Shapes {
		if err := s.validate(); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}

	if len(c.KPath) == 1 {
		return fmt.Errorf("k_path needs at least two vertices, got 1")
	}
	if c.PerSegment != nil && *c.PerSegment < 1 {
		return fmt.Errorf("per_segment must be at least 1, got %d", *c.PerSegment)
	}
	if c.Bands != nil && *c.Bands < 1 {
		return fmt.Errorf("bands must be at least 1, got %d", *c.Bands)
	}

	return nil
}

func (s ShapeConfig) validate() error {
	if !shapeTypes[s.Type] {
		return fmt.Errorf("unknown shape type %q", s.Type)
	}
	if s.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %g", s.Epsilon)
	}
	if s.Type == "polygon" && len(s.Vertices) < 3 {
		return fmt.Errorf("polygon needs at least 3 vertices, got %d", len(s.Vertices))
	}
	return nil
}

// GetBasis returns the configured basis vectors or the default.
func (c *SceneConfig) GetBasis() lattice.Basis {
	if c.BasisVectors == nil {
		return lattice.Basis{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} // default: cubic unit cell
	}
	b := *c.BasisVectors
	return lattice.Basis{b[0], b[1], b[2]}
}

// GetDiscretization returns the per-axis resolution values, or nil to let
// the lattice default apply.
func (c *SceneConfig) GetDiscretization() []int {
	if c.Discretization == nil {
		return nil
	}
	return []int(*c.Discretization)
}

// GetTruncation returns the truncation mode or the default.
func (c *SceneConfig) GetTruncation() lattice.Truncation {
	if c.Truncation == nil {
		return lattice.TruncationParallelogrammic // default
	}
	return lattice.Truncation(*c.Truncation)
}

// GetHarmonicCount returns the harmonic_count value or the default.
func (c *SceneConfig) GetHarmonicCount() float64 {
	if c.HarmonicCount == nil {
		return 27 // default
	}
	return *c.HarmonicCount
}

// GetBackgroundEpsilon returns the background_epsilon value or the default.
func (c *SceneConfig) GetBackgroundEpsilon() float64 {
	if c.BackgroundEpsilon == nil {
		return 1.0 // default: vacuum
	}
	return *c.BackgroundEpsilon
}

// GetPerSegment returns the per_segment value or the default.
func (c *SceneConfig) GetPerSegment() int {
	if c.PerSegment == nil {
		return 16 // default
	}
	return *c.PerSegment
}

// GetBands returns the bands value or the default.
func (c *SceneConfig) GetBands() int {
	if c.Bands == nil {
		return 8 // default
	}
	return *c.Bands
}

// GetKPath returns the configured path vertices, or the default walk
// around the square Brillouin zone corner: Γ, X, M, back to Γ.
func (c *SceneConfig) GetKPath() []solver.KPoint {
	if len(c.KPath) == 0 {
		return []solver.KPoint{
			{Name: "Γ", K: lattice.Vec3{0, 0, 0}},
			{Name: "X", K: lattice.Vec3{math.Pi, 0, 0}},
			{Name: "M", K: lattice.Vec3{math.Pi, math.Pi, 0}},
			{Name: "Γ", K: lattice.Vec3{0, 0, 0}},
		}
	}
	out := make([]solver.KPoint, len(c.KPath))
	for i, p := range c.KPath {
		out[i] = solver.KPoint{Name: p.Name, K: p.K}
	}
	return out
}
