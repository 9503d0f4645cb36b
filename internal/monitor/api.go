package monitor

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/photonworks/bravais/internal/httputil"
	"github.com/photonworks/bravais/internal/runsdb"
	"github.com/photonworks/bravais/internal/version"
	"github.com/photonworks/bravais/lattice"
)

const (
	defaultRunsLimit = 50
	maxRunsLimit     = 500
)

type latticeInfo struct {
	Basis          lattice.Basis      `json:"basis"`
	Discretization [3]int             `json:"discretization"`
	Truncation     lattice.Truncation `json:"truncation"`
	Volume         float64            `json:"volume"`
	Reciprocal     [3]lattice.Vec3    `json:"reciprocal"`
}

func (s *Server) handleLattice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}

	rec, err := s.lat.ReciprocalVectors()
	if err != nil {
		httputil.InternalServerError(w, "reciprocal basis: %v", err)
		return
	}

	d := s.lat.Dims()
	httputil.WriteJSONOK(w, latticeInfo{
		Basis:          s.lat.Basis(),
		Discretization: [3]int{d.Nx, d.Ny, d.Nz},
		Truncation:     s.lat.Truncation(),
		Volume:         s.lat.Volume(),
		Reciprocal:     rec,
	})
}

type harmonicItem struct {
	G    lattice.GVector `json:"g"`
	K    lattice.Vec3    `json:"k"`
	Norm float64         `json:"norm"`
}

type harmonicsResponse struct {
	Requested float64        `json:"requested"`
	Count     int            `json:"count"`
	Items     []harmonicItem `json:"items"`
}

// harmonicsForRequest resolves the 'nh' query parameter (the server default
// when absent) into the truncated harmonic set and its physical vectors.
// The returned status is zero on success.
func (s *Server) harmonicsForRequest(r *http.Request) (float64, []harmonicItem, int, string) {
	requested := float64(s.nh)
	if q := r.URL.Query().Get("nh"); q != "" {
		parsed, err := strconv.ParseFloat(q, 64)
		if err != nil {
			return 0, nil, http.StatusBadRequest, "invalid 'nh' parameter"
		}
		requested = parsed
	}

	nh, err := lattice.CountFromFloat(requested)
	if err != nil {
		return 0, nil, http.StatusBadRequest, err.Error()
	}

	g, err := s.lat.Harmonics(nh)
	switch {
	case err == nil:
	case errors.Is(err, lattice.ErrSphericalTruncation):
		return 0, nil, http.StatusNotImplemented, err.Error()
	case errors.Is(err, lattice.ErrInvalidCount):
		return 0, nil, http.StatusBadRequest, err.Error()
	default:
		return 0, nil, http.StatusInternalServerError, err.Error()
	}

	rec, err := s.lat.ReciprocalVectors()
	if err != nil {
		return 0, nil, http.StatusInternalServerError, "reciprocal basis: " + err.Error()
	}

	items := make([]harmonicItem, len(g))
	for m, h := range g {
		var k lattice.Vec3
		for axis := 0; axis < 3; axis++ {
			for r := 0; r < 3; r++ {
				k[r] += float64(h[axis]) * rec[axis][r]
			}
		}
		items[m] = harmonicItem{G: h, K: k, Norm: k.Norm()}
	}
	return requested, items, 0, ""
}

func (s *Server) handleHarmonics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}

	requested, items, status, msg := s.harmonicsForRequest(r)
	if status != 0 {
		httputil.WriteJSONError(w, status, msg)
		return
	}

	httputil.WriteJSONOK(w, harmonicsResponse{
		Requested: requested,
		Count:     len(items),
		Items:     items,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "run store not configured")
		return
	}

	limit := defaultRunsLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	runs, err := s.db.ListRuns(limit)
	if err != nil {
		httputil.InternalServerError(w, "list runs: %v", err)
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}

type runDetail struct {
	Run   *runsdb.Run        `json:"run"`
	Bands []runsdb.BandPoint `json:"bands"`
}

func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusServiceUnavailable, "run store not configured")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if id == "" || strings.Contains(id, "/") {
		httputil.BadRequest(w, "missing or malformed run id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		run, err := s.db.GetRun(id)
		if errors.Is(err, runsdb.ErrRunNotFound) {
			httputil.NotFound(w, "no run %q", id)
			return
		}
		if err != nil {
			httputil.InternalServerError(w, "get run: %v", err)
			return
		}
		bands, err := s.db.BandsForRun(id)
		if err != nil {
			httputil.InternalServerError(w, "load bands: %v", err)
			return
		}
		httputil.WriteJSONOK(w, runDetail{Run: run, Bands: bands})

	case http.MethodDelete:
		err := s.db.DeleteRun(id)
		if errors.Is(err, runsdb.ErrRunNotFound) {
			httputil.NotFound(w, "no run %q", id)
			return
		}
		if err != nil {
			httputil.InternalServerError(w, "delete run: %v", err)
			return
		}
		httputil.WriteJSONOK(w, map[string]string{"deleted": id})

	default:
		httputil.MethodNotAllowed(w, http.MethodGet, http.MethodDelete)
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}
