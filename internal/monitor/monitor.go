// Package monitor serves the HTTP interface of the band solver: JSON
// endpoints for the configured lattice and the stored runs, plus a few
// go-echarts debug charts for eyeballing harmonics, masks and band
// diagrams without leaving the browser.
package monitor

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/photonworks/bravais/internal/runsdb"
	"github.com/photonworks/bravais/lattice"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server holds the pieces the HTTP handlers read: the scene lattice, the
// default harmonic count, and the run store. The store may be nil when the
// process runs without persistence; the run endpoints then answer 503.
type Server struct {
	db  *runsdb.RunsDB
	lat *lattice.Lattice
	nh  int
}

// NewServer creates a monitor server over the given lattice and run store.
// nh is the harmonic count used when a request does not specify one.
func NewServer(db *runsdb.RunsDB, lat *lattice.Lattice, nh int) *Server {
	return &Server{
		db:  db,
		lat: lat,
		nh:  nh,
	}
}

// RegisterRoutes attaches all monitor endpoints to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/lattice", s.handleLattice)
	mux.HandleFunc("/api/harmonics", s.handleHarmonics)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/runs/", s.handleRunByID)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/charts/harmonics", s.handleHarmonicsChart)
	mux.HandleFunc("/charts/bands", s.handleBandsChart)
	mux.HandleFunc("/charts/mask", s.handleMaskChart)
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// Logging logs method, path, status, and duration for every request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}
