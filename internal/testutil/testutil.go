// Package testutil provides shared fixtures for the HTTP and store tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/photonworks/bravais/geom"
	"github.com/photonworks/bravais/lattice"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// DecodeJSONBody decodes the recorded response body into dst.
func DecodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// MustLattice builds a unit-cell lattice at the given per-axis resolution,
// with the standard rasterizer attached.
func MustLattice(tb testing.TB, res int) *lattice.Lattice {
	tb.Helper()
	lat, err := lattice.New(
		lattice.Basis{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		lattice.Options{Discretization: []int{res}, Rasterizer: geom.Rasterizer{}},
	)
	if err != nil {
		tb.Fatalf("building test lattice: %v", err)
	}
	return lat
}
