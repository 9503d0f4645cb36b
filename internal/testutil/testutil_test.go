package testutil

import (
	"net/http"
	"testing"
)

func TestAssertStatusCodeMatching(t *testing.T) {
	fakeT := &testing.T{}
	AssertStatusCode(fakeT, http.StatusOK, http.StatusOK)
	if fakeT.Failed() {
		t.Error("matching status codes should not fail")
	}
}

func TestNewTestRequest(t *testing.T) {
	req := NewTestRequest(http.MethodDelete, "/api/runs/abc")
	if req.Method != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", req.Method)
	}
	if req.URL.Path != "/api/runs/abc" {
		t.Errorf("path = %s, want /api/runs/abc", req.URL.Path)
	}
}

func TestDecodeJSONBody(t *testing.T) {
	rec := NewTestRecorder()
	rec.Body.WriteString(`{"volume": 2.5}`)

	var got struct {
		Volume float64 `json:"volume"`
	}
	DecodeJSONBody(t, rec, &got)
	if got.Volume != 2.5 {
		t.Errorf("volume = %v, want 2.5", got.Volume)
	}
}

func TestMustLattice(t *testing.T) {
	lat := MustLattice(t, 8)
	if got := lat.Dims().Count(); got != 512 {
		t.Errorf("node count = %d, want 512", got)
	}
	if _, err := lat.Circle([2]float64{0.5, 0.5}, 0.2); err != nil {
		t.Errorf("rasterizer not attached: %v", err)
	}
}
