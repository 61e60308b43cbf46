package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/dragdom/dragdom/internal/geometry"
	"github.com/dragdom/dragdom/internal/logging"
	"github.com/dragdom/dragdom/internal/scenario"
)

func newRouter() *mux.Router {
	r := mux.NewRouter()
	NewHandler(logging.Discard()).Routes(r.PathPrefix("/api").Subrouter())
	return r
}

func post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)
	return rec
}

func TestCheckBounds(t *testing.T) {
	rec := post(t, "/api/bounds/check", `{
		"candidate": {"x": 200, "y": 50},
		"element": {"width": 50, "height": 50},
		"boundary": {"center": {"x": 100, "y": 50}, "width": 200, "height": 100},
		"start": {"x": 100, "y": 50},
		"constrain": true
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var got struct {
		Right             bool            `json:"right"`
		Left              bool            `json:"left"`
		HasCollision      bool            `json:"hasCollision"`
		IsConstrained     bool            `json:"isConstrained"`
		ConstrainedCenter *geometry.Point `json:"constrainedCenter"`
		Translation       geometry.Point  `json:"translation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Right || got.Left || !got.HasCollision || !got.IsConstrained {
		t.Errorf("flags = %+v", got)
	}
	if got.ConstrainedCenter == nil || !got.ConstrainedCenter.ApproxEqual(geometry.Pt(175, 50), 1e-9) {
		t.Errorf("constrained center = %v", got.ConstrainedCenter)
	}
	if !got.Translation.ApproxEqual(geometry.Pt(75, 0), 1e-9) {
		t.Errorf("translation = %v", got.Translation)
	}
}

func TestCheckBoundsWithoutBoundary(t *testing.T) {
	rec := post(t, "/api/bounds/check", `{"candidate": {"x": 1, "y": 2}, "element": {"width": 5, "height": 5}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Errorf("body = %q, want null", body)
	}
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"check malformed", "/api/bounds/check", `{"candidate":`},
		{"check unknown field", "/api/bounds/check", `{"candidates": {}}`},
		{"corners malformed", "/api/corners", `[]`},
		{"matrix unsupported", "/api/matrix", `{"transform": "rotate(45deg)"}`},
		{"snapshot negative size", "/api/bounds/snapshot", `{"frame": {"element": {"width": 5, "height": 5}}, "options": {"width": -5}}`},
		{"replay not yaml", "/api/scenarios/replay", `steps: [`},
		{"replay invalid", "/api/scenarios/replay", `element: a`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("body = %q", rec.Body)
			}
		})
	}
}

func TestCorners(t *testing.T) {
	rec := post(t, "/api/corners", `{"center": {"x": 0, "y": 0}, "width": 20, "height": 10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got cornersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Handles) != 8 {
		t.Fatalf("handles = %v", got.Handles)
	}
	want := map[string]geometry.Point{
		"tl": geometry.Pt(-10, -5),
		"br": geometry.Pt(10, 5),
		"mr": geometry.Pt(10, 0),
		"mt": geometry.Pt(0, -5),
	}
	for name, p := range want {
		if !got.Handles[name].ApproxEqual(p, 1e-9) {
			t.Errorf("%s = %v, want %v", name, got.Handles[name], p)
		}
	}
	if got.Bounds != (geometry.Rect{X: -10, Y: -5, Width: 20, Height: 10}) {
		t.Errorf("bounds = %+v", got.Bounds)
	}
}

func TestParseMatrix(t *testing.T) {
	rec := post(t, "/api/matrix", `{"transform": "matrix(0, 1, -1, 0, 10, 20)"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got matrixResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.Rotation-90) > 1e-9 || got.Translation != geometry.Pt(10, 20) || got.Identity {
		t.Errorf("got %+v", got)
	}
}

func TestSnapshot(t *testing.T) {
	rec := post(t, "/api/bounds/snapshot", `{
		"frame": {
			"element": {"center": {"x": 100, "y": 50}, "width": 50, "height": 50},
			"boundary": {"center": {"x": 100, "y": 50}, "width": 200, "height": 100}
		},
		"candidate": {"x": 200, "y": 50},
		"constrain": true,
		"options": {"width": 320, "height": 200}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}
}

func TestReplay(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "scenario", "testdata", "clamp-right.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	rec := post(t, "/api/scenarios/replay", string(data))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var report scenario.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if !report.Passed() || len(report.Steps) != 5 {
		t.Errorf("report = %+v", report)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/bounds/check", nil)
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["error"] != "method GET not allowed" {
		t.Errorf("body = %v, %v", body, err)
	}
}
