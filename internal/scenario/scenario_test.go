package scenario

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/geometry"
)

func TestRunTestdata(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no scenarios found: %v", err)
	}

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sc, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			report, err := Run(context.Background(), sc, nil)
			if err != nil {
				t.Fatal(err)
			}
			if !report.Passed() {
				t.Fatalf("expectations failed:\n%s", strings.Join(report.Failures(), "\n"))
			}
			if len(report.Steps) != len(sc.Steps) {
				t.Errorf("ran %d of %d steps", len(report.Steps), len(sc.Steps))
			}
		})
	}
}

func TestRunFinalScene(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "clamp-right.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	report, err := Run(context.Background(), sc, nil)
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, n := range report.Final.Nodes {
		if n.ID != "card" {
			continue
		}
		found = true
		if n.Translation != geometry.Pt(75, 0) {
			t.Errorf("final translation = %v", n.Translation)
		}
		if n.ZIndex != 2 {
			t.Errorf("z-index should be restored after put-back, got %d", n.ZIndex)
		}
	}
	if !found {
		t.Fatal("card missing from the final scene")
	}
	if report.LastBounds == nil || !report.LastBounds.Right {
		t.Errorf("last bounds = %+v", report.LastBounds)
	}
}

func TestParseDefaults(t *testing.T) {
	sc, err := Parse([]byte(`
element: a
nodes: [{id: a, width: 10, height: 10}]
steps: [{action: pickup}]
`))
	if err != nil {
		t.Fatal(err)
	}
	if !sc.Options.Enabled {
		t.Errorf("dragging should be enabled by default")
	}
	if sc.Options.ConstrainByBounds {
		t.Errorf("constraining should be off by default")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed", "steps: ["},
		{"no element", "steps: [{action: pickup}]"},
		{"no steps", "element: a\nnodes: [{id: a}]"},
		{"unknown element", "element: b\nnodes: [{id: a}]\nsteps: [{action: pickup}]"},
		{"unknown boundary", "element: a\nboundary: z\nnodes: [{id: a}]\nsteps: [{action: pickup}]"},
		{"unknown action", "element: a\nnodes: [{id: a}]\nsteps: [{action: jump}]"},
		{"options without options", "element: a\nnodes: [{id: a}]\nsteps: [{action: options}]"},
		{"unknown edge", "element: a\nnodes: [{id: a}]\nsteps: [{action: move, expect: {edges: [north]}}]"},
		{"bad scene", "element: a\nnodes: [{id: a}, {id: a}]\nsteps: [{action: pickup}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src)); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}

func TestRunRecordsFailures(t *testing.T) {
	sc, err := Parse([]byte(`
element: a
nodes: [{id: a, center: {x: 10, y: 10}, width: 10, height: 10}]
steps:
  - action: pickup
    at: {x: 10, y: 10}
    expect:
      events: [moved]
      moving: false
`))
	if err != nil {
		t.Fatal(err)
	}

	report, err := Run(context.Background(), sc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if report.Passed() {
		t.Fatal("expected failures")
	}
	if got := len(report.Failures()); got != 2 {
		t.Errorf("failures = %v", report.Failures())
	}
}

func TestRunOptionsStep(t *testing.T) {
	sc, err := Parse([]byte(`
element: a
nodes: [{id: a, center: {x: 10, y: 10}, width: 10, height: 10}]
steps:
  - action: options
    options: {enabled: false}
  - action: pickup
    at: {x: 10, y: 10}
    expect: {events: [], moving: false}
  - action: options
    options: {enabled: true}
  - action: pickup
    at: {x: 10, y: 10}
    expect: {events: [started], moving: true}
`))
	if err != nil {
		t.Fatal(err)
	}
	report, err := Run(context.Background(), sc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Passed() {
		t.Fatalf("failures: %v", report.Failures())
	}
	if len(report.Events) != 1 || report.Events[0].Kind != drag.EventStarted || report.Events[0].Target != "a" {
		t.Errorf("events = %+v", report.Events)
	}
}

func TestRunCanceled(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "clamp-right.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, sc, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
