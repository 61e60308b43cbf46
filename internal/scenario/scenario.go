// Package scenario replays scripted drags. A scenario is a YAML file with a
// scene, the element to drag, an optional boundary and a list of input steps;
// replaying it drives a drag.Draggable exactly as a host would.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/geometry"
	"github.com/dragdom/dragdom/internal/scene"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// Action is the kind of input a step delivers.
type Action string

const (
	ActionPickUp  Action = "pickup"
	ActionMove    Action = "move"
	ActionLeave   Action = "leave"
	ActionPutBack Action = "putback"
	ActionReset   Action = "reset"
	ActionOptions Action = "options"
)

func (a Action) valid() bool {
	switch a {
	case ActionPickUp, ActionMove, ActionLeave, ActionPutBack, ActionReset, ActionOptions:
		return true
	}
	return false
}

// Scenario is the parsed file.
type Scenario struct {
	Name     string       `yaml:"name"`
	Element  string       `yaml:"element"`
	Boundary string       `yaml:"boundary,omitempty"`
	Options  drag.Options `yaml:"options"`
	Nodes    []scene.Node `yaml:"nodes"`
	Steps    []Step       `yaml:"steps"`
}

// Step is one input. At, Target and Button apply to pickup and move;
// Options applies to the options action.
type Step struct {
	Action  Action         `yaml:"action"`
	At      geometry.Point `yaml:"at"`
	Target  string         `yaml:"target,omitempty"`
	Button  int            `yaml:"button,omitempty"`
	Options *drag.Options  `yaml:"options,omitempty"`
	Expect  *Expect        `yaml:"expect,omitempty"`
}

// Expect lists assertions checked after a step. Unset fields are skipped.
type Expect struct {
	Events      []drag.EventKind `yaml:"events,omitempty"`
	Translation *geometry.Point  `yaml:"translation,omitempty"`
	Moving      *bool            `yaml:"moving,omitempty"`
	Edges       []string         `yaml:"edges,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Options not given in the file
// keep their defaults, so dragging is enabled unless turned off.
func Parse(data []byte) (*Scenario, error) {
	sc := &Scenario{Options: drag.DefaultOptions()}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks the scenario without running it.
func (sc *Scenario) Validate() error {
	if sc.Element == "" {
		return fmt.Errorf("%w: no element", ErrInvalidScenario)
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}

	s, err := scene.New(sc.Nodes...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if _, err := s.Node(sc.Element); err != nil {
		return fmt.Errorf("%w: element: %w", ErrInvalidScenario, err)
	}
	if sc.Boundary != "" {
		if _, err := s.Node(sc.Boundary); err != nil {
			return fmt.Errorf("%w: boundary: %w", ErrInvalidScenario, err)
		}
	}

	for i, st := range sc.Steps {
		if !st.Action.valid() {
			return fmt.Errorf("%w: step %d: unknown action %q", ErrInvalidScenario, i+1, st.Action)
		}
		if st.Action == ActionOptions && st.Options == nil {
			return fmt.Errorf("%w: step %d: options action without options", ErrInvalidScenario, i+1)
		}
		if st.Expect != nil {
			for _, e := range st.Expect.Edges {
				if !validEdge(e) {
					return fmt.Errorf("%w: step %d: unknown edge %q", ErrInvalidScenario, i+1, e)
				}
			}
		}
	}
	return nil
}

func validEdge(e string) bool {
	switch e {
	case "top", "right", "bottom", "left":
		return true
	}
	return false
}
