package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
	"github.com/dragdom/dragdom/internal/scene"
)

// Report is the result of a replay.
type Report struct {
	Name   string       `json:"name"`
	Steps  []StepReport `json:"steps"`
	Events []drag.Event `json:"events"`

	// Final is the scene after the last step.
	Final scene.Document `json:"final"`

	// LastBounds is the most recent edge result, nil if no check ran.
	LastBounds *engine.BoundsCheckResult `json:"lastBounds,omitempty"`
}

// StepReport records what one step produced.
type StepReport struct {
	Index    int          `json:"index"`
	Action   Action       `json:"action"`
	Outcome  drag.Outcome `json:"outcome"`
	Moving   bool         `json:"moving"`
	Failures []string     `json:"failures,omitempty"`
}

// Passed reports whether every expectation held.
func (r Report) Passed() bool {
	for _, st := range r.Steps {
		if len(st.Failures) > 0 {
			return false
		}
	}
	return true
}

// Failures flattens the failed expectations of all steps.
func (r Report) Failures() []string {
	var out []string
	for _, st := range r.Steps {
		for _, f := range st.Failures {
			out = append(out, fmt.Sprintf("step %d (%s): %s", st.Index, st.Action, f))
		}
	}
	return out
}

// Run replays sc. Effects are applied to the scene before the next step
// measures it, as a host would restyle the element between input events.
// Failed expectations are recorded in the report, not returned as errors.
func Run(ctx context.Context, sc *Scenario, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := sc.Validate(); err != nil {
		return Report{}, err
	}

	s, err := scene.New(sc.Nodes...)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	report := Report{Name: sc.Name}
	var applyErr error

	listener := drag.ListenerFuncs{
		Effect: func(e drag.Effect) {
			if err := s.Apply(sc.Element, e); err != nil && applyErr == nil {
				applyErr = err
			}
		},
		Event: func(e drag.Event) {
			report.Events = append(report.Events, e)
			if e.Kind == drag.EventEdge {
				report.LastBounds = e.Bounds
			}
		},
	}
	d := drag.NewDraggable(sc.Element, sc.Options, listener, logger)

	logger.Info("replaying scenario", "name", sc.Name, "steps", len(sc.Steps))

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		frame, err := s.Frame(sc.Element, sc.Boundary)
		if err != nil {
			return report, err
		}

		var out drag.Outcome
		switch st.Action {
		case ActionPickUp:
			target := st.Target
			if target == "" {
				target = sc.Element
			}
			out = d.PickUp(frame, drag.Pointer{Position: st.At, Target: target, Button: st.Button})
		case ActionMove:
			out = d.Move(frame, drag.Pointer{Position: st.At, Target: st.Target})
		case ActionLeave:
			out = d.Leave(frame)
		case ActionPutBack:
			out = d.PutBack(frame)
		case ActionReset:
			out = d.Reset()
		case ActionOptions:
			d.SetOptions(*st.Options)
		}

		if applyErr != nil {
			return report, fmt.Errorf("step %d: apply effect: %w", i+1, applyErr)
		}

		sr := StepReport{Index: i + 1, Action: st.Action, Outcome: out, Moving: d.IsMoving()}
		if st.Expect != nil {
			node, _ := s.Node(sc.Element)
			sr.Failures = st.Expect.check(out, d.IsMoving(), node.Translation)
		}
		for _, f := range sr.Failures {
			logger.Warn("expectation failed", "step", sr.Index, "action", st.Action, "failure", f)
		}
		report.Steps = append(report.Steps, sr)
	}

	report.Final = s.Document()
	return report, nil
}

const translationTolerance = 1e-6

func (e *Expect) check(out drag.Outcome, moving bool, translation geometry.Point) []string {
	var failures []string

	if e.Events != nil {
		got := make([]drag.EventKind, len(out.Events))
		for i, ev := range out.Events {
			got[i] = ev.Kind
		}
		if !slices.Equal(got, e.Events) {
			failures = append(failures, fmt.Sprintf("events %v, want %v", got, e.Events))
		}
	}

	if e.Translation != nil && !translation.ApproxEqual(*e.Translation, translationTolerance) {
		failures = append(failures, fmt.Sprintf("translation %v, want %v", translation, *e.Translation))
	}

	if e.Moving != nil && moving != *e.Moving {
		failures = append(failures, fmt.Sprintf("moving %v, want %v", moving, *e.Moving))
	}

	if e.Edges != nil {
		got := edgesOf(lastBounds(out))
		want := slices.Clone(e.Edges)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			failures = append(failures, fmt.Sprintf("edges %v, want %v", got, want))
		}
	}

	return failures
}

func lastBounds(out drag.Outcome) *engine.BoundsCheckResult {
	for i := len(out.Events) - 1; i >= 0; i-- {
		if out.Events[i].Kind == drag.EventEdge {
			return out.Events[i].Bounds
		}
	}
	return nil
}

// edgesOf lists the crossed edges in sorted order.
func edgesOf(r *engine.BoundsCheckResult) []string {
	edges := []string{}
	if r == nil {
		return edges
	}
	if r.Bottom {
		edges = append(edges, "bottom")
	}
	if r.Left {
		edges = append(edges, "left")
	}
	if r.Right {
		edges = append(edges, "right")
	}
	if r.Top {
		edges = append(edges, "top")
	}
	return edges
}
