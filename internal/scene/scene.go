// Package scene stands in for the live UI tree: it holds measured element
// geometry and answers the questions the drag engine must not ask a UI
// directly (inherited rotation, current translation, which shape is the
// boundary).
package scene

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dragdom/dragdom/internal/drag"
	"github.com/dragdom/dragdom/internal/engine"
	"github.com/dragdom/dragdom/internal/geometry"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrInvalidScene = errors.New("invalid scene")
)

// Node is one element of the tree.
type Node struct {
	ID     string `json:"id" yaml:"id"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`

	// Center is the measured screen-space center without the node's own
	// translation.
	Center geometry.Point `json:"center" yaml:"center"`
	Width  float64        `json:"width" yaml:"width"`
	Height float64        `json:"height" yaml:"height"`

	// Rotation is the node's own rotation in degrees.
	Rotation    float64        `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Translation geometry.Point `json:"translation" yaml:"translation"`

	// Transform, when set, is a computed transform such as
	// "matrix(0.7071, 0.7071, -0.7071, 0.7071, 10, 0)". Rotation and
	// Translation are derived from it and kept in sync on updates.
	Transform string `json:"transform,omitempty" yaml:"transform,omitempty"`

	ZIndex int `json:"zIndex,omitempty" yaml:"zIndex,omitempty"`
}

// Document is the serialized form of a scene.
type Document struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
}

// Scene is a validated node tree. It is not safe for concurrent use.
type Scene struct {
	nodes map[string]*Node
	order []string

	// savedZ remembers z-indexes replaced by an elevate effect.
	savedZ map[string]int
}

// New validates nodes and builds a scene. Ids must be unique, parents must
// exist and the parent chain must not loop.
func New(nodes ...Node) (*Scene, error) {
	s := &Scene{
		nodes:  make(map[string]*Node, len(nodes)),
		savedZ: make(map[string]int),
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node %d has no id", ErrInvalidScene, i)
		}
		if _, dup := s.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrInvalidScene, n.ID)
		}
		if n.Transform != "" {
			m, err := geometry.ParseCSSMatrix(n.Transform)
			if err != nil {
				return nil, fmt.Errorf("%w: node %q: %w", ErrInvalidScene, n.ID, err)
			}
			n.Rotation = m.RotationDegrees()
			n.Translation = m.Translation()
		}
		s.nodes[n.ID] = &n
		s.order = append(s.order, n.ID)
	}

	for _, id := range s.order {
		n := s.nodes[id]
		if n.Parent == "" {
			continue
		}
		if _, ok := s.nodes[n.Parent]; !ok {
			return nil, fmt.Errorf("%w: node %q has unknown parent %q", ErrInvalidScene, id, n.Parent)
		}
		if err := s.checkCycle(id); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scene) checkCycle(id string) error {
	seen := map[string]bool{}
	for cur := id; cur != ""; cur = s.nodes[cur].Parent {
		if seen[cur] {
			return fmt.Errorf("%w: parent cycle through %q", ErrInvalidScene, id)
		}
		seen[cur] = true
	}
	return nil
}

// Parse reads a Document from YAML or JSON.
func Parse(data []byte) (*Scene, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	return New(doc.Nodes...)
}

// Document returns the scene's current state in declaration order.
func (s *Scene) Document() Document {
	doc := Document{Nodes: make([]Node, 0, len(s.order))}
	for _, id := range s.order {
		doc.Nodes = append(doc.Nodes, *s.nodes[id])
	}
	return doc
}

// Node returns a copy of the node with the given id.
func (s *Scene) Node(id string) (Node, error) {
	n, err := s.lookup(id)
	if err != nil {
		return Node{}, err
	}
	return *n, nil
}

func (s *Scene) lookup(id string) (*Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	return n, nil
}

// TotalRotation sums the rotation of the node and all of its ancestors.
func (s *Scene) TotalRotation(id string) (float64, error) {
	n, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	total := n.Rotation
	for p := n.Parent; p != ""; p = s.nodes[p].Parent {
		total += s.nodes[p].Rotation
	}
	return total, nil
}

// ParentRotation is TotalRotation of the node's parent, zero for a root.
func (s *Scene) ParentRotation(id string) (float64, error) {
	n, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	if n.Parent == "" {
		return 0, nil
	}
	return s.TotalRotation(n.Parent)
}

// Shape resolves the node's displayed geometry. Its translation lives in
// the parent's rotated space, so it is turned by the parent rotation before
// being added to the center.
func (s *Scene) Shape(id string) (engine.Shape, error) {
	n, err := s.lookup(id)
	if err != nil {
		return engine.Shape{}, err
	}
	total, _ := s.TotalRotation(id)
	parent, _ := s.ParentRotation(id)

	offset := geometry.RotatePoint(n.Translation, geometry.Point{}, parent)
	return engine.Shape{
		Center:   n.Center.Add(offset),
		Width:    n.Width,
		Height:   n.Height,
		Rotation: total,
	}, nil
}

// Frame gathers what a drag transition needs for elementID. An empty
// boundaryID means no boundary.
func (s *Scene) Frame(elementID, boundaryID string) (drag.Frame, error) {
	el, err := s.Shape(elementID)
	if err != nil {
		return drag.Frame{}, err
	}
	parent, _ := s.ParentRotation(elementID)

	f := drag.Frame{
		Element:        el,
		ParentRotation: parent,
		Translation:    s.nodes[elementID].Translation,
	}
	if boundaryID != "" {
		b, err := s.Shape(boundaryID)
		if err != nil {
			return drag.Frame{}, fmt.Errorf("boundary: %w", err)
		}
		f.Boundary = &b
	}
	return f, nil
}

// SetTranslation replaces the node's translation, keeping its transform
// string in step.
func (s *Scene) SetTranslation(id string, t geometry.Point) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.Translation = t
	if n.Transform != "" {
		m, err := geometry.ParseCSSMatrix(n.Transform)
		if err != nil {
			return err
		}
		n.Transform = m.WithTranslation(t).CSS()
	}
	return nil
}

// Apply carries out a drag effect on the node, the way a browser host
// would restyle the element.
func (s *Scene) Apply(id string, e drag.Effect) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}

	switch e.Kind {
	case drag.EffectElevate:
		if _, saved := s.savedZ[id]; !saved {
			s.savedZ[id] = n.ZIndex
		}
		n.ZIndex = e.ZIndex
	case drag.EffectRestore:
		if z, saved := s.savedZ[id]; saved {
			n.ZIndex = z
			delete(s.savedZ, id)
		}
	case drag.EffectTranslate:
		return s.SetTranslation(id, e.Translation)
	case drag.EffectClearTransform:
		return s.SetTranslation(id, geometry.Point{})
	default:
		return fmt.Errorf("unknown effect %q", e.Kind)
	}
	return nil
}

// SetRotation replaces the node's own rotation, keeping its transform
// string in step.
func (s *Scene) SetRotation(id string, degrees float64) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.Rotation = degrees
	if n.Transform != "" {
		n.Transform = geometry.NewMatrix(degrees, n.Translation).CSS()
	}
	return nil
}
