package engine

import (
	"encoding/json"

	"github.com/dragdom/dragdom/internal/geometry"
)

// BoundsCheckResult is the verdict of one bounds evaluation. It is built
// fresh on every move or release and never modified afterwards.
type BoundsCheckResult struct {
	Top    bool `json:"top"`
	Right  bool `json:"right"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`

	// ConstrainedCenter is where the element's center should sit, in screen
	// space, once the constraint is applied.
	ConstrainedCenter *geometry.Point `json:"constrainedCenter"`

	// Translation is the delta from the drag-start center to the
	// constrained center, measured in the boundary's normalized space.
	Translation geometry.Point `json:"translation"`

	IsConstrained bool `json:"isConstrained"`
}

// HasCollision reports whether any edge was crossed.
func (r BoundsCheckResult) HasCollision() bool {
	return r.Top || r.Right || r.Bottom || r.Left
}

// MarshalJSON adds the derived hasCollision field.
func (r BoundsCheckResult) MarshalJSON() ([]byte, error) {
	type plain BoundsCheckResult
	return json.Marshal(struct {
		plain
		HasCollision bool `json:"hasCollision"`
	}{plain: plain(r), HasCollision: r.HasCollision()})
}
