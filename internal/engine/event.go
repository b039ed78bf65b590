package engine

import (
	"fmt"

	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/registry"
)

// Kind tags a canonical pointer event.
type Kind int

const (
	// KindStart opens a session on a node.
	KindStart Kind = iota + 1
	// KindOverNode reports the pointer over an enabled node.
	KindOverNode
	// KindOverParent reports the pointer over a parent's own area.
	KindOverParent
	// KindEnd closes the session.
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindOverNode:
		return "over_node"
	case KindOverParent:
		return "over_parent"
	case KindEnd:
		return "end"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// PointerEvent is the canonical event vocabulary shared by native drag and
// emulated touch input. The normalizer produces these; nothing downstream
// branches on the raw input type - only on the Touch tag where class names
// differ.
type PointerEvent struct {
	Kind  Kind
	Seq   int64
	Touch bool
	Pos   dom.Point

	// Node and Parent identify the resolved target. Over-node events carry
	// both; over-parent events carry only Parent; start carries the pressed
	// node and its parent; end carries the session's last parent.
	Node   *registry.Node
	Parent *registry.Parent
}

// Direction is where the pointer entered a sort target relative to its
// center, split along the parent's dominant layout axis.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionAbove
	DirectionBelow
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case DirectionAbove:
		return "above"
	case DirectionBelow:
		return "below"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// after reports whether the direction places the dragged node past the
// target along the layout axis.
func (d Direction) after() bool {
	return d == DirectionBelow || d == DirectionRight
}
