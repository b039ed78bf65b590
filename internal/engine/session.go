package engine

import (
	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/registry"
)

// State is the session state machine position.
type State int

const (
	// StateIdle: no session exists.
	StateIdle State = iota
	// StateDragging: a session is live and the pointer is within the parent
	// it last sorted in.
	StateDragging
	// StateTransitioningParent: the last over-target belonged to a different
	// parent; a transfer has run and reconciliation is pending.
	StateTransitioningParent
	// StateEnding: the end handler is finalizing the session.
	StateEnding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateTransitioningParent:
		return "transitioning_parent"
	case StateEnding:
		return "ending"
	default:
		return "unknown"
	}
}

// Session is the single live drag. Created on a valid start, mutated by
// every subsequent canonical event, destroyed wholly on end. The engine owns
// exactly one slot; nothing outside the engine writes session state.
type Session struct {
	// DraggedNodes are the nodes moving in this session, in index order.
	// Multi-selection drags carry several; resolution runs against the
	// leading (lowest-index) element.
	DraggedNodes []*registry.Node

	// ActiveNode is the node the press landed on.
	ActiveNode *registry.Node

	// InitialParent is where the session started; LastParent tracks the
	// parent that currently owns the dragged nodes, updated on every
	// committed transfer.
	InitialParent *registry.Parent
	LastParent    *registry.Parent

	// InitialIndex is the leading node's index at session start.
	InitialIndex int

	// TargetIndex is the most recently resolved destination index.
	TargetIndex int

	// IncomingDirection is where the pointer entered the current sort
	// target; Ascending reports whether the resolved index exceeds the
	// dragged node's prior index.
	IncomingDirection Direction
	Ascending         bool

	// AffectedNodes is the contiguous range spanning the old and new
	// positions of the last committed sort.
	AffectedNodes []*registry.Node

	// SwappedNodeValue records the value exchanged by the last swap-policy
	// sort.
	SwappedNodeValue any

	// OriginalZIndex restores the active element's stacking order on end.
	OriginalZIndex string

	// PreventEnter suppresses sort side effects between a transfer commit
	// and the mutation reconciliation confirming DOM settlement. It is a
	// cooperative flag, not a lock.
	PreventEnter bool

	// ClonedDraggedEls are detached display clones created for touch drags.
	// They are never mounted for hit-testing; hosts render them under the
	// finger. Removed on session end.
	ClonedDraggedEls []*dom.Element

	// Touch is the touch superset, nil for native drags.
	Touch *TouchState

	// lastSortKey suppresses re-applying a sort when over events repeat on
	// an unchanged target and direction.
	lastSortKey string

	state State
}

// State returns the machine position for this session.
func (s *Session) State() State { return s.state }

// IsTouch reports whether the session came from emulated touch input.
func (s *Session) IsTouch() bool { return s.Touch != nil }

// leading returns the lowest-index dragged node still enabled, preferring
// the declared order. Multi-element resolution runs against this node.
func (s *Session) leading() *registry.Node {
	if len(s.DraggedNodes) == 0 {
		return nil
	}
	return s.DraggedNodes[0]
}

// dragging reports whether n is one of the session's dragged nodes.
func (s *Session) dragging(n *registry.Node) bool {
	for _, d := range s.DraggedNodes {
		if d == n {
			return true
		}
	}
	return false
}

// TouchState is the touch-session superset. Touch has no native drag
// protocol, so the engine tracks by hand what the platform would otherwise
// provide: long-press gating, the poll anchor, and the styling it temporarily
// overrides.
type TouchState struct {
	// Moving flips true on the first tracked move after the session opened.
	Moving bool

	// StartLeft/StartTop are the press offsets within the touched element,
	// used to position the display clone under the finger.
	StartLeft float64
	StartTop  float64

	// TouchedNode is the node the touch landed on.
	TouchedNode *registry.Node

	// LongPressTimer is the armed long-press handle; canceled on touch end
	// or node teardown.
	LongPressTimer TimerHandle

	// LongPress reports whether the long press fired for this session.
	LongPress bool

	// ScrollParent is the nearest scrollable ancestor whose overflow was
	// forced to hidden for the duration of the drag; SavedOverflow restores
	// it on end.
	ScrollParent  *dom.Element
	SavedOverflow string

	// SavedDisplay restores the touched element's display on end.
	SavedDisplay string
}

// pendingTouch is pre-session touch tracking: a press has landed but the
// long-press gate has not fired, so no session exists yet. A move beyond
// the slop before the timer fires cancels the whole gesture.
type pendingTouch struct {
	node   *registry.Node
	parent *registry.Parent
	pos    dom.Point
	timer  TimerHandle
}
