package engine

import (
	"io"
	"log/slog"

	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/registry"
)

// Engine owns the drag state machine for one UI context.
//
// The Engine holds the registry of parents and nodes, the single session
// slot, and the input normalizer. Hosts deliver raw pointer input through
// DragStart/DragOver/DragEnd and TouchStart/TouchMove/TouchEnd; everything
// downstream runs on the canonical event vocabulary.
type Engine struct {
	doc   *dom.Document
	reg   *registry.Registry
	clock *Clock
	sched Scheduler
	log   *slog.Logger
	trace func(PointerEvent)

	session  *Session
	pending  *pendingTouch
	selected map[string]bool // node element IDs marked for multi-drag

	// TouchSlop is how far a touch may wander before the long-press gate
	// fires without canceling the gesture.
	touchSlop float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler replaces the long-press scheduler. Tests use the manual
// scheduler from internal/testutil.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithLogger sets the structured logger. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithClock replaces the logical clock.
func WithClock(c *Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithTrace registers an observer for every canonical event the normalizer
// produces. The harness records traces through this.
func WithTrace(fn func(PointerEvent)) Option {
	return func(e *Engine) { e.trace = fn }
}

// DefaultTouchSlop is the movement tolerance, in host units, before an
// unfired long press is treated as a scroll and canceled.
const DefaultTouchSlop = 10.0

// New creates an Engine over the given document.
func New(doc *dom.Document, opts ...Option) *Engine {
	e := &Engine{
		doc:       doc,
		clock:     NewClock(),
		sched:     NewScheduler(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		selected:  make(map[string]bool),
		touchSlop: DefaultTouchSlop,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reg = registry.New(e.log)
	return e
}

// Registry exposes the underlying record table for lookups.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Document returns the document the engine observes.
func (e *Engine) Document() *dom.Document { return e.doc }

// Clock returns the engine's logical clock.
func (e *Engine) Clock() *Clock { return e.clock }

// Session returns the live session, or nil when idle.
func (e *Engine) Session() *Session { return e.session }

// State returns the state machine position.
func (e *Engine) State() State {
	if e.session == nil {
		return StateIdle
	}
	return e.session.state
}

// RegisterParent registers a container with its value accessors and config,
// and attaches the mutation watch: any child-list change on the element,
// self-inflicted or external, reconciles the registry bookkeeping on the
// next Document.Flush and clears preventEnter.
func (e *Engine) RegisterParent(el *dom.Element, get registry.ValuesGetter, set registry.ValuesSetter, cfg registry.Config) (*registry.Parent, error) {
	p, err := e.reg.Register(el, get, set, cfg)
	if err != nil {
		return nil, err
	}
	cancel := e.doc.Observe(el, func(dom.MutationRecord) {
		e.reconcile(p)
	})
	p.AddCancel(cancel)
	return p, nil
}

// DeregisterParent tears down a parent. A live session involving the parent
// is canceled first so no timer or class bookkeeping leaks.
func (e *Engine) DeregisterParent(el *dom.Element) {
	p := e.reg.ParentFor(el)
	if p == nil {
		return
	}
	if s := e.session; s != nil && (s.InitialParent == p || s.LastParent == p) {
		e.endSession(dom.Point{})
	}
	e.reg.Deregister(el)
}

// reconcile runs the mutation-watch reaction for one parent.
func (e *Engine) reconcile(p *registry.Parent) {
	e.reg.Reconcile(p)
	if e.session != nil && e.session.PreventEnter {
		e.session.PreventEnter = false
		if e.session.state == StateTransitioningParent {
			e.session.state = StateDragging
		}
		e.log.Debug("mutation settled, sorting re-enabled",
			"parent", p.Config.Name,
		)
	}
}

// Select marks a node element for multi-drag. A later start on any selected
// node drags the parent's whole selection as one block.
func (e *Engine) Select(el *dom.Element) error {
	if n := e.reg.NodeFor(el); n == nil {
		return newDragError(ErrCodeNoTarget, "element is not an enabled node")
	}
	e.selected[el.ID()] = true
	return nil
}

// Deselect removes a node element from the selection.
func (e *Engine) Deselect(el *dom.Element) {
	delete(e.selected, el.ID())
}

// ClearSelection empties the multi-drag selection.
func (e *Engine) ClearSelection() {
	e.selected = make(map[string]bool)
}

// DragStart opens a session from native drag input. The press element may
// be any descendant of a node; guards are the disabled flag, the draggable
// predicate (already applied by reconciliation), the Root scope, and the
// drag-handle selector at any depth.
func (e *Engine) DragStart(el *dom.Element, pos dom.Point) error {
	n, p, err := e.resolveStart(el)
	if err != nil {
		return err
	}
	return e.startSession(n, p, pos, nil)
}

// DragOver feeds native drag movement. The element is resolved against the
// registry and dispatched as a canonical over-node or over-parent event.
// No-op when no session is live.
func (e *Engine) DragOver(el *dom.Element, pos dom.Point) {
	if e.session == nil {
		return
	}
	e.dispatchOver(el, pos)
}

// DragEnd closes the session: commits are already applied eagerly, so the
// end handler only finalizes bookkeeping and destroys the session.
// No-op when no session is live.
func (e *Engine) DragEnd(pos dom.Point) {
	if e.session == nil {
		return
	}
	e.endSession(pos)
}

// resolveStart maps a pressed element to its node and parent, applying the
// start guards.
func (e *Engine) resolveStart(el *dom.Element) (*registry.Node, *registry.Parent, error) {
	if e.session != nil {
		return nil, nil, newDragError(ErrCodeSessionActive, "a drag session is already live")
	}
	n, p := e.reg.NodeForClosest(el)
	if n == nil || p == nil {
		return nil, nil, newDragError(ErrCodeNoTarget, "press did not land on an enabled node")
	}
	cfg := p.Config
	if cfg.Disabled {
		return nil, nil, newDragError(ErrCodeParentDisabled, "parent %q is disabled", cfg.Name)
	}
	if cfg.Root != nil && !cfg.Root.Contains(el) {
		return nil, nil, newDragError(ErrCodeOutOfScope, "press outside parent root scope")
	}
	if cfg.DragHandle != "" {
		h := el.Closest(cfg.DragHandle)
		if h == nil || !n.El.Contains(h) {
			return nil, nil, newDragError(ErrCodeHandleRequired, "press outside drag handle %q", cfg.DragHandle)
		}
	}
	return n, p, nil
}

// startSession builds the session and emits the canonical start event.
// touch is non-nil for emulated touch sessions.
func (e *Engine) startSession(n *registry.Node, p *registry.Parent, pos dom.Point, touch *TouchState) error {
	dragged := e.draggedSet(n, p)
	lead := dragged[0]

	s := &Session{
		DraggedNodes:  dragged,
		ActiveNode:    n,
		InitialParent: p,
		LastParent:    p,
		InitialIndex:  lead.Index,
		TargetIndex:   lead.Index,
		Touch:         touch,
		state:         StateDragging,
	}

	s.OriginalZIndex = n.El.Attr("z-index")
	n.El.SetAttr("z-index", "9999")

	draggingClass := p.Config.DraggingClass
	dropZoneClass := p.Config.DropZoneClass
	if touch != nil {
		if p.Config.TouchDraggingClass != "" {
			draggingClass = p.Config.TouchDraggingClass
		}
		if p.Config.TouchDropZoneClass != "" {
			dropZoneClass = p.Config.TouchDropZoneClass
		}
	}
	for _, d := range dragged {
		if draggingClass != "" {
			d.AddPrivateClass(draggingClass)
		}
	}
	if dropZoneClass != "" {
		p.El.AddClass(dropZoneClass)
	}

	if touch != nil {
		e.setupTouchArtifacts(s, n, p)
	}

	e.session = s
	e.emit(PointerEvent{
		Kind:   KindStart,
		Seq:    e.clock.Next(),
		Touch:  touch != nil,
		Pos:    pos,
		Node:   n,
		Parent: p,
	})

	e.log.Info("session started",
		"parent", p.Config.Name,
		"index", lead.Index,
		"dragged", len(dragged),
		"touch", touch != nil,
	)
	return nil
}

// draggedSet resolves the dragged nodes for a press: the parent's selected
// nodes in index order when the pressed node is part of the selection,
// otherwise just the pressed node.
func (e *Engine) draggedSet(n *registry.Node, p *registry.Parent) []*registry.Node {
	if !e.selected[n.El.ID()] {
		return []*registry.Node{n}
	}
	var set []*registry.Node
	for _, cand := range p.Nodes() {
		if e.selected[cand.El.ID()] {
			set = append(set, cand)
		}
	}
	if len(set) == 0 {
		return []*registry.Node{n}
	}
	return set
}

// dispatchOver resolves a hit element and routes the canonical over event.
func (e *Engine) dispatchOver(el *dom.Element, pos dom.Point) {
	if el == nil {
		return
	}
	if n, owner := e.reg.NodeForClosest(el); n != nil {
		e.emit(PointerEvent{
			Kind:   KindOverNode,
			Seq:    e.clock.Next(),
			Touch:  e.session.IsTouch(),
			Pos:    pos,
			Node:   n,
			Parent: owner,
		})
		e.overNode(n, owner, pos)
		return
	}
	if p := e.reg.ParentForClosest(el); p != nil {
		e.emit(PointerEvent{
			Kind:   KindOverParent,
			Seq:    e.clock.Next(),
			Touch:  e.session.IsTouch(),
			Pos:    pos,
			Parent: p,
		})
		e.overParent(p, pos)
	}
}

// overNode handles a canonical over-node event: transfer when the target's
// owner differs from the session's last parent, sort otherwise.
func (e *Engine) overNode(n *registry.Node, owner *registry.Parent, pos dom.Point) {
	s := e.session
	// Stale-record tolerance: external re-rendering may have removed either
	// record between hit-test and dispatch.
	if !e.reg.HasNode(n) || !e.reg.HasParent(owner) {
		return
	}
	if !e.reg.HasParent(s.LastParent) {
		// The dragged nodes lost their parent mid-drag; nothing sane to
		// resolve against until the session ends.
		return
	}
	if s.PreventEnter {
		// A transfer committed and the mutation watch has not confirmed
		// settlement yet; suppress all resolution until it does.
		return
	}

	if owner != s.LastParent {
		s.state = StateTransitioningParent
		e.transfer(owner, n.Index)
		return
	}

	if s.dragging(n) {
		// Self-hover is a no-op but still counts as pointer presence.
		return
	}
	if !owner.Config.Sortable {
		return
	}
	e.sort(n, owner, pos)
}

// overParent handles a canonical over-parent event. Entering a different
// parent's own area transfers to its tail; hovering the current parent's
// empty space is a no-op.
func (e *Engine) overParent(p *registry.Parent, pos dom.Point) {
	s := e.session
	if !e.reg.HasParent(p) || !e.reg.HasParent(s.LastParent) {
		return
	}
	if s.PreventEnter || p == s.LastParent {
		return
	}
	// Parents with nodes take transfers through over-node events; the bare
	// parent area is a target only for declared drop zones or empty lists.
	if !p.Config.DropZone && p.NodeCount() > 0 {
		return
	}
	s.state = StateTransitioningParent
	e.transfer(p, p.NodeCount())
}

// endSession finalizes and destroys the session, returning the engine to
// idle. Collection state is already committed by the resolvers; this only
// unwinds session-scoped bookkeeping, exhaustively.
func (e *Engine) endSession(pos dom.Point) {
	s := e.session
	s.state = StateEnding

	e.emit(PointerEvent{
		Kind:   KindEnd,
		Seq:    e.clock.Next(),
		Touch:  s.IsTouch(),
		Pos:    pos,
		Node:   s.ActiveNode,
		Parent: s.LastParent,
	})

	if s.ActiveNode != nil {
		if s.OriginalZIndex == "" {
			s.ActiveNode.El.SetAttr("z-index", "")
		} else {
			s.ActiveNode.El.SetAttr("z-index", s.OriginalZIndex)
		}
	}
	for _, d := range s.DraggedNodes {
		d.StripPrivateClasses()
		d.ReleaseCancels()
	}
	for _, p := range []*registry.Parent{s.InitialParent, s.LastParent} {
		if p == nil {
			continue
		}
		p.El.RemoveClass(p.Config.DropZoneClass, p.Config.TouchDropZoneClass)
	}
	e.tearDownTouchArtifacts(s)

	e.session = nil
	e.log.Info("session ended",
		"final_parent", parentName(s.LastParent),
		"target_index", s.TargetIndex,
	)
}

// emit forwards a canonical event to the trace observer and debug log.
func (e *Engine) emit(ev PointerEvent) {
	if e.trace != nil {
		e.trace(ev)
	}
	e.log.Debug("canonical event",
		"kind", ev.Kind.String(),
		"seq", ev.Seq,
		"touch", ev.Touch,
		"parent", parentName(ev.Parent),
	)
}

func parentName(p *registry.Parent) string {
	if p == nil {
		return ""
	}
	if p.Config.Name != "" {
		return p.Config.Name
	}
	return p.El.ID()
}
