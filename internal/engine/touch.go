package engine

import (
	"math"

	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/registry"
)

// TouchStart begins an emulated touch drag on el. Touch has no native drag
// protocol, so the engine gates the session behind the parent's long-press
// timer (when LongTouch is set) and afterwards polls the element under the
// finger to synthesize the same canonical over events native drag produces.
//
// The armed timer is a cancelable resource tracked on the touched node, so
// a node torn down mid-press releases it.
func (e *Engine) TouchStart(el *dom.Element, pos dom.Point) error {
	n, p, err := e.resolveStart(el)
	if err != nil {
		return err
	}
	if e.pending != nil {
		return newDragError(ErrCodeSessionActive, "a touch gesture is already pending")
	}

	rect := n.El.Rect()
	touch := &TouchState{
		TouchedNode: n,
		StartLeft:   pos.X - rect.X,
		StartTop:    pos.Y - rect.Y,
	}

	if !p.Config.LongTouch {
		// Long press disabled: move tracking begins immediately.
		return e.startSession(n, p, pos, touch)
	}

	pend := &pendingTouch{node: n, parent: p, pos: pos}
	timer := e.sched.AfterFunc(p.Config.LongTouchTimeout, func() {
		e.fireLongPress(pend, touch)
	})
	pend.timer = timer
	touch.LongPressTimer = timer
	n.AddCancel(func() {
		timer.Stop()
		if e.pending == pend {
			e.pending = nil
		}
	})
	e.pending = pend

	e.log.Debug("long press armed",
		"parent", p.Config.Name,
		"timeout", p.Config.LongTouchTimeout,
	)
	return nil
}

// fireLongPress opens the session once the long-press gate elapses.
func (e *Engine) fireLongPress(pend *pendingTouch, touch *TouchState) {
	if e.pending != pend {
		return // canceled by movement, touch end, or teardown
	}
	e.pending = nil
	if !e.reg.HasNode(pend.node) || !e.reg.HasParent(pend.parent) {
		return
	}
	touch.LongPress = true
	if c := pend.parent.Config.LongTouchClass; c != "" {
		pend.node.AddPrivateClass(c)
	}
	if err := e.startSession(pend.node, pend.parent, pend.pos, touch); err != nil {
		e.log.Debug("long press start rejected", "error", err)
	}
}

// TouchMove tracks finger movement.
//
// Before the long press fires, movement beyond the slop is a scroll: the
// pending gesture is canceled and no session ever starts. After the session
// opens, each move repositions the display clone and polls the element under
// the finger, dispatching canonical over events.
func (e *Engine) TouchMove(pos dom.Point) {
	if s := e.session; s != nil && s.IsTouch() {
		s.Touch.Moving = true
		e.moveClones(s, pos)
		e.dispatchOver(e.doc.ElementAt(pos), pos)
		return
	}

	pend := e.pending
	if pend == nil {
		return
	}
	dx := pos.X - pend.pos.X
	dy := pos.Y - pend.pos.Y
	if math.Abs(dx) > e.touchSlop || math.Abs(dy) > e.touchSlop {
		pend.timer.Stop()
		e.pending = nil
		e.log.Debug("long press canceled by movement")
	}
}

// TouchEnd closes the gesture: a pending long press is disarmed, a live
// session ends exactly like a native drag end.
func (e *Engine) TouchEnd(pos dom.Point) {
	if pend := e.pending; pend != nil {
		pend.timer.Stop()
		e.pending = nil
		return
	}
	if s := e.session; s != nil && s.IsTouch() {
		e.endSession(pos)
	}
}

// setupTouchArtifacts creates the per-session touch scaffolding: a detached
// display clone per dragged node (hosts render these under the finger; they
// are never mounted for hit-testing), the scroll lock on the nearest
// scrollable ancestor, and the saved display of the touched element.
func (e *Engine) setupTouchArtifacts(s *Session, n *registry.Node, p *registry.Parent) {
	for _, d := range s.DraggedNodes {
		clone := e.doc.CreateElement(d.El.Tag())
		clone.SetRect(d.El.Rect())
		if c := p.Config.TouchDraggingClass; c != "" {
			clone.AddClass(c)
		}
		s.ClonedDraggedEls = append(s.ClonedDraggedEls, clone)
	}

	s.Touch.SavedDisplay = n.El.Attr("display")

	if sp := scrollParentOf(p.El); sp != nil {
		s.Touch.ScrollParent = sp
		s.Touch.SavedOverflow = sp.Attr("overflow")
		sp.SetAttr("overflow", "hidden")
	}
}

// moveClones repositions the display clones so the touched element's clone
// stays under the finger at its original press offset.
func (e *Engine) moveClones(s *Session, pos dom.Point) {
	left := pos.X - s.Touch.StartLeft
	top := pos.Y - s.Touch.StartTop
	for i, clone := range s.ClonedDraggedEls {
		r := clone.Rect()
		r.X = left
		r.Y = top + float64(i)*r.Height
		clone.SetRect(r)
	}
}

// tearDownTouchArtifacts restores everything setupTouchArtifacts touched.
func (e *Engine) tearDownTouchArtifacts(s *Session) {
	if s.Touch == nil {
		return
	}
	if t := s.Touch.LongPressTimer; t != nil {
		t.Stop()
	}
	if sp := s.Touch.ScrollParent; sp != nil {
		sp.SetAttr("overflow", s.Touch.SavedOverflow)
	}
	if n := s.Touch.TouchedNode; n != nil {
		n.El.SetAttr("display", s.Touch.SavedDisplay)
	}
	s.ClonedDraggedEls = nil
}

// scrollParentOf walks up to the nearest ancestor declaring scrollable
// overflow.
func scrollParentOf(el *dom.Element) *dom.Element {
	for cur := el; cur != nil; cur = cur.Parent() {
		switch cur.Attr("overflow") {
		case "scroll", "auto":
			return cur
		}
	}
	return nil
}
