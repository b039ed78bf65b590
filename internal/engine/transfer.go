package engine

import (
	"github.com/RHellenes/drag-and-drop/internal/registry"
)

// transfer moves the dragged value(s) and element(s) from the session's
// last parent into target at the resolved index.
//
// Admission: the target's group must equal the current group, unless the
// target supplies an Accepts predicate - a supplied predicate always decides,
// overriding group comparison in both directions. Rejection is a normal
// outcome: the drop snaps back and no collection is mutated.
//
// A committed transfer moves the whole dragged set as one contiguous block,
// preserving relative order, and raises preventEnter until the mutation
// watch confirms settlement.
func (e *Engine) transfer(target *registry.Parent, toIndex int) {
	s := e.session
	from := s.LastParent

	if !e.accepted(target) {
		e.log.Debug("transfer rejected",
			"from", parentName(from),
			"to", parentName(target),
			"group", target.Config.Group,
		)
		s.state = StateDragging
		return
	}

	// Re-validate every dragged node; external re-rendering may have torn
	// some down mid-drag. Vanished nodes drop out of the move gracefully.
	dragged := make([]*registry.Node, 0, len(s.DraggedNodes))
	for _, n := range s.DraggedNodes {
		if e.reg.HasNode(n) && e.reg.OwnerOf(n) == from {
			dragged = append(dragged, n)
		}
	}
	if len(dragged) == 0 {
		s.state = StateDragging
		return
	}
	s.DraggedNodes = dragged

	toIndex = clamp(toIndex, 0, target.NodeCount())

	if target.Config.PerformTransfer != nil {
		target.Config.PerformTransfer(registry.TransferRequest{
			From:    from,
			To:      target,
			Dragged: dragged,
			ToIndex: toIndex,
		})
	} else {
		e.commitTransfer(from, target, dragged, toIndex)
	}

	s.LastParent = target
	s.TargetIndex = toIndex
	s.PreventEnter = true
	s.lastSortKey = ""

	e.log.Info("transfer committed",
		"from", parentName(from),
		"to", parentName(target),
		"index", toIndex,
		"moved", len(dragged),
	)
}

// accepted applies the group/accepts admission rule for the live session.
func (e *Engine) accepted(target *registry.Parent) bool {
	s := e.session
	if fn := target.Config.Accepts; fn != nil {
		return fn(target, s.InitialParent, s.LastParent, s.DraggedNodes)
	}
	return target.Config.Group == s.LastParent.Config.Group
}

// commitTransfer applies the built-in transfer: remove the dragged values
// from the source collection, insert them as a contiguous block into the
// destination, reparent the elements, and move record ownership. Both
// setters run synchronously before the handler returns.
func (e *Engine) commitTransfer(from, to *registry.Parent, dragged []*registry.Node, toIndex int) {
	moved := make([]any, len(dragged))
	taken := make(map[int]bool, len(dragged))
	for i, n := range dragged {
		moved[i] = n.Value
		taken[n.Index] = true
	}

	fromValues := from.Values()
	remaining := make([]any, 0, len(fromValues))
	for i, v := range fromValues {
		if !taken[i] {
			remaining = append(remaining, v)
		}
	}

	toValues := to.Values()
	if toIndex > len(toValues) {
		toIndex = len(toValues)
	}
	inserted := make([]any, 0, len(toValues)+len(moved))
	inserted = append(inserted, toValues[:toIndex]...)
	inserted = append(inserted, moved...)
	inserted = append(inserted, toValues[toIndex:]...)

	from.CommitValues(remaining)
	to.CommitValues(inserted)

	// Reparent the elements at the matching child position, then move
	// record ownership so reconciliation reuses the records instead of
	// tearing them down.
	childIdx := to.El.ChildCount()
	if anchor := to.NodeAt(toIndex); anchor != nil {
		childIdx = to.El.IndexOf(anchor.El)
	}
	for i, n := range dragged {
		to.El.InsertChild(childIdx+i, n.El)
		e.reg.Adopt(n, to)
	}
	e.reg.Reconcile(from)
	e.reg.Reconcile(to)

	if to.Config.OnTransfer != nil {
		to.Config.OnTransfer(registry.TransferEvent{
			From:   from,
			To:     to,
			Values: moved,
			Index:  toIndex,
		})
	}
}
