package engine

import (
	"fmt"
	"math"

	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/registry"
)

// sort resolves a within-parent reorder for an over-node event and commits
// it when the pointer position calls for one.
//
// Resolution steps:
//  1. incoming direction from the pointer relative to the target's center,
//     split along the parent's dominant layout axis, with the configured
//     threshold fraction as a centered dead zone
//  2. destination index from the target index and direction, clamped
//  3. idempotence guard: an unchanged target/direction pair never re-applies
//  4. swap vs shift strictly per the configured SortPolicy
//  5. commit: values through the setter, elements through the child list,
//     indices re-derived by reconciliation
func (e *Engine) sort(target *registry.Node, owner *registry.Parent, pos dom.Point) {
	s := e.session
	cfg := owner.Config

	dir := incomingDirection(target.El.Rect(), pos, effectiveAxis(owner), cfg.Threshold)
	if dir == DirectionNone {
		// Inside the dead zone; suppress oscillation near the boundary.
		return
	}

	lead := s.leading()
	if !e.reg.HasNode(lead) || e.reg.OwnerOf(lead) != owner {
		return
	}
	from := lead.Index
	var to int
	if cfg.SortPolicy == registry.SortSwap && len(s.DraggedNodes) == 1 {
		// Swap exchanges with the hovered node itself; only the dead zone
		// gates it, not the entry side.
		to = target.Index
	} else {
		to = destinationIndex(from, target.Index, dir)
	}
	to = clamp(to, 0, owner.NodeCount()-1)
	if to == from {
		return
	}

	key := sortKey(target, dir)
	if s.lastSortKey == key {
		// Re-entering the same target without intervening movement across
		// the threshold must not re-trigger the sort.
		return
	}

	s.IncomingDirection = dir
	s.Ascending = to > from
	s.TargetIndex = to
	s.AffectedNodes = affectedRange(owner, from, to)
	if cfg.SortPolicy == registry.SortSwap {
		s.SwappedNodeValue = target.Value
	}

	if cfg.PerformSort != nil {
		cfg.PerformSort(registry.SortRequest{
			Parent:    owner,
			Dragged:   s.DraggedNodes,
			FromIndex: from,
			ToIndex:   to,
			Policy:    cfg.SortPolicy,
		})
	} else {
		e.commitSort(owner, from, to)
	}

	s.lastSortKey = key
	s.state = StateDragging

	e.log.Info("sort committed",
		"parent", cfg.Name,
		"from", from,
		"to", to,
		"direction", dir.String(),
		"policy", cfg.SortPolicy.String(),
	)
}

// commitSort applies the built-in sort: mutate a copy of the backing values,
// push the full sequence through the setter, mirror the order in the child
// list, and re-derive node indices synchronously. The queued mutation record
// re-reconciles on flush, which is idempotent.
//
// Swap policy exchanges exactly two entries and is defined for single-node
// drags; multi-selection always shifts as a contiguous block so relative
// order is preserved.
func (e *Engine) commitSort(owner *registry.Parent, from, to int) {
	s := e.session
	values := owner.Values()
	prev := append([]any(nil), values...)

	swap := owner.Config.SortPolicy == registry.SortSwap && len(s.DraggedNodes) == 1
	if swap {
		values[from], values[to] = values[to], values[from]
	} else {
		values = shiftBlock(values, draggedIndices(s.DraggedNodes), to)
	}

	owner.CommitValues(values)

	// Mirror the committed order in the DOM before reconciling so the node
	// list derives from child order, per the registry invariant.
	if swap {
		ci := owner.El.IndexOf(s.DraggedNodes[0].El)
		cj := owner.El.IndexOf(owner.NodeAt(to).El)
		owner.El.SwapChildren(ci, cj)
	} else {
		reorderChildren(owner, nodeOrderAfterShift(owner, draggedIndices(s.DraggedNodes), to))
	}
	e.reg.Reconcile(owner)

	if owner.Config.OnSort != nil {
		owner.Config.OnSort(registry.SortEvent{
			Parent:         owner,
			PreviousValues: prev,
			Values:         values,
			FromIndex:      from,
			ToIndex:        to,
		})
	}
}

// incomingDirection splits the pointer position around the target's center
// along the layout axis. The threshold fraction defines a centered dead
// zone: with threshold t, the middle t of the target's extent resolves to
// DirectionNone.
func incomingDirection(rect dom.Rect, pos dom.Point, axis registry.Axis, th registry.Threshold) Direction {
	if axis == registry.AxisHorizontal {
		delta := pos.X - rect.Center().X
		if math.Abs(delta) <= th.Horizontal*rect.Width/2 {
			return DirectionNone
		}
		if delta < 0 {
			return DirectionLeft
		}
		return DirectionRight
	}
	delta := pos.Y - rect.Center().Y
	if math.Abs(delta) <= th.Vertical*rect.Height/2 {
		return DirectionNone
	}
	if delta < 0 {
		return DirectionAbove
	}
	return DirectionBelow
}

// effectiveAxis resolves AxisAuto from node geometry: siblings offset mostly
// in X lay out horizontally. Fallback is vertical.
func effectiveAxis(p *registry.Parent) registry.Axis {
	if p.Config.Layout != registry.AxisAuto {
		return p.Config.Layout
	}
	a, b := p.NodeAt(0), p.NodeAt(1)
	if a == nil || b == nil {
		return registry.AxisVertical
	}
	dx := math.Abs(b.El.Rect().X - a.El.Rect().X)
	dy := math.Abs(b.El.Rect().Y - a.El.Rect().Y)
	if dx > dy {
		return registry.AxisHorizontal
	}
	return registry.AxisVertical
}

// destinationIndex derives where the dragged node should land when entering
// target from the given direction.
func destinationIndex(from, target int, dir Direction) int {
	to := target
	if from < to && !dir.after() {
		to--
	}
	if from > to && dir.after() {
		to++
	}
	return to
}

// affectedRange returns the contiguous node range spanning the old and new
// positions, inclusive.
func affectedRange(p *registry.Parent, from, to int) []*registry.Node {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	var out []*registry.Node
	for i := lo; i <= hi; i++ {
		if n := p.NodeAt(i); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// draggedIndices returns the dragged nodes' current indices in ascending
// order.
func draggedIndices(nodes []*registry.Node) []int {
	idx := make([]int, len(nodes))
	for i, n := range nodes {
		idx[i] = n.Index
	}
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && idx[j] < idx[j-1]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	return idx
}

// shiftBlock removes the entries at the given ascending indices and
// reinserts them as one contiguous block so the leading entry lands at
// target, preserving relative order.
func shiftBlock(values []any, indices []int, target int) []any {
	block := make([]any, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(values) {
			block = append(block, values[i])
		}
	}
	rest := make([]any, 0, len(values)-len(block))
	taken := make(map[int]bool, len(indices))
	for _, i := range indices {
		taken[i] = true
	}
	for i, v := range values {
		if !taken[i] {
			rest = append(rest, v)
		}
	}
	at := clamp(target, 0, len(rest))
	out := make([]any, 0, len(values))
	out = append(out, rest[:at]...)
	out = append(out, block...)
	out = append(out, rest[at:]...)
	return out
}

// nodeOrderAfterShift computes the desired element order of the enabled
// nodes after a block shift.
func nodeOrderAfterShift(p *registry.Parent, indices []int, target int) []*dom.Element {
	nodes := p.Nodes()
	els := make([]any, len(nodes))
	for i, n := range nodes {
		els[i] = n.El
	}
	shifted := shiftBlock(els, indices, target)
	out := make([]*dom.Element, len(shifted))
	for i, v := range shifted {
		out[i] = v.(*dom.Element)
	}
	return out
}

// reorderChildren rewrites the parent's child list so its enabled nodes
// appear in the desired order. Non-draggable children keep their block
// position relative to the first enabled slot.
func reorderChildren(p *registry.Parent, desired []*dom.Element) {
	if len(desired) == 0 {
		return
	}
	anchor := p.El.IndexOf(desired[0])
	for _, el := range desired {
		if i := p.El.IndexOf(el); i >= 0 && i < anchor {
			anchor = i
		}
	}
	for _, el := range desired {
		p.El.RemoveChild(el)
	}
	for i, el := range desired {
		p.El.InsertChild(anchor+i, el)
	}
}

// sortKey identifies a (target, direction) pair for the idempotence guard.
func sortKey(target *registry.Node, dir Direction) string {
	return fmt.Sprintf("%s|%s", target.El.ID(), dir)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
