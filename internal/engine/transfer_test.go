package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/engine"
	"github.com/RHellenes/drag-and-drop/internal/registry"
	"github.com/RHellenes/drag-and-drop/internal/testutil"
)

// twoLists builds two vertically stacked list fixtures far enough apart that
// hit-testing never straddles them.
func twoLists(t *testing.T, r *rig, a, b []any, cfgA, cfgB registry.Config) (*testutil.List, *testutil.List, *registry.Parent, *registry.Parent) {
	t.Helper()
	la := testutil.NewList(r.doc, a)
	lb := testutil.NewList(r.doc, b, testutil.At(200, 0))
	pa := r.register(t, la, cfgA)
	pb := r.register(t, lb, cfgB)
	return la, lb, pa, pb
}

func groupCfg(name, group string) registry.Config {
	cfg := testutil.SortableConfig(name)
	cfg.Group = group
	return cfg
}

func TestTransferBetweenSameGroup(t *testing.T) {
	r := newRig(t)
	la, lb, pa, pb := twoLists(t, r,
		[]any{"A", "B", "C"}, []any{"X", "Y"},
		groupCfg("left", "g"), groupCfg("right", "g"))

	require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
	// Hovering the destination's second node transfers at that index.
	r.eng.DragOver(pb.NodeAt(1).El, lb.Center(1))

	assert.Equal(t, []string{"B", "C"}, testutil.Strings(la.Values))
	assert.Equal(t, []string{"X", "A", "Y"}, testutil.Strings(lb.Values))

	s := r.eng.Session()
	assert.Same(t, pb, s.LastParent)
	assert.Equal(t, 1, s.TargetIndex)
	assert.True(t, s.PreventEnter, "sorting suppressed until the mutation watch settles")
	assert.Equal(t, engine.StateTransitioningParent, s.State())

	// Ownership moved with the record.
	moved := s.DraggedNodes[0]
	assert.Same(t, pb, r.eng.Registry().OwnerOf(moved))
	assert.Equal(t, 2, pa.NodeCount())
	assert.Equal(t, 3, pb.NodeCount())

	r.eng.DragEnd(dom.Point{})
}

func TestTransferGroupMismatchRejected(t *testing.T) {
	r := newRig(t)
	la, lb, _, pb := twoLists(t, r,
		[]any{"A", "B"}, []any{"X"},
		groupCfg("left", "files"), groupCfg("right", "folders"))

	require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
	r.eng.DragOver(pb.NodeAt(0).El, lb.Center(0))

	// Rejection mutates nothing; the session stays live in its last parent.
	assert.Equal(t, []string{"A", "B"}, testutil.Strings(la.Values))
	assert.Equal(t, []string{"X"}, testutil.Strings(lb.Values))
	assert.Equal(t, engine.StateDragging, r.eng.State())
	assert.False(t, r.eng.Session().PreventEnter)
	r.eng.DragEnd(dom.Point{})
}

func TestAcceptsPredicateDecides(t *testing.T) {
	t.Run("accepts across groups", func(t *testing.T) {
		r := newRig(t)
		cfgB := groupCfg("right", "folders")
		cfgB.Accepts = func(_, _, _ *registry.Parent, _ []*registry.Node) bool { return true }
		la, lb, _, pb := twoLists(t, r,
			[]any{"A"}, []any{"X"},
			groupCfg("left", "files"), cfgB)

		require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
		r.eng.DragOver(pb.NodeAt(0).El, lb.Center(0))

		assert.Empty(t, la.Values)
		assert.Len(t, lb.Values, 2)
	})

	t.Run("rejects within group", func(t *testing.T) {
		r := newRig(t)
		var gotInitial, gotLast *registry.Parent
		cfgB := groupCfg("right", "g")
		cfgB.Accepts = func(_, initial, last *registry.Parent, _ []*registry.Node) bool {
			gotInitial, gotLast = initial, last
			return false
		}
		la, lb, pa, pb := twoLists(t, r,
			[]any{"A"}, []any{"X"},
			groupCfg("left", "g"), cfgB)

		require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
		r.eng.DragOver(pb.NodeAt(0).El, lb.Center(0))

		assert.Equal(t, []string{"A"}, testutil.Strings(la.Values))
		assert.Equal(t, []string{"X"}, testutil.Strings(lb.Values))
		assert.Same(t, pa, gotInitial)
		assert.Same(t, pa, gotLast)
	})
}

func TestTransferIntoEmptyParent(t *testing.T) {
	r := newRig(t)
	la, lb, _, pb := twoLists(t, r,
		[]any{"A", "B"}, nil,
		groupCfg("left", "g"), groupCfg("right", "g"))

	require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
	// An empty parent has no nodes to hover; its own area takes the drop.
	r.eng.DragOver(lb.El, lb.El.Rect().Center())

	assert.Equal(t, []string{"B"}, testutil.Strings(la.Values))
	assert.Equal(t, []string{"A"}, testutil.Strings(lb.Values))
	assert.Equal(t, 1, pb.NodeCount())
	r.eng.DragEnd(dom.Point{})
}

func TestOverParentAreaGatedByDropZone(t *testing.T) {
	t.Run("populated parent without drop zone ignores its own area", func(t *testing.T) {
		r := newRig(t)
		la, lb, _, _ := twoLists(t, r,
			[]any{"A"}, []any{"X"},
			groupCfg("left", "g"), groupCfg("right", "g"))

		require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
		r.eng.DragOver(lb.El, lb.El.Rect().Center())

		assert.Equal(t, []string{"A"}, testutil.Strings(la.Values))
		assert.Equal(t, []string{"X"}, testutil.Strings(lb.Values))
	})

	t.Run("drop zone takes the drop at the tail", func(t *testing.T) {
		r := newRig(t)
		cfgB := groupCfg("right", "g")
		cfgB.DropZone = true
		la, lb, _, _ := twoLists(t, r,
			[]any{"A"}, []any{"X", "Y"},
			groupCfg("left", "g"), cfgB)

		require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
		r.eng.DragOver(lb.El, lb.El.Rect().Center())

		assert.Empty(t, la.Values)
		assert.Equal(t, []string{"X", "Y", "A"}, testutil.Strings(lb.Values))
	})
}

func TestPreventEnterSuppressesUntilFlush(t *testing.T) {
	r := newRig(t)
	la, lb, _, pb := twoLists(t, r,
		[]any{"A", "B"}, []any{"X", "Y"},
		groupCfg("left", "g"), groupCfg("right", "g"))

	require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
	r.eng.DragOver(pb.NodeAt(0).El, lb.Center(0))
	require.Equal(t, []string{"A", "X", "Y"}, testutil.Strings(lb.Values))

	// Until the queued mutations flush, further over events resolve nothing:
	// no second transfer back, no sort in the destination.
	r.eng.DragOver(la.Item(0), la.Center(0))
	r.eng.DragOver(pb.NodeAt(2).El, lowerHalf(lb, 1))
	assert.Equal(t, []string{"B"}, testutil.Strings(la.Values))
	assert.Equal(t, []string{"A", "X", "Y"}, testutil.Strings(lb.Values))

	r.doc.Flush()
	s := r.eng.Session()
	assert.False(t, s.PreventEnter)
	assert.Equal(t, engine.StateDragging, s.State())

	// Settled: sorting inside the destination works again.
	target := pb.NodeAt(2)
	rect := target.El.Rect()
	r.eng.DragOver(target.El, dom.Point{X: rect.Center().X, Y: rect.Y + rect.Height*0.8})
	assert.Equal(t, []string{"X", "Y", "A"}, testutil.Strings(lb.Values))
	r.eng.DragEnd(dom.Point{})
}

func TestTransferMovesSelectionAsBlock(t *testing.T) {
	r := newRig(t)
	la, lb, _, pb := twoLists(t, r,
		[]any{"A", "B", "C", "D"}, []any{"X"},
		groupCfg("left", "g"), groupCfg("right", "g"))

	require.NoError(t, r.eng.Select(la.Item(1)))
	require.NoError(t, r.eng.Select(la.Item(3)))
	require.NoError(t, r.eng.DragStart(la.Item(1), la.Center(1)))

	r.eng.DragOver(pb.NodeAt(0).El, lb.Center(0))

	assert.Equal(t, []string{"A", "C"}, testutil.Strings(la.Values))
	assert.Equal(t, []string{"B", "D", "X"}, testutil.Strings(lb.Values))
	r.eng.DragEnd(dom.Point{})
}

func TestTransferHooks(t *testing.T) {
	t.Run("on transfer observes the commit", func(t *testing.T) {
		r := newRig(t)
		var got *registry.TransferEvent
		cfgB := groupCfg("right", "g")
		cfgB.OnTransfer = func(ev registry.TransferEvent) { got = &ev }
		la, lb, pa, pb := twoLists(t, r,
			[]any{"A"}, []any{"X"},
			groupCfg("left", "g"), cfgB)

		require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
		r.eng.DragOver(pb.NodeAt(0).El, lb.Center(0))

		require.NotNil(t, got)
		assert.Same(t, pa, got.From)
		assert.Same(t, pb, got.To)
		assert.Equal(t, []any{"A"}, got.Values)
		assert.Equal(t, 0, got.Index)
	})

	t.Run("perform transfer replaces the commit", func(t *testing.T) {
		r := newRig(t)
		var got *registry.TransferRequest
		cfgB := groupCfg("right", "g")
		cfgB.PerformTransfer = func(req registry.TransferRequest) { got = &req }
		la, lb, _, pb := twoLists(t, r,
			[]any{"A"}, []any{"X"},
			groupCfg("left", "g"), cfgB)

		require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))
		r.eng.DragOver(pb.NodeAt(0).El, lb.Center(0))

		require.NotNil(t, got)
		assert.Equal(t, 0, got.ToIndex)
		// Built-in commit fully replaced: collections untouched.
		assert.Equal(t, []string{"A"}, testutil.Strings(la.Values))
		assert.Equal(t, []string{"X"}, testutil.Strings(lb.Values))
	})
}

func TestTransferRoundTrip(t *testing.T) {
	r := newRig(t)
	la, lb, pa, pb := twoLists(t, r,
		[]any{"A", "B"}, []any{"X"},
		groupCfg("left", "g"), groupCfg("right", "g"))

	require.NoError(t, r.eng.DragStart(la.Item(0), la.Center(0)))

	r.eng.DragOver(pb.NodeAt(0).El, lb.Center(0))
	r.doc.Flush()
	require.Equal(t, []string{"A", "X"}, testutil.Strings(lb.Values))

	// Back home again.
	moved := r.eng.Session().DraggedNodes[0]
	r.eng.DragOver(pa.NodeAt(0).El, la.Center(0))
	r.doc.Flush()

	assert.Equal(t, []string{"A", "B"}, testutil.Strings(la.Values))
	assert.Equal(t, []string{"X"}, testutil.Strings(lb.Values))
	assert.Same(t, pa, r.eng.Registry().OwnerOf(moved))

	r.eng.DragEnd(dom.Point{})
	assert.Equal(t, engine.StateIdle, r.eng.State())
}
