package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/engine"
	"github.com/RHellenes/drag-and-drop/internal/registry"
	"github.com/RHellenes/drag-and-drop/internal/testutil"
)

func longTouchCfg(name string) registry.Config {
	cfg := testutil.SortableConfig(name)
	cfg.LongTouch = true
	return cfg
}

func TestLongPressOpensSession(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B"})
	cfg := longTouchCfg("list")
	cfg.LongTouchClass = "pressing"
	r.register(t, l, cfg)

	require.NoError(t, r.eng.TouchStart(l.Item(0), l.Center(0)))
	assert.Nil(t, r.eng.Session(), "no session before the press matures")

	r.sched.Advance(registry.DefaultLongTouchTimeout)

	s := r.eng.Session()
	require.NotNil(t, s)
	assert.True(t, s.IsTouch())
	assert.True(t, s.Touch.LongPress)
	assert.True(t, l.Item(0).HasClass("pressing"))
	assert.Equal(t, engine.StateDragging, r.eng.State())

	require.NotEmpty(t, r.trace)
	assert.Equal(t, engine.KindStart, r.trace[0].Kind)
	assert.True(t, r.trace[0].Touch)
}

func TestMoveBeyondSlopCancelsPress(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B"})
	r.register(t, l, longTouchCfg("list"))

	start := l.Center(0)
	require.NoError(t, r.eng.TouchStart(l.Item(0), start))

	// A scroll-sized move before the timer fires kills the gesture.
	r.eng.TouchMove(dom.Point{X: start.X, Y: start.Y + engine.DefaultTouchSlop + 5})
	r.sched.Advance(time.Second)

	assert.Nil(t, r.eng.Session())
	assert.Empty(t, r.trace)
	assert.Zero(t, r.sched.Pending())
}

func TestMoveWithinSlopKeepsPress(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B"})
	r.register(t, l, longTouchCfg("list"))

	start := l.Center(0)
	require.NoError(t, r.eng.TouchStart(l.Item(0), start))

	r.eng.TouchMove(dom.Point{X: start.X + 3, Y: start.Y - 2})
	r.sched.Advance(registry.DefaultLongTouchTimeout)

	require.NotNil(t, r.eng.Session())
	assert.True(t, r.eng.Session().IsTouch())
}

func TestTouchEndBeforeFireCancels(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B"})
	r.register(t, l, longTouchCfg("list"))

	require.NoError(t, r.eng.TouchStart(l.Item(0), l.Center(0)))
	r.eng.TouchEnd(l.Center(0))
	r.sched.Advance(time.Second)

	assert.Nil(t, r.eng.Session())
	assert.Empty(t, r.trace)
}

func TestCustomLongTouchTimeout(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A"})
	cfg := longTouchCfg("list")
	cfg.LongTouchTimeout = 500 * time.Millisecond
	r.register(t, l, cfg)

	require.NoError(t, r.eng.TouchStart(l.Item(0), l.Center(0)))

	r.sched.Advance(499 * time.Millisecond)
	assert.Nil(t, r.eng.Session())
	r.sched.Advance(time.Millisecond)
	assert.NotNil(t, r.eng.Session())
}

func TestTouchWithoutLongPressStartsImmediately(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B"})
	r.register(t, l, testutil.SortableConfig("list"))

	require.NoError(t, r.eng.TouchStart(l.Item(0), l.Center(0)))

	s := r.eng.Session()
	require.NotNil(t, s)
	assert.True(t, s.IsTouch())
	assert.False(t, s.Touch.LongPress)
	assert.Zero(t, r.sched.Pending())
}

func TestTouchDragSortsByPolling(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B", "C"})
	r.register(t, l, testutil.SortableConfig("list"))

	require.NoError(t, r.eng.TouchStart(l.Item(0), l.Center(0)))

	// Touch has no per-element over events; the engine resolves the target
	// by hit-testing the finger position.
	r.eng.TouchMove(lowerHalf(l, 2))
	assert.Equal(t, []string{"B", "C", "A"}, testutil.Strings(l.Values))
	assert.True(t, r.eng.Session().Touch.Moving)

	r.eng.TouchEnd(lowerHalf(l, 2))
	assert.Equal(t, engine.StateIdle, r.eng.State())
	assert.Equal(t, []string{"B", "C", "A"}, testutil.Strings(l.Values))
}

func TestTouchSessionStyling(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B"})
	cfg := testutil.SortableConfig("list")
	cfg.DraggingClass = "dragging"
	cfg.TouchDraggingClass = "touch-dragging"
	cfg.TouchDropZoneClass = "touch-drop"
	r.register(t, l, cfg)

	require.NoError(t, r.eng.TouchStart(l.Item(0), l.Center(0)))

	// The touch variants win over the mouse classes.
	assert.True(t, l.Item(0).HasClass("touch-dragging"))
	assert.False(t, l.Item(0).HasClass("dragging"))
	assert.True(t, l.El.HasClass("touch-drop"))

	r.eng.TouchEnd(l.Center(0))
	assert.False(t, l.Item(0).HasClass("touch-dragging"))
	assert.False(t, l.El.HasClass("touch-drop"))
}

func TestTouchClonesFollowFinger(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B", "C"})
	r.register(t, l, testutil.SortableConfig("list"))

	start := l.Center(0)
	require.NoError(t, r.eng.TouchStart(l.Item(0), start))

	s := r.eng.Session()
	require.Len(t, s.ClonedDraggedEls, 1)
	clone := s.ClonedDraggedEls[0]
	assert.Equal(t, l.Item(0).Rect(), clone.Rect(), "clone starts at the source box")

	// Clones are display-only: hit-testing never sees them.
	assert.NotSame(t, clone, r.doc.ElementAt(start))

	r.eng.TouchMove(dom.Point{X: start.X + 30, Y: start.Y + 7})
	got := clone.Rect()
	assert.InDelta(t, l.Item(0).Rect().X+30, got.X, 1e-9)
	assert.InDelta(t, l.Item(0).Rect().Y+7, got.Y, 1e-9)
}

func TestTouchScrollLock(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B"})

	// Wrap the list in a scrollable viewport.
	viewport := r.doc.CreateElement("div")
	viewport.SetAttr("overflow", "auto")
	viewport.SetRect(dom.Rect{Width: 300, Height: 300})
	r.doc.Unmount(l.El)
	viewport.AppendChild(l.El)
	r.doc.Mount(viewport)
	r.doc.Flush()

	r.register(t, l, testutil.SortableConfig("list"))

	require.NoError(t, r.eng.TouchStart(l.Item(0), l.Center(0)))
	assert.Equal(t, "hidden", viewport.Attr("overflow"), "scrolling locked while dragging")

	r.eng.TouchEnd(l.Center(0))
	assert.Equal(t, "auto", viewport.Attr("overflow"), "restored on end")
}

func TestNodeTeardownDisarmsLongPress(t *testing.T) {
	r := newRig(t)
	l := testutil.NewList(r.doc, []any{"A", "B"})
	r.register(t, l, longTouchCfg("list"))

	require.NoError(t, r.eng.TouchStart(l.Item(0), l.Center(0)))
	require.Equal(t, 1, r.sched.Pending())

	// External re-render removes the pressed element before the press
	// matures.
	l.Values = []any{"B"}
	l.Rerender()
	r.doc.Flush()

	assert.Zero(t, r.sched.Pending(), "teardown released the timer")
	r.sched.Advance(time.Second)
	assert.Nil(t, r.eng.Session())
}
