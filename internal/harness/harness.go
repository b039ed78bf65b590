package harness

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/engine"
	"github.com/RHellenes/drag-and-drop/internal/registry"
	"github.com/RHellenes/drag-and-drop/internal/testutil"
)

// Harness replays one scenario against a fresh engine. Every run builds its
// own document, fixtures, and manual scheduler, so scenarios are isolated
// and byte-for-byte reproducible.
type Harness struct {
	doc    *dom.Document
	eng    *engine.Engine
	sched  *testutil.ManualScheduler
	lists  map[string]*testutil.List
	result *Result
	logger *slog.Logger
}

// fixtureSpacing keeps parents apart on the X axis so hit-testing never
// straddles two fixtures.
const fixtureSpacing = 200.0

// Run executes a scenario and returns its result. The returned error covers
// malformed execution (unknown references, impossible steps); behavioral
// mismatches land in Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	h := &Harness{
		doc:    dom.NewDocument(),
		sched:  testutil.NewManualScheduler(),
		lists:  map[string]*testutil.List{},
		result: NewResult(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	h.eng = engine.New(h.doc,
		engine.WithScheduler(h.sched),
		engine.WithLogger(h.logger),
		engine.WithTrace(h.record),
	)

	if err := h.registerParents(scenario.Parents); err != nil {
		return nil, err
	}
	for i, step := range scenario.Steps {
		if err := h.executeStep(&step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	h.finalize()

	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

// record flattens canonical events into the result trace as they happen.
func (h *Harness) record(ev engine.PointerEvent) {
	te := TraceEvent{
		Kind:  ev.Kind.String(),
		Seq:   ev.Seq,
		Touch: ev.Touch,
		Index: -1,
	}
	if ev.Parent != nil {
		te.Parent = ev.Parent.Config.Name
	}
	if ev.Node != nil {
		te.Index = ev.Node.Index
	}
	h.result.Trace = append(h.result.Trace, te)
}

func (h *Harness) registerParents(specs []ParentSpec) error {
	for i, spec := range specs {
		values := make([]any, len(spec.Values))
		for j, v := range spec.Values {
			values[j] = v
		}
		l := testutil.NewList(h.doc, values, testutil.At(float64(i)*fixtureSpacing, 0))
		cfg, err := buildConfig(&spec)
		if err != nil {
			return fmt.Errorf("parents[%d]: %w", i, err)
		}
		if _, err := h.eng.RegisterParent(l.El, l.Get, l.Set, cfg); err != nil {
			return fmt.Errorf("parents[%d]: %w", i, err)
		}
		h.lists[spec.Name] = l
	}
	return nil
}

func buildConfig(spec *ParentSpec) (registry.Config, error) {
	cfg := registry.Config{
		Name:      spec.Name,
		Group:     spec.Group,
		Disabled:  spec.Disabled,
		DropZone:  spec.DropZone,
		LongTouch: spec.LongTouch,
		Sortable:  true,
		Threshold: registry.Threshold{
			Horizontal: spec.Threshold,
			Vertical:   spec.Threshold,
		},
	}
	if spec.Sortable != nil {
		cfg.Sortable = *spec.Sortable
	}
	if spec.Policy == "swap" {
		cfg.SortPolicy = registry.SortSwap
	}
	switch spec.Layout {
	case "vertical":
		cfg.Layout = registry.AxisVertical
	case "horizontal":
		cfg.Layout = registry.AxisHorizontal
	}
	if spec.LongTouchTimeout != "" {
		d, err := time.ParseDuration(spec.LongTouchTimeout)
		if err != nil {
			return cfg, err
		}
		cfg.LongTouchTimeout = d
	}
	return cfg, nil
}

func (h *Harness) executeStep(step *Step) error {
	switch {
	case step.DragStart != nil:
		el, pos, err := h.resolveTarget(step.DragStart)
		if err != nil {
			return err
		}
		return h.checkStart(h.eng.DragStart(el, pos), step.ExpectError)

	case step.DragOver != nil:
		el, pos, err := h.resolveTarget(step.DragOver)
		if err != nil {
			return err
		}
		h.eng.DragOver(el, pos)

	case step.DragEnd != nil:
		h.eng.DragEnd(dom.Point{})

	case step.TouchStart != nil:
		el, pos, err := h.resolveTarget(step.TouchStart)
		if err != nil {
			return err
		}
		return h.checkStart(h.eng.TouchStart(el, pos), step.ExpectError)

	case step.TouchMove != nil:
		_, pos, err := h.resolveTarget(step.TouchMove)
		if err != nil {
			return err
		}
		h.eng.TouchMove(pos)

	case step.TouchEnd != nil:
		h.eng.TouchEnd(dom.Point{})

	case step.Select != nil:
		el, _, err := h.resolveTarget(step.Select)
		if err != nil {
			return err
		}
		return h.eng.Select(el)

	case step.Flush != nil:
		h.doc.Flush()

	case step.Rerender != nil:
		l := h.lists[*step.Rerender]
		l.Rerender()
		h.doc.Flush()

	case step.Advance != "":
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return err
		}
		h.sched.Advance(d)
	}
	return nil
}

// checkStart reconciles a start step's outcome with its expect_error
// declaration. Mismatches are behavioral failures, not execution errors.
func (h *Harness) checkStart(err error, expect string) error {
	switch {
	case expect == "" && err != nil:
		h.result.AddError(fmt.Sprintf("start failed unexpectedly: %v", err))
	case expect != "" && err == nil:
		h.result.AddError(fmt.Sprintf("start succeeded, expected error %s", expect))
	case expect != "" && !engine.IsDragError(err, engine.DragErrorCode(expect)):
		h.result.AddError(fmt.Sprintf("start failed with %v, expected %s", err, expect))
	}
	return nil
}

// resolveTarget maps a target reference to an element and a position.
func (h *Harness) resolveTarget(ref *TargetRef) (*dom.Element, dom.Point, error) {
	l, ok := h.lists[ref.Parent]
	if !ok {
		return nil, dom.Point{}, fmt.Errorf("unknown parent %q", ref.Parent)
	}
	if ref.Area {
		return l.El, l.El.Rect().Center(), nil
	}
	if ref.Index < 0 || ref.Index >= l.El.ChildCount() {
		return nil, dom.Point{}, fmt.Errorf("parent %q has no child %d", ref.Parent, ref.Index)
	}
	el := l.Item(ref.Index)
	return el, edgePoint(el.Rect(), ref.Edge), nil
}

// edgePoint picks a hover point inside the rect. Off-center edges sit at
// 30% from the boundary, comfortably past the default dead zone.
func edgePoint(r dom.Rect, edge string) dom.Point {
	c := r.Center()
	switch edge {
	case "upper":
		return dom.Point{X: c.X, Y: r.Y + r.Height*0.2}
	case "lower":
		return dom.Point{X: c.X, Y: r.Y + r.Height*0.8}
	case "left":
		return dom.Point{X: r.X + r.Width*0.2, Y: c.Y}
	case "right":
		return dom.Point{X: r.X + r.Width*0.8, Y: c.Y}
	default:
		return c
	}
}

// finalize captures end-of-flow state into the result.
func (h *Harness) finalize() {
	for name, l := range h.lists {
		vals := make([]string, len(l.Values))
		for i, v := range l.Values {
			vals[i] = fmt.Sprint(v)
		}
		h.result.Values[name] = vals
	}
	h.result.FinalState = h.eng.State().String()
}
