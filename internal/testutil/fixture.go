package testutil

import (
	"github.com/RHellenes/drag-and-drop/internal/dom"
	"github.com/RHellenes/drag-and-drop/internal/registry"
)

// List is a mounted list fixture: one container element with one child per
// backing value, laid out as a vertical or horizontal strip of equal-sized
// boxes. Tests mutate Values through the accessors the way a host framework
// would own its state.
type List struct {
	Doc    *dom.Document
	El     *dom.Element
	Values []any
}

// ListOption adjusts fixture geometry.
type ListOption func(*listLayout)

type listLayout struct {
	x, y       float64
	w, h       float64
	horizontal bool
}

// At positions the container's first item box.
func At(x, y float64) ListOption {
	return func(l *listLayout) { l.x, l.y = x, y }
}

// ItemSize sets per-item box dimensions. Default is 100x20.
func ItemSize(w, h float64) ListOption {
	return func(l *listLayout) { l.w, l.h = w, h }
}

// Horizontal lays items left to right instead of top to bottom.
func Horizontal() ListOption {
	return func(l *listLayout) { l.horizontal = true }
}

// NewList builds and mounts a list fixture with the given item values.
func NewList(doc *dom.Document, values []any, opts ...ListOption) *List {
	lay := listLayout{w: 100, h: 20}
	for _, opt := range opts {
		opt(&lay)
	}

	l := &List{Doc: doc, Values: append([]any(nil), values...)}
	l.El = doc.CreateElement("ul")
	for i := range values {
		li := doc.CreateElement("li")
		li.SetRect(itemRect(lay, i))
		l.El.AppendChild(li)
	}
	extent := float64(len(values))
	if lay.horizontal {
		l.El.SetRect(dom.Rect{X: lay.x, Y: lay.y, Width: lay.w * extent, Height: lay.h})
	} else {
		l.El.SetRect(dom.Rect{X: lay.x, Y: lay.y, Width: lay.w, Height: lay.h * extent})
	}
	doc.Mount(l.El)
	doc.Flush()
	return l
}

// Get is the values getter for registration.
func (l *List) Get(*dom.Element) []any {
	return append([]any(nil), l.Values...)
}

// Set is the values setter for registration.
func (l *List) Set(values []any, _ *dom.Element) {
	l.Values = append([]any(nil), values...)
}

// Item returns the i'th child element.
func (l *List) Item(i int) *dom.Element {
	return l.El.Children()[i]
}

// Center returns the center point of the i'th child element.
func (l *List) Center(i int) dom.Point {
	return l.Item(i).Rect().Center()
}

// Rerender rebuilds the child list from scratch the way a virtual-DOM host
// would: all children removed, fresh elements appended in Values order with
// relaid geometry.
func (l *List) Rerender() {
	for _, c := range l.El.Children() {
		l.El.RemoveChild(c)
	}
	lay := listLayoutOf(l)
	for i := range l.Values {
		li := l.Doc.CreateElement("li")
		li.SetRect(itemRect(lay, i))
		l.El.AppendChild(li)
	}
}

// listLayoutOf recovers approximate layout from the container rect so
// Rerender keeps item geometry stable for single-column fixtures.
func listLayoutOf(l *List) listLayout {
	r := l.El.Rect()
	n := float64(len(l.Values))
	lay := listLayout{x: r.X, y: r.Y, w: r.Width, h: 20}
	if n > 0 {
		if r.Width > r.Height {
			lay.horizontal = true
			lay.w = r.Width / n
			lay.h = r.Height
		} else {
			lay.h = r.Height / n
		}
	}
	return lay
}

func itemRect(lay listLayout, i int) dom.Rect {
	if lay.horizontal {
		return dom.Rect{X: lay.x + float64(i)*lay.w, Y: lay.y, Width: lay.w, Height: lay.h}
	}
	return dom.Rect{X: lay.x, Y: lay.y + float64(i)*lay.h, Width: lay.w, Height: lay.h}
}

// Strings converts a values slice to strings for assertion readability.
func Strings(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		s, _ := v.(string)
		out[i] = s
	}
	return out
}

// SortableConfig is the baseline config most tests register with: a named,
// sortable parent with everything else defaulted.
func SortableConfig(name string) registry.Config {
	return registry.Config{Name: name, Sortable: true}
}
