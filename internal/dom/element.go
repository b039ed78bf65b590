package dom

import (
	"strings"

	"github.com/google/uuid"
)

// Element is a node in the headless tree.
//
// Identity is a uuid assigned at creation and stable for the element's
// lifetime. The engine keys all of its bookkeeping on Element.ID(), never on
// pointer equality, so externally re-rendered trees (same values, new
// elements) are detected as such.
type Element struct {
	doc      *Document
	id       string
	tag      string
	attrs    map[string]string
	classes  map[string]struct{}
	parent   *Element
	children []*Element
	rect     Rect
}

// ID returns the element's stable identity.
func (e *Element) ID() string { return e.id }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// Parent returns the element's current parent, or nil for a detached root.
func (e *Element) Parent() *Element { return e.parent }

// Rect returns the element's bounding box.
func (e *Element) Rect() Rect { return e.rect }

// SetRect assigns the element's bounding box. Geometry is host-owned; the
// engine only reads it.
func (e *Element) SetRect(r Rect) { e.rect = r }

// Attr returns the value of an attribute, or "" if unset.
func (e *Element) Attr(name string) string { return e.attrs[name] }

// SetAttr sets an attribute value.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// AddClass adds a class to the element's class list.
func (e *Element) AddClass(names ...string) {
	for _, n := range names {
		if n == "" {
			continue
		}
		e.classes[n] = struct{}{}
	}
}

// RemoveClass removes a class from the element's class list.
func (e *Element) RemoveClass(names ...string) {
	for _, n := range names {
		delete(e.classes, n)
	}
}

// HasClass reports whether the element carries the class.
func (e *Element) HasClass(name string) bool {
	_, ok := e.classes[name]
	return ok
}

// Children returns a copy of the child list in order.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// ChildCount returns the number of children without copying.
func (e *Element) ChildCount() int { return len(e.children) }

// IndexOf returns the position of child in the child list, or -1.
func (e *Element) IndexOf(child *Element) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

// AppendChild adds child at the end of the child list, detaching it from any
// previous parent first. Records a mutation on both affected parents.
func (e *Element) AppendChild(child *Element) {
	e.InsertChild(len(e.children), child)
}

// InsertChild inserts child at index i, clamped to [0, len]. If the child is
// already parented (here or elsewhere) it is detached first.
func (e *Element) InsertChild(i int, child *Element) {
	if child == nil || child == e {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	if i < 0 {
		i = 0
	}
	if i > len(e.children) {
		i = len(e.children)
	}
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = child
	child.parent = e
	e.doc.recordMutation(e)
}

// RemoveChild detaches child from the child list. No-op if child is not a
// child of e.
func (e *Element) RemoveChild(child *Element) {
	i := e.IndexOf(child)
	if i < 0 {
		return
	}
	e.children = append(e.children[:i], e.children[i+1:]...)
	child.parent = nil
	e.doc.recordMutation(e)
}

// MoveChild moves the child at index from to index to within the same child
// list. Indices are clamped. Records a single mutation.
func (e *Element) MoveChild(from, to int) {
	n := len(e.children)
	if n == 0 {
		return
	}
	from = clampIndex(from, n)
	to = clampIndex(to, n)
	if from == to {
		return
	}
	c := e.children[from]
	e.children = append(e.children[:from], e.children[from+1:]...)
	e.children = append(e.children, nil)
	copy(e.children[to+1:], e.children[to:])
	e.children[to] = c
	e.doc.recordMutation(e)
}

// SwapChildren exchanges the children at indices i and j.
func (e *Element) SwapChildren(i, j int) {
	n := len(e.children)
	if n == 0 {
		return
	}
	i = clampIndex(i, n)
	j = clampIndex(j, n)
	if i == j {
		return
	}
	e.children[i], e.children[j] = e.children[j], e.children[i]
	e.doc.recordMutation(e)
}

// Matches reports whether the element matches a simple selector:
// "#id" matches the id attribute, ".class" matches the class list,
// anything else matches the tag name. Empty selector matches nothing.
func (e *Element) Matches(selector string) bool {
	switch {
	case selector == "":
		return false
	case strings.HasPrefix(selector, "#"):
		return e.Attr("id") == selector[1:]
	case strings.HasPrefix(selector, "."):
		return e.HasClass(selector[1:])
	default:
		return e.tag == selector
	}
}

// Closest walks from the element up through its ancestors and returns the
// first one matching the selector, or nil. The element itself is considered
// first, so handle selectors match at any depth.
func (e *Element) Closest(selector string) *Element {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.Matches(selector) {
			return cur
		}
	}
	return nil
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func newElement(doc *Document, tag string) *Element {
	return &Element{
		doc:     doc,
		id:      uuid.NewString(),
		tag:     tag,
		classes: make(map[string]struct{}),
	}
}
