package registry

import (
	"io"
	"log/slog"

	"github.com/RHellenes/drag-and-drop/internal/dom"
)

// Parent is the record for one registered drag container.
type Parent struct {
	El        *dom.Element
	GetValues ValuesGetter
	SetValues ValuesSetter
	Config    Config

	nodes   []*Node
	cancels []func()
}

// Values reads the current backing collection through the external getter.
// The result is copied so engine-side reordering never aliases application
// state.
func (p *Parent) Values() []any {
	vals := p.GetValues(p.El)
	out := make([]any, len(vals))
	copy(out, vals)
	return out
}

// CommitValues pushes a full value sequence through the external setter.
func (p *Parent) CommitValues(values []any) {
	p.SetValues(values, p.El)
}

// Nodes returns the enabled nodes in order. The slice is a copy.
func (p *Parent) Nodes() []*Node {
	out := make([]*Node, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// NodeCount returns the number of enabled nodes.
func (p *Parent) NodeCount() int { return len(p.nodes) }

// NodeAt returns the enabled node at index i, or nil if out of range.
func (p *Parent) NodeAt(i int) *Node {
	if i < 0 || i >= len(p.nodes) {
		return nil
	}
	return p.nodes[i]
}

// AddCancel tracks a cancelable operation on the parent. Every handle added
// here is released exactly once on deregistration.
func (p *Parent) AddCancel(fn func()) {
	if fn != nil {
		p.cancels = append(p.cancels, fn)
	}
}

func (p *Parent) releaseCancels() {
	for i := len(p.cancels) - 1; i >= 0; i-- {
		p.cancels[i]()
	}
	p.cancels = nil
}

// draggable returns the effective draggable predicate.
func (p *Parent) draggable() func(*dom.Element) bool {
	if p.Config.Draggable != nil {
		return p.Config.Draggable
	}
	return func(*dom.Element) bool { return true }
}

// Node is the record for one enabled draggable element.
type Node struct {
	El    *dom.Element
	Index int
	Value any

	// PrivateClasses are classes the engine applied and therefore owns;
	// they are stripped on teardown so external styling is untouched.
	PrivateClasses []string

	cancels []func()
}

// AddPrivateClass applies a class and records it as engine-owned.
func (n *Node) AddPrivateClass(name string) {
	if name == "" {
		return
	}
	n.El.AddClass(name)
	n.PrivateClasses = append(n.PrivateClasses, name)
}

// StripPrivateClasses removes every engine-owned class from the element.
func (n *Node) StripPrivateClasses() {
	for _, c := range n.PrivateClasses {
		n.El.RemoveClass(c)
	}
	n.PrivateClasses = nil
}

// AddCancel tracks a cancelable operation on the node, released on teardown
// or session end.
func (n *Node) AddCancel(fn func()) {
	if fn != nil {
		n.cancels = append(n.cancels, fn)
	}
}

// ReleaseCancels releases every tracked handle. Safe to call repeatedly.
func (n *Node) ReleaseCancels() {
	for i := len(n.cancels) - 1; i >= 0; i-- {
		n.cancels[i]()
	}
	n.cancels = nil
}

// Registry is the explicit handle table for parents and nodes, keyed by
// element identity. Entries are removed on observed element removal; the
// table never keeps a removed element's resources alive.
type Registry struct {
	parents map[string]*Parent
	nodes   map[string]*Node
	owner   map[string]*Parent // node element ID -> owning parent
	log     *slog.Logger
}

// New creates an empty registry. Pass nil to discard logs.
func New(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		parents: make(map[string]*Parent),
		nodes:   make(map[string]*Node),
		owner:   make(map[string]*Parent),
		log:     log,
	}
}

// Register validates the config, creates the parent record, runs the plugin
// pipeline's Setup hooks, and performs the initial reconciliation so the
// node list mirrors the element's children before any drag is possible.
func (r *Registry) Register(el *dom.Element, get ValuesGetter, set ValuesSetter, cfg Config) (*Parent, error) {
	if el == nil {
		return nil, &ConfigError{Code: ErrCodeNilElement, Message: "parent element is required"}
	}
	if _, exists := r.parents[el.ID()]; exists {
		return nil, &ConfigError{Code: ErrCodeDuplicateParent, Message: "element is already registered as a parent"}
	}
	if get == nil {
		return nil, &ConfigError{Code: ErrCodeMissingAccessor, Field: "getValues", Message: "values getter is required"}
	}
	if set == nil {
		return nil, &ConfigError{Code: ErrCodeMissingAccessor, Field: "setValues", Message: "values setter is required"}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.normalize()

	p := &Parent{El: el, GetValues: get, SetValues: set, Config: cfg}
	r.parents[el.ID()] = p

	setupPlugins(p)
	r.Reconcile(p)

	r.log.Debug("parent registered",
		"parent", cfg.Name,
		"group", cfg.Group,
		"nodes", len(p.nodes),
	)
	return p, nil
}

// Deregister tears down a parent: node teardown hooks, plugin TearDown, and
// release of every tracked cancelable handle.
func (r *Registry) Deregister(el *dom.Element) {
	p, ok := r.parents[el.ID()]
	if !ok {
		return
	}
	for _, n := range p.nodes {
		r.removeNode(n, p)
	}
	p.nodes = nil
	tearDownPlugins(p)
	p.releaseCancels()
	delete(r.parents, el.ID())

	r.log.Debug("parent deregistered", "parent", p.Config.Name)
}

// ParentFor returns the parent record for exactly this element, or nil.
func (r *Registry) ParentFor(el *dom.Element) *Parent {
	if el == nil {
		return nil
	}
	return r.parents[el.ID()]
}

// ParentForClosest walks from el up through its ancestors and returns the
// first registered parent, or nil.
func (r *Registry) ParentForClosest(el *dom.Element) *Parent {
	for cur := el; cur != nil; cur = cur.Parent() {
		if p, ok := r.parents[cur.ID()]; ok {
			return p
		}
	}
	return nil
}

// NodeFor returns the node record for exactly this element, or nil.
func (r *Registry) NodeFor(el *dom.Element) *Node {
	if el == nil {
		return nil
	}
	return r.nodes[el.ID()]
}

// NodeForClosest walks from el up through its ancestors and returns the
// first registered node together with its owning parent. Pointer input often
// lands on a descendant of the node element; this resolves it.
func (r *Registry) NodeForClosest(el *dom.Element) (*Node, *Parent) {
	for cur := el; cur != nil; cur = cur.Parent() {
		if n, ok := r.nodes[cur.ID()]; ok {
			return n, r.owner[cur.ID()]
		}
	}
	return nil, nil
}

// OwnerOf returns the parent currently owning the node, or nil if the node
// record is stale.
func (r *Registry) OwnerOf(n *Node) *Parent {
	if n == nil {
		return nil
	}
	return r.owner[n.El.ID()]
}

// HasParent reports whether the parent record is still registered.
// Resolvers re-validate presence before acting; records can go stale when
// external re-rendering removes elements mid-drag.
func (r *Registry) HasParent(p *Parent) bool {
	if p == nil {
		return false
	}
	return r.parents[p.El.ID()] == p
}

// HasNode reports whether the node record is still enabled.
func (r *Registry) HasNode(n *Node) bool {
	if n == nil {
		return false
	}
	return r.nodes[n.El.ID()] == n
}

// Parents returns every registered parent. Order is unspecified.
func (r *Registry) Parents() []*Parent {
	out := make([]*Parent, 0, len(r.parents))
	for _, p := range r.parents {
		out = append(out, p)
	}
	return out
}

// Reconcile rebuilds the parent's node list from the element's current
// children: re-query through the draggable predicate, re-derive each node's
// index, and rebind each node's value from the external getter at its new
// position. Node records for surviving elements are reused; new elements get
// fresh records and SetupNode hooks; vanished elements get TearDownNode
// hooks and their handles released.
func (r *Registry) Reconcile(p *Parent) {
	if !r.HasParent(p) {
		return
	}
	draggable := p.draggable()
	values := p.GetValues(p.El)

	old := make(map[string]*Node, len(p.nodes))
	for _, n := range p.nodes {
		old[n.El.ID()] = n
	}

	var fresh []*Node
	newNodes := make([]*Node, 0, p.El.ChildCount())
	for _, child := range p.El.Children() {
		if !draggable(child) {
			continue
		}
		n, existed := old[child.ID()]
		switch {
		case existed:
			delete(old, child.ID())
		case r.nodes[child.ID()] != nil && r.owner[child.ID()] == p:
			// Adopted via transfer: record already owned by this parent but
			// not yet in its node list. Reuse without re-running SetupNode.
			n = r.nodes[child.ID()]
		default:
			n = &Node{El: child}
			fresh = append(fresh, n)
		}
		n.Index = len(newNodes)
		if n.Index < len(values) {
			n.Value = values[n.Index]
		} else {
			n.Value = nil
		}
		newNodes = append(newNodes, n)
	}

	// Whatever is left in old vanished from the child list. Nodes adopted by
	// another parent mid-transfer are not torn down, just dropped from here.
	for _, n := range old {
		if r.owner[n.El.ID()] == p {
			r.removeNode(n, p)
		}
	}

	p.nodes = newNodes
	for _, n := range fresh {
		r.nodes[n.El.ID()] = n
		r.owner[n.El.ID()] = p
		setupNodePlugins(n, p)
	}

	r.log.Debug("parent reconciled",
		"parent", p.Config.Name,
		"nodes", len(newNodes),
		"added", len(fresh),
		"removed", len(old),
	)
}

// Adopt moves a node record to a new owning parent without tearing it down.
// Used by transfer commits, where the element survives but changes parents;
// the subsequent reconciliation re-derives index and value.
func (r *Registry) Adopt(n *Node, to *Parent) {
	if n == nil || to == nil {
		return
	}
	r.nodes[n.El.ID()] = n
	r.owner[n.El.ID()] = to
}

func (r *Registry) removeNode(n *Node, p *Parent) {
	tearDownNodePlugins(n, p)
	n.StripPrivateClasses()
	n.ReleaseCancels()
	// The element may already have been re-registered under another parent
	// (external reparenting); only drop table entries that still point here.
	if r.nodes[n.El.ID()] == n {
		delete(r.nodes, n.El.ID())
		delete(r.owner, n.El.ID())
	}
}
