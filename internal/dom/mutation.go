package dom

// MutationRecord describes one child-list change on a target element.
// Records carry the target only; observers are expected to re-query the
// current child list rather than trust a snapshot, since further mutations
// may have landed before delivery.
type MutationRecord struct {
	Target *Element
}

// MutationFunc receives mutation records for one observed element.
type MutationFunc func(MutationRecord)

// Document owns element creation and mutation observation.
//
// Child-list mutations are queued, not delivered inline: every mutating call
// appends a record to the pending queue and Flush delivers the queue to
// observers. Consecutive records for the same target are coalesced, mirroring
// how a MutationObserver batches within a microtask.
type Document struct {
	observers map[string][]MutationFunc // keyed by element ID
	roots     []*Element
	pending   []MutationRecord
	flushing  bool
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{observers: make(map[string][]MutationFunc)}
}

// CreateElement creates a detached element owned by this document.
func (d *Document) CreateElement(tag string) *Element {
	return newElement(d, tag)
}

// Mount registers el as a top-level root for hit-testing. Typically the
// host mounts one root containing every drag container.
func (d *Document) Mount(el *Element) {
	for _, r := range d.roots {
		if r == el {
			return
		}
	}
	d.roots = append(d.roots, el)
}

// Unmount removes el from the root set.
func (d *Document) Unmount(el *Element) {
	for i, r := range d.roots {
		if r == el {
			d.roots = append(d.roots[:i], d.roots[i+1:]...)
			return
		}
	}
}

// Observe registers fn for child-list mutations on el. Returns a cancel
// function; callers must invoke it on teardown so removed elements do not
// keep observers alive.
func (d *Document) Observe(el *Element, fn MutationFunc) (cancel func()) {
	id := el.ID()
	d.observers[id] = append(d.observers[id], fn)
	// Capture the slot by index so cancel survives later appends.
	idx := len(d.observers[id]) - 1
	canceled := false
	return func() {
		if canceled {
			return
		}
		canceled = true
		fns := d.observers[id]
		if idx < len(fns) {
			fns[idx] = nil
		}
	}
}

// recordMutation queues a record for el if anything observes it.
func (d *Document) recordMutation(el *Element) {
	if el == nil {
		return
	}
	if len(d.observers[el.ID()]) == 0 {
		return
	}
	// Coalesce with the most recent record for the same target.
	if n := len(d.pending); n > 0 && d.pending[n-1].Target == el {
		return
	}
	d.pending = append(d.pending, MutationRecord{Target: el})
}

// Pending returns the number of undelivered mutation records.
func (d *Document) Pending() int { return len(d.pending) }

// Flush delivers every pending mutation record to its observers.
// Mutations performed by observers during delivery are queued and delivered
// in the same flush, so a flush always settles the tree.
func (d *Document) Flush() {
	if d.flushing {
		return
	}
	d.flushing = true
	defer func() { d.flushing = false }()

	for len(d.pending) > 0 {
		rec := d.pending[0]
		d.pending = d.pending[1:]
		for _, fn := range d.observers[rec.Target.ID()] {
			if fn != nil {
				fn(rec)
			}
		}
	}
}

// ElementAt returns the deepest mounted element whose rect contains p, or
// nil. Later siblings win over earlier ones, matching paint order.
func (d *Document) ElementAt(p Point) *Element {
	var hit *Element
	for _, root := range d.roots {
		if found := deepestAt(root, p); found != nil {
			hit = found
		}
	}
	return hit
}

func deepestAt(el *Element, p Point) *Element {
	if el.rect.Empty() || !el.rect.Contains(p) {
		return nil
	}
	hit := el
	for _, c := range el.children {
		if found := deepestAt(c, p); found != nil {
			hit = found
		}
	}
	return hit
}
