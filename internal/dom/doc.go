// Package dom provides the headless element model the drag engine operates on.
//
// The engine is framework-agnostic: it never talks to a real browser DOM.
// Instead, hosts (tests, the replay harness, the TUI demo) build a tree of
// Elements, assign geometry, and deliver pointer input against it. Package dom
// supplies the pieces the engine needs from a document:
//
//   - element identity (uuid), class lists, attributes
//   - ordered child lists with insert/remove/reorder
//   - bounding rects and point hit-testing (touch polling)
//   - selector matching (#id, .class, tag) for drag-handle lookup
//   - queued child-list mutation records with explicit delivery
//
// Mutation delivery is deliberately decoupled from the mutating call:
// mutations append records to the Document's pending queue, and observers run
// only when Flush is called. Observed state is therefore eventually consistent
// with the tree, matching MutationObserver semantics the engine's
// reconciliation logic is written against.
package dom
