// Package registry keeps the engine's bookkeeping of drag containers and
// draggable nodes.
//
// Records are held in an explicit handle table keyed by element identity.
// Nothing here relies on garbage collection for cleanup: entries exist from
// registration (or reconciliation, for nodes) until an observed removal tears
// them down, and every cancelable operation created along the way is tracked
// on the owning record and released on teardown.
//
// INVARIANTS:
//   - A parent's node list mirrors the current child order of its element,
//     filtered to children passing the draggable predicate.
//   - Node.Value equals the backing collection entry at Node.Index whenever
//     the node is enabled. Reconcile re-derives both; cached indices are
//     never trusted across a child-list mutation.
//   - Config is fixed at registration.
package registry
