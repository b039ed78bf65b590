// Package engine implements the drag-and-drop session engine.
//
// The engine translates heterogeneous pointer input - native drag events and
// hand-emulated touch sequences - into index-accurate mutations of
// application-owned backing collections, across one or more containers.
//
// ARCHITECTURE:
//
// Canonical event vocabulary:
// All input is normalized to a tagged event {start, over_node, over_parent,
// end} before any resolution logic runs. Downstream code never branches on
// whether input originated from a drag or a touch sequence.
//
// Single session slot:
// Exactly one drag session may be live per Engine. The session is created on
// a valid start, mutated by every subsequent canonical event, and destroyed
// wholly on end. A start while a session is live is rejected. The slot lives
// on the Engine value, not in package state, so tests reset cleanly.
//
// Event processing flow:
//  1. Host delivers raw input (DragStart/DragOver/DragEnd or Touch*)
//  2. The normalizer resolves the hit element against the registry and
//     produces a canonical event
//  3. Over events route to the sort resolver (same parent) or the transfer
//     resolver (parent changed), which commit through the external value
//     setters synchronously
//  4. Child-list mutations queue records; Document.Flush delivers them and
//     the engine reconciles registry bookkeeping, clearing preventEnter
//
// The model is single-threaded and cooperative: no two handlers execute
// concurrently, no engine operation blocks, and external accessors complete
// before the triggering handler returns. preventEnter is a cooperative flag
// bridging the gap between a transfer and the mutation reconciliation that
// follows it, not a lock.
//
// Logical clock:
// Every canonical event is stamped with a monotonic seq from Clock.Next().
// Traces replay in identical order; wall-clock time is never used for
// ordering.
package engine
