// Package harness provides conformance testing for the drag engine.
//
// The harness loads YAML scenarios, replays their pointer input against a
// real engine over a headless document, and validates the resulting trace
// and collection state.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	parents:
//	  - name: left
//	    values: [A, B, C, D]
//	    group: tasks
//	steps:
//	  - drag_start: { parent: left, index: 0 }
//	  - drag_over: { parent: left, index: 3, edge: lower }
//	  - drag_end: {}
//	assertions:
//	  - type: values
//	    parent: left
//	    expect: [B, C, D, A]
//
// # Step Types
//
// Native drag: drag_start, drag_over, drag_end. Touch emulation:
// touch_start, touch_move, touch_end. Environment control: flush (deliver
// queued mutations), advance (move the manual scheduler, e.g. "250ms"),
// select (mark a node for multi-drag), rerender (host re-render of a
// parent's children from its current values).
//
// Target positions are derived from element geometry: index addresses a
// node, edge (upper, lower, left, right, center) picks the hover point
// within it, and area: true targets the parent's own surface.
//
// # Assertion Types
//
//   - values: a parent's backing collection equals the expected sequence
//   - trace_contains: some canonical event matches kind (and parent if set)
//   - trace_count: events of a kind appear exactly N times
//   - trace_order: the first occurrences of the kinds appear in order
//   - state: the engine's final state machine position
//   - node_count: a parent's registered node count
//
// # Deterministic Execution
//
// Every scenario runs on a fresh document, a manual scheduler, and the
// engine's logical clock starting at zero, so the same scenario always
// produces a byte-identical trace. Golden snapshots build on this.
package harness
