package harness

// TraceEvent is a canonical engine event flattened for assertions and
// golden snapshots. Parent carries the configured name and Index the
// target node's position at emit time (-1 for events without a node).
type TraceEvent struct {
	Kind   string `json:"kind"`
	Seq    int64  `json:"seq"`
	Touch  bool   `json:"touch,omitempty"`
	Parent string `json:"parent,omitempty"`
	Index  int    `json:"index"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step behaved as scripted and
	// every assertion held.
	Pass bool `json:"pass"`

	// Trace contains every canonical event the engine produced, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Values holds each parent's final backing collection, keyed by name.
	Values map[string][]string `json:"values"`

	// FinalState is the engine's machine position after the flow.
	FinalState string `json:"final_state"`
}

// NewResult creates an empty passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Values: map[string][]string{},
	}
}

// AddError records a validation error and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
