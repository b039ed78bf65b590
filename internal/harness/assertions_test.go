package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		Pass: true,
		Trace: []TraceEvent{
			{Kind: "start", Seq: 1, Parent: "a", Index: 0},
			{Kind: "over_node", Seq: 2, Parent: "a", Index: 2},
			{Kind: "over_node", Seq: 3, Parent: "b", Index: 0},
			{Kind: "end", Seq: 4, Parent: "b", Index: 0},
		},
		Values: map[string][]string{
			"a": {"B", "C"},
			"b": {"A", "X"},
		},
		FinalState: "idle",
	}
}

func TestEvaluateAssertions(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantFail  string
	}{
		{
			name:      "values match",
			assertion: Assertion{Type: AssertValues, Parent: "a", Expect: []string{"B", "C"}},
		},
		{
			name:      "values mismatch",
			assertion: Assertion{Type: AssertValues, Parent: "a", Expect: []string{"C", "B"}},
			wantFail:  `parent "a" is [B C], expected [C B]`,
		},
		{
			name:      "values length mismatch",
			assertion: Assertion{Type: AssertValues, Parent: "b", Expect: []string{"A"}},
			wantFail:  `parent "b" is [A X]`,
		},
		{
			name:      "values unknown parent",
			assertion: Assertion{Type: AssertValues, Parent: "zzz", Expect: []string{"A"}},
			wantFail:  `no parent "zzz"`,
		},
		{
			name:      "trace contains kind",
			assertion: Assertion{Type: AssertTraceContains, Kind: "over_node"},
		},
		{
			name:      "trace contains kind on parent",
			assertion: Assertion{Type: AssertTraceContains, Kind: "over_node", Parent: "b"},
		},
		{
			name:      "trace contains miss",
			assertion: Assertion{Type: AssertTraceContains, Kind: "over_parent"},
			wantFail:  "no over_parent event",
		},
		{
			name:      "trace contains wrong parent",
			assertion: Assertion{Type: AssertTraceContains, Kind: "start", Parent: "b"},
			wantFail:  `no start event on parent "b"`,
		},
		{
			name:      "trace order holds with interleaving",
			assertion: Assertion{Type: AssertTraceOrder, Kinds: []string{"start", "end"}},
		},
		{
			name:      "trace order broken",
			assertion: Assertion{Type: AssertTraceOrder, Kinds: []string{"end", "start"}},
			wantFail:  `kind "start" not found`,
		},
		{
			name:      "trace count exact",
			assertion: Assertion{Type: AssertTraceCount, Kind: "over_node", Count: 2},
		},
		{
			name:      "trace count zero means absent",
			assertion: Assertion{Type: AssertTraceCount, Kind: "over_parent", Count: 0},
		},
		{
			name:      "trace count mismatch",
			assertion: Assertion{Type: AssertTraceCount, Kind: "over_node", Count: 1},
			wantFail:  `appears 2 times, expected 1`,
		},
		{
			name:      "state match",
			assertion: Assertion{Type: AssertState, State: "idle"},
		},
		{
			name:      "state mismatch",
			assertion: Assertion{Type: AssertState, State: "dragging"},
			wantFail:  `final state is "idle"`,
		},
		{
			name:      "node count",
			assertion: Assertion{Type: AssertNodeCount, Parent: "a", Count: 2},
		},
		{
			name:      "node count mismatch",
			assertion: Assertion{Type: AssertNodeCount, Parent: "a", Count: 3},
			wantFail:  "has 2 values, expected 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleResult(), []Assertion{tt.assertion})
			if tt.wantFail == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantFail)
		})
	}
}

func TestEvaluateAssertionsReportsAll(t *testing.T) {
	errs := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertState, State: "dragging"},
		{Type: AssertTraceCount, Kind: "start", Count: 5},
	})
	assert.Len(t, errs, 2, "evaluation must not stop at the first failure")
}
