package harness

import (
	"fmt"
	"strings"
)

// EvaluateAssertions checks every assertion against a finished result and
// returns one message per failure. Evaluation never aborts early; a broken
// scenario reports all of its mismatches at once.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if msg := evaluateAssertion(result, &a); msg != "" {
			errs = append(errs, fmt.Sprintf("assertions[%d] (%s): %s", i, a.Type, msg))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a *Assertion) string {
	switch a.Type {
	case AssertValues:
		return assertValues(result, a)
	case AssertTraceContains:
		return assertTraceContains(result, a)
	case AssertTraceOrder:
		return assertTraceOrder(result, a)
	case AssertTraceCount:
		return assertTraceCount(result, a)
	case AssertState:
		if result.FinalState != a.State {
			return fmt.Sprintf("final state is %q, expected %q", result.FinalState, a.State)
		}
	case AssertNodeCount:
		got, ok := result.Values[a.Parent]
		if !ok {
			return fmt.Sprintf("no parent %q in result", a.Parent)
		}
		if len(got) != a.Count {
			return fmt.Sprintf("parent %q has %d values, expected %d", a.Parent, len(got), a.Count)
		}
	}
	return ""
}

func assertValues(result *Result, a *Assertion) string {
	got, ok := result.Values[a.Parent]
	if !ok {
		return fmt.Sprintf("no parent %q in result", a.Parent)
	}
	if len(got) != len(a.Expect) {
		return fmt.Sprintf("parent %q is [%s], expected [%s]",
			a.Parent, strings.Join(got, " "), strings.Join(a.Expect, " "))
	}
	for i := range got {
		if got[i] != a.Expect[i] {
			return fmt.Sprintf("parent %q is [%s], expected [%s]",
				a.Parent, strings.Join(got, " "), strings.Join(a.Expect, " "))
		}
	}
	return ""
}

func assertTraceContains(result *Result, a *Assertion) string {
	for _, ev := range result.Trace {
		if ev.Kind != a.Kind {
			continue
		}
		if a.Parent != "" && ev.Parent != a.Parent {
			continue
		}
		return ""
	}
	if a.Parent != "" {
		return fmt.Sprintf("no %s event on parent %q in trace of %d events", a.Kind, a.Parent, len(result.Trace))
	}
	return fmt.Sprintf("no %s event in trace of %d events", a.Kind, len(result.Trace))
}

// assertTraceOrder verifies the kinds appear in order by first occurrence
// after the previous match. Other events may interleave freely.
func assertTraceOrder(result *Result, a *Assertion) string {
	pos := 0
	for _, want := range a.Kinds {
		found := false
		for ; pos < len(result.Trace); pos++ {
			if result.Trace[pos].Kind == want {
				found = true
				pos++
				break
			}
		}
		if !found {
			return fmt.Sprintf("kind %q not found in order %v", want, a.Kinds)
		}
	}
	return ""
}

func assertTraceCount(result *Result, a *Assertion) string {
	count := 0
	for _, ev := range result.Trace {
		if ev.Kind == a.Kind {
			count++
		}
	}
	if count != a.Count {
		return fmt.Sprintf("kind %q appears %d times, expected %d", a.Kind, count, a.Count)
	}
	return ""
}
