package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test: a set of parents, a scripted input
// flow, and assertions on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named
	// after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Parents declares the list fixtures registered before the flow runs.
	Parents []ParentSpec `yaml:"parents"`

	// Steps is the scripted input flow.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and collection state.
	Assertions []Assertion `yaml:"assertions"`
}

// ParentSpec declares one registered list fixture.
type ParentSpec struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`

	Group    string `yaml:"group,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`

	// Sortable defaults to true; nil means unset.
	Sortable *bool `yaml:"sortable,omitempty"`

	// Policy is "shift" (default) or "swap".
	Policy string `yaml:"policy,omitempty"`

	// Threshold is the dead-zone fraction applied to both axes.
	Threshold float64 `yaml:"threshold,omitempty"`

	// Layout is "auto" (default), "vertical", or "horizontal".
	Layout string `yaml:"layout,omitempty"`

	DropZone         bool   `yaml:"drop_zone,omitempty"`
	LongTouch        bool   `yaml:"long_touch,omitempty"`
	LongTouchTimeout string `yaml:"long_touch_timeout,omitempty"`

	// At offsets the fixture so parents never overlap in hit-testing.
	At *Position `yaml:"at,omitempty"`
}

// Position is a fixture origin.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Step is one scripted input. Exactly one field must be set.
type Step struct {
	DragStart  *TargetRef `yaml:"drag_start,omitempty"`
	DragOver   *TargetRef `yaml:"drag_over,omitempty"`
	DragEnd    *struct{}  `yaml:"drag_end,omitempty"`
	TouchStart *TargetRef `yaml:"touch_start,omitempty"`
	TouchMove  *TargetRef `yaml:"touch_move,omitempty"`
	TouchEnd   *struct{}  `yaml:"touch_end,omitempty"`
	Select     *TargetRef `yaml:"select,omitempty"`
	Flush      *struct{}  `yaml:"flush,omitempty"`
	Rerender   *string    `yaml:"rerender,omitempty"`

	// Advance moves the manual scheduler, e.g. "250ms".
	Advance string `yaml:"advance,omitempty"`

	// ExpectError names the drag error code a start step must fail with.
	// Valid on drag_start and touch_start only.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// TargetRef addresses a point in a registered parent.
type TargetRef struct {
	Parent string `yaml:"parent"`

	// Index addresses a node by current position. Ignored when Area is set.
	Index int `yaml:"index"`

	// Edge picks the point within the node: upper, lower, left, right, or
	// center (default).
	Edge string `yaml:"edge,omitempty"`

	// Area targets the parent's own surface instead of a node.
	Area bool `yaml:"area,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Parent names the fixture (values, node_count, trace_contains).
	Parent string `yaml:"parent,omitempty"`

	// Expect is the expected value sequence (values) or engine state name
	// (state).
	Expect []string `yaml:"expect,omitempty"`

	// State is the expected machine position for type state.
	State string `yaml:"state,omitempty"`

	// Kind filters canonical events (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Kinds is the expected first-occurrence order (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Count is the expected occurrence count (trace_count, node_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertValues        = "values"
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertState         = "state"
	AssertNodeCount     = "node_count"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos surface as load errors instead of silently ignored
// steps.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Parents) == 0 {
		return fmt.Errorf("parents list is required and must be non-empty")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	seen := map[string]bool{}
	for i, p := range s.Parents {
		if p.Name == "" {
			return fmt.Errorf("parents[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("parents[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		switch p.Policy {
		case "", "shift", "swap":
		default:
			return fmt.Errorf("parents[%d]: unknown policy %q", i, p.Policy)
		}
		switch p.Layout {
		case "", "auto", "vertical", "horizontal":
		default:
			return fmt.Errorf("parents[%d]: unknown layout %q", i, p.Layout)
		}
		if p.LongTouchTimeout != "" {
			if _, err := time.ParseDuration(p.LongTouchTimeout); err != nil {
				return fmt.Errorf("parents[%d]: bad long_touch_timeout: %v", i, err)
			}
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step, seen); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step *Step, parents map[string]bool) error {
	set := 0
	var target *TargetRef
	for _, t := range []*TargetRef{step.DragStart, step.DragOver, step.TouchStart, step.TouchMove, step.Select} {
		if t != nil {
			set++
			target = t
		}
	}
	if step.DragEnd != nil {
		set++
	}
	if step.TouchEnd != nil {
		set++
	}
	if step.Flush != nil {
		set++
	}
	if step.Rerender != nil {
		set++
		if !parents[*step.Rerender] {
			return fmt.Errorf("steps[%d]: rerender references unknown parent %q", i, *step.Rerender)
		}
	}
	if step.Advance != "" {
		set++
		if _, err := time.ParseDuration(step.Advance); err != nil {
			return fmt.Errorf("steps[%d]: bad advance duration: %v", i, err)
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one step type must be set, got %d", i, set)
	}
	if target != nil {
		if target.Parent == "" {
			return fmt.Errorf("steps[%d]: target parent is required", i)
		}
		if !parents[target.Parent] {
			return fmt.Errorf("steps[%d]: unknown parent %q", i, target.Parent)
		}
		switch target.Edge {
		case "", "upper", "lower", "left", "right", "center":
		default:
			return fmt.Errorf("steps[%d]: unknown edge %q", i, target.Edge)
		}
	}
	if step.ExpectError != "" && step.DragStart == nil && step.TouchStart == nil {
		return fmt.Errorf("steps[%d]: expect_error is only valid on start steps", i)
	}
	return nil
}

func validateAssertion(i int, a *Assertion, parents map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", i)
	}
	needParent := func() error {
		if a.Parent == "" {
			return fmt.Errorf("assertions[%d]: parent is required for %s", i, a.Type)
		}
		if !parents[a.Parent] {
			return fmt.Errorf("assertions[%d]: unknown parent %q", i, a.Parent)
		}
		return nil
	}
	switch a.Type {
	case AssertValues:
		return needParent()
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", i)
		}
		if a.Parent != "" && !parents[a.Parent] {
			return fmt.Errorf("assertions[%d]: unknown parent %q", i, a.Parent)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", i)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", i)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", i)
		}
	case AssertState:
		switch a.State {
		case "idle", "dragging", "transitioning_parent":
		default:
			return fmt.Errorf("assertions[%d]: unknown state %q", i, a.State)
		}
	case AssertNodeCount:
		if err := needParent(); err != nil {
			return err
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", i)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
	}
	return nil
}
