package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/RHellenes/drag-and-drop/internal/dom"
)

// ValuesGetter returns the ordered backing collection for a parent element.
// The application owns the collection; the engine only reads through this.
type ValuesGetter func(parentEl *dom.Element) []any

// ValuesSetter writes a committed reorder back to the application.
// Invoked synchronously on every committed sort or transfer; it is the only
// channel by which engine results reach the application.
type ValuesSetter func(values []any, parentEl *dom.Element)

// SortPolicy selects how a within-parent reorder is applied.
// This is an explicit configuration flag; it is never inferred from
// threshold values.
type SortPolicy int

const (
	// SortShift moves the dragged node to the target index and shifts every
	// node between the old and new position by one.
	SortShift SortPolicy = iota
	// SortSwap exchanges the dragged node and the target node in place.
	SortSwap
)

func (p SortPolicy) String() string {
	switch p {
	case SortShift:
		return "shift"
	case SortSwap:
		return "swap"
	default:
		return fmt.Sprintf("SortPolicy(%d)", int(p))
	}
}

// Axis is a parent's dominant layout axis, used to split pointer positions
// around a target's center.
type Axis int

const (
	// AxisAuto infers the axis from node geometry, falling back to vertical.
	AxisAuto Axis = iota
	AxisVertical
	AxisHorizontal
)

// Threshold holds the fractional dead-zone sizes around a target's center.
// A value of 0.5 means the middle 50% of the target produces no index
// change; 0 disables the dead zone on that axis.
type Threshold struct {
	Horizontal float64
	Vertical   float64
}

// DefaultLongTouchTimeout is the long-press delay used when the config
// leaves LongTouchTimeout zero. 200ms matches typical touch OS behavior.
const DefaultLongTouchTimeout = 200 * time.Millisecond

// SortEvent describes a committed within-parent reorder.
type SortEvent struct {
	Parent         *Parent
	PreviousValues []any
	Values         []any
	FromIndex      int
	ToIndex        int
}

// TransferEvent describes a committed cross-parent move.
type TransferEvent struct {
	From   *Parent
	To     *Parent
	Values []any
	Index  int
}

// SortRequest is handed to an overriding PerformSort strategy in place of
// the built-in commit step.
type SortRequest struct {
	Parent    *Parent
	Dragged   []*Node
	FromIndex int
	ToIndex   int
	Policy    SortPolicy
}

// TransferRequest is handed to an overriding PerformTransfer strategy in
// place of the built-in commit step.
type TransferRequest struct {
	From    *Parent
	To      *Parent
	Dragged []*Node
	ToIndex int
}

// Config is the per-parent configuration surface. It is fixed at
// registration; later edits to the struct handed in have no effect.
type Config struct {
	// Disabled suppresses drag starts from this parent entirely.
	Disabled bool

	// DragHandle, when non-empty, restricts drag starts to presses on a
	// descendant matching the selector (at any depth).
	DragHandle string

	// Draggable filters which children become nodes. Nil means every child.
	Draggable func(el *dom.Element) bool

	// Class names applied while a session is live. Empty names are skipped.
	DraggingClass      string
	DropZoneClass      string
	TouchDraggingClass string
	TouchDropZoneClass string

	// DropZone marks the parent as a valid transfer target even when it has
	// no nodes of its own.
	DropZone bool

	// Group names the equivalence class gating cross-parent transfer.
	Group string

	// LongTouch gates touch drags behind a long press. When false, touch
	// move tracking begins immediately.
	LongTouch        bool
	LongTouchClass   string
	LongTouchTimeout time.Duration

	// Name labels the parent for logging and the harness.
	Name string

	// Sortable enables within-parent reordering.
	Sortable bool

	// SortPolicy selects swap vs shift for committed sorts.
	SortPolicy SortPolicy

	// Threshold sets the sort dead zone. Both fractions must lie in [0,1].
	Threshold Threshold

	// Layout declares the dominant layout axis. AxisAuto infers it.
	Layout Axis

	// Plugins run in declaration order at parent and node lifecycle points.
	Plugins []Plugin

	// Accepts, when non-nil, overrides group matching for incoming
	// transfers. It is consulted even when groups differ.
	Accepts func(target, initial, last *Parent, dragged []*Node) bool

	// PerformSort and PerformTransfer replace the built-in commit step of
	// the corresponding resolver when non-nil.
	PerformSort     func(SortRequest)
	PerformTransfer func(TransferRequest)

	// SetupNode and TearDownNode run after the plugin pipeline for each
	// node added to or removed from the parent.
	SetupNode    func(n *Node, p *Parent)
	TearDownNode func(n *Node, p *Parent)

	// OnSort and OnTransfer observe committed operations.
	OnSort     func(SortEvent)
	OnTransfer func(TransferEvent)

	// Root scopes element lookups (drag-handle matching stops here).
	Root *dom.Element
}

// ConfigErrorCode categorizes registration failures.
type ConfigErrorCode string

const (
	ErrCodeMissingAccessor ConfigErrorCode = "MISSING_ACCESSOR"
	ErrCodeThresholdRange  ConfigErrorCode = "THRESHOLD_RANGE"
	ErrCodeNegativeTimeout ConfigErrorCode = "NEGATIVE_TIMEOUT"
	ErrCodeNilElement      ConfigErrorCode = "NIL_ELEMENT"
	ErrCodeDuplicateParent ConfigErrorCode = "DUPLICATE_PARENT"
)

// ConfigError is returned when registration is rejected. Configuration
// problems fail loudly at registration instead of degrading mid-drag.
type ConfigError struct {
	Code    ConfigErrorCode
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError reports whether err is (or wraps) a ConfigError with the
// given code.
func IsConfigError(err error, code ConfigErrorCode) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// validate rejects configurations the engine cannot safely run with.
func (c *Config) validate() error {
	if c.Threshold.Horizontal < 0 || c.Threshold.Horizontal > 1 {
		return &ConfigError{
			Code:    ErrCodeThresholdRange,
			Field:   "Threshold.Horizontal",
			Message: fmt.Sprintf("must be in [0,1], got %v", c.Threshold.Horizontal),
		}
	}
	if c.Threshold.Vertical < 0 || c.Threshold.Vertical > 1 {
		return &ConfigError{
			Code:    ErrCodeThresholdRange,
			Field:   "Threshold.Vertical",
			Message: fmt.Sprintf("must be in [0,1], got %v", c.Threshold.Vertical),
		}
	}
	if c.LongTouchTimeout < 0 {
		return &ConfigError{
			Code:    ErrCodeNegativeTimeout,
			Field:   "LongTouchTimeout",
			Message: fmt.Sprintf("must be non-negative, got %v", c.LongTouchTimeout),
		}
	}
	return nil
}

// normalize applies defaults after validation.
func (c *Config) normalize() {
	if c.LongTouchTimeout == 0 {
		c.LongTouchTimeout = DefaultLongTouchTimeout
	}
}
