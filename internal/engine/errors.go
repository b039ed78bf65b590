package engine

import (
	"errors"
	"fmt"
)

// DragErrorCode categorizes rejected input.
type DragErrorCode string

const (
	// ErrCodeSessionActive: a start arrived while a session is live.
	ErrCodeSessionActive DragErrorCode = "SESSION_ACTIVE"

	// ErrCodeNoTarget: the pressed element resolves to no enabled node.
	ErrCodeNoTarget DragErrorCode = "NO_TARGET"

	// ErrCodeParentDisabled: the owning parent is registered with Disabled.
	ErrCodeParentDisabled DragErrorCode = "PARENT_DISABLED"

	// ErrCodeHandleRequired: the parent declares a drag handle and the press
	// landed outside it.
	ErrCodeHandleRequired DragErrorCode = "HANDLE_REQUIRED"

	// ErrCodeOutOfScope: the press landed outside the parent's Root scope.
	ErrCodeOutOfScope DragErrorCode = "OUT_OF_SCOPE"
)

// DragError is returned when pointer input cannot open a session. These are
// normal outcomes of guarded input, surfaced as typed errors so hosts can
// distinguish them from programming mistakes.
type DragError struct {
	Code    DragErrorCode
	Message string
}

// Error implements the error interface.
func (e *DragError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDragError reports whether err is (or wraps) a DragError with the code.
func IsDragError(err error, code DragErrorCode) bool {
	var de *DragError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

func newDragError(code DragErrorCode, format string, args ...any) *DragError {
	return &DragError{Code: code, Message: fmt.Sprintf(format, args...)}
}
