package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// ResolveError represents an error detected during slot resolution.
//
// Resolution errors include:
//   - Structural mismatch: strict override applied to a non-matching node
//   - Invalid forward payload: function payload bound through template-as-slot
//   - Unknown slot: accessor requested for an undeclared name
//   - Invalid definition: component definition fails construction checks
//
// ResolveError includes structured fields for diagnostics. An error aborts
// only the current render pass; no partial bucket state persists because
// every pass is rebuilt from scratch.
type ResolveError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Component identifies the affected component definition.
	Component string

	// Slot identifies the slot being resolved, if any.
	Slot string

	// Expected lists the matcher descriptors a strict override required.
	Expected []string

	// Actual is the descriptor of the node that failed to match.
	Actual string
}

// ErrorCode categorizes resolution errors.
type ErrorCode string

const (
	// ErrCodeMismatch indicates a strict override rejected a node.
	ErrCodeMismatch ErrorCode = "MISMATCH"

	// ErrCodeInvalidForward indicates a function payload was bound through
	// a template-as-slot forwarding declaration.
	ErrCodeInvalidForward ErrorCode = "INVALID_FORWARD"

	// ErrCodeUnknownSlot indicates access to an undeclared slot name.
	ErrCodeUnknownSlot ErrorCode = "UNKNOWN_SLOT"

	// ErrCodeInvalidDefinition indicates a malformed component definition.
	ErrCodeInvalidDefinition ErrorCode = "INVALID_DEFINITION"
)

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Slot != "" && e.Component != "" {
		return fmt.Sprintf("%s: %s (component=%s, slot=%s)", e.Code, e.Message, e.Component, e.Slot)
	}
	if e.Component != "" {
		return fmt.Sprintf("%s: %s (component=%s)", e.Code, e.Message, e.Component)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMismatchError returns true if the error is a strict-mismatch error.
// Uses errors.As to handle wrapped errors.
func IsMismatchError(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMismatch
	}
	return false
}

// IsForwardError returns true for invalid-forward-payload errors.
func IsForwardError(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidForward
	}
	return false
}

// IsUnknownSlotError returns true for undeclared-slot access errors.
func IsUnknownSlotError(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnknownSlot
	}
	return false
}

// NewMismatchError creates a ResolveError for a strict override mismatch.
// The message names the expected matcher set and the actual node descriptor
// so the failure is diagnosable without a debugger.
func NewMismatchError(component, slot string, expected []string, actual string) *ResolveError {
	return &ResolveError{
		Code:      ErrCodeMismatch,
		Message:   fmt.Sprintf("strict override expected %s, got %s", strings.Join(expected, "|"), actual),
		Component: component,
		Slot:      slot,
		Expected:  expected,
		Actual:    actual,
	}
}

// NewForwardError creates a ResolveError for an invalid forwarding payload.
func NewForwardError(component, slot string) *ResolveError {
	return &ResolveError{
		Code:      ErrCodeInvalidForward,
		Message:   "template-as-slot binding must carry a concrete value, not a function payload",
		Component: component,
		Slot:      slot,
	}
}

// NewUnknownSlotError creates a ResolveError for an undeclared slot access.
func NewUnknownSlotError(component, slot string, declared []string) *ResolveError {
	return &ResolveError{
		Code:      ErrCodeUnknownSlot,
		Message:   fmt.Sprintf("slot %q is not declared (declared: %s)", slot, strings.Join(declared, ", ")),
		Component: component,
		Slot:      slot,
	}
}

// NewDefinitionError creates a ResolveError for an invalid definition.
func NewDefinitionError(component, message string) *ResolveError {
	return &ResolveError{
		Code:      ErrCodeInvalidDefinition,
		Message:   message,
		Component: component,
	}
}
