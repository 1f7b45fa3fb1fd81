package kiln

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeServiceNotFound indicates a required service has no descriptor
	CodeServiceNotFound = "SERVICE_NOT_FOUND"

	// CodeNoSatisfiableConstructor indicates every constructor had an unresolvable parameter
	CodeNoSatisfiableConstructor = "NO_SATISFIABLE_CONSTRUCTOR"

	// CodeInvalidDescriptor indicates a descriptor breaks the one-source invariant
	CodeInvalidDescriptor = "INVALID_DESCRIPTOR"

	// CodeCircularDependency indicates a circular dependency was detected
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeScopeDisposed indicates an operation on a disposed scope
	CodeScopeDisposed = "SCOPE_DISPOSED"

	// CodeServiceError indicates a factory or constructor failed
	CodeServiceError = "SERVICE_ERROR"

	// CodeTypeMismatch indicates a resolved instance is not of the requested Go type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeDisposeFailed indicates one or more disposal hooks returned an error
	CodeDisposeFailed = "DISPOSE_FAILED"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrServiceNotFoundSentinel is a sentinel error for service not found (for error checking).
var ErrServiceNotFoundSentinel = errs.NewError(CodeServiceNotFound, "service not found", nil)

// ErrNoSatisfiableConstructorSentinel is a sentinel for constructor selection failures.
var ErrNoSatisfiableConstructorSentinel = errs.NewError(CodeNoSatisfiableConstructor, "no satisfiable constructor", nil)

// ErrInvalidDescriptorSentinel is a sentinel for malformed descriptors.
var ErrInvalidDescriptorSentinel = errs.NewError(CodeInvalidDescriptor, "invalid descriptor", nil)

// ErrCircularDependencySentinel is a sentinel error for circular dependency (for error checking).
var ErrCircularDependencySentinel = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// ErrScopeDisposed is returned when a disposed scope is asked to resolve.
var ErrScopeDisposed = errs.NewError(CodeScopeDisposed, "scope has been disposed", nil)

// ErrTypeMismatchSentinel is a sentinel error for type mismatch during resolution.
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// ErrDisposeFailedSentinel is a sentinel for disposal failures.
var ErrDisposeFailedSentinel = errs.NewError(CodeDisposeFailed, "dispose failed", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrServiceNotFound creates an error for when a required service is not registered
func ErrServiceNotFound(id TypeID) *errs.Error {
	return errs.NewError(
		CodeServiceNotFound,
		fmt.Sprintf("service '%s' not found", id),
		nil,
	).WithContext("service", id.String()).(*errs.Error)
}

// ErrNoSatisfiableConstructor creates an error for when no constructor of an
// implementation could have all its parameters resolved
func ErrNoSatisfiableConstructor(id TypeID, implementation string) *errs.Error {
	return errs.NewError(
		CodeNoSatisfiableConstructor,
		fmt.Sprintf("no satisfiable constructor for '%s' (implementation %s)", id, implementation),
		nil,
	).WithContext("service", id.String()).
		WithContext("implementation", implementation).(*errs.Error)
}

// ErrInvalidDescriptor creates an error for a malformed descriptor
func ErrInvalidDescriptor(id TypeID, reason string) *errs.Error {
	return errs.NewError(
		CodeInvalidDescriptor,
		fmt.Sprintf("invalid descriptor for '%s': %s", id, reason),
		nil,
	).WithContext("service", id.String()).
		WithContext("reason", reason).(*errs.Error)
}

// ErrCircularDependency creates an error for circular dependency detection
func ErrCircularDependency(cycle []string) *errs.Error {
	return errs.NewError(
		CodeCircularDependency,
		"circular dependency detected: "+strings.Join(cycle, " -> "),
		nil,
	).WithContext("cycle", cycle).(*errs.Error)
}

// NewServiceError creates an error for service operations
func NewServiceError(id TypeID, operation string, cause error) *errs.Error {
	return errs.NewError(
		CodeServiceError,
		fmt.Sprintf("service '%s' error during %s", id, operation),
		cause,
	).WithContext("service", id.String()).
		WithContext("operation", operation).(*errs.Error)
}

// ErrTypeMismatch creates an error for type mismatch during resolution
func ErrTypeMismatch(id TypeID, actual any) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("service '%s' type mismatch: got %T", id, actual),
		nil,
	).WithContext("service", id.String()).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// ErrDisposeFailed creates an error wrapping the combined disposal failures of a scope
func ErrDisposeFailed(scopeID string, cause error) *errs.Error {
	return errs.NewError(
		CodeDisposeFailed,
		fmt.Sprintf("scope '%s' dispose failed", scopeID),
		cause,
	).WithContext("scope", scopeID).(*errs.Error)
}

// isKilnError reports whether err, or an error it wraps, carries one of this
// package's codes, so it can propagate without another layer of wrapping.
func isKilnError(err error) bool {
	var e *errs.Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Code {
	case CodeServiceNotFound, CodeNoSatisfiableConstructor, CodeInvalidDescriptor,
		CodeCircularDependency, CodeScopeDisposed, CodeServiceError, CodeTypeMismatch:
		return true
	default:
		return false
	}
}
