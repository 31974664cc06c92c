package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code categorizes checkout errors for callers that map them to UI
// affordances or HTTP statuses.
type Code string

const (
	// CodeValidation indicates an incomplete form on a step submit.
	// Recoverable; no state transition occurred.
	CodeValidation Code = "VALIDATION"

	// CodeInvalidTransition indicates a submit that is not legal from
	// the current step.
	CodeInvalidTransition Code = "INVALID_TRANSITION"

	// CodeEmptyCart indicates finalization with zero line items.
	// Unreachable through the state machine; enforced defensively.
	CodeEmptyCart Code = "EMPTY_CART"

	// CodeDuplicateCommit indicates a submit while a payment
	// confirmation is already pending. Benign: the first commit
	// proceeds and the duplicate has no effect.
	CodeDuplicateCommit Code = "DUPLICATE_COMMIT"
)

// Error is a structured checkout error.
type Error struct {
	Code    Code
	Message string

	// Fields maps field name to problem for CodeValidation errors.
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(names, ", "))
}

// HasCode reports whether err is a checkout Error with the given code.
// Handles wrapped errors.
func HasCode(err error, code Code) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

func newValidationError(fields map[string]string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "required fields missing",
		Fields:  fields,
	}
}

func newTransitionError(from Step, action string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("%s not allowed in step %s", action, from),
	}
}
