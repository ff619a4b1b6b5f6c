// Package diagnostics defines the error values produced by the inference
// core. Every failure is a value with a stable code; nothing in the core
// panics on user input.
package diagnostics

import "fmt"

type ErrorCode string

const (
	ErrTypeMismatch        ErrorCode = "T001" // two incompatible shapes
	ErrTypesNotEqual       ErrorCode = "T002" // exact comparison failed (keywords, literals, constructors)
	ErrRecursiveUnify      ErrorCode = "T003" // occurs-check failure
	ErrMissingProperty     ErrorCode = "T004"
	ErrMultipleIndexers    ErrorCode = "T005"
	ErrTupleLength         ErrorCode = "T006"
	ErrTooFewArguments     ErrorCode = "T007"
	ErrNotCallable         ErrorCode = "T008"
	ErrNoValidOverload     ErrorCode = "T009"
	ErrUndecidable         ErrorCode = "T010" // object/intersection decomposition with >1 residual member
	ErrDuplicateIdent      ErrorCode = "T011"
	ErrUndefinedSymbol     ErrorCode = "T012"
	ErrTupleOutOfBounds    ErrorCode = "T013"
	ErrPropertyNotFound    ErrorCode = "T014"
	ErrRequiresMoreParams  ErrorCode = "T015"
	ErrMultipleRestParams  ErrorCode = "T016"
	ErrTwoRestElements     ErrorCode = "T017"
	ErrMultipleRestInPat   ErrorCode = "T018"
	ErrRefutablePattern    ErrorCode = "T019"
	ErrImmutableArgument   ErrorCode = "T020"
	ErrInvalidKey          ErrorCode = "T021"
	ErrMutUnifyMismatch    ErrorCode = "T022"
	ErrBadRestParamType    ErrorCode = "T023"
	ErrWrongNumberTypeArgs ErrorCode = "T024"
)

var messages = map[ErrorCode]string{
	ErrTypeMismatch:        "type mismatch: unify(%s, %s) failed",
	ErrTypesNotEqual:       "type mismatch: %s != %s",
	ErrRecursiveUnify:      "recursive unification",
	ErrMissingProperty:     "'%s' is missing in %s",
	ErrMultipleIndexers:    "%s has multiple indexers",
	ErrTupleLength:         "Expected tuple of length %d, got tuple of length %d",
	ErrTooFewArguments:     "too few arguments to function: expected %d, got %d",
	ErrNotCallable:         "%s is not callable",
	ErrNoValidOverload:     "no valid overload for args",
	ErrUndecidable:         "Inference is undecidable",
	ErrDuplicateIdent:      "Duplicate identifier in pattern",
	ErrUndefinedSymbol:     "Undefined symbol %q",
	ErrTupleOutOfBounds:    "%d was outside the bounds 0..%d of the tuple",
	ErrPropertyNotFound:    "Couldn't find property '%s' on object",
	ErrRequiresMoreParams:  "%s is not a subtype of %s since it requires more params",
	ErrMultipleRestParams:  "multiple rest params in function",
	ErrTwoRestElements:     "Can't unify two rest elements",
	ErrMultipleRestInPat:   "Maximum one rest pattern allowed in object patterns",
	ErrRefutablePattern:    "%s patterns not allowed in function params",
	ErrImmutableArgument:   "cannot pass immutable binding %q to a mutable parameter",
	ErrInvalidKey:          "%s is not a valid key",
	ErrMutUnifyMismatch:    "unify_mut: %s != %s",
	ErrBadRestParamType:    "rest param must be an array or tuple, got %s",
	ErrWrongNumberTypeArgs: "expected %d type args, got %d",
}

// DiagnosticError is a single inference failure.
type DiagnosticError struct {
	Code    ErrorCode
	Message string
}

func (e *DiagnosticError) Error() string {
	return e.Message
}

// NewError builds a DiagnosticError from a code's message template.
func NewError(code ErrorCode, args ...interface{}) *DiagnosticError {
	tmpl, ok := messages[code]
	if !ok {
		tmpl = "unknown error"
	}
	return &DiagnosticError{
		Code:    code,
		Message: fmt.Sprintf(tmpl, args...),
	}
}
