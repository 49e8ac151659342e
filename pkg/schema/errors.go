package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDocument is wrapped by every document validation failure.
var ErrInvalidDocument = errors.New("invalid diagram document")

// ValidationError reports one rejected field of a diagram document.
type ValidationError struct {
	Key    string // dotted path, e.g. "boxes.lp.args"
	Reason string
	Value  any // offending value, nil when the field is missing
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDocument }

// AggregateError collects every problem found in a document, in discovery order.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d problems in diagram document:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err)
	}
	return sb.String()
}

func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors unwraps the individual problems of an AggregateError anywhere
// in err's chain, or nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

func aggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}
