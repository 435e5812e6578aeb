package extract

import "fmt"

// ParseError indicates no structured value could be recovered from model
// output. Treated like a generation failure for retry purposes.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Message
}

// ValidationError indicates parsed JSON exists but does not satisfy the
// target schema. Also retried.
type ValidationError struct {
	Target string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %v", e.Target, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
