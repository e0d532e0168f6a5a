package analysis

import "fmt"

// InputTooLargeError is returned before extraction when a document exceeds
// the configured size ceiling.
type InputTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *InputTooLargeError) Error() string {
	return fmt.Sprintf("document is %d bytes, limit is %d", e.Size, e.Limit)
}

// InternalComputationError marks a defect in scoring, estimation or matching.
// These stages are total over well-formed input, so this error is never an
// expected runtime condition.
type InternalComputationError struct {
	Stage string
	Cause error
}

func (e *InternalComputationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal computation error in %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("internal computation error in %s", e.Stage)
}

func (e *InternalComputationError) Unwrap() error {
	return e.Cause
}
