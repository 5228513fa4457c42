package blobmarket

import "fmt"

// InvalidParametersError indicates a protocol parameter set that violates
// the capacity model invariants. Raised at configuration load and fatal to
// startup - never during per-block computation.
type InvalidParametersError struct {
	Reason string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("invalid protocol parameters: %v", e.Reason)
}

// MalformedSampleError indicates a block sample that cannot enter any
// aggregation. The computation that encountered it fails as a whole, so
// a bad sample can never silently skew an average.
type MalformedSampleError struct {
	BlockNumber uint64
	Reason      string
}

func (e *MalformedSampleError) Error() string {
	return fmt.Sprintf("malformed block sample %v: %v", e.BlockNumber, e.Reason)
}
