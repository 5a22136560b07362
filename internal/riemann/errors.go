package riemann

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. The typed errors below match them.
var (
	// ErrInvalidPartition reports a subdivision count below MinSubdivisions.
	ErrInvalidPartition = errors.New("riemann: invalid partition")
	// ErrDomain reports malformed domain bounds or grid edges.
	ErrDomain = errors.New("riemann: malformed domain")
	// ErrIntegrand reports a failure while sampling the integrand.
	ErrIntegrand = errors.New("riemann: integrand evaluation failed")
	// ErrSampleMismatch reports samples that do not cover their grid.
	ErrSampleMismatch = errors.New("riemann: samples do not match the grid")
)

// InvalidPartitionError is returned when fewer than MinSubdivisions edges
// are requested per axis. Fewer than two edges cannot bound a cell.
type InvalidPartitionError struct {
	// N is the rejected subdivision count.
	N int
}

// Error returns a message naming the rejected count.
func (e *InvalidPartitionError) Error() string {
	return fmt.Sprintf("riemann: invalid partition: need at least %d subdivisions per axis, got %d", MinSubdivisions, e.N)
}

// Is reports whether target is ErrInvalidPartition.
func (e *InvalidPartitionError) Is(target error) bool { return target == ErrInvalidPartition }

// DomainError describes malformed bounds on one axis, either of a Domain or
// of the edges of a hand-built Grid.
type DomainError struct {
	// Axis is "x" or "y".
	Axis string
	// Min and Max are the offending bounds.
	Min, Max float64
	// Reason explains the violation.
	Reason string
}

// Error returns a message naming the axis, its bounds and the reason.
func (e *DomainError) Error() string {
	return fmt.Sprintf("riemann: malformed domain on %s axis [%g, %g]: %s", e.Axis, e.Min, e.Max, e.Reason)
}

// Is reports whether target is ErrDomain.
func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// SampleCountError is returned by EvaluateSamples when the number of
// samples differs from the cell count of their grid.
type SampleCountError struct {
	Samples, Cells int
}

func (e *SampleCountError) Error() string {
	return fmt.Sprintf("riemann: %d samples for %d cells", e.Samples, e.Cells)
}

// Is reports whether target is ErrSampleMismatch.
func (e *SampleCountError) Is(target error) bool { return target == ErrSampleMismatch }

// IntegrandError wraps a failure raised by the integrand while sampling a
// cell. X and Y are the midpoint coordinates of the failing cell.
type IntegrandError struct {
	X, Y  float64
	Cause error
}

// Error returns a message naming the failing sample point and the cause.
func (e *IntegrandError) Error() string {
	return fmt.Sprintf("riemann: integrand failed at (%g, %g): %v", e.X, e.Y, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *IntegrandError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrIntegrand.
func (e *IntegrandError) Is(target error) bool { return target == ErrIntegrand }

// PanicError carries a value recovered from a panicking integrand.
type PanicError struct {
	Value any
}

// Error formats the recovered value.
func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Unwrap returns the recovered value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
