package riemann

import (
	"errors"
	"fmt"
	"math"
)

// Integrand is a real function of two variables. It must be defined on the
// whole domain and free of side effects. A panic raised while sampling is
// reported as an *IntegrandError.
type Integrand func(x, y float64) float64

// FallibleIntegrand is an integrand that reports failures explicitly.
type FallibleIntegrand func(x, y float64) (float64, error)

// Fallible adapts f to the FallibleIntegrand signature.
func (f Integrand) Fallible() FallibleIntegrand {
	if f == nil {
		return nil
	}
	return func(x, y float64) (float64, error) { return f(x, y), nil }
}

var errNilIntegrand = errors.New("integrand is nil")

// Result is the outcome of evaluating one refinement level.
type Result struct {
	// Level is the number of edges per axis of the evaluated grid.
	Level int
	// Total is the sum of f(midpoint) × area over all cells.
	Total float64
	// Reference is the caller-supplied value the total is compared against.
	Reference float64
	// AbsError is |Total - Reference|.
	AbsError float64
}

// RelativeError returns AbsError / |Reference|, or +Inf when the reference
// is zero and the error is not.
func (r Result) RelativeError() float64 {
	if r.Reference == 0 {
		if r.AbsError == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return r.AbsError / math.Abs(r.Reference)
}

// Samples holds the integrand value at each cell midpoint of a Grid, in the
// same row-major order Evaluate uses.
type Samples struct {
	Grid   Grid
	Values []float64
}

// At returns the sample of cell (i, j).
func (s Samples) At(i, j int) float64 { return s.Values[s.Grid.Index(i, j)] }

// Range returns the smallest and largest sample.
func (s Samples) Range() (lo, hi float64) {
	if len(s.Values) == 0 {
		return 0, 0
	}
	lo, hi = s.Values[0], s.Values[0]
	for _, v := range s.Values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Evaluate computes the midpoint Riemann sum of f over grid and its absolute
// error against reference.
//
// Cells are visited in row-major order and their contributions summed left
// to right, so identical inputs always produce bit-identical totals. The
// reference is used as given and never recomputed.
//
// Parameters:
//   - grid: The partition to integrate over.
//   - f: The integrand.
//   - reference: The value to measure the approximation against.
//
// Returns:
//   - Result: The complete result for this level.
//   - error: *InvalidPartitionError or *DomainError for a malformed grid,
//     *IntegrandError if f panics. No partial result is returned on error.
func Evaluate(grid Grid, f Integrand, reference float64) (Result, error) {
	return EvaluateFallible(grid, f.Fallible(), reference)
}

// EvaluateFallible is Evaluate for integrands that return errors. Any error
// returned by f is wrapped in an *IntegrandError.
func EvaluateFallible(grid Grid, f FallibleIntegrand, reference float64) (Result, error) {
	if err := grid.Validate(); err != nil {
		return Result{}, err
	}
	if f == nil {
		return Result{}, fmt.Errorf("%w: %w", ErrIntegrand, errNilIntegrand)
	}

	var total float64
	for c := range grid.Cells() {
		v, err := sample(f, c)
		if err != nil {
			return Result{}, err
		}
		total += v * c.Width() * c.Height()
	}
	return newResult(grid, total, reference), nil
}

// Sample evaluates f at every cell midpoint of grid without summing.
func Sample(grid Grid, f Integrand) (Samples, error) {
	return SampleFallible(grid, f.Fallible())
}

// SampleFallible is Sample for integrands that return errors.
func SampleFallible(grid Grid, f FallibleIntegrand) (Samples, error) {
	if err := grid.Validate(); err != nil {
		return Samples{}, err
	}
	if f == nil {
		return Samples{}, fmt.Errorf("%w: %w", ErrIntegrand, errNilIntegrand)
	}

	values := make([]float64, 0, grid.CellCount())
	for c := range grid.Cells() {
		v, err := sample(f, c)
		if err != nil {
			return Samples{}, err
		}
		values = append(values, v)
	}
	return Samples{Grid: grid, Values: values}, nil
}

// EvaluateSamples sums previously collected samples. The arithmetic matches
// Evaluate step for step, so Sample followed by EvaluateSamples yields the
// same bits as a direct Evaluate.
func EvaluateSamples(s Samples, reference float64) (Result, error) {
	if err := s.Grid.Validate(); err != nil {
		return Result{}, err
	}
	if len(s.Values) != s.Grid.CellCount() {
		return Result{}, &SampleCountError{Samples: len(s.Values), Cells: s.Grid.CellCount()}
	}

	var total float64
	k := 0
	for c := range s.Grid.Cells() {
		total += s.Values[k] * c.Width() * c.Height()
		k++
	}
	return newResult(s.Grid, total, reference), nil
}

func newResult(grid Grid, total, reference float64) Result {
	return Result{
		Level:     grid.Subdivisions(),
		Total:     total,
		Reference: reference,
		AbsError:  math.Abs(total - reference),
	}
}

// sample evaluates f at the midpoint of c, converting panics and returned
// errors into an *IntegrandError.
func sample(f FallibleIntegrand, c Cell) (v float64, err error) {
	x, y := c.Midpoint()
	defer func() {
		if r := recover(); r != nil {
			v, err = 0, &IntegrandError{X: x, Y: y, Cause: &PanicError{Value: r}}
		}
	}()
	v, err = f(x, y)
	if err != nil {
		return 0, &IntegrandError{X: x, Y: y, Cause: err}
	}
	return v, nil
}
