package riemann

import "math"

// Domain is the rectangle [XMin, XMax] × [YMin, YMax]. It is a value type
// and is never mutated by this package.
type Domain struct {
	XMin, XMax float64
	YMin, YMax float64
}

// NewDomain builds a Domain and validates it.
//
// Parameters:
//   - xMin, xMax: The bounds of the x interval, xMin < xMax.
//   - yMin, yMax: The bounds of the y interval, yMin < yMax.
//
// Returns:
//   - Domain: The validated domain.
//   - error: A *DomainError if any bound is non-finite or an interval is empty.
func NewDomain(xMin, xMax, yMin, yMax float64) (Domain, error) {
	d := Domain{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
	if err := d.Validate(); err != nil {
		return Domain{}, err
	}
	return d, nil
}

// Validate checks that both intervals are finite and non-empty.
func (d Domain) Validate() error {
	if err := checkAxis("x", d.XMin, d.XMax); err != nil {
		return err
	}
	return checkAxis("y", d.YMin, d.YMax)
}

// Width returns XMax - XMin.
func (d Domain) Width() float64 { return d.XMax - d.XMin }

// Height returns YMax - YMin.
func (d Domain) Height() float64 { return d.YMax - d.YMin }

// Area returns Width × Height.
func (d Domain) Area() float64 { return d.Width() * d.Height() }

func checkAxis(axis string, lo, hi float64) error {
	switch {
	case !isFinite(lo) || !isFinite(hi):
		return &DomainError{Axis: axis, Min: lo, Max: hi, Reason: "bounds must be finite"}
	case lo >= hi:
		return &DomainError{Axis: axis, Min: lo, Max: hi, Reason: "lower bound must be strictly below upper bound"}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
