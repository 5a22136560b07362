// Package oracle computes reference values for double integrals. The
// Riemann engine only consumes the returned number; how it is obtained is
// entirely up to the Oracle implementation.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/agbru/riemann2d/internal/riemann"
)

// DefaultOrder is the Gauss–Legendre order used when none is configured.
const DefaultOrder = 64

// ErrNotConverged is returned by Adaptive when the estimate does not settle
// within the tolerance before MaxOrder is reached.
var ErrNotConverged = errors.New("oracle: quadrature did not converge")

// Oracle produces the reference value of ∫∫ f over d.
type Oracle interface {
	Integrate(ctx context.Context, f riemann.Integrand, d riemann.Domain) (float64, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, f riemann.Integrand, d riemann.Domain) (float64, error)

// Integrate calls fn.
func (fn Func) Integrate(ctx context.Context, f riemann.Integrand, d riemann.Domain) (float64, error) {
	return fn(ctx, f, d)
}

// Known is an oracle that always returns a fixed, closed-form value.
type Known float64

// Integrate returns the stored value. It still honors cancellation so that
// callers see a uniform contract.
func (k Known) Integrate(ctx context.Context, _ riemann.Integrand, _ riemann.Domain) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return float64(k), nil
}

// GaussLegendre integrates with a tensor-product Gauss–Legendre rule: an
// outer rule over x whose every node runs an inner rule over y.
type GaussLegendre struct {
	// Order is the number of nodes per axis. Zero means DefaultOrder.
	Order int
	// Concurrent is the number of goroutines evaluating outer nodes. Zero
	// or one evaluates serially.
	Concurrent int
}

// Integrate implements Oracle.
func (g GaussLegendre) Integrate(ctx context.Context, f riemann.Integrand, d riemann.Domain) (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if f == nil {
		return 0, fmt.Errorf("oracle: %w: integrand is nil", riemann.ErrIntegrand)
	}
	order := g.Order
	if order <= 0 {
		order = DefaultOrder
	}
	return tensorLegendre(ctx, f, d, order, max(g.Concurrent, 1))
}

// Adaptive doubles the Gauss–Legendre order until two successive estimates
// agree to within Tolerance relative to their magnitude.
type Adaptive struct {
	// Tolerance is the relative agreement required between estimates.
	// Zero means 1e-12.
	Tolerance float64
	// StartOrder is the first order tried. Zero means 8.
	StartOrder int
	// MaxOrder bounds the doubling. Zero means 1024.
	MaxOrder int
	// Concurrent is passed to every GaussLegendre pass.
	Concurrent int
}

// Integrate implements Oracle.
func (a Adaptive) Integrate(ctx context.Context, f riemann.Integrand, d riemann.Domain) (float64, error) {
	tol := a.Tolerance
	if tol <= 0 {
		tol = 1e-12
	}
	order := a.StartOrder
	if order <= 0 {
		order = 8
	}
	maxOrder := a.MaxOrder
	if maxOrder <= 0 {
		maxOrder = 1024
	}

	prev, err := GaussLegendre{Order: order, Concurrent: a.Concurrent}.Integrate(ctx, f, d)
	if err != nil {
		return 0, err
	}
	for order*2 <= maxOrder {
		order *= 2
		cur, err := GaussLegendre{Order: order, Concurrent: a.Concurrent}.Integrate(ctx, f, d)
		if err != nil {
			return 0, err
		}
		if math.Abs(cur-prev) <= tol*math.Max(1, math.Abs(cur)) {
			return cur, nil
		}
		prev = cur
	}
	return 0, fmt.Errorf("%w: order %d, last estimate %g", ErrNotConverged, order, prev)
}

// failure records the first error raised from inside a quadrature callback.
// gonum may call the integrand from several goroutines, so access is locked.
type failure struct {
	mu  sync.Mutex
	err error
}

func (fl *failure) set(err error) {
	fl.mu.Lock()
	if fl.err == nil {
		fl.err = err
	}
	fl.mu.Unlock()
}

func (fl *failure) get() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.err
}

func tensorLegendre(ctx context.Context, f riemann.Integrand, d riemann.Domain, order, concurrent int) (float64, error) {
	var fl failure
	outer := func(x float64) float64 {
		if fl.get() != nil {
			return 0
		}
		if err := ctx.Err(); err != nil {
			fl.set(err)
			return 0
		}
		inner := func(y float64) float64 { return guarded(&fl, f, x, y) }
		return quad.Fixed(inner, d.YMin, d.YMax, order, nil, 1)
	}

	v := quad.Fixed(outer, d.XMin, d.XMax, order, nil, concurrent)
	if err := fl.get(); err != nil {
		if errors.Is(err, riemann.ErrIntegrand) {
			return 0, fmt.Errorf("oracle: %w", err)
		}
		return 0, err
	}
	return v, nil
}

func guarded(fl *failure, f riemann.Integrand, x, y float64) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			fl.set(&riemann.IntegrandError{X: x, Y: y, Cause: &riemann.PanicError{Value: r}})
			v = 0
		}
	}()
	return f(x, y)
}
