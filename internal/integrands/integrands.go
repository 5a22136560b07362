// Package integrands provides the named test surfaces the command line can
// select, each with a closed-form value of its integral over any rectangle.
package integrands

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/agbru/riemann2d/internal/riemann"
)

// DefaultName is the preset used when none is configured.
const DefaultName = "paraboloid"

// Preset is an integrand together with its default domain and an exact
// antiderivative-based value.
type Preset struct {
	// Name is the identifier accepted by --integrand.
	Name string
	// Expr is a human-readable formula, e.g. "x^2 + y^2".
	Expr string
	// Domain is the rectangle used when no bounds are configured.
	Domain riemann.Domain
	// F is the integrand itself.
	F riemann.Integrand
	// Exact returns ∫∫ F over d in closed form.
	Exact func(d riemann.Domain) float64
}

// Value returns the exact integral over the preset's default domain.
func (p Preset) Value() float64 { return p.Exact(p.Domain) }

// String implements fmt.Stringer.
func (p Preset) String() string {
	return fmt.Sprintf("%s: %s over [%g, %g] × [%g, %g]", p.Name, p.Expr,
		p.Domain.XMin, p.Domain.XMax, p.Domain.YMin, p.Domain.YMax)
}

var square = riemann.Domain{XMin: 0, XMax: math.Pi, YMin: 0, YMax: math.Pi}

// Paraboloid returns x² + y² over [0, π]², whose integral is 2π⁴/3.
func Paraboloid() Preset {
	return Preset{
		Name:   "paraboloid",
		Expr:   "x^2 + y^2",
		Domain: square,
		F:      func(x, y float64) float64 { return x*x + y*y },
		Exact: func(d riemann.Domain) float64 {
			return cubeDiff(d.XMin, d.XMax)/3*d.Height() + d.Width()*cubeDiff(d.YMin, d.YMax)/3
		},
	}
}

// Saddle returns x² - y² over [0, π] × [0, π/2], whose integral is π⁴/8.
func Saddle() Preset {
	return Preset{
		Name:   "saddle",
		Expr:   "x^2 - y^2",
		Domain: riemann.Domain{XMin: 0, XMax: math.Pi, YMin: 0, YMax: math.Pi / 2},
		F:      func(x, y float64) float64 { return x*x - y*y },
		Exact: func(d riemann.Domain) float64 {
			return cubeDiff(d.XMin, d.XMax)/3*d.Height() - d.Width()*cubeDiff(d.YMin, d.YMax)/3
		},
	}
}

// SinProduct returns sin(x)·sin(y) over [0, π]², whose integral is 4.
func SinProduct() Preset {
	return Preset{
		Name:   "sinprod",
		Expr:   "sin(x) * sin(y)",
		Domain: square,
		F:      func(x, y float64) float64 { return math.Sin(x) * math.Sin(y) },
		Exact: func(d riemann.Domain) float64 {
			return (math.Cos(d.XMin) - math.Cos(d.XMax)) * (math.Cos(d.YMin) - math.Cos(d.YMax))
		},
	}
}

// Gaussian returns exp(-(x² + y²)) over [-2, 2]², whose integral is π·erf(2)².
func Gaussian() Preset {
	return Preset{
		Name:   "gaussian",
		Expr:   "exp(-(x^2 + y^2))",
		Domain: riemann.Domain{XMin: -2, XMax: 2, YMin: -2, YMax: 2},
		F:      func(x, y float64) float64 { return math.Exp(-(x*x + y*y)) },
		Exact: func(d riemann.Domain) float64 {
			return math.Pi / 4 *
				(math.Erf(d.XMax) - math.Erf(d.XMin)) *
				(math.Erf(d.YMax) - math.Erf(d.YMin))
		},
	}
}

// Bilinear returns 1 + 2x + 3y + 4xy over [0, 1] × [0, 2], whose integral
// is 14. The midpoint rule integrates it exactly at every level.
func Bilinear() Preset {
	return Preset{
		Name:   "bilinear",
		Expr:   "1 + 2x + 3y + 4xy",
		Domain: riemann.Domain{XMin: 0, XMax: 1, YMin: 0, YMax: 2},
		F:      func(x, y float64) float64 { return 1 + 2*x + 3*y + 4*x*y },
		Exact: func(d riemann.Domain) float64 {
			x2 := squareDiff(d.XMin, d.XMax)
			y2 := squareDiff(d.YMin, d.YMax)
			return d.Area() + x2*d.Height() + 1.5*d.Width()*y2 + x2*y2
		},
	}
}

func squareDiff(a, b float64) float64 { return b*b - a*a }

func cubeDiff(a, b float64) float64 { return b*b*b - a*a*a }

var registry = map[string]func() Preset{
	"paraboloid": Paraboloid,
	"saddle":     Saddle,
	"sinprod":    SinProduct,
	"gaussian":   Gaussian,
	"bilinear":   Bilinear,
}

// Lookup returns the preset registered under name.
func Lookup(name string) (Preset, error) {
	ctor, ok := registry[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown integrand %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names returns the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsValid reports whether name is a registered preset.
func IsValid(name string) bool { return slices.Contains(Names(), name) }
