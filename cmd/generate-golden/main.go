// Command generate-golden writes the closed-form midpoint Riemann sums of the
// default integrand to internal/riemann/testdata/golden.json.
//
// For f(x, y) = x² + y² on [0, π]² with m cells per axis the midpoint sum is
//
//	T(m) = 2π⁴/3 − π⁴/(6m²)
//
// and the exact integral is 2π⁴/3. Values are computed with math/big at
// 200 bits and rounded to float64 only when encoded.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"
)

const precision = 200

// piDigits holds π to 50 decimal places.
const piDigits = "3.14159265358979323846264338327950288419716939937510"

var subdivisions = []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 20, 50, 101}

type goldenDomain struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

type goldenLevel struct {
	Subdivisions int     `json:"subdivisions"`
	Cells        int     `json:"cells"`
	Total        float64 `json:"total"`
	AbsError     float64 `json:"abs_error"`
}

type goldenFile struct {
	Integrand string        `json:"integrand"`
	Domain    goldenDomain  `json:"domain"`
	Reference float64       `json:"reference"`
	Levels    []goldenLevel `json:"levels"`
}

func main() {
	out := flag.String("o", filepath.Join("internal", "riemann", "testdata", "golden.json"), "output path")
	flag.Parse()

	data, err := json.MarshalIndent(buildGolden(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding golden data: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d levels to %s\n", len(subdivisions), *out)
}

func buildGolden() goldenFile {
	exact, _ := exactIntegral().Float64()
	g := goldenFile{
		Integrand: "x^2 + y^2",
		Domain:    goldenDomain{XMin: 0, XMax: math.Pi, YMin: 0, YMax: math.Pi},
		Reference: exact,
	}
	for _, n := range subdivisions {
		m := n - 1
		total, _ := midpointTotal(m).Float64()
		gap, _ := midpointDeficit(m).Float64()
		g.Levels = append(g.Levels, goldenLevel{
			Subdivisions: n,
			Cells:        m * m,
			Total:        total,
			AbsError:     gap,
		})
	}
	return g
}

func newFloat() *big.Float { return new(big.Float).SetPrec(precision) }

func pi() *big.Float {
	p, _, err := big.ParseFloat(piDigits, 10, precision, big.ToNearestEven)
	if err != nil {
		panic(err)
	}
	return p
}

func piPow4() *big.Float {
	p := pi()
	p2 := newFloat().Mul(p, p)
	return newFloat().Mul(p2, p2)
}

// exactIntegral returns 2π⁴/3.
func exactIntegral() *big.Float {
	v := newFloat().Mul(piPow4(), big.NewFloat(2))
	return v.Quo(v, big.NewFloat(3))
}

// midpointDeficit returns π⁴/(6m²), the amount the midpoint sum falls short
// of the exact integral.
func midpointDeficit(m int) *big.Float {
	den := newFloat().SetInt64(int64(6 * m * m))
	return newFloat().Quo(piPow4(), den)
}

// midpointTotal returns T(m) for m cells per axis.
func midpointTotal(m int) *big.Float {
	return newFloat().Sub(exactIntegral(), midpointDeficit(m))
}
