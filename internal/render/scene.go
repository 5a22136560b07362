package render

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/riemann"
)

// DefaultSurfaceResolution is the number of mesh lines per axis used to
// draw the integrand surface.
const DefaultSurfaceResolution = 30

// FaceKind selects the style of a face.
type FaceKind int

const (
	// KindBase is the footprint of a cell on the z = 0 plane.
	KindBase FaceKind = iota
	// KindTop is the lid of a prism at the sampled height.
	KindTop
	// KindEdge is a vertical edge of a prism.
	KindEdge
	// KindSurface is one quad of the integrand mesh.
	KindSurface
)

// Face is a polygon, or a segment for KindEdge, in data coordinates.
type Face struct {
	Kind   FaceKind
	Points []Vec3
}

// Scene is everything drawn for one frame.
type Scene struct {
	Faces      []Face
	ZMin, ZMax float64
}

// BuildScene lays out the prisms of frame and a resolution × resolution
// mesh of the integrand. Mesh points where the integrand panics or is not
// finite are left out together with the quads that touch them.
func BuildScene(p refinement.Problem, f refinement.Frame, resolution int) Scene {
	lo, hi := f.Samples.Range()
	sc := Scene{ZMin: math.Min(lo, 0), ZMax: math.Max(hi, 0)}

	g := f.Samples.Grid
	for c := range g.Cells() {
		v := f.Samples.At(c.I, c.J)
		corners := [4][2]float64{{c.X0, c.Y0}, {c.X0, c.Y1}, {c.X1, c.Y1}, {c.X1, c.Y0}}
		base := make([]Vec3, 4)
		top := make([]Vec3, 4)
		for k, xy := range corners {
			base[k] = Vec3{xy[0], xy[1], 0}
			top[k] = Vec3{xy[0], xy[1], v}
			sc.Faces = append(sc.Faces, Face{Kind: KindEdge, Points: []Vec3{base[k], top[k]}})
		}
		sc.Faces = append(sc.Faces, Face{Kind: KindBase, Points: base}, Face{Kind: KindTop, Points: top})
	}

	if resolution >= 2 && p.Integrand != nil {
		mesh := sampleSurface(p.Integrand, p.Domain, resolution)
		for i := 0; i+1 < resolution; i++ {
			for j := 0; j+1 < resolution; j++ {
				quad := []Vec3{mesh[i][j], mesh[i][j+1], mesh[i+1][j+1], mesh[i+1][j]}
				if !allFinite(quad) {
					continue
				}
				for _, q := range quad {
					sc.ZMin, sc.ZMax = math.Min(sc.ZMin, q.Z), math.Max(sc.ZMax, q.Z)
				}
				sc.Faces = append(sc.Faces, Face{Kind: KindSurface, Points: quad})
			}
		}
	}
	return sc
}

func sampleSurface(f riemann.Integrand, d riemann.Domain, resolution int) [][]Vec3 {
	xs := floats.Span(make([]float64, resolution), d.XMin, d.XMax)
	ys := floats.Span(make([]float64, resolution), d.YMin, d.YMax)
	mesh := make([][]Vec3, resolution)
	for i, x := range xs {
		mesh[i] = make([]Vec3, resolution)
		for j, y := range ys {
			mesh[i][j] = Vec3{x, y, safeEval(f, x, y)}
		}
	}
	return mesh
}

func safeEval(f riemann.Integrand, x, y float64) (v float64) {
	defer func() {
		if recover() != nil {
			v = math.NaN()
		}
	}()
	return f(x, y)
}

func allFinite(pts []Vec3) bool {
	for _, p := range pts {
		if math.IsNaN(p.Z) || math.IsInf(p.Z, 0) {
			return false
		}
	}
	return true
}

// ProjectedFace is a face in pixel coordinates.
type ProjectedFace struct {
	Kind   FaceKind
	Points [][2]float64
	Depth  float64
}

// Project maps every face through proj and orders them back to front, so
// that painting them in order hides what is behind.
func (s Scene) Project(proj Projection) []ProjectedFace {
	out := make([]ProjectedFace, len(s.Faces))
	for i, f := range s.Faces {
		pf := ProjectedFace{Kind: f.Kind, Points: make([][2]float64, len(f.Points))}
		for k, pt := range f.Points {
			x, y, depth := proj.Project(pt)
			pf.Points[k] = [2]float64{x, y}
			pf.Depth += depth
		}
		if len(f.Points) > 0 {
			pf.Depth /= float64(len(f.Points))
		}
		out[i] = pf
	}
	slices.SortStableFunc(out, func(a, b ProjectedFace) int { return cmp.Compare(a.Depth, b.Depth) })
	return out
}
