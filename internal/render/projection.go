package render

import (
	"math"

	"github.com/agbru/riemann2d/internal/riemann"
)

// Default camera angles, in degrees.
const (
	DefaultAzimuth   = -60
	DefaultElevation = 30
)

// Vec3 is a point in data coordinates.
type Vec3 struct{ X, Y, Z float64 }

// Viewport is the pixel rectangle the scene is fitted into.
type Viewport struct {
	X, Y, Width, Height float64
}

// Projection maps data coordinates to pixels with an orthographic camera.
// The data box is normalized to a unit cube first, so axes with very
// different ranges still fill the view.
type Projection struct {
	domain     riemann.Domain
	zMin, zMax float64

	right, up, eye Vec3
	scale          float64
	cx, cy         float64 // pixel center of the fitted box
	mx, my         float64 // projected center of the unit cube
}

// NewProjection fits the box domain × [zMin, zMax] into vp, seen from the
// given azimuth and elevation in degrees. A flat z range is widened to one
// unit so that the projection stays defined.
func NewProjection(d riemann.Domain, zMin, zMax float64, vp Viewport, azimuth, elevation float64) Projection {
	if !(zMax > zMin) {
		zMin, zMax = zMin-0.5, zMin+0.5
	}
	a, e := azimuth*math.Pi/180, elevation*math.Pi/180
	p := Projection{
		domain: d, zMin: zMin, zMax: zMax,
		eye:   Vec3{math.Cos(e) * math.Cos(a), math.Cos(e) * math.Sin(a), math.Sin(e)},
		right: Vec3{-math.Sin(a), math.Cos(a), 0},
		up:    Vec3{-math.Sin(e) * math.Cos(a), -math.Sin(e) * math.Sin(a), math.Cos(e)},
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, c := range unitCorners() {
		sx, sy := dot(c, p.right), dot(c, p.up)
		minX, maxX = math.Min(minX, sx), math.Max(maxX, sx)
		minY, maxY = math.Min(minY, sy), math.Max(maxY, sy)
	}
	p.scale = math.Min(vp.Width/(maxX-minX), vp.Height/(maxY-minY))
	p.mx, p.my = (minX+maxX)/2, (minY+maxY)/2
	p.cx, p.cy = vp.X+vp.Width/2, vp.Y+vp.Height/2
	return p
}

// Project returns the pixel position of v and its depth along the viewing
// direction. Larger depth is closer to the viewer.
func (p Projection) Project(v Vec3) (px, py, depth float64) {
	n := p.normalize(v)
	px = p.cx + (dot(n, p.right)-p.mx)*p.scale
	py = p.cy - (dot(n, p.up)-p.my)*p.scale
	return px, py, dot(n, p.eye)
}

// normalize maps the data box onto [-0.5, 0.5]³.
func (p Projection) normalize(v Vec3) Vec3 {
	d := p.domain
	return Vec3{
		X: (v.X-d.XMin)/d.Width() - 0.5,
		Y: (v.Y-d.YMin)/d.Height() - 0.5,
		Z: (v.Z-p.zMin)/(p.zMax-p.zMin) - 0.5,
	}
}

func unitCorners() []Vec3 {
	corners := make([]Vec3, 0, 8)
	for _, x := range []float64{-0.5, 0.5} {
		for _, y := range []float64{-0.5, 0.5} {
			for _, z := range []float64{-0.5, 0.5} {
				corners = append(corners, Vec3{x, y, z})
			}
		}
	}
	return corners
}

func dot(a, b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
