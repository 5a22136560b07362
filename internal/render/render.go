package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/agbru/riemann2d/internal/format"
	"github.com/agbru/riemann2d/internal/refinement"
)

type faceStyle struct {
	fill      *gg.RGBA
	stroke    *gg.RGBA
	lineWidth float64
}

func rgba(r, g, b, a float64) *gg.RGBA {
	c := gg.RGBA2(r, g, b, a)
	return &c
}

var styles = map[FaceKind]faceStyle{
	KindBase:    {fill: rgba(0, 0, 1, 0.2)},
	KindTop:     {fill: rgba(1, 0, 0, 0.5), stroke: rgba(0, 0, 0, 0.3), lineWidth: 0.8},
	KindEdge:    {stroke: rgba(0, 0, 0, 0.3), lineWidth: 1},
	KindSurface: {fill: rgba(0, 0.5, 0, 0.3), stroke: rgba(0, 0.35, 0, 0.15), lineWidth: 0.5},
}

// Renderer draws frames at a fixed size. It holds the title font and is
// not safe for concurrent use.
type Renderer struct {
	width, height int
	resolution    int
	azimuth       float64
	elevation     float64

	font      *text.FontSource
	titleFace text.Face
	labelFace text.Face

	hideReference bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithoutReference replaces the comparison subtitle with the bare sum.
func WithoutReference() Option {
	return func(r *Renderer) { r.hideReference = true }
}

// NewRenderer loads the Go Regular font and returns a renderer producing
// width × height images.
func NewRenderer(width, height int, opts ...Option) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid image size %dx%d", width, height)
	}
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("render: loading font: %w", err)
	}
	titleSize := max(float64(height)/45, 10)
	r := &Renderer{
		width:      width,
		height:     height,
		resolution: DefaultSurfaceResolution,
		azimuth:    DefaultAzimuth,
		elevation:  DefaultElevation,
		font:       src,
		titleFace:  src.Face(titleSize),
		labelFace:  src.Face(titleSize * 0.8),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases the font.
func (r *Renderer) Close() error { return r.font.Close() }

// Size returns the image dimensions.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// titleBand is the height reserved above the plot for the two title lines.
func (r *Renderer) titleBand() float64 { return float64(r.height) / 9 }

// Draw renders frame into a new context. The caller must Close it.
func (r *Renderer) Draw(p refinement.Problem, frame refinement.Frame) (*gg.Context, error) {
	dc := gg.NewContext(r.width, r.height)
	dc.ClearWithColor(gg.White)

	scene := BuildScene(p, frame, r.resolution)
	margin := float64(r.width) / 20
	band := r.titleBand()
	vp := Viewport{
		X:      margin,
		Y:      band,
		Width:  float64(r.width) - 2*margin,
		Height: float64(r.height) - band - margin,
	}
	proj := NewProjection(p.Domain, scene.ZMin, scene.ZMax, vp, r.azimuth, r.elevation)

	if err := r.drawAxes(dc, p, proj, scene); err != nil {
		dc.Close()
		return nil, err
	}
	for _, f := range scene.Project(proj) {
		if err := drawFace(dc, f); err != nil {
			dc.Close()
			return nil, fmt.Errorf("render: frame %d: %w", frame.Frame, err)
		}
	}

	dc.SetRGB(0, 0, 0)
	dc.SetFont(r.titleFace)
	dc.DrawStringAnchored(format.FrameTitle(frame.Rectangles()), float64(r.width)/2, band*0.3, 0.5, 0.5)
	dc.DrawStringAnchored(r.subtitle(frame), float64(r.width)/2, band*0.7, 0.5, 0.5)
	return dc, nil
}

func (r *Renderer) subtitle(frame refinement.Frame) string {
	res := frame.Result
	if r.hideReference {
		return format.FrameSum(res.Total)
	}
	return format.FrameSubtitle(res.Total, res.Reference, res.AbsError)
}

// Image renders frame and returns the resulting image.
func (r *Renderer) Image(p refinement.Problem, frame refinement.Frame) (image.Image, error) {
	dc, err := r.Draw(p, frame)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

func drawFace(dc *gg.Context, f ProjectedFace) error {
	st := styles[f.Kind]
	if len(f.Points) < 2 {
		return nil
	}
	dc.MoveTo(f.Points[0][0], f.Points[0][1])
	for _, pt := range f.Points[1:] {
		dc.LineTo(pt[0], pt[1])
	}
	if len(f.Points) > 2 {
		dc.ClosePath()
	}

	if st.fill != nil && len(f.Points) > 2 {
		dc.SetColor(st.fill.Color())
		var err error
		if st.stroke != nil {
			err = dc.FillPreserve()
		} else {
			err = dc.Fill()
		}
		if err != nil {
			return err
		}
	}
	if st.stroke != nil {
		dc.SetColor(st.stroke.Color())
		dc.SetLineWidth(st.lineWidth)
		return dc.Stroke()
	}
	dc.ClearPath()
	return nil
}

// drawAxes outlines the domain on the z = 0 plane and labels the axes.
func (r *Renderer) drawAxes(dc *gg.Context, p refinement.Problem, proj Projection, sc Scene) error {
	d := p.Domain
	outline := []Vec3{
		{d.XMin, d.YMin, 0}, {d.XMax, d.YMin, 0}, {d.XMax, d.YMax, 0}, {d.XMin, d.YMax, 0},
	}
	dc.SetRGBA(0.4, 0.4, 0.4, 1)
	dc.SetLineWidth(1)
	for k, v := range outline {
		x, y, _ := proj.Project(v)
		if k == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	if err := dc.Stroke(); err != nil {
		return err
	}

	zx, zy, _ := proj.Project(Vec3{d.XMin, d.YMax, sc.ZMin})
	zx2, zy2, _ := proj.Project(Vec3{d.XMin, d.YMax, sc.ZMax})
	dc.MoveTo(zx, zy)
	dc.LineTo(zx2, zy2)
	if err := dc.Stroke(); err != nil {
		return err
	}

	dc.SetRGB(0, 0, 0)
	dc.SetFont(r.labelFace)
	labels := []struct {
		s string
		v Vec3
	}{
		{"X", Vec3{(d.XMin + d.XMax) / 2, d.YMin, 0}},
		{"Y", Vec3{d.XMax, (d.YMin + d.YMax) / 2, 0}},
		{"Z", Vec3{d.XMin, d.YMax, sc.ZMax}},
	}
	for _, l := range labels {
		x, y, _ := proj.Project(l.v)
		dc.DrawStringAnchored(l.s, x, y+12, 0.5, 0.5)
	}
	return nil
}
