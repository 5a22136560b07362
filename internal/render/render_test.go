package render

import (
	"context"
	"image"
	"image/gif"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/riemann2d/internal/integrands"
	"github.com/agbru/riemann2d/internal/refinement"
	"github.com/agbru/riemann2d/internal/riemann"
)

func testProblem() refinement.Problem {
	p := integrands.Paraboloid()
	return refinement.Problem{Name: p.Name, Expr: p.Expr, Domain: p.Domain, Integrand: p.F, Reference: p.Value()}
}

func testFrame(t *testing.T, p refinement.Problem, frame int) refinement.Frame {
	t.Helper()
	lvl := refinement.Level{Frame: frame, Subdivisions: refinement.SubdivisionsForFrame(frame)}
	f, err := refinement.ComputeLevel(context.Background(), p, lvl, refinement.Options{})
	require.NoError(t, err)
	return f
}

func TestProjectionFitsViewport(t *testing.T) {
	t.Parallel()
	d := riemann.Domain{XMin: 0, XMax: math.Pi, YMin: 0, YMax: math.Pi}
	vp := Viewport{X: 10, Y: 20, Width: 300, Height: 200}
	proj := NewProjection(d, 0, 20, vp, DefaultAzimuth, DefaultElevation)

	var minX, maxX, minY, maxY = math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)
	for _, x := range []float64{d.XMin, d.XMax} {
		for _, y := range []float64{d.YMin, d.YMax} {
			for _, z := range []float64{0, 20} {
				px, py, _ := proj.Project(Vec3{x, y, z})
				minX, maxX = math.Min(minX, px), math.Max(maxX, px)
				minY, maxY = math.Min(minY, py), math.Max(maxY, py)
			}
		}
	}
	const eps = 1e-9
	assert.GreaterOrEqual(t, minX, vp.X-eps)
	assert.LessOrEqual(t, maxX, vp.X+vp.Width+eps)
	assert.GreaterOrEqual(t, minY, vp.Y-eps)
	assert.LessOrEqual(t, maxY, vp.Y+vp.Height+eps)

	fitsWidth := math.Abs((maxX-minX)-vp.Width) < 1e-6
	fitsHeight := math.Abs((maxY-minY)-vp.Height) < 1e-6
	assert.True(t, fitsWidth || fitsHeight, "the box should touch the viewport on one axis")
}

func TestProjectionOrientation(t *testing.T) {
	t.Parallel()
	d := riemann.Domain{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	proj := NewProjection(d, 0, 1, Viewport{Width: 100, Height: 100}, DefaultAzimuth, DefaultElevation)

	_, low, _ := proj.Project(Vec3{0.5, 0.5, 0})
	_, high, _ := proj.Project(Vec3{0.5, 0.5, 1})
	assert.Less(t, high, low, "larger z should be higher on screen")

	_, _, near := proj.Project(Vec3{1, 0, 1})
	for _, c := range []Vec3{{0, 0, 0}, {0, 1, 1}, {1, 1, 0}, {0, 0, 1}} {
		_, _, depth := proj.Project(c)
		assert.Greater(t, near, depth, "corner (xmax, ymin, zmax) faces the camera")
	}
}

func TestProjectionFlatRange(t *testing.T) {
	t.Parallel()
	d := riemann.Domain{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	proj := NewProjection(d, 3, 3, Viewport{Width: 100, Height: 100}, DefaultAzimuth, DefaultElevation)
	px, py, depth := proj.Project(Vec3{0.5, 0.5, 3})
	for _, v := range []float64{px, py, depth} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestBuildScene(t *testing.T) {
	t.Parallel()
	p := testProblem()
	f := testFrame(t, p, 1)

	sc := BuildScene(p, f, DefaultSurfaceResolution)
	counts := map[FaceKind]int{}
	for _, face := range sc.Faces {
		counts[face.Kind]++
	}
	assert.Equal(t, 4, counts[KindBase])
	assert.Equal(t, 4, counts[KindTop])
	assert.Equal(t, 16, counts[KindEdge])
	assert.Equal(t, 29*29, counts[KindSurface])

	assert.Equal(t, 0.0, sc.ZMin)
	assert.InDelta(t, 2*math.Pi*math.Pi, sc.ZMax, 1e-9, "the mesh reaches f(π, π)")

	withoutSurface := BuildScene(p, f, 0)
	assert.Len(t, withoutSurface.Faces, 24)
}

func TestBuildSceneSkipsUndefinedMesh(t *testing.T) {
	t.Parallel()
	p := testProblem()
	f := testFrame(t, p, 1)
	p.Integrand = func(x, y float64) float64 {
		if x == 0 {
			panic("undefined at x = 0")
		}
		if y == 0 {
			return math.Inf(1)
		}
		return x + y
	}

	sc := BuildScene(p, f, 5)
	surface := 0
	for _, face := range sc.Faces {
		if face.Kind == KindSurface {
			surface++
		}
	}
	assert.Equal(t, 3*3, surface, "quads touching x = 0 or y = 0 are dropped")
}

func TestSceneProjectOrdersBackToFront(t *testing.T) {
	t.Parallel()
	p := testProblem()
	sc := BuildScene(p, testFrame(t, p, 3), 8)
	proj := NewProjection(p.Domain, sc.ZMin, sc.ZMax, Viewport{Width: 400, Height: 300}, DefaultAzimuth, DefaultElevation)

	faces := sc.Project(proj)
	require.Len(t, faces, len(sc.Faces))
	for i := 1; i < len(faces); i++ {
		require.LessOrEqual(t, faces[i-1].Depth, faces[i].Depth)
	}
}

func TestNewRendererRejectsBadSize(t *testing.T) {
	t.Parallel()
	_, err := NewRenderer(0, 100)
	assert.Error(t, err)
}

func TestRendererImage(t *testing.T) {
	t.Parallel()
	r, err := NewRenderer(320, 240)
	require.NoError(t, err)
	defer r.Close()

	p := testProblem()
	img, err := r.Image(p, testFrame(t, p, 2))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 240), img.Bounds())

	cr, cg, cb, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{cr, cg, cb}, "background is white")

	painted := 0
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				painted++
			}
		}
	}
	assert.Greater(t, painted, 320*240/20, "the bars and the surface should cover part of the image")
}

func TestRendererWithoutReference(t *testing.T) {
	t.Parallel()
	p := testProblem()
	frame := testFrame(t, p, 1)

	full, err := NewRenderer(320, 240)
	require.NoError(t, err)
	defer full.Close()
	bare, err := NewRenderer(320, 240, WithoutReference())
	require.NoError(t, err)
	defer bare.Close()

	assert.Equal(t, "Approximation = 60.880682, Exact = 64.939394, Error = 4.058712", full.subtitle(frame))
	assert.Equal(t, "Sum = 60.8807", bare.subtitle(frame))

	fullImg, err := full.Image(p, frame)
	require.NoError(t, err)
	bareImg, err := bare.Image(p, frame)
	require.NoError(t, err)
	assert.Less(t, paintedPixels(bareImg), paintedPixels(fullImg), "the shorter subtitle paints fewer pixels")
}

func paintedPixels(img image.Image) int {
	n := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || b != 0xffff {
				n++
			}
		}
	}
	return n
}

func TestPNGSink(t *testing.T) {
	t.Parallel()
	r, err := NewRenderer(200, 150)
	require.NoError(t, err)
	defer r.Close()

	dir := filepath.Join(t.TempDir(), "frames")
	p := testProblem()
	sink, err := NewPNGSink(dir, r, p)
	require.NoError(t, err)

	frames := []refinement.Frame{testFrame(t, p, 1), testFrame(t, p, 2)}
	require.NoError(t, refinement.Play(context.Background(), frames, sink, 0))

	require.Equal(t, []string{
		filepath.Join(dir, "frame_001.png"),
		filepath.Join(dir, "frame_002.png"),
	}, sink.Paths())

	fh, err := os.Open(sink.Paths()[1])
	require.NoError(t, err)
	defer fh.Close()
	cfg, err := png.DecodeConfig(fh)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 150, cfg.Height)
}

func TestPNGSinkCanceled(t *testing.T) {
	t.Parallel()
	r, err := NewRenderer(100, 100)
	require.NoError(t, err)
	defer r.Close()

	p := testProblem()
	sink, err := NewPNGSink(t.TempDir(), r, p)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sink.Consume(ctx, testFrame(t, p, 1)), context.Canceled)
	assert.Empty(t, sink.Paths())
}

func TestGIFSink(t *testing.T) {
	t.Parallel()
	r, err := NewRenderer(160, 120)
	require.NoError(t, err)
	defer r.Close()

	path := filepath.Join(t.TempDir(), "out", "riemann.gif")
	p := testProblem()
	sink := NewGIFSink(path, r, p)

	frames := []refinement.Frame{testFrame(t, p, 1), testFrame(t, p, 2), testFrame(t, p, 3)}
	require.NoError(t, refinement.Play(context.Background(), frames, sink, 0))
	assert.Equal(t, 3, sink.Frames())
	require.NoError(t, refinement.CloseSink(sink))
	require.NoError(t, sink.Close(), "second Close is a no-op")

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	anim, err := gif.DecodeAll(fh)
	require.NoError(t, err)
	assert.Len(t, anim.Image, 3)
	assert.Equal(t, []int{100, 100, 100}, anim.Delay)
}

func TestGIFSinkWithoutFrames(t *testing.T) {
	t.Parallel()
	r, err := NewRenderer(100, 100)
	require.NoError(t, err)
	defer r.Close()

	path := filepath.Join(t.TempDir(), "empty.gif")
	require.NoError(t, NewGIFSink(path, r, testProblem()).Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFrameFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "frame_007.png", FrameFileName(7))
	assert.Equal(t, "frame_120.png", FrameFileName(120))
}
