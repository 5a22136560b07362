package riemann

import (
	"iter"

	"gonum.org/v1/gonum/floats"
)

// MinSubdivisions is the smallest accepted number of edges per axis.
const MinSubdivisions = 2

// Grid holds the cell edges of a partitioned domain. Each edge slice is
// strictly increasing and has at least MinSubdivisions entries; adjacent
// pairs bound the cells along that axis.
//
// A Grid built by Partition is read-only by convention. Callers that build a
// Grid by hand can check it with Validate; Evaluate does so as well.
type Grid struct {
	XEdges []float64
	YEdges []float64
}

// Partition divides d into n-1 equal subintervals per axis, producing n
// linearly spaced edges on each axis. Both endpoints are included exactly:
// XEdges[0] == d.XMin and XEdges[n-1] == d.XMax, likewise for y.
//
// Parameters:
//   - d: The domain to partition.
//   - n: The number of edges per axis. Must be at least MinSubdivisions.
//
// Returns:
//   - Grid: The partition, with (n-1)² cells.
//   - error: *InvalidPartitionError when n < 2, *DomainError when d is
//     malformed or too narrow to hold n distinct edges.
func Partition(d Domain, n int) (Grid, error) {
	if n < MinSubdivisions {
		return Grid{}, &InvalidPartitionError{N: n}
	}
	if err := d.Validate(); err != nil {
		return Grid{}, err
	}
	g := Grid{
		XEdges: span(n, d.XMin, d.XMax),
		YEdges: span(n, d.YMin, d.YMax),
	}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// span returns n equally spaced values in [lo, hi] with the endpoints pinned.
func span(n int, lo, hi float64) []float64 {
	edges := floats.Span(make([]float64, n), lo, hi)
	edges[0], edges[n-1] = lo, hi
	return edges
}

// Validate checks the structural invariants of the grid.
func (g Grid) Validate() error {
	if n := min(len(g.XEdges), len(g.YEdges)); n < MinSubdivisions {
		return &InvalidPartitionError{N: n}
	}
	if err := checkEdges("x", g.XEdges); err != nil {
		return err
	}
	return checkEdges("y", g.YEdges)
}

func checkEdges(axis string, edges []float64) error {
	for k, e := range edges {
		if !isFinite(e) {
			return &DomainError{Axis: axis, Min: edges[0], Max: edges[len(edges)-1], Reason: "edges must be finite"}
		}
		if k > 0 && e <= edges[k-1] {
			return &DomainError{Axis: axis, Min: edges[0], Max: edges[len(edges)-1], Reason: "edges must be strictly increasing"}
		}
	}
	return nil
}

// Subdivisions returns the number of edges along the x axis. For grids built
// by Partition both axes have the same count.
func (g Grid) Subdivisions() int { return len(g.XEdges) }

// Rows returns the number of cells along the x axis.
func (g Grid) Rows() int { return max(len(g.XEdges)-1, 0) }

// Cols returns the number of cells along the y axis.
func (g Grid) Cols() int { return max(len(g.YEdges)-1, 0) }

// CellCount returns Rows × Cols.
func (g Grid) CellCount() int { return g.Rows() * g.Cols() }

// Domain returns the rectangle spanned by the outermost edges.
func (g Grid) Domain() Domain {
	if len(g.XEdges) == 0 || len(g.YEdges) == 0 {
		return Domain{}
	}
	return Domain{
		XMin: g.XEdges[0], XMax: g.XEdges[len(g.XEdges)-1],
		YMin: g.YEdges[0], YMax: g.YEdges[len(g.YEdges)-1],
	}
}

// Cell returns the cell bounded by edges i, i+1 on x and j, j+1 on y.
// It panics if the indices are out of range, like a slice access.
func (g Grid) Cell(i, j int) Cell {
	return Cell{
		I: i, J: j,
		X0: g.XEdges[i], X1: g.XEdges[i+1],
		Y0: g.YEdges[j], Y1: g.YEdges[j+1],
	}
}

// Index returns the row-major position of cell (i, j).
func (g Grid) Index(i, j int) int { return i*g.Cols() + j }

// Cells yields every cell in row-major order: i outer, j inner.
func (g Grid) Cells() iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		for i := range g.Rows() {
			for j := range g.Cols() {
				if !yield(g.Cell(i, j)) {
					return
				}
			}
		}
	}
}

// Cell is one axis-aligned rectangle of a Grid.
type Cell struct {
	I, J   int
	X0, X1 float64
	Y0, Y1 float64
}

// Midpoint returns the geometric center of the cell.
func (c Cell) Midpoint() (x, y float64) {
	return (c.X0 + c.X1) / 2, (c.Y0 + c.Y1) / 2
}

// Width returns the x extent.
func (c Cell) Width() float64 { return c.X1 - c.X0 }

// Height returns the y extent.
func (c Cell) Height() float64 { return c.Y1 - c.Y0 }

// Area returns Width × Height.
func (c Cell) Area() float64 { return c.Width() * c.Height() }
