package encoding

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/crillab/bcpsat/graph"
	"github.com/crillab/bcpsat/sat"
)

// A pool indexes the variables of an encoding by node and color.
// Colors start at 1.
type pool struct {
	b    sat.Backend
	span int
	x, y [][]int // Indexed by node then color; nil when the family is not used
}

// reset forgets all variables. Families are then allocated from b for the given span.
func (p *pool) reset(b sat.Backend, span int) {
	p.b = b
	p.span = span
	p.x = nil
	p.y = nil
}

func (p *pool) family(nbNodes int) [][]int {
	f := make([][]int, nbNodes)
	for i := range f {
		f[i] = make([]int, p.span+1)
		for c := 1; c <= p.span; c++ {
			f[i][c] = p.b.NewVar()
		}
	}
	return f
}

// X returns the variable meaning node has color c.
func (p *pool) X(node, c int) int { return p.x[node][c] }

// Y returns the thermometer variable of node for color c.
func (p *pool) Y(node, c int) int { return p.y[node][c] }

// base is embedded in all strategies.
type base struct {
	g   *graph.Graph
	cfg Config
	pool
}

// symmetryNode returns the node whose colors are restricted by symmetry breaking, or -1 if there is none.
func (e *base) symmetryNode() int {
	if !e.cfg.SymmetryBreaking {
		return -1
	}
	return e.g.HighestDegreeVertex()
}

// half returns the biggest color the symmetry node can take.
// For any coloring, either it or its mirror image c -> span+1-c gives that node a color <= half.
func half(span int) int {
	return (span + 1) / 2
}

// checkProbe returns an error if no formula can restrict colors to 1..span.
func (e *base) checkProbe(span int) error {
	if e.b == nil {
		return errors.Wrap(ErrIncrementalUnsupported, "nothing encoded")
	}
	if span < 1 || span > e.span {
		return errors.Wrapf(ErrIncrementalUnsupported, "span %d not in 1..%d", span, e.span)
	}
	return nil
}

// excludeX returns literals forbidding colors span+1..encoded span for every node.
func (e *base) excludeX(span int) []int {
	colors := lo.RangeFrom(span+1, e.span-span)
	return lo.FlatMap(lo.Range(e.g.NbNodes()), func(node, _ int) []int {
		return lo.Map(colors, func(c, _ int) int { return -e.X(node, c) })
	})
}

// sameColor forbids u and v to share a color.
func (e *base) sameColor(u, v int) {
	for c := 1; c <= e.span; c++ {
		e.b.AddClause(-e.X(u, c), -e.X(v, c))
	}
}
