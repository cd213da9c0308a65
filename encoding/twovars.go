package encoding

import (
	"github.com/crillab/bcpsat/sat"
)

// twoVars links an exact color family x to a thermometer family y.
// Edges are encoded on x for one endpoint and on y for the other.
type twoVars struct {
	base
	greater bool
}

func (e *twoVars) Encode(b sat.Backend, span int) {
	e.reset(b, span)
	n := e.g.NbNodes()
	e.x = e.family(n)
	e.y = e.family(n)
	if hd := e.symmetryNode(); hd >= 0 {
		e.breakSymmetryY(hd, e.greater)
	}
	for i := 0; i < n; i++ {
		e.link(i)
	}
	e.thermometerClauses(e.greater)
	for _, edge := range e.g.Edges() {
		if e.cfg.Heuristics && edge.Weight == 1 {
			e.sameColor(edge.U, edge.V)
			continue
		}
		for c := 1; c <= span; c++ {
			e.b.AddClause(e.edgeClause(edge.U, edge.V, edge.Weight, c)...)
		}
	}
}

// link states x[i,c] <=> color(i) == c, in terms of the y family.
func (e *twoVars) link(i int) {
	for c := 1; c <= e.span; c++ {
		x, y := e.X(i, c), e.Y(i, c)
		// next is the thermometer literal true when the color is beyond c.
		var next int
		switch {
		case e.greater && c < e.span:
			next = e.Y(i, c+1)
		case !e.greater && c > 1:
			next = e.Y(i, c-1)
		default:
			e.b.AddClause(-x, y)
			e.b.AddClause(x, -y)
			continue
		}
		e.b.AddClause(-x, y)
		e.b.AddClause(-x, -next)
		e.b.AddClause(x, -y, next)
	}
}

// edgeClause forbids u to have color c while v is at a distance < w from c.
func (e *twoVars) edgeClause(u, v, w, c int) []int {
	clause := []int{-e.X(u, c)}
	if e.greater {
		if c+w <= e.span {
			clause = append(clause, e.Y(v, c+w))
		}
		if c-w+1 >= 2 {
			clause = append(clause, -e.Y(v, c-w+1))
		}
	} else {
		if c-w >= 1 {
			clause = append(clause, e.Y(v, c-w))
		}
		if c+w-1 < e.span {
			clause = append(clause, -e.Y(v, c+w-1))
		}
	}
	return clause
}

func (e *twoVars) Assumptions(span int) ([]int, error) {
	if err := e.checkProbe(span); err != nil {
		return nil, err
	}
	switch e.cfg.IncrementalVar {
	case VarX:
		return e.excludeX(span), nil
	case VarBoth:
		return append(e.thermometerAssumptions(span, e.greater), e.excludeX(span)...), nil
	default:
		return e.thermometerAssumptions(span, e.greater), nil
	}
}
