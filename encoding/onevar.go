package encoding

import (
	"github.com/crillab/bcpsat/sat"
)

// oneVar encodes colors with a single thermometer family.
// When greater is true, y[i,c] means color(i) >= c, else it means color(i) <= c.
type oneVar struct {
	base
	greater bool
}

func (e *oneVar) Encode(b sat.Backend, span int) {
	e.reset(b, span)
	e.y = e.family(e.g.NbNodes())
	if hd := e.symmetryNode(); hd >= 0 {
		e.breakSymmetryY(hd, e.greater)
	}
	e.thermometerClauses(e.greater)
	for _, edge := range e.g.Edges() {
		for c := 1; c <= span; c++ {
			if e.greater {
				e.b.AddClause(greaterEdge(e.Y, edge.U, edge.V, edge.Weight, c, span)...)
			} else {
				e.b.AddClause(lessEdge(e.Y, edge.U, edge.V, edge.Weight, c, span)...)
			}
		}
	}
}

func (e *oneVar) Assumptions(span int) ([]int, error) {
	if err := e.checkProbe(span); err != nil {
		return nil, err
	}
	return e.thermometerAssumptions(span, e.greater), nil
}

// The following helpers are shared with twoVars, which uses the same y family.

// breakSymmetryY restricts hd to colors 1..half(span).
func (e *base) breakSymmetryY(hd int, greater bool) {
	h := half(e.span)
	switch {
	case greater && h < e.span:
		e.b.AddClause(-e.Y(hd, h+1))
	case !greater:
		e.b.AddClause(e.Y(hd, h))
	}
}

// thermometerClauses states every color is in 1..span and the y family is monotonic.
func (e *base) thermometerClauses(greater bool) {
	for i := 0; i < e.g.NbNodes(); i++ {
		if greater {
			e.b.AddClause(e.Y(i, 1))
			for c := 2; c <= e.span; c++ {
				e.b.AddClause(-e.Y(i, c), e.Y(i, c-1))
			}
		} else {
			e.b.AddClause(e.Y(i, e.span))
			for c := 1; c < e.span; c++ {
				e.b.AddClause(-e.Y(i, c), e.Y(i, c+1))
			}
		}
	}
}

// thermometerAssumptions returns one literal per node restricting its color to 1..span.
func (e *base) thermometerAssumptions(span int, greater bool) []int {
	if span == e.span {
		return nil
	}
	res := make([]int, e.g.NbNodes())
	for i := range res {
		if greater {
			res[i] = -e.Y(i, span+1)
		} else {
			res[i] = e.Y(i, span)
		}
	}
	return res
}

// greaterEdge returns the clause forbidding u to have color c while v is at a distance < w from c,
// with y[i,c] meaning color(i) >= c.
// "u has color c" is y[u,c] and not y[u,c+1]; "v is far enough" is y[v,c+w] or not y[v,c-w+1].
// Literals that are constant given the range of colors are left out, so when no color of v is
// far enough, the clause just forbids color c for u.
func greaterEdge(y func(node, c int) int, u, v, w, c, span int) []int {
	clause := []int{-y(u, c)}
	if c < span {
		clause = append(clause, y(u, c+1))
	}
	if c+w <= span {
		clause = append(clause, y(v, c+w))
	}
	if c-w+1 >= 2 {
		clause = append(clause, -y(v, c-w+1))
	}
	return clause
}

// lessEdge is greaterEdge with y[i,c] meaning color(i) <= c.
// "u has color c" is y[u,c] and not y[u,c-1]; "v is far enough" is y[v,c-w] or not y[v,c+w-1].
func lessEdge(y func(node, c int) int, u, v, w, c, span int) []int {
	clause := []int{-y(u, c)}
	if c > 1 {
		clause = append(clause, y(u, c-1))
	}
	if c-w >= 1 {
		clause = append(clause, y(v, c-w))
	}
	if c+w-1 < span {
		clause = append(clause, -y(v, c+w-1))
	}
	return clause
}
