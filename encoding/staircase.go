package encoding

import (
	"github.com/pkg/errors"

	"github.com/crillab/bcpsat/sat"
)

// diffMode is the way staircase encodings represent a range of colors strictly inside a window.
type diffMode byte

const (
	withAux      = diffMode(iota) // A fresh variable each time
	withAuxCache                  // A variable shared by identical ranges
	withoutAux                    // The pair of chain variables it is the difference of
)

// A term is true when pos is true and neg is false.
// When neg is 0, the term is the literal pos.
type term struct {
	pos, neg int
}

// negation appends to clause the literals of the negation of t.
func (t term) negation(clause []int) []int {
	clause = append(clause, -t.pos)
	if t.neg != 0 {
		clause = append(clause, t.neg)
	}
	return clause
}

type chainKey struct {
	node, first, last int
}

type diffKey struct {
	node, first, last, anchor int
}

// staircase splits the colors of each node into windows of consecutive colors.
// The window width of a node is the biggest weight of its incident edges, so that the colors
// forbidden by an edge overlap at most two windows.
// Inside each window, chains of variables S(c, end) (suffix) or S(start, c) (prefix) state that the color
// of the node is in the corresponding range. The first window only has a suffix chain, the last one only
// has a prefix chain, and windows in between have both.
type staircase struct {
	base
	diffs  diffMode
	width  []int            // Window width for each node, 1 when the node needs no chain
	chains map[chainKey]int // S variables
	cache  map[diffKey]term
}

func (e *staircase) Encode(b sat.Backend, span int) {
	e.reset(b, span)
	n := e.g.NbNodes()
	e.x = e.family(n)
	e.chains = make(map[chainKey]int)
	e.cache = make(map[diffKey]term)
	e.width = make([]int, n)
	maxWeight := e.g.MaxWeight()
	for i := range e.width {
		k := e.g.MaxIncidentWeight(i)
		if e.cfg.Width == WidthFixed && k > 1 {
			k = maxWeight
		}
		if k > span {
			k = span
		}
		if k < 1 {
			k = 1
		}
		e.width[i] = k
	}
	if hd := e.symmetryNode(); hd >= 0 {
		for c := half(span) + 1; c <= span; c++ {
			e.b.AddClause(-e.X(hd, c))
		}
	}
	for i := 0; i < n; i++ {
		e.encodeNode(i)
	}
	for _, edge := range e.g.Edges() {
		e.encodeEdge(edge.U, edge.V, edge.Weight)
	}
}

func (e *staircase) Assumptions(span int) ([]int, error) {
	if err := e.checkProbe(span); err != nil {
		return nil, err
	}
	return e.excludeX(span), nil
}

func (e *staircase) nbWindows(node int) int {
	return (e.span + e.width[node] - 1) / e.width[node]
}

// window returns the index of the window of node containing color c.
func (e *staircase) window(node, c int) int {
	return (c - 1) / e.width[node]
}

// bounds returns the first and last colors of the given window.
func (e *staircase) bounds(node, window int) (first, last int) {
	k := e.width[node]
	first = window*k + 1
	last = first + k - 1
	if last > e.span {
		last = e.span
	}
	return first, last
}

func (e *staircase) hasSuffix(node, window int) bool {
	nb := e.nbWindows(node)
	return window < nb-1 || nb == 1
}

func (e *staircase) hasPrefix(window int) bool {
	return window > 0
}

// chain returns the variable stating that the color of node is in first..last.
// If create is true and the variable does not exist yet, it is allocated.
// Asking for a missing variable without creating it is a bug in the encoding.
func (e *staircase) chain(node, first, last int, create bool) int {
	if first > last {
		panic(errors.Errorf("invalid staircase range %d..%d for node %d", first, last, node))
	}
	if first == last {
		return e.X(node, first)
	}
	key := chainKey{node, first, last}
	if v, ok := e.chains[key]; ok {
		return v
	}
	if !create {
		panic(errors.Errorf("no staircase variable for range %d..%d of node %d", first, last, node))
	}
	v := e.b.NewVar()
	e.chains[key] = v
	return v
}

// define states s <=> x or rest, where rest is the chain for the other colors of the range of s.
// If exclusive is true, x and rest cannot both hold.
func (e *staircase) define(s, x, rest int, exclusive bool) {
	e.b.AddClause(-x, s)
	e.b.AddClause(-rest, s)
	e.b.AddClause(-s, x, rest)
	if exclusive {
		e.b.AddClause(-x, -rest)
	}
}

// encodeNode states node has exactly one color.
func (e *staircase) encodeNode(node int) {
	nb := e.nbWindows(node)
	indicators := make([]int, nb)
	for j := 0; j < nb; j++ {
		first, last := e.bounds(node, j)
		suffix, prefix := e.hasSuffix(node, j), e.hasPrefix(j)
		if first < last && suffix {
			for c := last - 1; c >= first; c-- {
				s := e.chain(node, c, last, true)
				e.define(s, e.X(node, c), e.chain(node, c+1, last, false), true)
			}
		}
		if first < last && prefix {
			for c := first + 1; c <= last; c++ {
				s := e.chain(node, first, c, true)
				e.define(s, e.X(node, c), e.chain(node, first, c-1, false), !suffix)
			}
		}
		indicators[j] = e.chain(node, first, last, false)
	}
	for j := 0; j < nb-1; j++ {
		e.glue(node, j)
	}
	sat.ExactlyK(e.b, indicators, 1)
}

// glue forbids the end of a window and the beginning of the next one to hold together.
func (e *staircase) glue(node, window int) {
	first, last := e.bounds(node, window)
	next, nextLast := e.bounds(node, window+1)
	size := nextLast - next + 1
	if size > e.width[node]-1 {
		size = e.width[node] - 1
	}
	for i := 1; i <= size; i++ {
		e.b.AddClause(-e.chain(node, first+i, last, false), -e.chain(node, next, next+i-1, false))
	}
}

// encodeEdge states the colors of u and v are at least w apart.
func (e *staircase) encodeEdge(u, v, w int) {
	// Colors leaving no room for the other endpoint.
	for c := max(1, e.span-w+1); c <= min(w, e.span); c++ {
		e.b.AddClause(-e.X(u, c))
		e.b.AddClause(-e.X(v, c))
	}
	if e.cfg.Heuristics && w == 1 {
		e.sameColor(u, v)
		return
	}
	// Both endpoints cannot lie in the same range of w consecutive colors.
	clause := make([]int, 0, 4)
	for c := 1; c+w-1 <= e.span; c++ {
		tu := e.terms(u, c, c+w-1)
		tv := e.terms(v, c, c+w-1)
		for _, a := range tu {
			for _, b := range tv {
				clause = b.negation(a.negation(clause[:0]))
				e.b.AddClause(clause...)
			}
		}
	}
}

// terms returns terms whose disjunction states the color of node is in first..last.
// There is one term per window the range overlaps.
func (e *staircase) terms(node, first, last int) []term {
	var res []term
	for first <= last {
		_, wLast := e.bounds(node, e.window(node, first))
		end := min(last, wLast)
		res = append(res, e.rangeTerm(node, first, end))
		first = end + 1
	}
	return res
}

// rangeTerm returns a term stating the color of node is in first..last, a range inside a single window.
func (e *staircase) rangeTerm(node, first, last int) term {
	j := e.window(node, first)
	wFirst, wLast := e.bounds(node, j)
	suffix, prefix := e.hasSuffix(node, j), e.hasPrefix(j)
	switch {
	case first == last:
		return term{pos: e.X(node, first)}
	case first == wFirst && last == wLast:
		return term{pos: e.chain(node, first, last, false)}
	case last == wLast && suffix:
		return term{pos: e.chain(node, first, last, false)}
	case first == wFirst && prefix:
		return term{pos: e.chain(node, first, last, false)}
	case suffix: // first..wLast minus last+1..wLast
		return e.difference(diffKey{node, first, last, wLast},
			e.chain(node, first, wLast, false), e.chain(node, last+1, wLast, false))
	default: // wFirst..last minus wFirst..first-1
		return e.difference(diffKey{node, first, last, wFirst},
			e.chain(node, wFirst, last, false), e.chain(node, wFirst, first-1, false))
	}
}

// difference returns a term equivalent to pos and not neg.
func (e *staircase) difference(key diffKey, pos, neg int) term {
	if e.diffs == withoutAux {
		return term{pos: pos, neg: neg}
	}
	if e.diffs == withAuxCache {
		if t, ok := e.cache[key]; ok {
			return t
		}
	}
	s := e.b.NewVar()
	e.b.AddClause(-pos, neg, s)
	e.b.AddClause(-s, pos)
	e.b.AddClause(-s, -neg)
	t := term{pos: s}
	if e.diffs == withAuxCache {
		e.cache[key] = t
	}
	return t
}
