package encoding

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/bcpsat/graph"
	"github.com/crillab/bcpsat/sat"
)

func randomGraph(t *testing.T, seed int64, n int, density float64, maxWeight int) *graph.Graph {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g := graph.New(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < density {
				require.NoError(t, g.AddEdge(u, v, 1+rng.Intn(maxWeight)))
			}
		}
	}
	return g
}

// feasible tells, by exhaustive search, whether g can be colored with colors in 1..span.
func feasible(g *graph.Graph, span int) bool {
	colors := make([]int, g.NbNodes())
	var try func(u int) bool
	try = func(u int) bool {
		if u == len(colors) {
			return true
		}
		for c := 1; c <= span; c++ {
			ok := true
			for v := 0; v < u && ok; v++ {
				if w := g.Weight(u, v); w > 0 && abs(c-colors[v]) < w {
					ok = false
				}
			}
			if ok {
				colors[u] = c
				if try(u + 1) {
					return true
				}
			}
		}
		return false
	}
	return try(0)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func testGraphs(t *testing.T) map[string]*graph.Graph {
	graphs := map[string]*graph.Graph{
		"empty":    graph.New(3),
		"isolated": graph.New(1),
	}
	path := graph.New(3)
	require.NoError(t, path.AddEdge(0, 1, 3))
	require.NoError(t, path.AddEdge(1, 2, 2))
	graphs["path"] = path
	heavy := graph.New(2)
	require.NoError(t, heavy.AddEdge(0, 1, 5))
	graphs["heavy"] = heavy
	for seed := int64(0); seed < 4; seed++ {
		graphs[fmt.Sprintf("random%d", seed)] = randomGraph(t, seed, 5, 0.6, 4)
	}
	mixed := randomGraph(t, 7, 6, 0.5, 2)
	require.NoError(t, mixed.AddEdge(0, 5, 4))
	graphs["mixed"] = mixed
	return graphs
}

func configs() map[string]Config {
	return map[string]Config{
		"plain":     {},
		"symmetry":  {SymmetryBreaking: true},
		"heuristic": {Heuristics: true},
		"fixed":     {Width: WidthFixed, SymmetryBreaking: true, Heuristics: true},
	}
}

func solve(t *testing.T, b sat.Backend, assumptions []int) sat.Status {
	t.Helper()
	status, err := b.Solve(context.Background(), assumptions)
	require.NoError(t, err)
	return status
}

func expected(ok bool) sat.Status {
	if ok {
		return sat.Sat
	}
	return sat.Unsat
}

func TestEncodingsAgainstBruteForce(t *testing.T) {
	for gname, g := range testGraphs(t) {
		maxSpan := 2 * (g.MaxWeight() + 2)
		want := make([]sat.Status, maxSpan+1)
		for span := 1; span <= maxSpan; span++ {
			want[span] = expected(feasible(g, span))
		}
		for _, m := range Methods() {
			for cname, cfg := range configs() {
				t.Run(gname+"/"+m.String()+"/"+cname, func(t *testing.T) {
					for span := 1; span <= maxSpan; span++ {
						b := sat.NewGini()
						New(m, g, cfg).Encode(b, span)
						assert.Equal(t, want[span], solve(t, b, nil), "span %d", span)
					}
				})
			}
		}
	}
}

func TestIncrementalProbes(t *testing.T) {
	vars := []IncrementalVar{VarY, VarX, VarBoth}
	for gname, g := range testGraphs(t) {
		maxSpan := 2 * (g.MaxWeight() + 2)
		for _, m := range Methods() {
			for _, v := range vars {
				t.Run(gname+"/"+m.String()+"/"+v.String(), func(t *testing.T) {
					b := sat.NewGini()
					e := New(m, g, Config{SymmetryBreaking: true, IncrementalVar: v})
					e.Encode(b, maxSpan)
					for span := maxSpan; span >= 1; span-- {
						assumptions, err := e.Assumptions(span)
						require.NoError(t, err)
						assert.Equal(t, expected(feasible(g, span)), solve(t, b, assumptions), "span %d", span)
					}
				})
			}
		}
	}
}

func TestGophersatBackend(t *testing.T) {
	g := randomGraph(t, 3, 5, 0.7, 3)
	for _, m := range Methods() {
		t.Run(m.String(), func(t *testing.T) {
			for span := 1; span <= 8; span++ {
				b := sat.NewGophersat()
				New(m, g, Config{Heuristics: true}).Encode(b, span)
				assert.Equal(t, expected(feasible(g, span)), solve(t, b, nil), "span %d", span)
			}
		})
	}
}

func TestAssumptionsErrors(t *testing.T) {
	g := graph.New(2)
	require.NoError(t, g.AddEdge(0, 1, 2))
	for _, m := range Methods() {
		e := New(m, g, Config{})
		_, err := e.Assumptions(2)
		assert.ErrorIs(t, err, ErrIncrementalUnsupported, m.String())
		e.Encode(&sat.Recorder{}, 4)
		_, err = e.Assumptions(5)
		assert.ErrorIs(t, err, ErrIncrementalUnsupported, m.String())
		_, err = e.Assumptions(0)
		assert.ErrorIs(t, err, ErrIncrementalUnsupported, m.String())
		assumptions, err := e.Assumptions(4)
		require.NoError(t, err)
		assert.Empty(t, assumptions, m.String())
	}
}

func TestOneVarSize(t *testing.T) {
	g := graph.New(3)
	require.NoError(t, g.AddEdge(0, 1, 2))
	var r sat.Recorder
	New(OneVarGreater, g, Config{}).Encode(&r, 4)
	assert.Equal(t, 12, r.Stats().Variables)
	// 3 units, 3*3 monotonicity clauses, 4 edge clauses.
	assert.Equal(t, 3+9+4, r.Stats().Clauses)
	assert.Contains(t, r.Clauses, []int{-1, 2, 7})
	assert.Contains(t, r.Clauses, []int{-4, -7})
	assert.Contains(t, r.Clauses, []int{-3, 4, -6})
}

func TestEdgeClauses(t *testing.T) {
	y := func(node, c int) int { return node*10 + c }
	tests := []struct {
		name   string
		clause func(func(int, int) int, int, int, int, int, int) []int
		c, w   int
		want   []int
	}{
		{"greater interior", greaterEdge, 4, 2, []int{-4, 5, 16, -13}},
		{"greater low", greaterEdge, 1, 2, []int{-1, 2, 13}},
		{"greater high", greaterEdge, 6, 2, []int{-6, -15}},
		{"greater none", greaterEdge, 3, 5, []int{-3, 4}},
		{"greater none last", greaterEdge, 6, 6, []int{-6}},
		{"less interior", lessEdge, 4, 2, []int{-4, 3, 12, -15}},
		{"less low", lessEdge, 1, 2, []int{-1, -12}},
		{"less high", lessEdge, 6, 2, []int{-6, 5, 14}},
		{"less none first", lessEdge, 1, 6, []int{-1}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.clause(y, 0, 1, test.w, test.c, 6))
		})
	}
}

func TestStaircaseCache(t *testing.T) {
	// Node 0 has windows of width 4, so weight 2 edges query ranges inside its windows.
	g := graph.New(4)
	require.NoError(t, g.AddEdge(0, 1, 2))
	require.NoError(t, g.AddEdge(0, 2, 2))
	require.NoError(t, g.AddEdge(0, 3, 4))
	var withCache, withoutCache, noAux sat.Recorder
	New(StaircaseAuxCache, g, Config{}).Encode(&withCache, 10)
	New(StaircaseAux, g, Config{}).Encode(&withoutCache, 10)
	New(StaircaseNoAux, g, Config{}).Encode(&noAux, 10)
	assert.Less(t, withCache.Stats().Variables, withoutCache.Stats().Variables)
	assert.Less(t, noAux.Stats().Variables, withCache.Stats().Variables)
}

func TestStaircaseInvalidRange(t *testing.T) {
	g := graph.New(1)
	e := New(StaircaseAux, g, Config{}).(*staircase)
	e.Encode(&sat.Recorder{}, 3)
	assert.Panics(t, func() { e.chain(0, 3, 2, false) })
	assert.Panics(t, func() { e.chain(0, 1, 3, false) })
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods() {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
		got, err = ParseMethod(methodNames[m].alias)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMethod("three-vars")
	assert.ErrorIs(t, err, ErrUnknownMethod)
	w, err := ParseWidth("fixed")
	require.NoError(t, err)
	assert.Equal(t, WidthFixed, w)
	_, err = ParseWidth("wide")
	assert.ErrorIs(t, err, ErrUnknownMethod)
	v, err := ParseIncrementalVar("both")
	require.NoError(t, err)
	assert.Equal(t, VarBoth, v)
	_, err = ParseIncrementalVar("z")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}
