package bcp

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/bcpsat/encoding"
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

// minSpan computes the optimal span of g by exhaustive search.
func minSpan(g *graph.Graph) int {
	if g.NbNodes() == 0 {
		return 0
	}
	colors := make([]int, g.NbNodes())
	var try func(u, span int) bool
	try = func(u, span int) bool {
		if u == len(colors) {
			return true
		}
		for c := 1; c <= span; c++ {
			ok := true
			for v := 0; v < u && ok; v++ {
				d := c - colors[v]
				if d < 0 {
					d = -d
				}
				ok = g.Weight(u, v) == 0 || d >= g.Weight(u, v)
			}
			if ok {
				colors[u] = c
				if try(u+1, span) {
					return true
				}
			}
		}
		return false
	}
	span := 1
	for !try(0, span) {
		span++
	}
	return span
}

func TestOptimal(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		g := randomGraph(t, seed, 6, 0.5, 4)
		want := minSpan(g)
		for _, m := range encoding.Methods() {
			for _, incremental := range []bool{false, true} {
				for _, symmetry := range []bool{false, true} {
					name := fmt.Sprintf("seed%d/%s/incremental=%t/symmetry=%t", seed, m, incremental, symmetry)
					t.Run(name, func(t *testing.T) {
						s, err := New(context.Background(), g,
							WithMethod(m),
							WithSymmetryBreaking(symmetry),
							WithHeuristics(true),
						)
						require.NoError(t, err)
						status, err := s.Solve(context.Background(), 0, true, incremental)
						require.NoError(t, err)
						assert.Equal(t, Optimal, status)
						assert.Equal(t, want, s.Span())
						assert.LessOrEqual(t, s.LowerBound(), s.Span())
					})
				}
			}
		}
	}
}

func TestOptimalGophersat(t *testing.T) {
	g := randomGraph(t, 11, 6, 0.6, 3)
	want := minSpan(g)
	for _, m := range []encoding.Method{encoding.OneVarLess, encoding.TwoVarsLess, encoding.StaircaseNoAux} {
		t.Run(m.String(), func(t *testing.T) {
			s, err := New(context.Background(), g, WithMethod(m), WithBackend(sat.NewGophersat()))
			require.NoError(t, err)
			status, err := s.Solve(context.Background(), time.Minute, true, true)
			require.NoError(t, err)
			assert.Equal(t, Optimal, status)
			assert.Equal(t, want, s.Span())
		})
	}
}

func TestForcedUpperBound(t *testing.T) {
	g := randomGraph(t, 1, 6, 0.5, 4)
	for _, m := range encoding.Methods() {
		t.Run(m.String(), func(t *testing.T) {
			s, err := New(context.Background(), g, WithMethod(m), WithUpperBound(100))
			require.NoError(t, err)
			status, err := s.Solve(context.Background(), 0, false, false)
			require.NoError(t, err)
			assert.Equal(t, Satisfiable, status)
			assert.Equal(t, 100, s.Span())
		})
	}
}

func TestInfeasibleUpperBound(t *testing.T) {
	g := graph.New(3)
	require.NoError(t, g.AddEdge(0, 1, 1))
	require.NoError(t, g.AddEdge(1, 2, 1))
	require.NoError(t, g.AddEdge(2, 0, 1))
	s, err := New(context.Background(), g, WithMethod(encoding.StaircaseAuxCache), WithUpperBound(2))
	require.NoError(t, err)
	status, err := s.Solve(context.Background(), 0, true, false)
	require.NoError(t, err)
	assert.Equal(t, Unsatisfiable, status)
	assert.Equal(t, -1, s.Span())
}

func TestLowerBoundStopsSearch(t *testing.T) {
	g := graph.New(2)
	require.NoError(t, g.AddEdge(0, 1, 3))
	s, err := New(context.Background(), g, WithUpperBound(10), WithLowerBound(7))
	require.NoError(t, err)
	status, err := s.Solve(context.Background(), 0, true, true)
	require.NoError(t, err)
	assert.Equal(t, Optimal, status)
	assert.Equal(t, 7, s.Span())
}

func TestTimeout(t *testing.T) {
	g := randomGraph(t, 2, 6, 0.5, 4)
	s, err := New(context.Background(), g)
	require.NoError(t, err)
	status, err := s.Solve(context.Background(), time.Nanosecond, true, false)
	require.NoError(t, err)
	assert.Equal(t, Unknown, status)
	assert.Equal(t, -1, s.Span())
}

func TestEmptyGraph(t *testing.T) {
	s, err := New(context.Background(), graph.New(0))
	require.NoError(t, err)
	status, err := s.Solve(context.Background(), 0, true, false)
	require.NoError(t, err)
	assert.Equal(t, Optimal, status)
	assert.Equal(t, 0, s.Span())
}

func TestMissingExternalSolver(t *testing.T) {
	g := randomGraph(t, 3, 4, 0.5, 2)
	s, err := New(context.Background(), g, WithBackend(sat.NewExternal("kissat", "/nonexistent/kissat")))
	require.NoError(t, err)
	status, err := s.Solve(context.Background(), 0, true, false)
	assert.ErrorIs(t, err, sat.ErrSolverNotFound)
	assert.Equal(t, Unknown, status)
}

// panicking is a backend failing in the middle of an encoding.
type panicking struct {
	sat.Recorder
}

func (p *panicking) AddClause(lits ...int) {
	panic("broken backend")
}

func TestEncodingPanic(t *testing.T) {
	g := randomGraph(t, 3, 4, 0.5, 2)
	s, err := New(context.Background(), g, WithBackend(&panicking{}))
	require.NoError(t, err)
	status, err := s.Solve(context.Background(), 0, true, false)
	assert.Error(t, err)
	assert.Equal(t, Unknown, status)
}

func TestOptions(t *testing.T) {
	g := graph.New(2)
	_, err := New(context.Background(), g, WithUpperBound(-1))
	assert.Error(t, err)
	_, err = New(context.Background(), g, WithLowerBound(-2))
	assert.Error(t, err)
	_, err = New(context.Background(), g, WithCliqueBudget(0))
	assert.Error(t, err)
	_, err = New(context.Background(), g, WithUpperBound(0))
	assert.Error(t, err)
	s, err := New(context.Background(), g, WithUpperBound(3))
	require.NoError(t, err)
	assert.Equal(t, 3, s.UpperBound())
	assert.Equal(t, 1, s.LowerBound())
	assert.Equal(t, Unknown, s.Status())
}

func TestStatistics(t *testing.T) {
	g := randomGraph(t, 4, 6, 0.5, 3)
	s, err := New(context.Background(), g, WithMethod(encoding.TwoVarsGreater))
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), 0, true, true)
	require.NoError(t, err)
	stats := s.Statistics()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"E", "V", "clauses", "encoding_time", "lower_bound", "span", "status",
		"time_used", "total_solving_time", "upper_bound", "variables"}, keys)
	assert.Equal(t, 6.0, stats["V"])
	assert.Equal(t, float64(g.NbEdges()), stats["E"])
	assert.Equal(t, 2.0, stats["status"])
	assert.Equal(t, float64(minSpan(g)), stats["span"])
	assert.Positive(t, stats["variables"])
	assert.InDelta(t, stats["encoding_time"]+stats["total_solving_time"], stats["time_used"], 1e-9)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "UNSATISFIABLE", Unsatisfiable.String())
	assert.Equal(t, "SATISFIABLE", Satisfiable.String())
	assert.Equal(t, "OPTIMAL", Optimal.String())
}

func TestGeometricGraph(t *testing.T) {
	if testing.Short() {
		t.Skip("solves the 16-node fixture with every method")
	}
	g, err := graph.ParseFile("testdata/geom16.col")
	require.NoError(t, err)
	require.Equal(t, 16, g.NbNodes())
	require.Equal(t, 54, g.NbEdges())
	for _, m := range encoding.Methods() {
		for _, incremental := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s/incremental=%t", m, incremental), func(t *testing.T) {
				s, err := New(context.Background(), g, WithMethod(m), WithSymmetryBreaking(incremental))
				require.NoError(t, err)
				status, err := s.Solve(context.Background(), 0, true, incremental)
				require.NoError(t, err)
				assert.Equal(t, Optimal, status)
				assert.Equal(t, 17, s.Span())
			})
		}
	}
	t.Run("gophersat", func(t *testing.T) {
		s, err := New(context.Background(), g, WithMethod(encoding.StaircaseAuxCache), WithBackend(sat.NewGophersat()))
		require.NoError(t, err)
		status, err := s.Solve(context.Background(), 0, true, true)
		require.NoError(t, err)
		assert.Equal(t, Optimal, status)
		assert.Equal(t, 17, s.Span())
		assert.Greater(t, s.Stats().Variables, 0)
	})
}
