package bound

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/samber/lo"

	"github.com/crillab/bcpsat/graph"
)

// DefaultCliqueBudget is the time the randomized clique search is allowed to run.
const DefaultCliqueBudget = 100 * time.Second

const (
	exactMaxDensity = 0.2
	exactMaxNodes   = 200
	itersPerDegree  = 300
)

// Lower returns the number of nodes of a clique of g, which is a lower bound on the span of g.
// On small sparse graphs, all maximal cliques are enumerated. On other graphs, cliques are built
// greedily from random orderings until the iteration count or the budget is exhausted.
// Among the cliques found, the one with the best score is kept.
// It returns 0 for a graph without nodes.
func Lower(ctx context.Context, g *graph.Graph, budget time.Duration) int {
	return len(Clique(ctx, g, budget))
}

// Clique returns the best clique found in g, as described in Lower.
func Clique(ctx context.Context, g *graph.Graph, budget time.Duration) []int {
	if g.NbNodes() == 0 {
		return nil
	}
	if g.Density() <= exactMaxDensity && g.NbNodes() < exactMaxNodes {
		return exactClique(ctx, g)
	}
	return greedyClique(ctx, g, budget)
}

// score ranks cliques: the bigger the better, ties broken by the weight of the cut.
func score(g *graph.Graph, clique []int) int {
	in := make([]bool, g.NbNodes())
	for _, u := range clique {
		in[u] = true
	}
	cut := lo.SumBy(g.Edges(), func(e graph.Edge) int {
		if in[e.U] != in[e.V] {
			return e.Weight
		}
		return 0
	})
	return len(clique)*g.NbEdges() + cut
}

type cliqueSearch struct {
	ctx       context.Context
	g         *graph.Graph
	best      []int
	bestScore int
}

func (cs *cliqueSearch) consider(clique []int) {
	if s := score(cs.g, clique); cs.best == nil || s > cs.bestScore {
		cs.best = append([]int(nil), clique...)
		cs.bestScore = s
	}
}

func exactClique(ctx context.Context, g *graph.Graph) []int {
	cs := &cliqueSearch{ctx: ctx, g: g}
	p := make([]int, g.NbNodes())
	for i := range p {
		p[i] = i
	}
	cs.bronKerbosch(nil, p, nil)
	return cs.best
}

// bronKerbosch enumerates maximal cliques containing r, extended with nodes of p and excluding nodes of x.
func (cs *cliqueSearch) bronKerbosch(r, p, x []int) {
	if cs.ctx.Err() != nil {
		return
	}
	if len(p) == 0 && len(x) == 0 {
		cs.consider(r)
		return
	}
	var pivot int
	if len(p) > 0 {
		pivot = p[0]
	} else {
		pivot = x[0]
	}
	candidates := lo.Filter(p, func(v int, _ int) bool { return !cs.g.Adjacent(pivot, v) })
	for _, v := range candidates {
		neighbor := func(u int, _ int) bool { return cs.g.Adjacent(u, v) }
		cs.bronKerbosch(append(r[:len(r):len(r)], v), lo.Filter(p, neighbor), lo.Filter(x, neighbor))
		p = lo.Without(p, v)
		x = append(x, v)
	}
}

func greedyClique(ctx context.Context, g *graph.Graph, budget time.Duration) []int {
	n := g.NbNodes()
	iters := itersPerDegree * int(math.Round(float64(g.NbEdges())/float64(n)))
	if iters < 1 {
		iters = 1
	}
	deadline := time.Now().Add(budget)
	cs := &cliqueSearch{ctx: ctx, g: g}
	clique := make([]int, 0, n)
	for i := 0; i < iters; i++ {
		if ctx.Err() != nil || (i > 0 && time.Now().After(deadline)) {
			break
		}
		rng := rand.New(rand.NewSource(int64(i)))
		clique = clique[:0]
		for _, v := range rng.Perm(n) {
			if lo.EveryBy(clique, func(u int) bool { return g.Adjacent(u, v) }) {
				clique = append(clique, v)
			}
		}
		cs.consider(clique)
	}
	return cs.best
}
