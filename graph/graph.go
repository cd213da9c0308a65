package graph

import (
	"github.com/pkg/errors"
)

// An Edge links two distinct nodes.
// Weight is the minimal distance between the colors of U and V; it is always >= 1.
type Edge struct {
	U, V   int
	Weight int
}

// A Graph is an undirected, weighted multigraph.
// Once built, it is only read by the solving components.
type Graph struct {
	n      int
	edges  []Edge
	matrix [][]int // matrix[u][v] is the biggest weight between u and v, 0 if they are not adjacent
	adj    [][]int // For each node, its distinct neighbors in insertion order
	degree []int   // For each node, its number of incident edges
}

// New returns a graph with n nodes and no edge.
func New(n int) *Graph {
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
	}
	return &Graph{
		n:      n,
		matrix: matrix,
		adj:    make([][]int, n),
		degree: make([]int, n),
	}
}

// AddEdge adds an edge between u and v. Self-loops are ignored.
func (g *Graph) AddEdge(u, v, weight int) error {
	if u < 0 || u >= g.n || v < 0 || v >= g.n {
		return errors.Errorf("edge (%d, %d) out of range for graph with %d nodes", u, v, g.n)
	}
	if weight < 1 {
		return errors.Errorf("invalid weight %d for edge (%d, %d)", weight, u, v)
	}
	if u == v {
		return nil
	}
	g.edges = append(g.edges, Edge{U: u, V: v, Weight: weight})
	g.degree[u]++
	g.degree[v]++
	if g.matrix[u][v] == 0 {
		g.adj[u] = append(g.adj[u], v)
		g.adj[v] = append(g.adj[v], u)
	}
	if weight > g.matrix[u][v] {
		g.matrix[u][v] = weight
		g.matrix[v][u] = weight
	}
	return nil
}

// NbNodes returns the number of nodes in g.
func (g *Graph) NbNodes() int { return g.n }

// NbEdges returns the number of edges in g, duplicates included.
func (g *Graph) NbEdges() int { return len(g.edges) }

// Edges returns the edges of g, in insertion order.
// The returned slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Weight returns the weight between u and v, or 0 if they are not adjacent.
func (g *Graph) Weight(u, v int) int { return g.matrix[u][v] }

// Adjacent is true iff there is at least one edge between u and v.
func (g *Graph) Adjacent(u, v int) bool { return g.matrix[u][v] > 0 }

// Neighbors returns the distinct neighbors of u.
// The returned slice must not be modified.
func (g *Graph) Neighbors(u int) []int { return g.adj[u] }

// Degree returns the number of edges incident to u.
func (g *Graph) Degree(u int) int { return g.degree[u] }

// HighestDegreeVertex returns the node with the most incident edges.
// Ties are broken in favor of the smallest index. It returns -1 for an empty graph.
func (g *Graph) HighestDegreeVertex() int {
	best, bestDeg := -1, -1
	for u, d := range g.degree {
		if d > bestDeg {
			best, bestDeg = u, d
		}
	}
	return best
}

// MaxIncidentWeight returns the biggest weight of an edge incident to u, or 0 if u is isolated.
func (g *Graph) MaxIncidentWeight(u int) int {
	res := 0
	for _, v := range g.adj[u] {
		if w := g.matrix[u][v]; w > res {
			res = w
		}
	}
	return res
}

// MaxWeight returns the biggest weight in g, or 0 if g has no edge.
func (g *Graph) MaxWeight() int {
	res := 0
	for _, e := range g.edges {
		if e.Weight > res {
			res = e.Weight
		}
	}
	return res
}

// Density returns 2m / (n² - n), or 0 when g has less than 2 nodes.
func (g *Graph) Density() float64 {
	if g.n < 2 {
		return 0
	}
	return 2 * float64(len(g.edges)) / (float64(g.n)*float64(g.n) - float64(g.n))
}
