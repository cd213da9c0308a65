package bound

import (
	"container/heap"
	"sort"

	"github.com/crillab/bcpsat/graph"
)

// a candidate is an entry of the DSATUR queue.
// Entries are never updated in place: when a node's saturation changes, a new entry is pushed
// and the old one is detected as stale when popped.
type candidate struct {
	node       int
	saturation int // Number of distinct colors among colored neighbors
	degree     int // Number of uncolored neighbors
}

type queue []candidate

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if q[i].saturation != q[j].saturation {
		return q[i].saturation > q[j].saturation
	}
	if q[i].degree != q[j].degree {
		return q[i].degree > q[j].degree
	}
	return q[i].node < q[j].node
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x interface{}) { *q = append(*q, x.(candidate)) }

func (q *queue) Pop() interface{} {
	old := *q
	n := len(old)
	c := old[n-1]
	*q = old[:n-1]
	return c
}

// interval is a closed range of forbidden colors.
type interval struct{ min, max int }

// Upper returns the biggest color used by a greedy DSATUR coloring of g where,
// for each edge, the distance between the colors of its endpoints is at least its weight.
// Colors start at 1, so the result is a feasible span for g. It returns 0 for a graph without nodes.
func Upper(g *graph.Graph) int {
	n := g.NbNodes()
	colors := make([]int, n) // 0 means uncolored
	neighColors := make([]map[int]struct{}, n)
	degree := make([]int, n)
	q := make(queue, 0, n)
	for u := 0; u < n; u++ {
		neighColors[u] = make(map[int]struct{})
		degree[u] = len(g.Neighbors(u))
		q = append(q, candidate{node: u, degree: degree[u]})
	}
	heap.Init(&q)
	span := 0
	var forbidden []interval
	for q.Len() > 0 {
		c := heap.Pop(&q).(candidate)
		u := c.node
		if colors[u] != 0 || c.saturation != len(neighColors[u]) || c.degree != degree[u] {
			continue
		}
		forbidden = forbidden[:0]
		for _, v := range g.Neighbors(u) {
			if colors[v] != 0 {
				w := g.Weight(u, v)
				forbidden = append(forbidden, interval{colors[v] - w + 1, colors[v] + w - 1})
			}
		}
		colors[u] = smallestFree(forbidden)
		if colors[u] > span {
			span = colors[u]
		}
		for _, v := range g.Neighbors(u) {
			if colors[v] != 0 {
				continue
			}
			neighColors[v][colors[u]] = struct{}{}
			degree[v]--
			heap.Push(&q, candidate{node: v, saturation: len(neighColors[v]), degree: degree[v]})
		}
	}
	return span
}

// smallestFree returns the smallest color >= 1 that is in none of the given intervals.
// The slice is sorted in place.
func smallestFree(forbidden []interval) int {
	sort.Slice(forbidden, func(i, j int) bool { return forbidden[i].min < forbidden[j].min })
	color := 1
	for _, itv := range forbidden {
		if itv.min > color {
			break
		}
		if itv.max >= color {
			color = itv.max + 1
		}
	}
	return color
}
