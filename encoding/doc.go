/*
Package encoding translates a bandwidth coloring problem into CNF.

Given a graph and a span S, a Strategy adds to a sat.Backend clauses that are satisfiable
iff every node can get a color in 1..S such that, for each edge (u, v, w), |color(u) - color(v)| >= w.

Strategies differ by the variables they use:

	one-var-greater   y[i,c] <=> color(i) >= c
	one-var-less      y[i,c] <=> color(i) <= c
	two-vars-greater  x[i,c] <=> color(i) == c, plus the y family of one-var-greater
	two-vars-less     x[i,c] <=> color(i) == c, plus the y family of one-var-less
	staircase-*       x[i,c] plus, per node, OR-chains over windows of consecutive colors

Once a formula was encoded for a span S0, Assumptions returns the literals that restrict it to a smaller span,
so that a single incremental solver can probe decreasing spans.
*/
package encoding
