/*
Package graph describes the weighted graphs a bandwidth coloring problem is defined on.

Nodes are indexed from 0 to NbNodes()-1. Each edge carries a weight, i.e the minimal distance
between the colors of its two ends. A graph can be built programmatically:

    g := graph.New(3)
    g.AddEdge(0, 1, 2)
    g.AddEdge(1, 2, 1)

or read from a DIMACS-like stream. If the io.Reader produces the following content:

    c a path of three nodes
    p edge 3 2
    e 1 2 2
    e 2 3 1

the programmer can create the same Graph by doing:

    g, err := graph.Parse(f)

Node ids are 1-based in the file and 0-based in memory. Self-loops are silently dropped.
*/
package graph
