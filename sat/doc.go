/*
Package sat provides the SAT backends the bandwidth coloring solver reduces its problems to.

A Backend allocates variables, receives clauses and decides whether its formula is satisfiable,
possibly under assumptions. Literals are DIMACS integers: variables are numbered from 1
and a negative integer is the negation of the corresponding variable.

Three backends are provided:

	NewGini()                 // in-process, incremental, cancellable
	NewGophersat()            // in-process, incremental, not cancellable
	NewExternal("kissat", "") // runs a solver binary on a temporary DIMACS file, no assumptions

Gini and External stop searching when the context of Solve is done. Gophersat cannot be stopped:
Solve returns Unknown but the search keeps its goroutine and a CPU busy until it ends.

The package also provides cardinality constraints (AtMostK, AtLeastK, ExactlyK)
built with a sequential counter, and a DIMACS writer.
*/
package sat
