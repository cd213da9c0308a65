package sat

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Status is the result of a call to a Backend's Solve method.
type Status byte

const (
	// Unknown means the solver could not decide, typically because it ran out of time.
	Unknown = Status(iota)
	// Sat means the formula is satisfiable.
	Sat
	// Unsat means the formula is not satisfiable.
	Unsat
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "UNKNOWN"
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		panic("invalid status")
	}
}

var (
	// ErrAssumptionsUnsupported is returned when assumptions are given to a backend that cannot use them.
	ErrAssumptionsUnsupported = errors.New("backend does not support assumptions")
	// ErrSolverNotFound is returned when an external solver binary cannot be found.
	ErrSolverNotFound = errors.New("solver binary not found")
)

// Stats describes the formula held by a backend and the time spent solving it.
type Stats struct {
	Variables   int           // Number of variables allocated since the last reset
	Clauses     int           // Number of clauses added since the last reset
	Solves      int           // Number of calls to Solve, resets included
	SolvingTime time.Duration // Time spent in Solve, resets included
}

// A Backend is a SAT solver.
type Backend interface {
	// NewVar allocates a new variable and returns its id.
	// Ids are increasing, starting at 1 after each reset.
	NewVar() int
	// AddClause adds the disjunction of lits to the formula.
	AddClause(lits ...int)
	// Solve decides the formula under the given assumptions, which only hold for this call.
	// When ctx is done, the solver stops as soon as it can and returns Unknown.
	Solve(ctx context.Context, assumptions []int) (Status, error)
	// Reset removes all variables and clauses.
	Reset()
	// Stats returns statistics about the backend.
	Stats() Stats
}

// counter keeps the statistics common to all backends.
type counter struct {
	nbVars    int
	nbClauses int
	nbSolves  int
	solving   time.Duration
}

func (c *counter) newVar() int {
	c.nbVars++
	return c.nbVars
}

func (c *counter) reset() {
	c.nbVars = 0
	c.nbClauses = 0
}

// timed records one call to Solve started at start.
func (c *counter) timed(start time.Time) {
	c.nbSolves++
	c.solving += time.Since(start)
}

// Stats returns the statistics of the backend.
func (c *counter) Stats() Stats {
	return Stats{
		Variables:   c.nbVars,
		Clauses:     c.nbClauses,
		Solves:      c.nbSolves,
		SolvingTime: c.solving,
	}
}
