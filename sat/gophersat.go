package sat

import (
	"context"
	"time"

	"github.com/crillab/gophersat/solver"
)

// Gophersat is a backend using the gophersat CDCL solver.
// The solver is built from the stored clauses on the first call to Solve following a change of the formula,
// and is kept, with what it learned, for the following calls. Assumptions are given to it with Assume.
type Gophersat struct {
	counter
	clauses [][]int
	s       *solver.Solver
	built   bool  // s matches clauses
	unsat   bool  // clauses are unsatisfiable without any assumption
	units   []int // Literals found fixed when s was built
}

// NewGophersat returns an empty gophersat backend.
func NewGophersat() *Gophersat {
	return &Gophersat{}
}

// NewVar implements Backend.
func (s *Gophersat) NewVar() int {
	return s.newVar()
}

// AddClause implements Backend.
// Duplicate literals are removed and tautologies are dropped, as the solver expects clean clauses.
// A clause added after a call to Solve makes the next call rebuild the solver.
func (s *Gophersat) AddClause(lits ...int) {
	s.nbClauses++
	if clause, ok := normalize(lits); ok {
		s.clauses = append(s.clauses, clause)
		s.built = false
	}
}

// build replaces the solver by a new one for the stored clauses.
func (s *Gophersat) build() {
	pb := solver.ParseSliceNb(s.clauses, s.nbVars)
	s.built = true
	s.s = nil
	s.units = nil
	s.unsat = pb.Status == solver.Unsat
	if s.unsat {
		return
	}
	s.units = make([]int, len(pb.Units))
	for i, lit := range pb.Units {
		s.units[i] = int(lit.Int())
	}
	s.s = solver.New(pb)
}

// Solve implements Backend.
// Assume drops the bindings of the literals the solver fixed while parsing, so they are assumed
// again along with the given assumptions.
// The underlying solver cannot be interrupted: when ctx is done first, Solve returns Unknown,
// the search goes on in the background until it ends and the next call builds a new solver.
func (s *Gophersat) Solve(ctx context.Context, assumptions []int) (Status, error) {
	if ctx.Err() != nil {
		return Unknown, nil
	}
	defer s.timed(time.Now())
	if !s.built {
		s.build()
	}
	if s.unsat {
		return Unsat, nil
	}
	lits, ok := normalize(append(append([]int(nil), s.units...), assumptions...))
	if !ok {
		return Unsat, nil
	}
	assumed := make([]solver.Lit, len(lits))
	for i, lit := range lits {
		assumed[i] = solver.IntToLit(int32(lit))
	}
	live := s.s
	if live.Assume(assumed) == solver.Unsat {
		return Unsat, nil
	}
	done := make(chan solver.Status, 1)
	go func() {
		done <- live.Solve()
	}()
	select {
	case status := <-done:
		return gophersatStatus(status), nil
	case <-ctx.Done():
		s.built = false
		s.s = nil
		return Unknown, nil
	}
}

// Reset implements Backend.
func (s *Gophersat) Reset() {
	s.clauses = nil
	s.built = false
	s.s = nil
	s.units = nil
	s.reset()
}

func gophersatStatus(status solver.Status) Status {
	switch status {
	case solver.Sat:
		return Sat
	case solver.Unsat:
		return Unsat
	default:
		return Unknown
	}
}

// normalize returns a copy of lits without duplicates.
// It returns false if lits contains both a literal and its negation.
func normalize(lits []int) ([]int, bool) {
	seen := make(map[int]struct{}, len(lits))
	res := make([]int, 0, len(lits))
	for _, lit := range lits {
		if _, ok := seen[-lit]; ok {
			return nil, false
		}
		if _, ok := seen[lit]; ok {
			continue
		}
		seen[lit] = struct{}{}
		res = append(res, lit)
	}
	return res, true
}
