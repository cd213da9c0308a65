package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

const defaultPollInterval = 10 * time.Millisecond

// Gini is an incremental backend running the gini solver in-process.
type Gini struct {
	counter
	g    *gini.Gini
	poll time.Duration
}

// NewGini returns an empty gini backend.
func NewGini() *Gini {
	return &Gini{g: gini.New(), poll: defaultPollInterval}
}

// NewVar implements Backend.
func (s *Gini) NewVar() int {
	return s.newVar()
}

// AddClause implements Backend.
func (s *Gini) AddClause(lits ...int) {
	s.nbClauses++
	clause, ok := normalize(lits)
	if !ok {
		return
	}
	for _, lit := range clause {
		s.g.Add(z.Dimacs2Lit(lit))
	}
	s.g.Add(z.LitNull)
}

// Solve implements Backend.
// Without a deadline or a cancellation signal in ctx, the solver runs in the calling goroutine.
// Otherwise it runs in the background and is polled until it answers or ctx is done.
func (s *Gini) Solve(ctx context.Context, assumptions []int) (Status, error) {
	if ctx.Err() != nil {
		return Unknown, nil
	}
	defer s.timed(time.Now())
	for _, lit := range assumptions {
		s.g.Assume(z.Dimacs2Lit(lit))
	}
	if ctx.Done() == nil {
		return giniStatus(s.g.Solve()), nil
	}
	sv := s.g.GoSolve()
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		if res, ok := sv.Test(); ok {
			return giniStatus(res), nil
		}
		select {
		case <-ctx.Done():
			return giniStatus(sv.Stop()), nil
		case <-ticker.C:
		}
	}
}

// Reset implements Backend.
func (s *Gini) Reset() {
	s.g = gini.New()
	s.reset()
}

func giniStatus(res int) Status {
	switch res {
	case 1:
		return Sat
	case -1:
		return Unsat
	default:
		return Unknown
	}
}
