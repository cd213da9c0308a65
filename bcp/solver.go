// Package bcp finds the minimal span of a bandwidth coloring problem
// by solving a sequence of SAT problems for decreasing spans.
package bcp

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/crillab/bcpsat/bound"
	"github.com/crillab/bcpsat/encoding"
	"github.com/crillab/bcpsat/graph"
	"github.com/crillab/bcpsat/sat"
)

// Status is the outcome of a call to Solve.
// Its values are part of the statistics output.
type Status int8

const (
	// Unknown means no span could be proven feasible, usually because time ran out.
	Unknown = Status(-1)
	// Unsatisfiable means the upper bound itself is not feasible.
	Unsatisfiable = Status(0)
	// Satisfiable means a span was proven feasible, but maybe not minimal.
	Satisfiable = Status(1)
	// Optimal means the span is the minimal feasible one, or reached the lower bound.
	Optimal = Status(2)
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "UNKNOWN"
	case Unsatisfiable:
		return "UNSATISFIABLE"
	case Satisfiable:
		return "SATISFIABLE"
	case Optimal:
		return "OPTIMAL"
	default:
		panic("invalid status")
	}
}

// A Solver looks for the minimal span of a graph.
type Solver struct {
	g            *graph.Graph
	method       encoding.Method
	cfg          encoding.Config
	backend      sat.Backend
	strategy     encoding.Strategy
	log          logrus.FieldLogger
	cliqueBudget time.Duration
	upper, lower int
	span         int // Last span proven feasible
	status       Status
	encodingTime time.Duration
	solvingBase  time.Duration // Backend solving time before the current run
}

// New returns a solver for g.
// Unless they are given as options, the bounds of the span are computed concurrently.
func New(ctx context.Context, g *graph.Graph, options ...Option) (*Solver, error) {
	s := Solver{g: g, upper: -1, lower: -1, status: Unknown}
	for _, option := range append(options, defaults...) {
		if err := option(&s); err != nil {
			return nil, err
		}
	}
	var eg errgroup.Group
	if s.upper < 0 {
		eg.Go(func() error {
			s.upper = bound.Upper(g)
			return nil
		})
	}
	if s.lower < 0 {
		eg.Go(func() error {
			s.lower = bound.Lower(ctx, g, s.cliqueBudget)
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "could not compute bounds")
	}
	if g.NbNodes() > 0 && s.upper < 1 {
		return nil, errors.Errorf("upper bound %d leaves no color for %d nodes", s.upper, g.NbNodes())
	}
	if s.lower > s.upper {
		// The upper bound was given and is below a clique: it will be proven infeasible.
		s.lower = s.upper
	}
	s.strategy = encoding.New(s.method, g, s.cfg)
	s.span = s.upper
	s.log.WithFields(logrus.Fields{
		"method": s.method,
		"upper":  s.upper,
		"lower":  s.lower,
	}).Info("bounds computed")
	return &s, nil
}

// Solve looks for a coloring, starting with the upper bound as span.
// If findOptimal is false, only the upper bound is tried. Otherwise, the span is decreased
// until it is not feasible anymore or reaches the lower bound. In incremental mode, the formula is encoded
// once and smaller spans are tried under assumptions; otherwise each span is encoded from scratch.
// If timeLimit is positive, it bounds the total time spent encoding and solving.
// An error is returned if the backend fails or the encoding is inconsistent.
func (s *Solver) Solve(ctx context.Context, timeLimit time.Duration, findOptimal, incremental bool) (status Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.status = Unknown
			status = Unknown
			err = errors.Errorf("could not encode %s: %v", s.method, r)
		}
		if err == nil {
			s.log.WithFields(logrus.Fields{"status": status, "span": s.Span()}).Info("search ended")
		}
	}()
	s.span = s.upper
	s.status = Unknown
	s.encodingTime = 0
	s.solvingBase = s.backend.Stats().SolvingTime
	switch {
	case !findOptimal:
		s.status, err = s.solveOnce(ctx, timeLimit)
	case incremental:
		s.status, err = s.optimalIncremental(ctx, timeLimit)
	default:
		s.status, err = s.optimalNonIncremental(ctx, timeLimit)
	}
	if err != nil {
		s.status = Unknown
	}
	return s.status, err
}

// solveOnce only tries the upper bound.
func (s *Solver) solveOnce(ctx context.Context, timeLimit time.Duration) (Status, error) {
	s.encode(s.span)
	res, err := s.attempt(ctx, timeLimit, s.span, nil)
	if err != nil {
		return Unknown, err
	}
	switch res {
	case sat.Sat:
		return Satisfiable, nil
	case sat.Unsat:
		return Unsatisfiable, nil
	default:
		return Unknown, nil
	}
}

// finish returns the status of an optimization that proved s.span feasible
// and whose last attempt returned last.
func finish(last sat.Status) Status {
	if last == sat.Unknown {
		return Satisfiable
	}
	return Optimal
}

func (s *Solver) optimalNonIncremental(ctx context.Context, timeLimit time.Duration) (Status, error) {
	status, err := s.solveOnce(ctx, timeLimit)
	if err != nil || status != Satisfiable {
		return status, err
	}
	last := sat.Sat
	for last == sat.Sat && s.span > s.lower {
		s.encode(s.span - 1)
		if last, err = s.attempt(ctx, timeLimit, s.span-1, nil); err != nil {
			return Unknown, err
		}
		if last == sat.Sat {
			s.span--
		}
	}
	return finish(last), nil
}

func (s *Solver) optimalIncremental(ctx context.Context, timeLimit time.Duration) (Status, error) {
	status, err := s.solveOnce(ctx, timeLimit)
	if err != nil || status != Satisfiable {
		return status, err
	}
	last := sat.Sat
	for last == sat.Sat && s.span > s.lower {
		assumptions, err := s.strategy.Assumptions(s.span - 1)
		if err != nil {
			return Unknown, err
		}
		if last, err = s.attempt(ctx, timeLimit, s.span-1, assumptions); err != nil {
			return Unknown, err
		}
		if last == sat.Sat {
			s.span--
		}
	}
	return finish(last), nil
}

// encode replaces the content of the backend by the formula for the given span.
func (s *Solver) encode(span int) {
	start := time.Now()
	s.backend.Reset()
	s.strategy.Encode(s.backend, span)
	elapsed := time.Since(start)
	s.encodingTime += elapsed
	stats := s.backend.Stats()
	s.log.WithFields(logrus.Fields{
		"span":      span,
		"variables": stats.Variables,
		"clauses":   stats.Clauses,
		"duration":  elapsed,
	}).Debug("encoded")
}

// attempt solves the current formula within the remaining time.
func (s *Solver) attempt(ctx context.Context, timeLimit time.Duration, span int, assumptions []int) (sat.Status, error) {
	if timeLimit > 0 {
		remaining := timeLimit - s.encodingTime - s.solvingTime()
		if remaining <= 0 {
			s.log.WithField("span", span).Debug("no time left")
			return sat.Unknown, nil
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, remaining)
		defer cancel()
	}
	start := time.Now()
	res, err := s.backend.Solve(ctx, assumptions)
	if err != nil {
		return sat.Unknown, errors.Wrapf(err, "could not solve span %d", span)
	}
	s.log.WithFields(logrus.Fields{
		"span":        span,
		"assumptions": len(assumptions),
		"status":      res,
		"duration":    time.Since(start),
	}).Debug("solved")
	return res, nil
}

func (s *Solver) solvingTime() time.Duration {
	return s.backend.Stats().SolvingTime - s.solvingBase
}

// Span returns the smallest span proven feasible, or -1 if the last call to Solve did not prove any.
func (s *Solver) Span() int {
	if s.status != Satisfiable && s.status != Optimal {
		return -1
	}
	return s.span
}

// Status returns the status of the last call to Solve, Unknown if Solve was never called.
func (s *Solver) Status() Status { return s.status }

// UpperBound returns the first span tried.
func (s *Solver) UpperBound() int { return s.upper }

// LowerBound returns the span under which no attempt is made.
func (s *Solver) LowerBound() int { return s.lower }
