package bcp

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/crillab/bcpsat/bound"
	"github.com/crillab/bcpsat/encoding"
	"github.com/crillab/bcpsat/sat"
)

// An Option configures a Solver.
type Option func(s *Solver) error

// WithMethod selects the encoding.
func WithMethod(m encoding.Method) Option {
	return func(s *Solver) error {
		s.method = m
		return nil
	}
}

// WithBackend selects the SAT solver. The backend must be empty and is owned by the Solver afterwards.
func WithBackend(b sat.Backend) Option {
	return func(s *Solver) error {
		s.backend = b
		return nil
	}
}

// WithUpperBound sets the first span to try instead of computing it with a greedy coloring.
func WithUpperBound(ub int) Option {
	return func(s *Solver) error {
		if ub < 0 {
			return errors.Errorf("invalid upper bound %d", ub)
		}
		s.upper = ub
		return nil
	}
}

// WithLowerBound sets the smallest span to try instead of computing it from a clique.
func WithLowerBound(lb int) Option {
	return func(s *Solver) error {
		if lb < 0 {
			return errors.Errorf("invalid lower bound %d", lb)
		}
		s.lower = lb
		return nil
	}
}

// WithSymmetryBreaking restricts the colors of the highest degree node to the lower half of the span.
func WithSymmetryBreaking(on bool) Option {
	return func(s *Solver) error {
		s.cfg.SymmetryBreaking = on
		return nil
	}
}

// WithHeuristics encodes weight-1 edges as plain coloring constraints.
func WithHeuristics(on bool) Option {
	return func(s *Solver) error {
		s.cfg.Heuristics = on
		return nil
	}
}

// WithWidth sets the window width policy of staircase encodings.
func WithWidth(w encoding.Width) Option {
	return func(s *Solver) error {
		s.cfg.Width = w
		return nil
	}
}

// WithIncrementalVar sets the variables two-variable encodings assume on in incremental mode.
func WithIncrementalVar(v encoding.IncrementalVar) Option {
	return func(s *Solver) error {
		s.cfg.IncrementalVar = v
		return nil
	}
}

// WithLogger sets the logger. By default, nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Solver) error {
		s.log = l
		return nil
	}
}

// WithCliqueBudget limits the time spent looking for cliques on large or dense graphs.
func WithCliqueBudget(d time.Duration) Option {
	return func(s *Solver) error {
		if d <= 0 {
			return errors.Errorf("invalid clique budget %v", d)
		}
		s.cliqueBudget = d
		return nil
	}
}

var defaults = []Option{
	func(s *Solver) error {
		if s.backend == nil {
			s.backend = sat.NewGini()
		}
		return nil
	},
	func(s *Solver) error {
		if s.log == nil {
			l := logrus.New()
			l.SetOutput(io.Discard)
			s.log = l
		}
		return nil
	},
	func(s *Solver) error {
		if s.cliqueBudget == 0 {
			s.cliqueBudget = bound.DefaultCliqueBudget
		}
		return nil
	},
}
