package sat

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
)

// Exit codes of solvers following the SAT competition conventions.
const (
	exitSat   = 10
	exitUnsat = 20
)

// External is a backend running a solver binary, such as kissat or cadical, on a temporary DIMACS file.
// It does not support assumptions.
type External struct {
	counter
	name    string
	path    string
	args    []string
	clauses [][]int
}

// NewExternal returns a backend running the solver called name.
// If path is empty, the binary is looked up in the PATH when Solve is first called.
// args are given to the solver after the name of the DIMACS file.
func NewExternal(name, path string, args ...string) *External {
	if path == "" {
		path = name
	}
	if len(args) == 0 {
		args = []string{"-q", "-n"}
	}
	return &External{name: name, path: path, args: args}
}

// NewVar implements Backend.
func (s *External) NewVar() int {
	return s.newVar()
}

// AddClause implements Backend.
func (s *External) AddClause(lits ...int) {
	s.nbClauses++
	s.clauses = append(s.clauses, append([]int(nil), lits...))
}

// Solve implements Backend.
func (s *External) Solve(ctx context.Context, assumptions []int) (Status, error) {
	if len(assumptions) != 0 {
		return Unknown, errors.Wrap(ErrAssumptionsUnsupported, s.name)
	}
	bin, err := exec.LookPath(s.path)
	if err != nil {
		return Unknown, errors.Wrapf(ErrSolverNotFound, "%s: %v", s.name, err)
	}
	if ctx.Err() != nil {
		return Unknown, nil
	}
	defer s.timed(time.Now())
	f, err := os.CreateTemp("", "bcp-*.cnf")
	if err != nil {
		return Unknown, errors.Wrap(err, "could not create CNF file")
	}
	defer os.Remove(f.Name())
	w := bufio.NewWriter(f)
	if err := WriteDIMACS(w, s.nbVars, s.clauses); err != nil {
		f.Close()
		return Unknown, err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return Unknown, errors.Wrap(err, "could not write CNF file")
	}
	if err := f.Close(); err != nil {
		return Unknown, errors.Wrap(err, "could not write CNF file")
	}
	cmd := exec.CommandContext(ctx, bin, append([]string{f.Name()}, s.args...)...)
	err = cmd.Run()
	if ctx.Err() != nil {
		return Unknown, nil
	}
	if cmd.ProcessState == nil {
		return Unknown, errors.Wrapf(err, "could not start %s", s.name)
	}
	switch cmd.ProcessState.ExitCode() {
	case exitSat:
		return Sat, nil
	case exitUnsat:
		return Unsat, nil
	}
	if err != nil {
		return Unknown, errors.Wrapf(err, "could not run %s", s.name)
	}
	return Unknown, nil
}

// Reset implements Backend.
func (s *External) Reset() {
	s.clauses = nil
	s.reset()
}
