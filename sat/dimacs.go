package sat

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// WriteDIMACS writes the given clauses on w in the DIMACS CNF format.
func WriteDIMACS(w io.Writer, nbVars int, clauses [][]int) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", nbVars, len(clauses)); err != nil {
		return errors.Wrap(err, "could not write DIMACS header")
	}
	buf := make([]byte, 0, 64)
	for _, clause := range clauses {
		buf = buf[:0]
		for _, lit := range clause {
			buf = strconv.AppendInt(buf, int64(lit), 10)
			buf = append(buf, ' ')
		}
		buf = append(buf, '0', '\n')
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "could not write DIMACS clause")
		}
	}
	return nil
}

// Recorder is a Backend that only stores its formula.
// It cannot solve anything but can be written as a DIMACS file, or used to inspect an encoding.
type Recorder struct {
	counter
	Clauses [][]int
}

// NewVar implements Backend.
func (r *Recorder) NewVar() int {
	return r.newVar()
}

// AddClause implements Backend.
func (r *Recorder) AddClause(lits ...int) {
	r.nbClauses++
	r.Clauses = append(r.Clauses, append([]int(nil), lits...))
}

// Solve implements Backend. It always returns Unknown.
func (r *Recorder) Solve(ctx context.Context, assumptions []int) (Status, error) {
	return Unknown, nil
}

// Reset implements Backend.
func (r *Recorder) Reset() {
	r.Clauses = nil
	r.reset()
}

// Dump writes the recorded formula on w in the DIMACS format.
func (r *Recorder) Dump(w io.Writer) error {
	return WriteDIMACS(w, r.nbVars, r.Clauses)
}
