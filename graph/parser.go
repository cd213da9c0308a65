package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoHeader is returned when a stream does not declare its number of nodes.
var ErrNoHeader = errors.New("missing problem line")

func parseHeader(fields []string) (int, error) {
	if len(fields) < 3 {
		return 0, errors.Errorf("invalid syntax %q in header", strings.Join(fields, " "))
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, errors.Errorf("nb nodes not an int: %q", fields[2])
	}
	if n < 0 {
		return 0, errors.Errorf("negative number of nodes %d", n)
	}
	return n, nil
}

func parseEdge(fields []string) (u, v, w int, err error) {
	if len(fields) < 3 {
		return 0, 0, 0, errors.Errorf("invalid syntax %q for edge", strings.Join(fields, " "))
	}
	if u, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, 0, errors.Errorf("node not an int: %q", fields[1])
	}
	if v, err = strconv.Atoi(fields[2]); err != nil {
		return 0, 0, 0, errors.Errorf("node not an int: %q", fields[2])
	}
	w = 1 // Plain coloring instances do not give a weight
	if len(fields) > 3 {
		if w, err = strconv.Atoi(fields[3]); err != nil {
			return 0, 0, 0, errors.Errorf("weight not an int: %q", fields[3])
		}
	}
	return u, v, w, nil
}

// Parse reads a graph in the DIMACS-like "col" format.
// Lines starting with 'p' declare "<ignored> <nbNodes>", lines starting with 'e' declare "<u> <v> <weight>"
// with 1-based node ids. Edges met before the problem line are ignored, as are all other lines.
func Parse(r io.Reader) (*Graph, error) {
	var g *Graph
	sc := bufio.NewScanner(r)
	lineNb := 0
	for sc.Scan() {
		lineNb++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0][0] {
		case 'p':
			n, err := parseHeader(fields)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNb)
			}
			g = New(n)
		case 'e':
			if g == nil {
				continue
			}
			u, v, w, err := parseEdge(fields)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNb)
			}
			if err := g.AddEdge(u-1, v-1, w); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNb)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read graph")
	}
	if g == nil {
		return nil, ErrNoHeader
	}
	return g, nil
}

// ParseFile opens the file at path and parses its content.
func ParseFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %q", path)
	}
	defer f.Close()
	g, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse graph file %q", path)
	}
	return g, nil
}

// Write writes g on w, in the format read by Parse.
func Write(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p edge %d %d\n", g.NbNodes(), g.NbEdges()); err != nil {
		return errors.Wrap(err, "could not write header")
	}
	for _, e := range g.Edges() {
		if _, err := fmt.Fprintf(bw, "e %d %d %d\n", e.U+1, e.V+1, e.Weight); err != nil {
			return errors.Wrap(err, "could not write edge")
		}
	}
	return bw.Flush()
}
