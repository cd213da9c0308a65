package encoding

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/crillab/bcpsat/graph"
	"github.com/crillab/bcpsat/sat"
)

var (
	// ErrUnknownMethod is returned when parsing an unknown method, width or variable name.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrIncrementalUnsupported is returned when assumptions are requested for a span the current formula cannot answer for.
	ErrIncrementalUnsupported = errors.New("span cannot be probed incrementally")
)

// Method identifies an encoding.
type Method byte

const (
	// OneVarGreater uses a single thermometer family, y[i,c] meaning color(i) >= c.
	OneVarGreater = Method(iota)
	// OneVarLess uses a single thermometer family, y[i,c] meaning color(i) <= c.
	OneVarLess
	// TwoVarsGreater links exact colors to the OneVarGreater thermometer.
	TwoVarsGreater
	// TwoVarsLess links exact colors to the OneVarLess thermometer.
	TwoVarsLess
	// StaircaseAux uses staircase chains and a fresh difference variable for each partial window query.
	StaircaseAux
	// StaircaseAuxCache is StaircaseAux with difference variables shared between queries.
	StaircaseAuxCache
	// StaircaseNoAux expands partial window queries in the clauses instead of using difference variables.
	StaircaseNoAux
)

var methodNames = []struct {
	name, alias string
}{
	OneVarGreater:     {"one-var-greater", "1g"},
	OneVarLess:        {"one-var-less", "1l"},
	TwoVarsGreater:    {"two-vars-greater", "2g"},
	TwoVarsLess:       {"two-vars-less", "2l"},
	StaircaseAux:      {"staircase-aux", "sa"},
	StaircaseAuxCache: {"staircase-aux-cache", "sac"},
	StaircaseNoAux:    {"staircase-no-aux", "sn"},
}

// Methods returns all available methods.
func Methods() []Method {
	res := make([]Method, len(methodNames))
	for i := range res {
		res[i] = Method(i)
	}
	return res
}

func (m Method) String() string {
	if int(m) >= len(methodNames) {
		panic("invalid method")
	}
	return methodNames[m].name
}

// ParseMethod returns the method called s, either by its full name or by its alias.
func ParseMethod(s string) (Method, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, names := range methodNames {
		if s == names.name || s == names.alias {
			return Method(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownMethod, "%q", s)
}

// Width is the way staircase encodings choose the width of their windows.
type Width byte

const (
	// WidthVary uses, for each node, the biggest weight of its incident edges.
	WidthVary = Width(iota)
	// WidthFixed uses the biggest weight of the graph for every node having an incident edge of weight > 1.
	WidthFixed
)

func (w Width) String() string {
	switch w {
	case WidthVary:
		return "vary"
	case WidthFixed:
		return "fixed"
	default:
		panic("invalid width")
	}
}

// ParseWidth parses "vary" or "fixed".
func ParseWidth(s string) (Width, error) {
	switch strings.ToLower(s) {
	case "vary":
		return WidthVary, nil
	case "fixed":
		return WidthFixed, nil
	default:
		return 0, errors.Wrapf(ErrUnknownMethod, "width %q", s)
	}
}

// IncrementalVar is the variable family two-variable encodings assume on to restrict the span.
// One-variable encodings always use y and staircase encodings always use x.
type IncrementalVar byte

const (
	// VarY assumes one thermometer literal per node.
	VarY = IncrementalVar(iota)
	// VarX forbids each excluded color of each node.
	VarX
	// VarBoth does both.
	VarBoth
)

func (v IncrementalVar) String() string {
	switch v {
	case VarY:
		return "y"
	case VarX:
		return "x"
	case VarBoth:
		return "both"
	default:
		panic("invalid incremental variable")
	}
}

// ParseIncrementalVar parses "y", "x" or "both".
func ParseIncrementalVar(s string) (IncrementalVar, error) {
	switch strings.ToLower(s) {
	case "y":
		return VarY, nil
	case "x":
		return VarX, nil
	case "both":
		return VarBoth, nil
	default:
		return 0, errors.Wrapf(ErrUnknownMethod, "incremental variable %q", s)
	}
}

// Config holds the options shared by all encodings.
type Config struct {
	SymmetryBreaking bool // Restrict the highest degree node to the lower half of the colors
	Heuristics       bool // Encode weight-1 edges as plain coloring constraints
	Width            Width
	IncrementalVar   IncrementalVar
}

// A Strategy encodes a graph for a given span.
type Strategy interface {
	// Encode adds to b the clauses stating the graph can be colored with colors in 1..span.
	// Any state from a previous call is discarded, so b is expected to be empty.
	Encode(b sat.Backend, span int)
	// Assumptions returns literals restricting the last encoded formula to colors in 1..span.
	Assumptions(span int) ([]int, error)
}

// New returns the strategy implementing m for g.
func New(m Method, g *graph.Graph, cfg Config) Strategy {
	b := base{g: g, cfg: cfg}
	switch m {
	case OneVarGreater:
		return &oneVar{base: b, greater: true}
	case OneVarLess:
		return &oneVar{base: b}
	case TwoVarsGreater:
		return &twoVars{base: b, greater: true}
	case TwoVarsLess:
		return &twoVars{base: b}
	case StaircaseAux:
		return &staircase{base: b, diffs: withAux}
	case StaircaseAuxCache:
		return &staircase{base: b, diffs: withAuxCache}
	case StaircaseNoAux:
		return &staircase{base: b, diffs: withoutAux}
	default:
		panic("invalid method")
	}
}
