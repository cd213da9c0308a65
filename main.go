package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/crillab/bcpsat/bcp"
	"github.com/crillab/bcpsat/encoding"
	"github.com/crillab/bcpsat/graph"
	"github.com/crillab/bcpsat/metrics"
	"github.com/crillab/bcpsat/sat"
)

type options struct {
	timeLimit      float64
	upperBound     int
	lowerBound     int
	noOptimal      bool
	symmetry       bool
	heuristics     bool
	incremental    bool
	incrementalVar string
	width          string
	solver         string
	solverPath     string
	metrics        bool
	debug          bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:   "bcpsat <filename> <method>",
		Short: "Solve the bandwidth coloring problem with SAT encodings",
		Long: `Finds a coloring of a weighted graph where adjacent nodes get colors at least
as distant as the weight of their edge, while minimizing the largest color.

Available methods: ` + methodList(),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			solverOpts, err := o.solverOptions(cmd.Flags(), args[1])
			if err != nil {
				return err
			}
			// Usage is only printed for invalid arguments.
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return o.run(ctx, cmd, args[0], solverOpts)
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.Float64VarP(&o.timeLimit, "time_limit", "t", 0, "time limit in seconds, 0 for none")
	fs.IntVarP(&o.upperBound, "upper_bound", "u", 0, "first span to try, computed with a greedy coloring if unset")
	fs.IntVar(&o.lowerBound, "lower_bound", 0, "smallest span to try, computed from a clique if unset")
	fs.BoolVar(&o.noOptimal, "no-optimal", false, "stop after the first span instead of minimizing it")
	fs.BoolVar(&o.symmetry, "use-symmetry-breaking", false, "restrict the highest degree node to the lower half of the colors")
	fs.BoolVar(&o.heuristics, "use-heuristics", false, "encode weight-1 edges as plain coloring constraints")
	fs.BoolVarP(&o.incremental, "incremental", "i", false, "probe smaller spans with assumptions instead of re-encoding")
	fs.StringVar(&o.incrementalVar, "incremental-var", encoding.VarY.String(), "variables assumed in incremental mode by two-variable methods: y, x or both")
	fs.StringVar(&o.width, "width", encoding.WidthVary.String(), "staircase window width: vary or fixed")
	fs.StringVar(&o.solver, "solver", "gini", "SAT solver: gini, gophersat, kissat or cadical")
	fs.StringVar(&o.solverPath, "solver-path", "", "path of the kissat or cadical binary, looked up in PATH if empty")
	fs.BoolVar(&o.metrics, "metrics", false, "also print statistics in the Prometheus text format")
	fs.BoolVar(&o.debug, "debug", false, "log every encoding and solving step")
}

func methodList() string {
	var res string
	for i, m := range encoding.Methods() {
		if i > 0 {
			res += ", "
		}
		res += m.String()
	}
	return res
}

func (o *options) run(ctx context.Context, cmd *cobra.Command, path string, solverOpts []bcp.Option) error {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if o.debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	timeLimit := time.Duration(o.timeLimit * float64(time.Second))
	if o.solver == "gophersat" && timeLimit > 0 {
		logger.Warn("gophersat cannot be interrupted: a search that exceeds the time limit keeps running in the background until the process exits")
	}

	g, err := graph.ParseFile(path)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"file":  path,
		"nodes": g.NbNodes(),
		"edges": g.NbEdges(),
	}).Info("graph loaded")

	s, err := bcp.New(ctx, g, append(solverOpts, bcp.WithLogger(logger))...)
	if err != nil {
		return err
	}
	if _, err := s.Solve(ctx, timeLimit, !o.noOptimal, o.incremental); err != nil {
		return err
	}

	stats := s.Statistics()
	if err := printStatistics(cmd.OutOrStdout(), stats); err != nil {
		return err
	}
	if o.metrics {
		return metrics.Export(cmd.OutOrStdout(), stats)
	}
	return nil
}

// solverOptions checks the arguments and returns the corresponding solver options.
func (o *options) solverOptions(fs *pflag.FlagSet, method string) ([]bcp.Option, error) {
	if o.timeLimit < 0 {
		return nil, errors.Errorf("invalid time limit %v", o.timeLimit)
	}
	if fs.Changed("upper_bound") && o.upperBound < 0 {
		return nil, errors.Errorf("invalid upper bound %d", o.upperBound)
	}
	if fs.Changed("lower_bound") && o.lowerBound < 0 {
		return nil, errors.Errorf("invalid lower bound %d", o.lowerBound)
	}
	m, err := encoding.ParseMethod(method)
	if err != nil {
		return nil, err
	}
	width, err := encoding.ParseWidth(o.width)
	if err != nil {
		return nil, err
	}
	v, err := encoding.ParseIncrementalVar(o.incrementalVar)
	if err != nil {
		return nil, err
	}
	backend, err := o.backend()
	if err != nil {
		return nil, err
	}
	opts := []bcp.Option{
		bcp.WithMethod(m),
		bcp.WithBackend(backend),
		bcp.WithSymmetryBreaking(o.symmetry),
		bcp.WithHeuristics(o.heuristics),
		bcp.WithWidth(width),
		bcp.WithIncrementalVar(v),
	}
	if fs.Changed("upper_bound") {
		opts = append(opts, bcp.WithUpperBound(o.upperBound))
	}
	if fs.Changed("lower_bound") {
		opts = append(opts, bcp.WithLowerBound(o.lowerBound))
	}
	return opts, nil
}

func (o *options) backend() (sat.Backend, error) {
	switch o.solver {
	case "gini":
		return sat.NewGini(), nil
	case "gophersat":
		return sat.NewGophersat(), nil
	case "kissat", "cadical":
		if o.incremental && !o.noOptimal {
			return nil, errors.Wrapf(sat.ErrAssumptionsUnsupported, "incremental search with %s", o.solver)
		}
		return sat.NewExternal(o.solver, o.solverPath), nil
	default:
		return nil, errors.Errorf("unknown solver %q", o.solver)
	}
}

func printStatistics(w io.Writer, stats map[string]float64) error {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s: %s\n", k, strconv.FormatFloat(stats[k], 'g', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}
