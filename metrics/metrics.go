// Package metrics exposes the statistics of a run in the Prometheus text format.
package metrics

import (
	"io"
	"regexp"
	"sort"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "bcp"

var help = map[string]string{
	"V":                  "Number of nodes of the graph",
	"E":                  "Number of edges of the graph",
	"upper_bound":        "First span tried",
	"lower_bound":        "Span under which no attempt is made",
	"variables":          "Number of variables of the last encoded formula",
	"clauses":            "Number of clauses of the last encoded formula",
	"status":             "Outcome of the search: -1 unknown, 0 unsatisfiable, 1 satisfiable, 2 optimal",
	"span":               "Smallest span proven feasible, -1 if none",
	"encoding_time":      "Time spent encoding, in seconds",
	"total_solving_time": "Time spent in the SAT solver, in seconds",
	"time_used":          "Time spent encoding and solving, in seconds",
}

// Statistics are named after graph conventions; metric names are lower case.
var names = map[string]string{
	"V": "nodes",
	"E": "edges",
}

var invalid = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func metricName(key string) string {
	if name, ok := names[key]; ok {
		return name
	}
	return invalid.ReplaceAllString(key, "_")
}

// Register adds one gauge per statistic to reg.
func Register(reg prometheus.Registerer, stats map[string]float64) error {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h, ok := help[k]
		if !ok {
			h = k
		}
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      metricName(k),
			Help:      h,
		})
		g.Set(stats[k])
		if err := reg.Register(g); err != nil {
			return errors.Wrapf(err, "could not register statistic %q", k)
		}
	}
	return nil
}

// Export writes stats on w in the Prometheus text exposition format.
func Export(w io.Writer, stats map[string]float64) error {
	reg := prometheus.NewRegistry()
	if err := Register(reg, stats); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "could not gather statistics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "could not write statistics")
		}
	}
	return nil
}
