package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/bcpsat/encoding"
	"github.com/crillab/bcpsat/sat"
)

func execute(args ...string) (string, string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRun(t *testing.T) {
	for _, args := range [][]string{
		{"testdata/small.col", "1g"},
		{"testdata/small.col", "two-vars-less", "--use-heuristics", "--use-symmetry-breaking"},
		{"testdata/small.col", "sac", "-i", "--width", "fixed"},
		{"testdata/small.col", "2g", "-i", "--incremental-var", "both", "--solver", "gophersat"},
	} {
		t.Run(args[1], func(t *testing.T) {
			out, _, err := execute(args...)
			require.NoError(t, err)
			assert.Contains(t, out, "V: 4\n")
			assert.Contains(t, out, "E: 4\n")
			assert.Contains(t, out, "span: 4\n")
			assert.Contains(t, out, "status: 2\n")
		})
	}
}

func TestRunNoOptimal(t *testing.T) {
	out, _, err := execute("testdata/small.col", "one-var-less", "--no-optimal", "-u", "10", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "span: 10\n")
	assert.Contains(t, out, "status: 1\n")
	assert.Contains(t, out, "bcp_span 10\n")
}

func TestRunErrors(t *testing.T) {
	_, _, err := execute("testdata/small.col")
	assert.Error(t, err, "missing method")

	_, _, err = execute("testdata/small.col", "unknown")
	assert.ErrorIs(t, err, encoding.ErrUnknownMethod)

	_, _, err = execute("testdata/small.col", "1g", "--width", "narrow")
	assert.ErrorIs(t, err, encoding.ErrUnknownMethod)

	_, _, err = execute("testdata/small.col", "1g", "-u", "-3")
	assert.Error(t, err)

	_, _, err = execute("testdata/small.col", "1g", "-t", "-1")
	assert.Error(t, err)

	_, _, err = execute("testdata/small.col", "1g", "--solver", "minisat")
	assert.Error(t, err)

	_, _, err = execute("testdata/small.col", "1g", "-i", "--solver", "kissat")
	assert.ErrorIs(t, err, sat.ErrAssumptionsUnsupported)

	_, _, err = execute("testdata/missing.col", "1g")
	assert.Error(t, err)
}

func TestPrintStatistics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printStatistics(&buf, map[string]float64{"span": 21, "V": 20, "time_used": 0.5}))
	assert.Equal(t, "V: 20\nspan: 21\ntime_used: 0.5\n", buf.String())
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		{"testdata/small.col"},
		{"testdata/small.col", "unknown"},
		{"testdata/small.col", "1g", "--lower_bound", "-1"},
		{"testdata/small.col", "1g", "--no-such-flag"},
	} {
		out, _, err := execute(args...)
		assert.Error(t, err, "%v", args)
		assert.Contains(t, out, "Usage:", "%v", args)
	}

	out, _, err := execute("testdata/missing.col", "1g")
	assert.Error(t, err)
	assert.NotContains(t, out, "Usage:")
}

func TestGophersatTimeLimitWarning(t *testing.T) {
	out, errOut, err := execute("testdata/small.col", "1g", "--solver", "gophersat", "-t", "60")
	require.NoError(t, err)
	assert.Contains(t, out, "status: 2\n")
	assert.Contains(t, errOut, "cannot be interrupted")

	_, errOut, err = execute("testdata/small.col", "1g", "-t", "60")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "cannot be interrupted")
}
