package bcp

import (
	"time"
)

// Stats summarizes a run of a Solver.
type Stats struct {
	Nodes        int
	Edges        int
	UpperBound   int
	LowerBound   int
	Variables    int // In the last encoded formula
	Clauses      int // In the last encoded formula
	Status       Status
	Span         int // -1 if no span was proven feasible
	EncodingTime time.Duration
	SolvingTime  time.Duration
}

// Stats returns the statistics of the last call to Solve.
func (s *Solver) Stats() Stats {
	bs := s.backend.Stats()
	return Stats{
		Nodes:        s.g.NbNodes(),
		Edges:        s.g.NbEdges(),
		UpperBound:   s.upper,
		LowerBound:   s.lower,
		Variables:    bs.Variables,
		Clauses:      bs.Clauses,
		Status:       s.status,
		Span:         s.Span(),
		EncodingTime: s.encodingTime,
		SolvingTime:  s.solvingTime(),
	}
}

// Statistics returns the statistics of the last call to Solve as a flat map.
// Times are in seconds.
func (s *Solver) Statistics() map[string]float64 {
	return s.Stats().Map()
}

// Map returns st as a flat map. Times are in seconds.
func (st Stats) Map() map[string]float64 {
	return map[string]float64{
		"V":                  float64(st.Nodes),
		"E":                  float64(st.Edges),
		"upper_bound":        float64(st.UpperBound),
		"lower_bound":        float64(st.LowerBound),
		"variables":          float64(st.Variables),
		"clauses":            float64(st.Clauses),
		"status":             float64(st.Status),
		"span":               float64(st.Span),
		"encoding_time":      st.EncodingTime.Seconds(),
		"total_solving_time": st.SolvingTime.Seconds(),
		"time_used":          (st.EncodingTime + st.SolvingTime).Seconds(),
	}
}
