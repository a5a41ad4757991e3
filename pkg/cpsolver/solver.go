package cpsolver

import (
	"errors"
	"time"
)

// defaultPropagationLimit bounds the constraint wake-ups spent at a single
// search node. Interval reasoning around cycles of equalities can converge
// one unit at a time; past the limit the search splits domains instead.
const defaultPropagationLimit = 1 << 14

// Solution exposes the result of a solve.
type Solution interface {
	Status() Status
	Value(v IntVar) int64
	BooleanValue(b BoolVar) bool
	ObjectiveValue() int64
	NumConflicts() int64
	NumBranches() int64
	WallTime() time.Duration
}

// Solver runs branch and bound over a Model.
type Solver struct {
	maxTime          time.Duration
	propagationLimit int
}

// Option configures a Solver.
type Option func(*Solver)

// WithMaxTime stops the search after d. Zero means no limit.
func WithMaxTime(d time.Duration) Option {
	return func(s *Solver) {
		s.maxTime = d
	}
}

// WithPropagationLimit overrides the per-node propagation budget.
func WithPropagationLimit(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.propagationLimit = n
		}
	}
}

// NewSolver creates a Solver. Without options it searches until it proves
// optimality or infeasibility.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{propagationLimit: defaultPropagationLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Response is the Solution returned by Solver.
type Response struct {
	status    Status
	values    []int64
	objective int64
	conflicts int64
	branches  int64
	wallTime  time.Duration
	invalid   error
}

var _ Solution = (*Response)(nil)

func (r *Response) Status() Status          { return r.status }
func (r *Response) ObjectiveValue() int64   { return r.objective }
func (r *Response) NumConflicts() int64     { return r.conflicts }
func (r *Response) NumBranches() int64      { return r.branches }
func (r *Response) WallTime() time.Duration { return r.wallTime }

// InvalidReason returns the validation error behind a ModelInvalid status.
func (r *Response) InvalidReason() error { return r.invalid }

// Value returns the value of v in the best solution, or 0 if there is none.
func (r *Response) Value(v IntVar) int64 {
	if v.index < 0 || v.index >= len(r.values) {
		return 0
	}
	return r.values[v.index]
}

// BooleanValue returns the truth value of b in the best solution.
func (r *Response) BooleanValue(b BoolVar) bool {
	if b.index < 0 || b.index >= len(r.values) {
		return false
	}
	return (r.values[b.index] == 1) != b.negated
}

// Solve searches m. The returned error is non-nil only for a nil model;
// every other outcome is reported through the status.
func (s *Solver) Solve(m *Model) (Solution, error) {
	if m == nil {
		return nil, errors.New("cpsolver: nil model")
	}

	start := time.Now()
	if err := m.Validate(); err != nil {
		return &Response{status: ModelInvalid, invalid: err, wallTime: time.Since(start)}, nil
	}

	st := newSearch(m, s.propagationLimit)
	if s.maxTime > 0 {
		st.deadline = start.Add(s.maxTime)
	}

	st.run()

	resp := &Response{
		conflicts: st.conflicts,
		branches:  st.branches,
	}

	switch {
	case st.hasBest && st.timedOut:
		resp.status = Feasible
	case st.hasBest:
		resp.status = Optimal
	case st.timedOut:
		resp.status = Unknown
	default:
		resp.status = Infeasible
	}

	if st.hasBest {
		resp.values = st.best
		resp.objective = st.bestObjective
	}
	resp.wallTime = time.Since(start)

	return resp, nil
}
