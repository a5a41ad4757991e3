package cpsolver

// Status is the outcome of a solve.
type Status int

const (
	// Unknown means the search stopped before finding a solution or a proof.
	Unknown Status = iota
	// ModelInvalid means the model failed validation.
	ModelInvalid
	// Feasible means a solution was found but optimality was not proven.
	Feasible
	// Infeasible means the search proved that no solution exists.
	Infeasible
	// Optimal means the returned solution is proven optimal.
	Optimal
)

// String returns the conventional upper-case status name.
func (s Status) String() string {
	switch s {
	case Unknown:
		return "UNKNOWN"
	case ModelInvalid:
		return "MODEL_INVALID"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	case Optimal:
		return "OPTIMAL"
	default:
		return "UNKNOWN"
	}
}
