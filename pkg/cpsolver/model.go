// Package cpsolver is a small exact integer program solver.
//
// A Model is built from bounded integer and boolean variables, linear
// constraints that may be conditioned on enforcement literals, and an optional
// linear objective to minimize. A Solver runs a depth-first branch and bound
// search with bounds propagation and reports a proven status.
package cpsolver

import (
	"errors"
	"fmt"
	"math"
)

// magnitudeLimit caps variable bounds and constraint activities so that all
// propagation arithmetic stays inside int64.
const magnitudeLimit = int64(1) << 60

var (
	errForeignVariable = errors.New("variable belongs to another model")
	errEmptyDomain     = errors.New("variable domain is empty")
	errOverflow        = errors.New("coefficients or bounds overflow int64 arithmetic")
)

type varDef struct {
	lo, hi int64
	name   string
	isBool bool
}

type hint struct {
	owner *Model
	index int
	value int64
}

// Model is an integer program: variables, constraints and an objective.
type Model struct {
	vars        []varDef
	constraints []*Constraint
	objective   *LinearExpr
	hints       []hint

	objectiveLB    int64
	hasObjectiveLB bool
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// IntVar is an integer decision variable with inclusive bounds.
type IntVar struct {
	m     *Model
	index int
}

// BoolVar is a 0/1 variable or the negation of one.
type BoolVar struct {
	m       *Model
	index   int
	negated bool
}

// NewIntVar creates an integer variable with domain [lo, hi].
func (m *Model) NewIntVar(lo, hi int64, name string) IntVar {
	m.vars = append(m.vars, varDef{lo: lo, hi: hi, name: name})
	return IntVar{m: m, index: len(m.vars) - 1}
}

// NewBoolVar creates a boolean variable.
func (m *Model) NewBoolVar(name string) BoolVar {
	m.vars = append(m.vars, varDef{lo: 0, hi: 1, name: name, isBool: true})
	return BoolVar{m: m, index: len(m.vars) - 1}
}

// NewConstant creates a fixed integer variable.
func (m *Model) NewConstant(value int64) IntVar {
	return m.NewIntVar(value, value, fmt.Sprintf("%d", value))
}

// NumVariables returns the number of variables created so far.
func (m *Model) NumVariables() int {
	return len(m.vars)
}

// NumConstraints returns the number of constraints added so far.
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

// HasObjective reports whether Minimize was called.
func (m *Model) HasObjective() bool {
	return m.objective != nil
}

// VarName returns the name given to the variable at index.
func (m *Model) VarName(index int) string {
	if index < 0 || index >= len(m.vars) {
		return ""
	}
	return m.vars[index].name
}

// Index returns the position of the variable in its model.
func (v IntVar) Index() int { return v.index }

// Name returns the variable name.
func (v IntVar) Name() string { return v.m.VarName(v.index) }

// Index returns the position of the underlying variable in its model.
func (b BoolVar) Index() int { return b.index }

// Name returns the underlying variable name, prefixed with "not " when negated.
func (b BoolVar) Name() string {
	if b.negated {
		return "not " + b.m.VarName(b.index)
	}
	return b.m.VarName(b.index)
}

// Negated reports whether b is the negation of its underlying variable.
func (b BoolVar) Negated() bool { return b.negated }

// Not returns the negated literal.
func (b BoolVar) Not() BoolVar {
	return BoolVar{m: b.m, index: b.index, negated: !b.negated}
}

// Constraint is a linear constraint lb <= expr <= ub.
type Constraint struct {
	expr        *LinearExpr
	lb, ub      int64
	enforcement []BoolVar
}

// OnlyEnforceIf makes the constraint hold only when all literals are true.
func (c *Constraint) OnlyEnforceIf(literals ...BoolVar) *Constraint {
	c.enforcement = append(c.enforcement, literals...)
	return c
}

// AddLinearConstraint adds lb <= expr <= ub. Use math.MinInt64 or
// math.MaxInt64 for an open side.
func (m *Model) AddLinearConstraint(expr LinearArgument, lb, ub int64) *Constraint {
	c := &Constraint{expr: Sum(expr), lb: lb, ub: ub}
	m.constraints = append(m.constraints, c)
	return c
}

// AddEquality adds expr == rhs.
func (m *Model) AddEquality(expr LinearArgument, rhs int64) *Constraint {
	return m.AddLinearConstraint(expr, rhs, rhs)
}

// AddLessOrEqual adds expr <= rhs.
func (m *Model) AddLessOrEqual(expr LinearArgument, rhs int64) *Constraint {
	return m.AddLinearConstraint(expr, math.MinInt64, rhs)
}

// AddGreaterOrEqual adds expr >= rhs.
func (m *Model) AddGreaterOrEqual(expr LinearArgument, rhs int64) *Constraint {
	return m.AddLinearConstraint(expr, rhs, math.MaxInt64)
}

// Minimize sets the objective. A later call replaces the previous objective.
func (m *Model) Minimize(expr LinearArgument) {
	m.objective = Sum(expr)
}

// AddHint suggests a value for v. The search tries hinted values first, so a
// complete feasible hint is found by the first dive.
func (m *Model) AddHint(v IntVar, value int64) {
	m.hints = append(m.hints, hint{owner: v.m, index: v.index, value: value})
}

// AddBoolHint suggests a truth value for the literal b.
func (m *Model) AddBoolHint(b BoolVar, value bool) {
	var v int64
	if value != b.negated {
		v = 1
	}
	m.hints = append(m.hints, hint{owner: b.m, index: b.index, value: v})
}

// NumHints returns the number of hints added so far.
func (m *Model) NumHints() int {
	return len(m.hints)
}

// SetObjectiveLowerBound constrains the objective to be at least lb. The
// search stops with status Optimal as soon as an incumbent reaches lb.
func (m *Model) SetObjectiveLowerBound(lb int64) {
	m.objectiveLB = lb
	m.hasObjectiveLB = true
}

// Validate reports the first structural problem of the model, if any.
func (m *Model) Validate() error {
	for i, v := range m.vars {
		if v.lo > v.hi {
			return fmt.Errorf("%w: %s [%d, %d]", errEmptyDomain, m.displayName(i), v.lo, v.hi)
		}
		if v.lo < -magnitudeLimit || v.hi > magnitudeLimit {
			return fmt.Errorf("%w: %s bounds", errOverflow, m.displayName(i))
		}
	}

	for i, c := range m.constraints {
		if err := m.validateExpr(c.expr); err != nil {
			return fmt.Errorf("constraint %d: %w", i, err)
		}
		for _, lit := range c.enforcement {
			if lit.m != m {
				return fmt.Errorf("constraint %d: %w", i, errForeignVariable)
			}
			if !m.vars[lit.index].isBool {
				return fmt.Errorf("constraint %d: enforcement literal %s is not boolean", i, m.displayName(lit.index))
			}
		}
	}

	if m.objective != nil {
		if err := m.validateExpr(m.objective); err != nil {
			return fmt.Errorf("objective: %w", err)
		}
	} else if m.hasObjectiveLB {
		return errors.New("objective lower bound set without an objective")
	}

	for i, h := range m.hints {
		if h.owner != m {
			return fmt.Errorf("hint %d: %w", i, errForeignVariable)
		}
	}

	return nil
}

func (m *Model) validateExpr(e *LinearExpr) error {
	if e.overflow {
		return errOverflow
	}

	var activity int64
	for _, t := range e.terms {
		if t.owner != m {
			return errForeignVariable
		}
		v := m.vars[t.index]
		bound := max(abs64(v.lo), abs64(v.hi))
		part, ok := mulChecked(abs64(t.coef), bound)
		if !ok {
			return errOverflow
		}
		activity += part
		if part > magnitudeLimit || activity > magnitudeLimit {
			return errOverflow
		}
	}
	if abs64(e.offset) > magnitudeLimit {
		return errOverflow
	}

	return nil
}

func (m *Model) displayName(index int) string {
	if name := m.vars[index].name; name != "" {
		return name
	}
	return fmt.Sprintf("#%d", index)
}
