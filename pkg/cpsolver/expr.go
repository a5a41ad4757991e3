package cpsolver

import "math"

type term struct {
	owner *Model
	index int
	coef  int64
}

// LinearArgument is anything that can appear in a linear expression.
type LinearArgument interface {
	addToLinearExpr(e *LinearExpr, coef int64)
}

// LinearExpr is a weighted sum of variables plus a constant.
type LinearExpr struct {
	terms    []term
	offset   int64
	overflow bool
}

// NewLinearExpr returns the zero expression.
func NewLinearExpr() *LinearExpr {
	return &LinearExpr{}
}

// Sum returns a new expression adding all arguments.
func Sum(args ...LinearArgument) *LinearExpr {
	e := NewLinearExpr()
	for _, a := range args {
		e.AddTerm(a, 1)
	}
	return e
}

// Add appends arg with coefficient one.
func (e *LinearExpr) Add(arg LinearArgument) *LinearExpr {
	return e.AddTerm(arg, 1)
}

// AddTerm appends coef * arg.
func (e *LinearExpr) AddTerm(arg LinearArgument, coef int64) *LinearExpr {
	if arg != nil {
		arg.addToLinearExpr(e, coef)
	}
	return e
}

// AddConstant adds c to the expression offset.
func (e *LinearExpr) AddConstant(c int64) *LinearExpr {
	e.addOffset(c)
	return e
}

// Offset returns the constant part of the expression.
func (e *LinearExpr) Offset() int64 { return e.offset }

// NumTerms returns the number of variable terms, duplicates included.
func (e *LinearExpr) NumTerms() int { return len(e.terms) }

func (e *LinearExpr) addOffset(c int64) {
	sum := e.offset + c
	if (c > 0 && sum < e.offset) || (c < 0 && sum > e.offset) {
		e.overflow = true
		return
	}
	e.offset = sum
}

func (v IntVar) addToLinearExpr(e *LinearExpr, coef int64) {
	e.terms = append(e.terms, term{owner: v.m, index: v.index, coef: coef})
}

// A negated literal contributes coef * (1 - x).
func (b BoolVar) addToLinearExpr(e *LinearExpr, coef int64) {
	if !b.negated {
		e.terms = append(e.terms, term{owner: b.m, index: b.index, coef: coef})
		return
	}
	if coef == math.MinInt64 {
		e.overflow = true
		return
	}
	e.addOffset(coef)
	e.terms = append(e.terms, term{owner: b.m, index: b.index, coef: -coef})
}

func (e *LinearExpr) addToLinearExpr(dst *LinearExpr, coef int64) {
	if e.overflow {
		dst.overflow = true
	}
	for _, t := range e.terms {
		c, ok := mulChecked(t.coef, coef)
		if !ok {
			dst.overflow = true
			continue
		}
		dst.terms = append(dst.terms, term{owner: t.owner, index: t.index, coef: c})
	}
	off, ok := mulChecked(e.offset, coef)
	if !ok {
		dst.overflow = true
		return
	}
	dst.addOffset(off)
}

func mulChecked(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return p, true
}

func abs64(x int64) int64 {
	if x < 0 {
		if x == math.MinInt64 {
			return math.MaxInt64
		}
		return -x
	}
	return x
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}
