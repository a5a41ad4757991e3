package cpsolver

import (
	"math"
	"time"
)

// openLimit is the largest magnitude a validated expression can reach
// (activity plus offset). Bounds beyond it are either always satisfied or
// always violated.
const openLimit = magnitudeLimit * 2

// literal is true when variable v is fixed to val.
type literal struct {
	v   int
	val int64
}

// linear is the compiled form of lb <= sum(coefs[k] * vars[k]) <= ub.
type linear struct {
	vars         []int
	coefs        []int64
	lb, ub       int64
	hasLB, hasUB bool
	enforce      []literal
}

type trailEntry struct {
	v      int
	lo, hi int64
}

type search struct {
	lo, hi []int64
	trail  []trailEntry

	cons     []*linear
	watchers [][]int
	queue    []int
	head     int
	queued   []bool

	objIndex  int // index in cons, -1 without objective
	objOffset int64
	objCoef   []int64

	boolOrder []int
	intVars   []int

	hint   []int64
	hinted []bool

	best          []int64
	bestObjective int64
	hasBest       bool
	proven        bool // an incumbent reached the objective lower bound

	propagationLimit int
	deadline         time.Time
	timedOut         bool
	nodes            int64
	conflicts        int64
	branches         int64
}

func newSearch(m *Model, propagationLimit int) *search {
	n := len(m.vars)
	s := &search{
		lo:               make([]int64, n),
		hi:               make([]int64, n),
		watchers:         make([][]int, n),
		objIndex:         -1,
		objCoef:          make([]int64, n),
		hint:             make([]int64, n),
		hinted:           make([]bool, n),
		propagationLimit: propagationLimit,
	}

	for i, v := range m.vars {
		s.lo[i], s.hi[i] = v.lo, v.hi
	}
	for _, h := range m.hints {
		s.hint[h.index], s.hinted[h.index] = h.value, true
	}

	for _, c := range m.constraints {
		l := compileLinear(c.expr, c.lb, c.ub)
		for _, lit := range c.enforcement {
			want := int64(1)
			if lit.negated {
				want = 0
			}
			l.enforce = append(l.enforce, literal{v: lit.index, val: want})
		}
		s.addConstraint(l)
	}

	if m.objective != nil {
		floor := int64(math.MinInt64)
		if m.hasObjectiveLB {
			floor = m.objectiveLB
		}
		obj := compileLinear(m.objective, floor, math.MaxInt64)
		s.objOffset = m.objective.offset
		for k, v := range obj.vars {
			s.objCoef[v] = obj.coefs[k]
		}
		s.objIndex = s.addConstraint(obj)
	}

	// Objective booleans are decided first, then the remaining booleans.
	// Integers come last and are split on their smallest domain.
	var others []int
	for i, v := range m.vars {
		switch {
		case v.isBool && s.objCoef[i] != 0:
			s.boolOrder = append(s.boolOrder, i)
		case v.isBool:
			others = append(others, i)
		default:
			s.intVars = append(s.intVars, i)
		}
	}
	s.boolOrder = append(s.boolOrder, others...)
	s.queued = make([]bool, len(s.cons))

	return s
}

func compileLinear(e *LinearExpr, lb, ub int64) *linear {
	l := &linear{}
	pos := make(map[int]int, len(e.terms))
	for _, t := range e.terms {
		if t.coef == 0 {
			continue
		}
		if p, ok := pos[t.index]; ok {
			l.coefs[p] += t.coef
			continue
		}
		pos[t.index] = len(l.vars)
		l.vars = append(l.vars, t.index)
		l.coefs = append(l.coefs, t.coef)
	}

	// Drop terms whose merged coefficient cancelled out.
	k := 0
	for i := range l.vars {
		if l.coefs[i] != 0 {
			l.vars[k], l.coefs[k] = l.vars[i], l.coefs[i]
			k++
		}
	}
	l.vars, l.coefs = l.vars[:k], l.coefs[:k]

	if lb > -openLimit {
		l.hasLB = true
		l.lb = min(lb, openLimit+1) - e.offset
	}
	if ub < openLimit {
		l.hasUB = true
		l.ub = max(ub, -openLimit-1) - e.offset
	}

	return l
}

func (s *search) addConstraint(l *linear) int {
	idx := len(s.cons)
	s.cons = append(s.cons, l)

	seen := make(map[int]bool, len(l.vars)+len(l.enforce))
	watch := func(v int) {
		if !seen[v] {
			seen[v] = true
			s.watchers[v] = append(s.watchers[v], idx)
		}
	}
	for _, v := range l.vars {
		watch(v)
	}
	for _, lit := range l.enforce {
		watch(lit.v)
	}

	return idx
}

func (s *search) run() {
	for i := range s.cons {
		s.enqueue(i)
	}
	s.dfs()
}

// dfs explores the current node and returns true when the whole search must
// stop (deadline reached, or a feasibility-only model found a solution).
func (s *search) dfs() bool {
	s.nodes++
	if s.expired() {
		s.timedOut = true
		return true
	}

	if s.objIndex >= 0 {
		s.enqueue(s.objIndex)
	}
	if !s.propagate() {
		s.conflicts++
		return false
	}

	v, ok := s.nextDecision()
	if !ok {
		if !s.satisfied() {
			s.conflicts++
			return false
		}
		s.record()
		return s.objIndex < 0 || s.proven
	}

	s.branches++
	for _, child := range s.children(v) {
		mark := len(s.trail)
		if s.setLo(v, child[0]) && s.setHi(v, child[1]) {
			if s.dfs() {
				return true
			}
		} else {
			s.conflicts++
		}
		s.undo(mark)
		s.clearQueue()
	}

	return false
}

func (s *search) expired() bool {
	if s.deadline.IsZero() || s.nodes&255 != 0 {
		return false
	}
	return time.Now().After(s.deadline)
}

func (s *search) nextDecision() (int, bool) {
	for _, v := range s.boolOrder {
		if s.lo[v] != s.hi[v] {
			return v, true
		}
	}

	best, bestSize := -1, int64(0)
	for _, v := range s.intVars {
		size := s.hi[v] - s.lo[v]
		if size > 0 && (best < 0 || size < bestSize) {
			best, bestSize = v, size
		}
	}

	return best, best >= 0
}

// children returns the [lo, hi] ranges to try for v, most promising first.
// A hinted value that is still in the domain is tried on its own first.
func (s *search) children(v int) [][2]int64 {
	lo, hi := s.lo[v], s.hi[v]
	if h := s.hint[v]; s.hinted[v] && h >= lo && h <= hi {
		out := [][2]int64{{h, h}}
		if h > lo {
			out = append(out, [2]int64{lo, h - 1})
		}
		if h < hi {
			out = append(out, [2]int64{h + 1, hi})
		}
		return out
	}

	mid := lo + (hi-lo)/2
	down, up := [2]int64{lo, mid}, [2]int64{mid + 1, hi}
	if s.objCoef[v] < 0 {
		return [][2]int64{up, down}
	}
	return [][2]int64{down, up}
}

func (s *search) record() {
	if s.best == nil {
		s.best = make([]int64, len(s.lo))
	}
	copy(s.best, s.lo)
	s.hasBest = true

	if s.objIndex < 0 {
		return
	}

	obj := s.cons[s.objIndex]
	value := s.objOffset
	for k, v := range obj.vars {
		value += obj.coefs[k] * s.lo[v]
	}
	s.bestObjective = value

	// Every further solution must be strictly better.
	obj.hasUB = true
	obj.ub = value - 1 - s.objOffset
	if obj.hasLB && obj.ub < obj.lb {
		s.proven = true
	}
}

// satisfied checks every constraint on a fully fixed assignment.
func (s *search) satisfied() bool {
	for _, c := range s.cons {
		if !s.enforced(c) {
			continue
		}
		var sum int64
		for k, v := range c.vars {
			sum += c.coefs[k] * s.lo[v]
		}
		if (c.hasLB && sum < c.lb) || (c.hasUB && sum > c.ub) {
			return false
		}
	}
	return true
}

func (s *search) enforced(c *linear) bool {
	for _, lit := range c.enforce {
		if s.lo[lit.v] != lit.val || s.hi[lit.v] != lit.val {
			return false
		}
	}
	return true
}

func (s *search) enqueue(ci int) {
	if s.queued[ci] {
		return
	}
	s.queued[ci] = true
	s.queue = append(s.queue, ci)
}

func (s *search) clearQueue() {
	for _, ci := range s.queue[s.head:] {
		s.queued[ci] = false
	}
	s.queue = s.queue[:0]
	s.head = 0
}

// propagate runs constraints to a fixpoint or until the node budget is spent.
// It returns false on a conflict.
func (s *search) propagate() bool {
	steps := 0
	for s.head < len(s.queue) {
		ci := s.queue[s.head]
		s.head++
		s.queued[ci] = false

		if !s.propagateLinear(s.cons[ci]) {
			s.clearQueue()
			return false
		}

		steps++
		if steps >= s.propagationLimit {
			s.clearQueue()
			return true
		}
	}
	s.clearQueue()
	return true
}

func (s *search) activity(c *linear) (minSum, maxSum int64) {
	for k, v := range c.vars {
		tmin, tmax := termBounds(c.coefs[k], s.lo[v], s.hi[v])
		minSum += tmin
		maxSum += tmax
	}
	return minSum, maxSum
}

func termBounds(a, lo, hi int64) (int64, int64) {
	if a > 0 {
		return a * lo, a * hi
	}
	return a * hi, a * lo
}

func (s *search) propagateLinear(c *linear) bool {
	open := -1
	for k, lit := range c.enforce {
		if s.lo[lit.v] == s.hi[lit.v] {
			if s.lo[lit.v] != lit.val {
				return true
			}
			continue
		}
		if open >= 0 {
			return true
		}
		open = k
	}

	minSum, maxSum := s.activity(c)
	violated := (c.hasUB && minSum > c.ub) || (c.hasLB && maxSum < c.lb) ||
		(c.hasLB && c.hasUB && c.lb > c.ub)

	if open >= 0 {
		// The last undecided enforcement literal must be false when the
		// constraint cannot hold.
		if violated {
			lit := c.enforce[open]
			return s.fix(lit.v, 1-lit.val)
		}
		return true
	}
	if violated {
		return false
	}

	for k, v := range c.vars {
		a := c.coefs[k]
		tmin, tmax := termBounds(a, s.lo[v], s.hi[v])

		if c.hasUB {
			slack := c.ub - (minSum - tmin)
			if a > 0 {
				if !s.setHi(v, floorDiv(slack, a)) {
					return false
				}
			} else if !s.setLo(v, ceilDiv(slack, a)) {
				return false
			}
		}

		if c.hasLB {
			need := c.lb - (maxSum - tmax)
			if a > 0 {
				if !s.setLo(v, ceilDiv(need, a)) {
					return false
				}
			} else if !s.setHi(v, floorDiv(need, a)) {
				return false
			}
		}
	}

	return true
}

func (s *search) fix(v int, val int64) bool {
	return s.setLo(v, val) && s.setHi(v, val)
}

func (s *search) setLo(v int, x int64) bool {
	if x <= s.lo[v] {
		return true
	}
	if x > s.hi[v] {
		return false
	}
	s.trail = append(s.trail, trailEntry{v: v, lo: s.lo[v], hi: s.hi[v]})
	s.lo[v] = x
	s.wake(v)
	return true
}

func (s *search) setHi(v int, x int64) bool {
	if x >= s.hi[v] {
		return true
	}
	if x < s.lo[v] {
		return false
	}
	s.trail = append(s.trail, trailEntry{v: v, lo: s.lo[v], hi: s.hi[v]})
	s.hi[v] = x
	s.wake(v)
	return true
}

func (s *search) wake(v int) {
	for _, ci := range s.watchers[v] {
		s.enqueue(ci)
	}
}

func (s *search) undo(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		e := s.trail[i]
		s.lo[e.v], s.hi[e.v] = e.lo, e.hi
	}
	s.trail = s.trail[:mark]
}
