package optimizer

import (
	"fmt"

	"github.com/tirasundara/settlement-optimizer/internal/domain"
	"github.com/tirasundara/settlement-optimizer/internal/fixedpoint"
	"github.com/tirasundara/settlement-optimizer/pkg/cpsolver"
)

// settlementModel is the bipartite payer -> receiver program. Each edge has
// an activation flag and a flow; the objective counts active edges.
type settlementModel struct {
	model  *cpsolver.Model
	active [][]cpsolver.BoolVar
	flow   [][]cpsolver.IntVar

	lowerBound int64
	exactBound bool // lowerBound is the true minimum
}

func buildSettlementModel(pay, get []int64) *settlementModel {
	m := cpsolver.NewModel()
	s := &settlementModel{
		model:  m,
		active: make([][]cpsolver.BoolVar, len(pay)),
		flow:   make([][]cpsolver.IntVar, len(pay)),
	}

	for i := range pay {
		s.active[i] = make([]cpsolver.BoolVar, len(get))
		s.flow[i] = make([]cpsolver.IntVar, len(get))
		for j := range get {
			s.active[i][j] = m.NewBoolVar(fmt.Sprintf("a_%d_%d", i, j))
			s.flow[i][j] = m.NewIntVar(0, pay[i], fmt.Sprintf("w_%d_%d", i, j))
		}
	}

	// Every payer pays exactly what they owe.
	for i := range pay {
		row := cpsolver.NewLinearExpr()
		for j := range get {
			row.Add(s.flow[i][j])
		}
		m.AddEquality(row, pay[i])
	}

	// Every receiver collects exactly what they are due.
	for j := range get {
		col := cpsolver.NewLinearExpr()
		for i := range pay {
			col.Add(s.flow[i][j])
		}
		m.AddEquality(col, get[j])
	}

	// Inactive edges carry nothing. The converse (active edges carry at
	// least one unit) only prunes the search.
	for i := range pay {
		for j := range get {
			m.AddEquality(s.flow[i][j], 0).OnlyEnforceIf(s.active[i][j].Not())
			m.AddGreaterOrEqual(s.flow[i][j], 1).OnlyEnforceIf(s.active[i][j])
		}
	}

	edges := cpsolver.NewLinearExpr()
	for i := range pay {
		for j := range get {
			edges.Add(s.active[i][j])
		}
	}
	m.Minimize(edges)
	s.addBoundAndHint(pay, get)

	return s
}

// addBoundAndHint floors the objective at the fewest transfers any settlement
// can use and hints a settlement that meets the floor. With an exact floor the
// search proves optimality as soon as the hint is confirmed.
func (s *settlementModel) addBoundAndHint(pay, get []int64) {
	ps := nonZeroParticipants(pay, get)

	groups, exact := zeroSumGroups(ps)
	if exact {
		s.lowerBound = int64(len(ps) - len(groups))
	} else {
		// Every non-zero participant on the larger side needs a transfer.
		payers := 0
		for _, p := range ps {
			if p.payer {
				payers++
			}
		}
		s.lowerBound = int64(max(payers, len(ps)-payers))
		groups = [][]participant{ps}
	}
	s.exactBound = exact
	s.model.SetObjectiveLowerBound(s.lowerBound)

	hinted := make(map[[2]int]int64)
	for _, g := range groups {
		for _, e := range settleGreedily(g) {
			hinted[[2]int{e.payer, e.receiver}] = e.amount
		}
	}
	for i := range s.active {
		for j := range s.active[i] {
			amount, ok := hinted[[2]int{i, j}]
			s.model.AddBoolHint(s.active[i][j], ok)
			s.model.AddHint(s.flow[i][j], amount)
		}
	}
}

// transfers reads active edges payer-major, receiver-minor.
func (s *settlementModel) transfers(sol cpsolver.Solution, places int32) []domain.Transfer {
	out := make([]domain.Transfer, 0)
	for i := range s.active {
		for j := range s.active[i] {
			if !sol.BooleanValue(s.active[i][j]) {
				continue
			}
			out = append(out, domain.Transfer{
				Payer:    i,
				Receiver: j,
				Amount:   fixedpoint.Unscale(sol.Value(s.flow[i][j]), places),
			})
		}
	}
	return out
}
