// Package optimizer finds the smallest set of payments that settles a group's
// balances. It models the problem as an integer program over payer -> receiver
// edges and delegates solving to a Solver.
package optimizer

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tirasundara/settlement-optimizer/internal/domain"
	"github.com/tirasundara/settlement-optimizer/internal/fixedpoint"
	"github.com/tirasundara/settlement-optimizer/pkg/cpsolver"
	"go.uber.org/zap"
)

// DefaultDecimalPlaces is the precision used when callers have no preference.
const DefaultDecimalPlaces int32 = 2

// Solver is the integer program backend. cpsolver.Solver satisfies it.
type Solver interface {
	Solve(model *cpsolver.Model) (cpsolver.Solution, error)
}

// SettlementOptimizer implements domain.TransactionOptimizer
type SettlementOptimizer struct {
	solver  Solver
	verbose bool
	logger  *zap.Logger
}

var _ domain.TransactionOptimizer = (*SettlementOptimizer)(nil)

// Option configures a SettlementOptimizer
type Option func(*SettlementOptimizer)

// WithVerbose logs solver statistics after every solve
func WithVerbose(verbose bool) Option {
	return func(o *SettlementOptimizer) {
		o.verbose = verbose
	}
}

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(o *SettlementOptimizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewSettlementOptimizer creates a SettlementOptimizer backed by solver.
// A nil solver selects cpsolver with no time limit.
func NewSettlementOptimizer(solver Solver, opts ...Option) *SettlementOptimizer {
	if solver == nil {
		solver = cpsolver.NewSolver()
	}

	o := &SettlementOptimizer{
		solver: solver,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// MinimizeTransactions is a shortcut for the default optimizer.
func MinimizeTransactions(pay, get []decimal.Decimal, decimalPlaces int32) ([]domain.Transfer, error) {
	return NewSettlementOptimizer(nil).MinimizeTransactions(pay, get, decimalPlaces)
}

// MinimizeTransactions returns the fewest transfers that make every payer pay
// exactly pay[i] and every receiver collect exactly get[j].
//
// Amounts are truncated to decimalPlaces before solving; choosing too few
// places silently changes the problem. The result is ordered by payer, then
// receiver. Any solver status other than OPTIMAL yields a *SolveError.
func (o *SettlementOptimizer) MinimizeTransactions(pay, get []decimal.Decimal, decimalPlaces int32) ([]domain.Transfer, error) {
	if err := validate(pay, get, decimalPlaces); err != nil {
		return nil, err
	}

	scaledPay, err := fixedpoint.ScaleAll(pay, decimalPlaces)
	if err != nil {
		return nil, fmt.Errorf("%w: pay: %w", ErrInvalidInput, err)
	}
	scaledGet, err := fixedpoint.ScaleAll(get, decimalPlaces)
	if err != nil {
		return nil, fmt.Errorf("%w: get: %w", ErrInvalidInput, err)
	}

	// Unequal totals can never balance. Fail the way the solver would,
	// without paying for an exhaustive infeasibility proof.
	totalPay, errPay := fixedpoint.Sum(scaledPay)
	totalGet, errGet := fixedpoint.Sum(scaledGet)
	if errPay != nil || errGet != nil {
		return nil, fmt.Errorf("%w: totals overflow at %d decimal places", ErrInvalidInput, decimalPlaces)
	}
	if totalPay != totalGet {
		o.logger.Debug("settlement totals differ",
			zap.Int64("total_pay", totalPay),
			zap.Int64("total_get", totalGet),
			zap.Int32("decimal_places", decimalPlaces),
		)
		return nil, &SolveError{Status: cpsolver.Infeasible}
	}

	sm := buildSettlementModel(scaledPay, scaledGet)
	o.logger.Debug("settlement model built",
		zap.Int("payers", len(pay)),
		zap.Int("receivers", len(get)),
		zap.Int("variables", sm.model.NumVariables()),
		zap.Int("constraints", sm.model.NumConstraints()),
		zap.Int64("lower_bound", sm.lowerBound),
		zap.Bool("exact_bound", sm.exactBound),
	)

	sol, err := o.solver.Solve(sm.model)
	if err != nil {
		return nil, fmt.Errorf("solving settlement model: %w", err)
	}

	if o.verbose {
		o.logger.Info("settlement solve finished",
			zap.Stringer("status", sol.Status()),
			zap.Int64("objective", sol.ObjectiveValue()),
			zap.Int64("conflicts", sol.NumConflicts()),
			zap.Int64("branches", sol.NumBranches()),
			zap.Duration("wall_time", sol.WallTime()),
		)
	}

	if sol.Status() != cpsolver.Optimal {
		return nil, &SolveError{Status: sol.Status()}
	}

	return sm.transfers(sol, decimalPlaces), nil
}

func validate(pay, get []decimal.Decimal, decimalPlaces int32) error {
	if len(pay) == 0 || len(get) == 0 {
		return ErrEmptyBalances
	}

	if err := fixedpoint.ValidatePlaces(decimalPlaces); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDecimalPlaces, err)
	}

	for i, a := range pay {
		if a.IsNegative() {
			return fmt.Errorf("%w: pay[%d] = %s", ErrNegativeAmount, i, a)
		}
	}
	for j, a := range get {
		if a.IsNegative() {
			return fmt.Errorf("%w: get[%d] = %s", ErrNegativeAmount, j, a)
		}
	}

	return nil
}
