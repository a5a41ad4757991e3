package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tirasundara/settlement-optimizer/internal/domain"
	"github.com/tirasundara/settlement-optimizer/internal/fixedpoint"
	"go.uber.org/zap"
)

// ErrLoadBalances wraps failures to read balances from a repository
var ErrLoadBalances = errors.New("loading balances")

// SettlementService orchestrates one settlement run: load balances, optimize,
// and resolve the transfers back to participant names.
type SettlementService struct {
	balanceRepo   domain.BalanceRepository
	optimizer     domain.TransactionOptimizer
	decimalPlaces int32
	logger        *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	balanceRepo domain.BalanceRepository,
	optimizer domain.TransactionOptimizer,
	decimalPlaces int32,
	logger *zap.Logger,
) *SettlementService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SettlementService{
		balanceRepo:   balanceRepo,
		optimizer:     optimizer,
		decimalPlaces: decimalPlaces,
		logger:        logger,
	}
}

// Settle computes the minimum set of transfers for the repository's balances
func (s *SettlementService) Settle() (domain.SettlementResult, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("source", s.balanceRepo.Source()))

	balances, err := s.balanceRepo.GetBalances()
	if err != nil {
		return domain.SettlementResult{}, fmt.Errorf("%w: %w", ErrLoadBalances, err)
	}

	s.warnLossyAmounts(logger, balances)

	if !balances.TotalPay().Equal(balances.TotalGet()) {
		logger.Warn("balances do not net to zero",
			zap.Stringer("total_pay", balances.TotalPay()),
			zap.Stringer("total_get", balances.TotalGet()),
		)
	}

	transfers, err := s.optimizer.MinimizeTransactions(balances.PayAmounts(), balances.GetAmounts(), s.decimalPlaces)
	if err != nil {
		logger.Error("settlement failed", zap.Error(err))
		return domain.SettlementResult{}, fmt.Errorf("optimizing settlement: %w", err)
	}

	result := domain.SettlementResult{
		RunID:            runID,
		DecimalPlaces:    s.decimalPlaces,
		TransactionCount: len(transfers),
		TotalAmount:      domain.SumTransfers(transfers),
		Transfers:        transfers,
		Settlements:      s.resolveNames(balances, transfers),
	}

	logger.Info("settlement computed",
		zap.Int("payers", len(balances.Payers)),
		zap.Int("receivers", len(balances.Receivers)),
		zap.Int("transactions", result.TransactionCount),
		zap.Stringer("total_amount", result.TotalAmount),
	)

	return result, nil
}

func (s *SettlementService) warnLossyAmounts(logger *zap.Logger, balances domain.Balances) {
	for _, side := range [][]domain.Participant{balances.Payers, balances.Receivers} {
		for _, p := range side {
			if !fixedpoint.IsExact(p.Amount, s.decimalPlaces) {
				logger.Warn("amount has more digits than decimal places, truncating",
					zap.String("participant", p.Name),
					zap.Stringer("amount", p.Amount),
					zap.Int32("decimal_places", s.decimalPlaces),
				)
			}
		}
	}
}

func (s *SettlementService) resolveNames(balances domain.Balances, transfers []domain.Transfer) []domain.Settlement {
	settlements := make([]domain.Settlement, 0, len(transfers))
	for _, t := range transfers {
		settlements = append(settlements, domain.Settlement{
			From:   displayName(balances.Payers, t.Payer, "payer"),
			To:     displayName(balances.Receivers, t.Receiver, "receiver"),
			Amount: t.Amount,
		})
	}
	return settlements
}

// displayName falls back to a positional label for anonymous participants
func displayName(ps []domain.Participant, i int, side string) string {
	if i < len(ps) && ps[i].Name != "" {
		return ps[i].Name
	}
	return fmt.Sprintf("%s_%d", side, i)
}
