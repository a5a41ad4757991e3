package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tirasundara/settlement-optimizer/internal/domain"
)

// StaticBalanceRepository serves balances that are already in memory,
// such as CLI flags or an HTTP request body.
type StaticBalanceRepository struct {
	name     string
	balances domain.Balances
}

var _ domain.BalanceRepository = (*StaticBalanceRepository)(nil)

// NewStaticBalanceRepository wraps anonymous pay and get amounts
func NewStaticBalanceRepository(name string, pay, get []decimal.Decimal) *StaticBalanceRepository {
	return &StaticBalanceRepository{
		name:     name,
		balances: domain.NewBalances(pay, get),
	}
}

// Source returns the name given at construction
func (r *StaticBalanceRepository) Source() string {
	return r.name
}

// GetBalances returns the wrapped balances
func (r *StaticBalanceRepository) GetBalances() (domain.Balances, error) {
	return r.balances, nil
}
