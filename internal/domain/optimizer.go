package domain

import "github.com/shopspring/decimal"

// TransactionOptimizer finds the fewest transfers that settle pay against get
type TransactionOptimizer interface {
	MinimizeTransactions(pay, get []decimal.Decimal, decimalPlaces int32) ([]Transfer, error)
}
