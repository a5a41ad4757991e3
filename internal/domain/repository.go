package domain

// BalanceRepository defines the interface for loading balances to settle
type BalanceRepository interface {
	// GetBalances returns payers and receivers in source order
	GetBalances() (Balances, error)

	// Source names where the balances come from, for logs and reports
	Source() string
}
