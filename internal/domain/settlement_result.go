package domain

import "github.com/shopspring/decimal"

// SettlementResult contains the outcome of one settlement run
type SettlementResult struct {
	RunID            string          `json:"run_id"`
	DecimalPlaces    int32           `json:"decimal_places"`
	TransactionCount int             `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Transfers        []Transfer      `json:"transfers"`
	Settlements      []Settlement    `json:"settlements"`
}
