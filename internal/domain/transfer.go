package domain

import "github.com/shopspring/decimal"

// Transfer is one settling payment: payer index Payer pays receiver index Receiver
type Transfer struct {
	Payer    int             `json:"payer"`
	Receiver int             `json:"receiver"`
	Amount   decimal.Decimal `json:"amount"`
}

// Settlement is a Transfer resolved to participant names
type Settlement struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// SumTransfers adds up the amounts moved by transfers
func SumTransfers(transfers []Transfer) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transfers {
		total = total.Add(t.Amount)
	}
	return total
}
