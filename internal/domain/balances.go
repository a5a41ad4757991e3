package domain

import "github.com/shopspring/decimal"

// Balances holds both sides of a settlement in input order.
// Payer i and receiver j keep their positions in every result.
type Balances struct {
	Payers    []Participant
	Receivers []Participant
}

// NewBalances builds anonymous balances from two amount lists
func NewBalances(pay, get []decimal.Decimal) Balances {
	b := Balances{
		Payers:    make([]Participant, 0, len(pay)),
		Receivers: make([]Participant, 0, len(get)),
	}
	for _, a := range pay {
		b.Payers = append(b.Payers, Participant{Amount: a, Role: Payer})
	}
	for _, a := range get {
		b.Receivers = append(b.Receivers, Participant{Amount: a, Role: Receiver})
	}
	return b
}

// Add appends p to the side matching its role
func (b *Balances) Add(p Participant) {
	if p.Role == Payer {
		b.Payers = append(b.Payers, p)
		return
	}
	b.Receivers = append(b.Receivers, p)
}

// PayAmounts returns the payer amounts in order
func (b Balances) PayAmounts() []decimal.Decimal {
	return amounts(b.Payers)
}

// GetAmounts returns the receiver amounts in order
func (b Balances) GetAmounts() []decimal.Decimal {
	return amounts(b.Receivers)
}

// TotalPay sums what payers owe
func (b Balances) TotalPay() decimal.Decimal {
	return decimal.Sum(decimal.Zero, b.PayAmounts()...)
}

// TotalGet sums what receivers are due
func (b Balances) TotalGet() decimal.Decimal {
	return decimal.Sum(decimal.Zero, b.GetAmounts()...)
}

func amounts(ps []Participant) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ps))
	for i, p := range ps {
		out[i] = p.Amount
	}
	return out
}
