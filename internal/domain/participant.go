package domain

import "github.com/shopspring/decimal"

// Role tells which side of a settlement a participant is on
type Role string

// Participant roles
const (
	Payer    Role = "PAYER"
	Receiver Role = "RECEIVER"
)

// Participant is one person with a net amount to pay or to collect
type Participant struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Role   Role            `json:"role"`
}

// ParseRole maps the accepted spellings of a role onto Payer or Receiver
func ParseRole(s string) (Role, bool) {
	switch s {
	case "PAYER", "payer", "PAY", "pay", "DEBIT", "debit":
		return Payer, true
	case "RECEIVER", "receiver", "GET", "get", "CREDIT", "credit":
		return Receiver, true
	}
	return "", false
}
