package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tirasundara/settlement-optimizer/internal/domain"
)

func TestBalances(t *testing.T) {
	b := domain.NewBalances(
		[]decimal.Decimal{decimal.NewFromInt(11), decimal.NewFromFloat(2.5)},
		[]decimal.Decimal{decimal.NewFromFloat(9.5), decimal.NewFromInt(4)},
	)

	if len(b.Payers) != 2 || len(b.Receivers) != 2 {
		t.Fatalf("Expected 2 payers and 2 receivers, got %d and %d", len(b.Payers), len(b.Receivers))
	}

	if b.Payers[1].Role != domain.Payer {
		t.Errorf("Expected payer role, got %s", b.Payers[1].Role)
	}

	expected := decimal.NewFromFloat(13.5)
	if !b.TotalPay().Equal(expected) {
		t.Errorf("Expected total pay to be %s, got %s", expected, b.TotalPay())
	}

	if !b.TotalGet().Equal(expected) {
		t.Errorf("Expected total get to be %s, got %s", expected, b.TotalGet())
	}

	b.Add(domain.Participant{Name: "carol", Amount: decimal.NewFromInt(1), Role: domain.Receiver})
	if got := b.GetAmounts(); len(got) != 3 || !got[2].Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected appended receiver amount 1, got %v", got)
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]domain.Role{
		"PAYER":    domain.Payer,
		"debit":    domain.Payer,
		"pay":      domain.Payer,
		"RECEIVER": domain.Receiver,
		"credit":   domain.Receiver,
		"get":      domain.Receiver,
	}

	for in, want := range cases {
		got, ok := domain.ParseRole(in)
		if !ok || got != want {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}

	if _, ok := domain.ParseRole("lender"); ok {
		t.Errorf("Expected unknown role to be rejected")
	}
}

func TestSumTransfers(t *testing.T) {
	transfers := []domain.Transfer{
		{Payer: 0, Receiver: 0, Amount: decimal.NewFromFloat(9.5)},
		{Payer: 0, Receiver: 1, Amount: decimal.NewFromFloat(1.5)},
		{Payer: 1, Receiver: 1, Amount: decimal.NewFromFloat(2.5)},
	}

	expected := decimal.NewFromFloat(13.5)
	if got := domain.SumTransfers(transfers); !got.Equal(expected) {
		t.Errorf("Expected transfers to sum to %s, got %s", expected, got)
	}
}
