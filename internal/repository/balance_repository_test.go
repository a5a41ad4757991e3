package repository_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tirasundara/settlement-optimizer/internal/domain"
	"github.com/tirasundara/settlement-optimizer/internal/repository"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCSVBalanceRepository_GetBalances(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := repository.NewCSVBalanceRepository("../../test/testdata/balances.csv", zap.New(core))

	balances, err := repo.GetBalances()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(balances.Payers) != 2 {
		t.Fatalf("Expected 2 payers, got %d", len(balances.Payers))
	}
	if len(balances.Receivers) != 2 {
		t.Fatalf("Expected 2 receivers, got %d", len(balances.Receivers))
	}

	// File order is kept on each side
	if balances.Payers[0].Name != "alice" || balances.Payers[1].Name != "bob" {
		t.Errorf("Unexpected payer order: %+v", balances.Payers)
	}
	if balances.Receivers[0].Name != "carol" || balances.Receivers[1].Name != "gina" {
		t.Errorf("Unexpected receiver order: %+v", balances.Receivers)
	}

	if !balances.Receivers[0].Amount.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("Expected carol to get 7.5, got %s", balances.Receivers[0].Amount)
	}
	if balances.Payers[0].Role != domain.Payer {
		t.Errorf("Expected PAYER role, got %s", balances.Payers[0].Role)
	}

	// dave, erin, frank and short are skipped with a warning each
	if logs.Len() != 4 {
		t.Errorf("Expected 4 warnings, got %d", logs.Len())
	}

	if repo.Source() != "../../test/testdata/balances.csv" {
		t.Errorf("Unexpected source %q", repo.Source())
	}
}

func TestCSVBalanceRepository_FromReader(t *testing.T) {
	src := "role,participant,amount\nget,x,3\npay,y,3\n"
	repo := repository.NewCSVBalanceRepositoryFrom("upload", strings.NewReader(src), nil)

	balances, err := repo.GetBalances()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(balances.Payers) != 1 || balances.Payers[0].Name != "y" {
		t.Errorf("Unexpected payers: %+v", balances.Payers)
	}
	if len(balances.Receivers) != 1 || balances.Receivers[0].Name != "x" {
		t.Errorf("Unexpected receivers: %+v", balances.Receivers)
	}
}

func TestCSVBalanceRepository_Errors(t *testing.T) {
	repo := repository.NewCSVBalanceRepository("../../test/testdata/does_not_exist.csv", nil)
	if _, err := repo.GetBalances(); err == nil {
		t.Error("Expected error for missing file")
	}

	repo = repository.NewCSVBalanceRepositoryFrom("bad", strings.NewReader("name,amount\nx,1\n"), nil)
	if _, err := repo.GetBalances(); err == nil {
		t.Error("Expected error for missing role column")
	}
}

func TestStaticBalanceRepository(t *testing.T) {
	pay := []decimal.Decimal{decimal.NewFromInt(4)}
	get := []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(3)}
	repo := repository.NewStaticBalanceRepository("flags", pay, get)

	balances, err := repo.GetBalances()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(balances.Payers) != 1 || len(balances.Receivers) != 2 {
		t.Errorf("Unexpected balances: %+v", balances)
	}
	if !balances.TotalGet().Equal(decimal.NewFromInt(4)) {
		t.Errorf("Expected total get 4, got %s", balances.TotalGet())
	}
	if repo.Source() != "flags" {
		t.Errorf("Unexpected source %q", repo.Source())
	}
}
