package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tirasundara/settlement-optimizer/internal/repository"
)

func TestParseAmounts(t *testing.T) {
	got, err := parseAmounts(" 11, 2.5 ,,")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(decimal.NewFromInt(11)))
	assert.True(t, got[1].Equal(decimal.RequireFromString("2.5")))

	_, err = parseAmounts("1,two")
	assert.Error(t, err)
}

func TestBalanceRepository(t *testing.T) {
	repo, err := balanceRepository("", "3", "1,2", nil)
	require.NoError(t, err)
	assert.IsType(t, &repository.StaticBalanceRepository{}, repo)

	repo, err = balanceRepository("balances.csv", "", "", nil)
	require.NoError(t, err)
	assert.IsType(t, &repository.CSVBalanceRepository{}, repo)
	assert.Equal(t, "balances.csv", repo.Source())

	repo, err = balanceRepository("a.csv, b.csv", "", "", nil)
	require.NoError(t, err)
	assert.IsType(t, &repository.MultiBalanceRepository{}, repo)
	assert.Equal(t, "a.csv,b.csv", repo.Source())

	_, err = balanceRepository(" , ", "", "", nil)
	assert.Error(t, err)

	_, err = balanceRepository("balances.csv", "1", "", nil)
	assert.Error(t, err)

	_, err = balanceRepository("", "1", "", nil)
	assert.Error(t, err)

	_, err = balanceRepository("", "x", "1", nil)
	assert.Error(t, err)
}
