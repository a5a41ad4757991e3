package fixedpoint_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tirasundara/settlement-optimizer/internal/fixedpoint"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		places int32
		want   int64
	}{
		{name: "whole", amount: "11", places: 2, want: 1100},
		{name: "fraction", amount: "2.5", places: 2, want: 250},
		{name: "four places", amount: "11.1234", places: 4, want: 111234},
		{name: "truncates extra digits", amount: "2.505", places: 2, want: 250},
		{name: "zero places", amount: "9.99", places: 0, want: 9},
		{name: "negative truncates toward zero", amount: "-1.239", places: 2, want: -123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fixedpoint.Scale(decimal.RequireFromString(tt.amount), tt.places)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScale_Errors(t *testing.T) {
	_, err := fixedpoint.Scale(decimal.NewFromInt(1), -1)
	assert.True(t, errors.Is(err, fixedpoint.ErrInvalidPlaces))

	_, err = fixedpoint.Scale(decimal.NewFromInt(1), fixedpoint.MaxPlaces+1)
	assert.True(t, errors.Is(err, fixedpoint.ErrInvalidPlaces))

	_, err = fixedpoint.Scale(decimal.NewFromInt(100), fixedpoint.MaxPlaces)
	assert.True(t, errors.Is(err, fixedpoint.ErrOutOfRange))
}

func TestPlacesFromInt(t *testing.T) {
	got, err := fixedpoint.PlacesFromInt(4)
	require.NoError(t, err)
	assert.Equal(t, int32(4), got)

	for _, n := range []int{-1, fixedpoint.MaxPlaces + 1, 1<<32 + 2} {
		_, err := fixedpoint.PlacesFromInt(n)
		assert.ErrorIs(t, err, fixedpoint.ErrInvalidPlaces, "n=%d", n)
	}
}

func TestScaleAll(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.NewFromFloat(20.00034),
		decimal.NewFromInt(16),
		decimal.NewFromInt(7),
	}

	got, err := fixedpoint.ScaleAll(amounts, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{2000034, 1600000, 700000}, got)

	_, err = fixedpoint.ScaleAll([]decimal.Decimal{decimal.NewFromInt(1)}, 40)
	assert.Error(t, err)
}

func TestUnscale(t *testing.T) {
	assert.True(t, fixedpoint.Unscale(950, 2).Equal(decimal.NewFromFloat(9.5)))
	assert.True(t, fixedpoint.Unscale(71234, 4).Equal(decimal.RequireFromString("7.1234")))
	assert.True(t, fixedpoint.Unscale(0, 3).IsZero())
}

func TestIsExact(t *testing.T) {
	assert.True(t, fixedpoint.IsExact(decimal.RequireFromString("2.5"), 1))
	assert.True(t, fixedpoint.IsExact(decimal.RequireFromString("2.50"), 2))
	assert.False(t, fixedpoint.IsExact(decimal.RequireFromString("2.505"), 2))
	assert.True(t, fixedpoint.IsExact(decimal.RequireFromString("2.505"), 3))
}

func TestSum(t *testing.T) {
	total, err := fixedpoint.Sum([]int64{1100, 250})
	require.NoError(t, err)
	assert.Equal(t, int64(1350), total)

	_, err = fixedpoint.Sum([]int64{1 << 62, 1 << 62})
	assert.ErrorIs(t, err, fixedpoint.ErrOutOfRange)
}
