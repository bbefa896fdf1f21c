package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount(decimal.NewFromInt(25000))
	require.NoError(t, err)
	assert.Equal(t, MinorUnits(25000), got)

	_, err = ParseAmount(decimal.NewFromInt(0))
	assert.Error(t, err)

	_, err = ParseAmount(decimal.NewFromInt(-500))
	assert.Error(t, err)

	_, err = ParseAmount(decimal.NewFromFloat(100.5))
	assert.Error(t, err, "fractional minor units must be rejected")
}

func TestParseGross(t *testing.T) {
	got, err := ParseGross("10000.00")
	require.NoError(t, err)
	assert.Equal(t, MinorUnits(10000), got)

	got, err = ParseGross("42")
	require.NoError(t, err)
	assert.Equal(t, MinorUnits(42), got)

	_, err = ParseGross("not-a-number")
	assert.Error(t, err)

	_, err = ParseGross("10.50")
	assert.Error(t, err)
}

func TestGrossString(t *testing.T) {
	assert.Equal(t, "10000.00", MinorUnits(10000).GrossString())
	assert.Equal(t, "1.00", MinorUnits(1).GrossString())
}

func TestMinorUnitsPredicates(t *testing.T) {
	assert.True(t, MinorUnits(0).IsZero())
	assert.True(t, MinorUnits(5).IsPositive())
	assert.True(t, MinorUnits(-5).IsNegative())
	assert.Equal(t, MinorUnits(-5), MinorUnits(5).Neg())
}
