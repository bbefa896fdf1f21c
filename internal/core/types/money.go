// Package types provides common value types shared by the domain packages.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnits represents a monetary value in minor currency units.
// Storage: int64 - sufficient for ±922 trillion minor units.
// All arithmetic on sale totals and payment amounts happens on this type;
// decimal.Decimal is used only at parse/format boundaries.
type MinorUnits int64

func (m MinorUnits) IsZero() bool     { return m == 0 }
func (m MinorUnits) IsPositive() bool { return m > 0 }
func (m MinorUnits) IsNegative() bool { return m < 0 }
func (m MinorUnits) Neg() MinorUnits  { return -m }

// Decimal converts to decimal.Decimal for boundary formatting.
func (m MinorUnits) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// GrossString renders the amount the way the payment gateway expects it
// in notification payloads and charge requests, e.g. "10000.00".
func (m MinorUnits) GrossString() string {
	return m.Decimal().StringFixed(2)
}

// ParseAmount converts a boundary decimal into MinorUnits.
// Rejects fractional and non-positive values: the engine deals in whole
// minor units and every inbound amount must be a positive number.
func ParseAmount(d decimal.Decimal) (MinorUnits, error) {
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be positive, got %s", d.String())
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("amount must be a whole number of minor units, got %s", d.String())
	}
	if !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount out of range: %s", d.String())
	}
	return MinorUnits(d.IntPart()), nil
}

// ParseGross parses a gateway gross amount string ("10000.00") into MinorUnits.
func ParseGross(s string) (MinorUnits, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse gross amount: %w", err)
	}
	return ParseAmount(d)
}
