// Package types provides common value types for monetary amounts.
package types

import (
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnits represents a monetary value in minor currency units (cents).
// Storage: int64 - sufficient for ±92 quadrillion cents.
// Example: 123.45 USD → 12345.
type MinorUnits int64

// NewMinorUnitsFromMajor creates MinorUnits from a major unit amount.
func NewMinorUnitsFromMajor(major float64) MinorUnits {
	return MinorUnits(math.Round(major * 100))
}

// ToMajor converts minor units back to major units for display.
func (m MinorUnits) ToMajor() float64 {
	return float64(m) / 100
}

// Decimal returns the amount as a decimal in minor units.
func (m MinorUnits) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

func (m MinorUnits) IsZero() bool     { return m == 0 }
func (m MinorUnits) IsPositive() bool { return m > 0 }
func (m MinorUnits) IsNegative() bool { return m < 0 }
func (m MinorUnits) Neg() MinorUnits  { return -m }

func (m MinorUnits) Abs() MinorUnits {
	if m < 0 {
		return -m
	}
	return m
}

// ApplyRate multiplies the amount by a percentage rate with decimal precision
// and rounds half-up to whole minor units. Used for tax calculation:
// 10000 cents at rate 7.25 → 725 cents.
func (m MinorUnits) ApplyRate(rate decimal.Decimal) MinorUnits {
	result := m.Decimal().Mul(rate).Div(decimal.NewFromInt(100)).Round(0)
	return MinorUnits(result.IntPart())
}
