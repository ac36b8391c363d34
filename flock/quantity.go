/*
quantity.go - Physical quantities with units and saturating arithmetic

PURPOSE:
  The engine books physical stock: birds by sex and feed in bags. Both
  are carried as Quantity so the whole balance walk shares one set of
  arithmetic, in particular SatSub, the single clamp-to-zero primitive
  the running balances are built on.

WHY decimal.Decimal:
  Feed is captured in kilograms and normalized to 40 kg bags, so bag
  quantities are fractional. float64 drift compounds over a 200-week
  walk; decimal keeps week closings exactly reproducible.

SATURATION:
  Balances never go negative. When inconsistent input would drive one
  below zero, SatSub floors it at zero and the deficit is absorbed.
  Centralizing that rule here keeps the walk free of ad-hoc clamping
  and gives a stricter policy a single place to hook into.
*/
package flock

import "github.com/shopspring/decimal"

// =============================================================================
// QUANTITY - A physical amount with a unit
// =============================================================================

type Quantity struct {
	Value decimal.Decimal
	Unit  QuantityUnit
}

type QuantityUnit string

const (
	UnitBirds QuantityUnit = "birds"
	UnitBags  QuantityUnit = "bags"
	UnitKg    QuantityUnit = "kg"
)

// KgPerBag is the fixed conversion constant for feed recorded in
// kilograms: one bag holds 40 kg.
var KgPerBag = decimal.NewFromInt(40)

func NewQuantity(value int64, unit QuantityUnit) Quantity {
	return Quantity{Value: decimal.NewFromInt(value), Unit: unit}
}

func NewQuantityFromDecimal(value decimal.Decimal, unit QuantityUnit) Quantity {
	return Quantity{Value: value, Unit: unit}
}

func Birds(n int64) Quantity { return NewQuantity(n, UnitBirds) }
func Bags(n int64) Quantity  { return NewQuantity(n, UnitBags) }
func Kg(n int64) Quantity    { return NewQuantity(n, UnitKg) }

// BagsFromKg normalizes a kilogram amount to bags (÷ 40).
func BagsFromKg(kg decimal.Decimal) Quantity {
	return Quantity{Value: kg.Div(KgPerBag), Unit: UnitBags}
}

// ToBags converts a kg quantity to bags; bag quantities pass through.
func (q Quantity) ToBags() Quantity {
	if q.Unit == UnitKg {
		return BagsFromKg(q.Value)
	}
	return Quantity{Value: q.Value, Unit: UnitBags}
}

func (q Quantity) Zero() Quantity            { return Quantity{Value: decimal.Zero, Unit: q.Unit} }
func (q Quantity) Add(b Quantity) Quantity   { return Quantity{Value: q.Value.Add(b.Value), Unit: q.Unit} }
func (q Quantity) Sub(b Quantity) Quantity   { return Quantity{Value: q.Value.Sub(b.Value), Unit: q.Unit} }
func (q Quantity) Neg() Quantity             { return Quantity{Value: q.Value.Neg(), Unit: q.Unit} }
func (q Quantity) IsZero() bool              { return q.Value.IsZero() }
func (q Quantity) IsNegative() bool          { return q.Value.IsNegative() }
func (q Quantity) IsPositive() bool          { return q.Value.IsPositive() }
func (q Quantity) Equal(b Quantity) bool     { return q.Value.Equal(b.Value) }
func (q Quantity) LessThan(b Quantity) bool  { return q.Value.LessThan(b.Value) }
func (q Quantity) GreaterThan(b Quantity) bool { return q.Value.GreaterThan(b.Value) }

// SatSub is saturating subtraction: max(0, q - b). Every running
// balance in the engine goes through here; strictly-policed deployments
// would replace this with a variant that surfaces the deficit.
func (q Quantity) SatSub(b Quantity) Quantity {
	r := q.Value.Sub(b.Value)
	if r.IsNegative() {
		return Quantity{Value: decimal.Zero, Unit: q.Unit}
	}
	return Quantity{Value: r, Unit: q.Unit}
}

func (q Quantity) String() string { return q.Value.String() + " " + string(q.Unit) }
