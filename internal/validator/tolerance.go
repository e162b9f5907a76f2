package validator

import "github.com/shopspring/decimal"

// Tolerances are the per-type drift allowances for numeric comparisons.
// They differ in magnitude on purpose and are kept separate.
type Tolerances struct {
	Amount        decimal.Decimal
	TaxAllocation decimal.Decimal
	Weight        decimal.Decimal
}

// DefaultTolerances returns 0.01 currency units, 1 currency unit and 0.1 kg.
func DefaultTolerances() Tolerances {
	return Tolerances{
		Amount:        decimal.RequireFromString("0.01"),
		TaxAllocation: decimal.NewFromInt(1),
		Weight:        decimal.RequireFromString("0.1"),
	}
}

// NewTolerances builds Tolerances from configured values; non-positive values keep the default.
func NewTolerances(amount, taxAllocation, weight float64) Tolerances {
	t := DefaultTolerances()
	if amount > 0 {
		t.Amount = decimal.NewFromFloat(amount)
	}
	if taxAllocation > 0 {
		t.TaxAllocation = decimal.NewFromFloat(taxAllocation)
	}
	if weight > 0 {
		t.Weight = decimal.NewFromFloat(weight)
	}
	return t
}

// Within reports |a-b| <= tol.
func Within(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// Sum adds a slice of decimals.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
