// Package allocation distributes addition-level customs levies across line items by value share
// and verifies that the distributed amounts add back up.
package allocation

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Levies are the aggregate charges a declaration states per addition.
type Levies struct {
	II     decimal.Decimal `json:"ii"`
	IPI    decimal.Decimal `json:"ipi"`
	PIS    decimal.Decimal `json:"pis"`
	COFINS decimal.Decimal `json:"cofins"`
}

// Named is one levy amount with its key.
type Named struct {
	Name   string
	Amount decimal.Decimal
}

// Each returns the levies in a fixed order.
func (l Levies) Each() []Named {
	return []Named{
		{"ii", l.II},
		{"ipi", l.IPI},
		{"pis", l.PIS},
		{"cofins", l.COFINS},
	}
}

// Total sums every levy.
func (l Levies) Total() decimal.Decimal {
	return l.II.Add(l.IPI).Add(l.PIS).Add(l.COFINS)
}

// Add returns the levy-wise sum.
func (l Levies) Add(o Levies) Levies {
	return Levies{
		II:     l.II.Add(o.II),
		IPI:    l.IPI.Add(o.IPI),
		PIS:    l.PIS.Add(o.PIS),
		COFINS: l.COFINS.Add(o.COFINS),
	}
}

func (l Levies) scale(share decimal.Decimal) Levies {
	f := func(v decimal.Decimal) decimal.Decimal { return v.Mul(share).Div(hundred).Round(2) }
	return Levies{II: f(l.II), IPI: f(l.IPI), PIS: f(l.PIS), COFINS: f(l.COFINS)}
}

// Addition is one declaration addition: a value and its aggregate levies.
type Addition struct {
	Number int
	Value  decimal.Decimal
	Levies Levies
}

// Item is one line item that belongs to an addition.
type Item struct {
	LineNumber     int
	AdditionNumber int
	Value          decimal.Decimal
}

// Row is one per-item fiscal allocation, the TaxBreakdown entry of declaration-like records.
type Row struct {
	LineNumber     int             `json:"line_number"`
	AdditionNumber int             `json:"addition_number"`
	SharePercent   decimal.Decimal `json:"share_percent"`
	Levies
}

// Allocate computes each item's share of its addition value and applies it to every levy.
// The addition's declared value is the denominator; when it is zero the item values are summed instead.
// Items pointing at an unknown addition are skipped.
func Allocate(additions []Addition, items []Item) []Row {
	byNumber := make(map[int]Addition, len(additions))
	for _, a := range additions {
		byNumber[a.Number] = a
	}
	itemTotals := make(map[int]decimal.Decimal, len(additions))
	for _, it := range items {
		itemTotals[it.AdditionNumber] = itemTotals[it.AdditionNumber].Add(it.Value)
	}

	rows := make([]Row, 0, len(items))
	for _, it := range items {
		add, ok := byNumber[it.AdditionNumber]
		if !ok {
			continue
		}
		denominator := add.Value
		if !denominator.IsPositive() {
			denominator = itemTotals[it.AdditionNumber]
		}
		share := decimal.Zero
		if denominator.IsPositive() {
			share = it.Value.Div(denominator).Mul(hundred).Round(4)
		}
		rows = append(rows, Row{
			LineNumber:     it.LineNumber,
			AdditionNumber: it.AdditionNumber,
			SharePercent:   share,
			Levies:         add.Levies.scale(share),
		})
	}
	return rows
}

// Mismatch is a levy whose allocated sum drifts from the addition aggregate beyond tolerance.
type Mismatch struct {
	AdditionNumber int
	Levy           string
	Expected       decimal.Decimal
	Actual         decimal.Decimal
}

// Verify sums allocated levies per addition and compares them to each addition's aggregate.
// Additions without allocated rows are compared against zero.
func Verify(additions []Addition, rows []Row, tolerance decimal.Decimal) []Mismatch {
	sums := make(map[int]Levies, len(additions))
	for _, r := range rows {
		sums[r.AdditionNumber] = sums[r.AdditionNumber].Add(r.Levies)
	}

	ordered := append([]Addition(nil), additions...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	var out []Mismatch
	for _, a := range ordered {
		allocated := sums[a.Number].Each()
		for i, want := range a.Levies.Each() {
			got := allocated[i].Amount
			if want.Amount.Sub(got).Abs().GreaterThan(tolerance) {
				out = append(out, Mismatch{
					AdditionNumber: a.Number,
					Levy:           want.Name,
					Expected:       want.Amount,
					Actual:         got,
				})
			}
		}
	}
	return out
}
