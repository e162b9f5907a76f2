package allocation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/allocation"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAllocate_ThirtySeventy(t *testing.T) {
	additions := []allocation.Addition{{Number: 1, Value: d("100"), Levies: allocation.Levies{II: d("18.00")}}}
	items := []allocation.Item{
		{LineNumber: 1, AdditionNumber: 1, Value: d("30")},
		{LineNumber: 2, AdditionNumber: 1, Value: d("70")},
	}

	rows := allocation.Allocate(additions, items)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].II.Equal(d("5.40")), rows[0].II.String())
	assert.True(t, rows[1].II.Equal(d("12.60")), rows[1].II.String())
	assert.True(t, rows[0].SharePercent.Equal(d("30")))
	assert.True(t, rows[0].II.Add(rows[1].II).Equal(d("18.00")))

	assert.Empty(t, allocation.Verify(additions, rows, decimal.NewFromInt(1)))
}

func TestAllocate_AllLevies(t *testing.T) {
	levies := allocation.Levies{II: d("100"), IPI: d("50"), PIS: d("21"), COFINS: d("96.5")}
	additions := []allocation.Addition{{Number: 1, Value: d("3000"), Levies: levies}}
	items := []allocation.Item{
		{LineNumber: 1, AdditionNumber: 1, Value: d("1000")},
		{LineNumber: 2, AdditionNumber: 1, Value: d("1000")},
		{LineNumber: 3, AdditionNumber: 1, Value: d("1000")},
	}
	rows := allocation.Allocate(additions, items)
	require.Len(t, rows, 3)
	assert.Empty(t, allocation.Verify(additions, rows, decimal.NewFromInt(1)), "rounding drift stays inside 1 unit")
}

func TestAllocate_ZeroAdditionValueUsesItemSum(t *testing.T) {
	additions := []allocation.Addition{{Number: 2, Levies: allocation.Levies{IPI: d("10")}}}
	items := []allocation.Item{
		{LineNumber: 1, AdditionNumber: 2, Value: d("25")},
		{LineNumber: 2, AdditionNumber: 2, Value: d("75")},
	}
	rows := allocation.Allocate(additions, items)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].IPI.Equal(d("2.5")))
	assert.True(t, rows[1].IPI.Equal(d("7.5")))
}

func TestAllocate_SkipsUnknownAddition(t *testing.T) {
	rows := allocation.Allocate(nil, []allocation.Item{{LineNumber: 1, AdditionNumber: 9, Value: d("1")}})
	assert.Empty(t, rows)
}

func TestVerify_ReportsDrift(t *testing.T) {
	additions := []allocation.Addition{{Number: 1, Value: d("100"), Levies: allocation.Levies{II: d("18.00"), PIS: d("2")}}}
	rows := []allocation.Row{
		{LineNumber: 1, AdditionNumber: 1, Levies: allocation.Levies{II: d("5.40"), PIS: d("2")}},
		{LineNumber: 2, AdditionNumber: 1, Levies: allocation.Levies{II: d("10.00")}},
	}
	mismatches := allocation.Verify(additions, rows, decimal.NewFromInt(1))
	require.Len(t, mismatches, 1)
	assert.Equal(t, "ii", mismatches[0].Levy)
	assert.True(t, mismatches[0].Expected.Equal(d("18")))
	assert.True(t, mismatches[0].Actual.Equal(d("15.40")))
}

func TestLevies_Total(t *testing.T) {
	l := allocation.Levies{II: d("1"), IPI: d("2"), PIS: d("3"), COFINS: d("4")}
	assert.True(t, l.Total().Equal(d("10")))
}
