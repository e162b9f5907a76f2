package combiner_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"comex/internal/combiner"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.56", "1234.56"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"R$ 1.234,56", "1234.56"},
		{"USD 12,5", "12.5"},
		{"1.234.567", "1234567"},
		{"1,234,567", "1234567"},
		{"€ 0,99", "0.99"},
		{"(10,00)", "-10"},
		{"-3.5", "-3.5"},
		{"12.34567", "12.3457"},
		{" 300 ", "300"},
		{"1e-05", "0"},
		{"1.25e-2", "0.0125"},
		{"2e2", "200"},
		{"1.5E+3", "1500"},
		{"-2.5e1", "-25"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := combiner.ParseNumber(tt.in)
			assert.True(t, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseNumber_Rejects(t *testing.T) {
	for _, in := range []string{"", "abc", "12#4", "1,2.3,4", "R$ 1.234e5", "12,5E-3"} {
		_, ok := combiner.ParseNumber(in)
		assert.False(t, ok, in)
	}
}
