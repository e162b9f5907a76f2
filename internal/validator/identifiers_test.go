package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"comex/internal/validator"
)

var validCNPJs = []string{
	"11222333000181",
	"00000000000191",
	"60701190000104",
	"33000167000101",
	"45997418000153",
}

func TestIsValidCNPJ(t *testing.T) {
	t.Run("pass_known_ids", func(t *testing.T) {
		for _, c := range validCNPJs {
			assert.True(t, validator.IsValidCNPJ(c), c)
		}
	})

	t.Run("pass_formatted", func(t *testing.T) {
		assert.True(t, validator.IsValidCNPJ("11.222.333/0001-81"))
	})

	t.Run("fail_repdigits", func(t *testing.T) {
		for d := '0'; d <= '9'; d++ {
			id := ""
			for i := 0; i < 14; i++ {
				id += string(d)
			}
			assert.False(t, validator.IsValidCNPJ(id), id)
		}
	})

	t.Run("fail_single_digit_mutation", func(t *testing.T) {
		base := "11222333000181"
		for pos := 0; pos < len(base); pos++ {
			for d := byte('0'); d <= '9'; d++ {
				if base[pos] == d {
					continue
				}
				mutated := []byte(base)
				mutated[pos] = d
				assert.False(t, validator.IsValidCNPJ(string(mutated)), string(mutated))
			}
		}
	})

	t.Run("fail_wrong_length", func(t *testing.T) {
		assert.False(t, validator.IsValidCNPJ("1122233300018"))
		assert.False(t, validator.IsValidCNPJ(""))
	})

	t.Run("fail_letters", func(t *testing.T) {
		assert.False(t, validator.IsValidCNPJ("1122233300018A"))
	})
}

func TestIsValidCPF(t *testing.T) {
	assert.True(t, validator.IsValidCPF("529.982.247-25"))
	assert.False(t, validator.IsValidCPF("529.982.247-24"))
	assert.False(t, validator.IsValidCPF("111.111.111-11"))
}

func TestIsValidTaxID(t *testing.T) {
	assert.True(t, validator.IsValidTaxID("52998224725"))
	assert.True(t, validator.IsValidTaxID("11222333000181"))
	assert.False(t, validator.IsValidTaxID("123"))
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"15/03/2024", true},
		{"29/02/2024", true},
		{"29/02/2023", false},
		{"31/04/2024", false},
		{"2024-03-15", false},
		{"1/3/2024", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validator.IsValidDate(tt.in), tt.in)
	}
}

func TestInRange(t *testing.T) {
	zero, hundred := decimal.Zero, decimal.NewFromInt(100)
	assert.True(t, validator.InRange(decimal.NewFromInt(50), zero, hundred, false))
	assert.False(t, validator.InRange(decimal.RequireFromString("50.5"), zero, hundred, false))
	assert.True(t, validator.InRange(decimal.RequireFromString("50.5"), zero, hundred, true))
	assert.False(t, validator.InRange(decimal.NewFromInt(101), zero, hundred, true))
}

func TestIsValidBIC(t *testing.T) {
	assert.True(t, validator.IsValidBIC("BRASBRRJ"))
	assert.True(t, validator.IsValidBIC("BRASBRRJBHE"))
	assert.True(t, validator.IsValidBIC("deutdeff"))
	assert.False(t, validator.IsValidBIC("BRAS12RJ"))
	assert.False(t, validator.IsValidBIC("BRASBRRJB"))
}

func TestIsValidNCM(t *testing.T) {
	assert.True(t, validator.IsValidNCM("84713012"))
	assert.True(t, validator.IsValidNCM("8471.30.12"))
	assert.True(t, validator.IsValidNCM("847130"))
	assert.False(t, validator.IsValidNCM("8471"))
	assert.False(t, validator.IsValidNCM("847130121"))
}

func TestIsValidDINumber(t *testing.T) {
	assert.True(t, validator.IsValidDINumber("24/1234567-8"))
	assert.False(t, validator.IsValidDINumber("2024/1234567-8"))
	assert.False(t, validator.IsValidDINumber("24/123456-8"))
}

func TestIsValidContainer(t *testing.T) {
	for _, c := range []string{"CSQU3054383", "MSCU1234566", "TGHU 765432-0", "MAEU1000018"} {
		assert.True(t, validator.IsValidContainer(c), c)
	}
	assert.False(t, validator.IsValidContainer("CSQU3054384"))
	assert.False(t, validator.IsValidContainer("CSQ3054383"))
}

func TestIsValidAccessKey(t *testing.T) {
	key := "35230111222333000181550010000001231000001236"
	assert.True(t, validator.IsValidAccessKey(key))
	assert.False(t, validator.IsValidAccessKey(key[:43]+"7"))
	assert.False(t, validator.IsValidAccessKey(key[:40]))
}

func TestIsValidCurrencyAndIncoterm(t *testing.T) {
	assert.True(t, validator.IsValidCurrency("usd"))
	assert.False(t, validator.IsValidCurrency("XYZ"))
	assert.True(t, validator.IsValidIncoterm("FOB"))
	assert.False(t, validator.IsValidIncoterm("FOOB"))
}
