package proformainvoice_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/doctype/commercialinvoice"
	"comex/internal/doctype/proformainvoice"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
	"comex/internal/validator"
)

func validRecord() *proformainvoice.Record {
	return &proformainvoice.Record{
		Header: &proformainvoice.Header{
			Header: commercialinvoice.Header{
				InvoiceNumber: "PF-9",
				Date:          "01/03/2024",
				SellerName:    "Seller",
				ImporterName:  "Buyer",
				Currency:      "EUR",
				CountryOrigin: "DE",
				TotalAmount:   decimal.RequireFromString("500"),
			},
			ValidUntil: "31/03/2024",
		},
		Items: []commercialinvoice.Item{
			{LineNumber: 1, Reference: "X", Description: "Valve", DescriptionSecondary: "Valvula",
				Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(100)},
		},
	}
}

func TestValidate(t *testing.T) {
	v := proformainvoice.NewValidator(validator.DefaultTolerances(), nil)

	t.Run("pass_valid", func(t *testing.T) {
		res := v.Validate(validRecord())
		assert.True(t, res.IsValid, "%+v", res.Errors)
		assert.Empty(t, res.Warnings)
	})

	t.Run("warn_validity_before_issue", func(t *testing.T) {
		rec := validRecord()
		rec.Header.ValidUntil = "01/02/2024"
		res := v.Validate(rec)
		assert.True(t, res.IsValid)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, "valid_until", res.Warnings[0].Field)
	})

	t.Run("fail_amount", func(t *testing.T) {
		rec := validRecord()
		rec.Header.TotalAmount = decimal.RequireFromString("499")
		res := v.Validate(rec)
		assert.True(t, res.HasCode(domain.CodeAmountTotalMismatch))
	})

	t.Run("fail_missing_header", func(t *testing.T) {
		res := v.Validate(&proformainvoice.Record{Items: validRecord().Items})
		assert.True(t, res.HasError("header", domain.CodeMissingHeader))
	})
}

func TestProcessor_FlattensEmbeddedHeader(t *testing.T) {
	p := proformainvoice.New(processor.Options{})
	out := p.Assemble(context.Background(), []port.StepOutput{
		{Ordinal: 1, Payload: json.RawMessage(`{"invoice_number":"PF-1","valid_until":"31/03/2024","total_amount":"10"}`)},
	}, port.ProcessOptions{})
	require.True(t, out.Success, out.Error)
	rec := out.Data.(*proformainvoice.Record)
	assert.Equal(t, "PF-1", rec.Header.InvoiceNumber)
	assert.Equal(t, "31/03/2024", rec.Header.ValidUntil)

	sections, err := rec.Sections()
	require.NoError(t, err)
	assert.Contains(t, string(sections.Header), `"invoice_number":"PF-1"`)
	assert.Nil(t, sections.Items)
}
