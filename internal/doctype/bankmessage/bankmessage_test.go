package bankmessage_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/doctype/bankmessage"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
)

func validRecord() *bankmessage.Record {
	return &bankmessage.Record{Header: &bankmessage.Header{
		MessageType:      "MT103",
		Reference:        "FT24031200123",
		ValueDate:        "12/03/2024",
		Currency:         "USD",
		Amount:           decimal.RequireFromString("15230.50"),
		SenderBIC:        "BRASBRRJXXX",
		ReceiverBIC:      "CHASUS33",
		OrderingCustomer: bankmessage.Party{Name: "Importadora Ltda"},
		Beneficiary:      bankmessage.Party{Name: "Ningbo Tools Co", Account: "CN12345678901234", BIC: "BKCHCNBJ"},
		RemittanceInfo:   "INV 2024-001",
		Charges:          "SHA",
	}}
}

func TestValidate(t *testing.T) {
	t.Run("pass_valid_message", func(t *testing.T) {
		res := bankmessage.Validate(validRecord())
		assert.True(t, res.IsValid, "%+v", res.Errors)
		assert.Empty(t, res.Warnings)
	})

	t.Run("fail_missing_beneficiary_account", func(t *testing.T) {
		rec := validRecord()
		rec.Header.Beneficiary.Account = ""
		res := bankmessage.Validate(rec)
		assert.False(t, res.IsValid)
		assert.True(t, res.HasError("beneficiary.account", domain.CodeMissingRequiredField))
	})

	t.Run("fail_bad_bic_and_currency", func(t *testing.T) {
		rec := validRecord()
		rec.Header.SenderBIC = "BRAS12"
		rec.Header.Currency = "XXY"
		res := bankmessage.Validate(rec)
		assert.True(t, res.HasError("sender_bic", domain.CodeInvalidSwift))
		assert.True(t, res.HasError("currency", domain.CodeInvalidCurrency))
	})

	t.Run("fail_zero_amount", func(t *testing.T) {
		rec := validRecord()
		rec.Header.Amount = decimal.Zero
		res := bankmessage.Validate(rec)
		assert.True(t, res.HasError("amount", domain.CodeInvalidNumber))
	})

	t.Run("warn_unknown_charges", func(t *testing.T) {
		rec := validRecord()
		rec.Header.Charges = "XYZ"
		res := bankmessage.Validate(rec)
		assert.True(t, res.IsValid)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, "charges", res.Warnings[0].Field)
	})

	t.Run("fail_missing_header", func(t *testing.T) {
		res := bankmessage.Validate(&bankmessage.Record{})
		assert.True(t, res.HasError("header", domain.CodeMissingHeader))
	})
}

func TestProcessor_SingleStep(t *testing.T) {
	p := bankmessage.New(processor.Options{})
	assert.False(t, p.Metadata().IsMultiStep)
	assert.Empty(t, p.Steps())

	out := p.Assemble(context.Background(), []port.StepOutput{
		{Ordinal: 1, Payload: json.RawMessage(`{"reference":"FT1","value_date":"12/03/2024","currency":"USD","amount":"USD 15,230.50","ordering_customer":{"name":"I"},"beneficiary":{"name":"B"}}`)},
	}, port.ProcessOptions{ValidateData: true})

	require.True(t, out.Success, out.Error)
	assert.True(t, out.Validation.HasError("beneficiary.account", domain.CodeMissingRequiredField))
	rec := out.Data.(*bankmessage.Record)
	assert.True(t, rec.Header.Amount.Equal(decimal.RequireFromString("15230.5")))
}
