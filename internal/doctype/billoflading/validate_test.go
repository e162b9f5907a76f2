package billoflading_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/doctype/billoflading"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
	"comex/internal/validator"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validRecord() *billoflading.Record {
	return &billoflading.Record{
		Header: &billoflading.Header{
			BLNumber:         "MEDUXY123456",
			IssueDate:        "05/02/2024",
			Shipper:          "Ningbo Tools Co",
			Consignee:        "Importadora Ltda",
			ConsigneeCNPJ:    "11222333000181",
			Vessel:           "MSC AURORA",
			PortOfLoading:    "Ningbo",
			PortOfDischarge:  "Santos",
			PackageTotal:     30,
			GrossWeightTotal: dec("12500.0"),
			Containers: []billoflading.Container{
				{Number: "MSCU1234566", Packages: 20, GrossWeight: dec("8000.0")},
				{Number: "TGHU 765432-0", Packages: 10, GrossWeight: dec("4500.0")},
			},
		},
		Items: []billoflading.Item{
			{LineNumber: 1, Description: "Hand tools", Packages: 20, GrossWeight: dec("8000.0"), ContainerNumber: "MSCU1234566"},
			{LineNumber: 2, Description: "Spare parts", Packages: 10, GrossWeight: dec("4500.05"), ContainerNumber: "TGHU7654320"},
		},
	}
}

func newValidator() *billoflading.Validator {
	return billoflading.NewValidator(validator.DefaultTolerances())
}

func TestValidate_ValidBill(t *testing.T) {
	res := newValidator().Validate(validRecord())
	assert.True(t, res.IsValid, "%+v", res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_PackageTotals(t *testing.T) {
	rec := validRecord()
	rec.Header.PackageTotal = 31
	res := newValidator().Validate(rec)
	assert.True(t, res.HasError("consistency.packages.header_containers", domain.CodePackageTotalMismatch))
	assert.True(t, res.HasError("consistency.packages.header_items", domain.CodePackageTotalMismatch))
}

func TestValidate_WeightBeyondTolerance(t *testing.T) {
	rec := validRecord()
	rec.Header.Containers[1].GrossWeight = dec("4500.2")
	res := newValidator().Validate(rec)
	assert.True(t, res.HasError("consistency.weight.header_containers", domain.CodeWeightMismatch))
	assert.False(t, res.HasError("consistency.weight.header_items", domain.CodeWeightMismatch))
}

func TestValidate_ContainerFormatAndDuplicates(t *testing.T) {
	rec := validRecord()
	rec.Header.Containers[1].Number = "MSCU1234567"
	res := newValidator().Validate(rec)
	assert.True(t, res.HasError("containers[1].number", domain.CodeInvalidContainer))

	rec = validRecord()
	rec.Header.Containers = append(rec.Header.Containers, billoflading.Container{Number: "mscu 123456-6"})
	res = newValidator().Validate(rec)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "containers[2].number", res.Warnings[0].Field)
}

func TestValidate_UnknownContainerReference(t *testing.T) {
	rec := validRecord()
	rec.Items[1].ContainerNumber = "CSQU3054383"
	res := newValidator().Validate(rec)
	assert.True(t, res.HasError("items[1].container_number", domain.CodeInvalidReference))
}

func TestProcessor_Assemble(t *testing.T) {
	p := billoflading.New(processor.Options{})
	out := p.Assemble(context.Background(), []port.StepOutput{
		{Ordinal: 1, Payload: json.RawMessage(`{"bl_number":"B1","issue_date":"05/02/2024","shipper":"S","consignee":"C","vessel":"V","port_of_loading":"Ningbo","port_of_discharge":"Santos","package_total":"10","gross_weight_total":"1.000,5 kg","containers":[{"number":"CSQU3054383","packages":10,"gross_weight":"1000.5"}]}`)},
		{Ordinal: 2, Payload: json.RawMessage(`{"line_number":1,"description":"Tools","packages":"10","gross_weight":"1.000,5"}`)},
	}, port.ProcessOptions{ValidateData: true})

	require.True(t, out.Success, out.Error)
	assert.True(t, out.Validation.IsValid, "%+v", out.Validation.Errors)
	rec := out.Data.(*billoflading.Record)
	assert.Equal(t, 10, rec.Header.PackageTotal)
	assert.True(t, rec.Header.GrossWeightTotal.Equal(dec("1000.5")))
}
