package packinglist_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/doctype/packinglist"
	"comex/internal/domain"
	"comex/internal/port"
	"comex/internal/processor"
	"comex/internal/validator"
)

const headerStep = `{
	"invoice_number": "PL-77",
	"date": "01/02/2024",
	"exporter_name": "Exporter",
	"package_total": "300",
	"gross_weight_total": "3.000,00",
	"net_weight_total": "2.700,00",
	"containers": [
		{"number": "CSQU3054383", "package_count": "100", "gross_weight": "1.000,00", "net_weight": "900,00"},
		{"number": "MSCU1234566", "package_count": "100", "gross_weight": "1.000,00", "net_weight": "900,00"},
		{"number": "TGHU7654320", "package_count": "90", "gross_weight": "1.000,00", "net_weight": "900,00"}
	]
}`

const itemsStep = `[
	{"line_number": 1, "reference": "", "description": "Bearing", "description_secondary": "Rolamento", "quantity": "10"},
	{"line_number": 2, "reference": "K1", "description": "Shaft", "description_secondary": "Eixo", "quantity": "5"}
]`

func TestProcessor_Metadata(t *testing.T) {
	p := packinglist.New(processor.Options{})
	assert.Equal(t, domain.DocumentTypePackingList, p.DocumentType())
	assert.True(t, p.Metadata().IsMultiStep)
	require.Len(t, p.Steps(), 2)
	assert.True(t, p.Steps()[1].ExpectsPriorOutput)
}

func TestProcessor_AssembleFromRawSteps(t *testing.T) {
	p := packinglist.New(processor.Options{})
	out := p.Assemble(context.Background(), []port.StepOutput{
		{Ordinal: 1, Payload: json.RawMessage(headerStep)},
		{Ordinal: 2, Payload: json.RawMessage(itemsStep)},
	}, port.ProcessOptions{ValidateData: true})

	require.True(t, out.Success, out.Error)
	rec, ok := out.Data.(*packinglist.Record)
	require.True(t, ok)
	assert.Equal(t, 300, rec.Header.PackageTotal)
	assert.Equal(t, "3000", rec.Header.GrossWeightTotal.String())
	require.Len(t, rec.Items, 2)
	assert.Equal(t, "K1", rec.Items[0].Reference, "reference back-filled")

	require.NotNil(t, out.Validation)
	assert.False(t, out.Validation.IsValid)
	assert.True(t, out.Validation.HasError("consistency.packages.header_containers", domain.CodePackageTotalMismatch))
}

func TestRecord_SectionsRoundTrip(t *testing.T) {
	rec := validRecord()
	sections, err := rec.Sections()
	require.NoError(t, err)
	assert.Nil(t, sections.TaxBreakdown)

	back, err := packinglist.Decode(sections)
	require.NoError(t, err)
	again := packinglist.NewValidator(validator.DefaultTolerances()).Validate(back.(*packinglist.Record))
	assert.True(t, again.IsValid)
}
