package packinglist_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comex/internal/doctype/packinglist"
	"comex/internal/domain"
	"comex/internal/validator"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validRecord() *packinglist.Record {
	return &packinglist.Record{
		Header: &packinglist.Header{
			InvoiceNumber:    "PL-2024-001",
			Date:             "15/03/2024",
			ExporterName:     "Shenzhen Parts Co",
			ImporterName:     "Importadora Ltda",
			ImporterCNPJ:     "11.222.333/0001-81",
			PackageTotal:     300,
			GrossWeightTotal: dec("3000"),
			NetWeightTotal:   dec("2700"),
			Containers: []packinglist.Container{
				{Number: "CSQU3054383", PackageCount: 100, GrossWeight: dec("1000"), NetWeight: dec("900")},
				{Number: "MSCU1234566", PackageCount: 100, GrossWeight: dec("1000"), NetWeight: dec("900")},
				{Number: "TGHU7654320", PackageCount: 100, GrossWeight: dec("1000"), NetWeight: dec("900")},
			},
		},
		Items: []packinglist.Item{
			{
				LineNumber: 1, Reference: "K1", ProductCode: "A-1", Description: "Bearing", DescriptionSecondary: "Rolamento",
				Quantity: dec("1000"), Unit: "PCS", PackageCount: 150, PackageFrom: 1, PackageTo: 150,
				NetWeight: dec("1350"), GrossWeight: dec("1500"),
				Allocations: []packinglist.Allocation{
					{ContainerNumber: "CSQU3054383", Quantity: dec("666.67"), PackageCount: 100, NetWeight: dec("900"), GrossWeight: dec("1000")},
					{ContainerNumber: "MSCU 123456-6", Quantity: dec("333.33"), PackageCount: 50, NetWeight: dec("450"), GrossWeight: dec("500")},
				},
			},
			{
				LineNumber: 2, Reference: "K1", ProductCode: "A-2", Description: "Shaft", DescriptionSecondary: "Eixo",
				Quantity: dec("500"), Unit: "PCS", PackageCount: 150, PackageFrom: 151, PackageTo: 300,
				NetWeight: dec("1350"), GrossWeight: dec("1500"),
				Allocations: []packinglist.Allocation{
					{ContainerNumber: "MSCU1234566", Quantity: dec("166.67"), PackageCount: 50, NetWeight: dec("450"), GrossWeight: dec("500")},
					{ContainerNumber: "TGHU7654320", Quantity: dec("333.33"), PackageCount: 100, NetWeight: dec("900"), GrossWeight: dec("1000")},
				},
			},
		},
	}
}

func newValidator() *packinglist.Validator {
	return packinglist.NewValidator(validator.DefaultTolerances())
}

func TestValidate_ValidRecord(t *testing.T) {
	res := newValidator().Validate(validRecord())
	assert.True(t, res.IsValid, "%+v", res.Errors)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_Idempotent(t *testing.T) {
	v := newValidator()
	rec := validRecord()
	rec.Header.PackageTotal = 301
	assert.Equal(t, v.Validate(rec), v.Validate(rec))
}

func TestValidate_Structure(t *testing.T) {
	res := newValidator().Validate(&packinglist.Record{})
	assert.False(t, res.IsValid)
	assert.True(t, res.HasError("header", domain.CodeMissingHeader))
	assert.True(t, res.HasError("items", domain.CodeMissingItems))
	assert.Len(t, res.Errors, 2, "later passes are skipped")
}

func TestValidate_HeaderVsContainerPackages(t *testing.T) {
	rec := &packinglist.Record{
		Header: &packinglist.Header{
			InvoiceNumber: "PL-1",
			ExporterName:  "Exporter",
			PackageTotal:  300,
			Containers: []packinglist.Container{
				{Number: "CSQU3054383", PackageCount: 100},
				{Number: "MSCU1234566", PackageCount: 100},
				{Number: "TGHU7654320", PackageCount: 90},
			},
		},
		Items: []packinglist.Item{
			{LineNumber: 1, Reference: "R", Description: "Goods", DescriptionSecondary: "Mercadoria", Quantity: dec("10")},
		},
	}
	res := newValidator().Validate(rec)
	assert.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "consistency.packages.header_containers", res.Errors[0].Field)
	assert.Equal(t, domain.CodePackageTotalMismatch, res.Errors[0].Code)
}

func TestContainerRanges(t *testing.T) {
	ranges := packinglist.ContainerRanges([]packinglist.Container{
		{Number: "A", PackageCount: 100},
		{Number: "B", PackageCount: 100},
		{Number: "C", PackageCount: 100},
	})
	require.Len(t, ranges, 3)
	assert.Equal(t, 101, ranges[1].From)
	assert.Equal(t, 200, ranges[1].To)
	assert.Equal(t, 300, ranges[2].To)
}

func TestValidate_ItemRangeCrossesContainerBoundary(t *testing.T) {
	rec := validRecord()
	rec.Items[0].Allocations = nil
	rec.Items[1].Allocations = nil
	rec.Items[0].PackageFrom, rec.Items[0].PackageTo = 1, 150
	res := newValidator().Validate(rec)
	assert.True(t, res.HasError("items[0].package_from", domain.CodePackageRangeOverlap))
	assert.True(t, res.HasError("items[1].package_from", domain.CodePackageRangeOverlap))
}

func TestValidate_SingleAllocationMustFitContainerRange(t *testing.T) {
	rec := validRecord()
	rec.Header.Containers[0].PackageCount = 150
	rec.Header.Containers[1].PackageCount = 50
	rec.Items[0].Allocations = []packinglist.Allocation{{ContainerNumber: "CSQU3054383", Quantity: dec("1000"), PackageCount: 150}}
	rec.Items[1].Allocations = []packinglist.Allocation{{ContainerNumber: "CSQU3054383", Quantity: dec("500"), PackageCount: 150}}
	res := newValidator().Validate(rec)
	assert.False(t, res.HasError("items[0].package_from", domain.CodePackageRangeOverlap))
	assert.True(t, res.HasError("items[1].package_from", domain.CodePackageRangeOverlap))
}

func TestValidate_RangeOverlapAndBeyondTotal(t *testing.T) {
	rec := validRecord()
	rec.Items[1].PackageFrom, rec.Items[1].PackageTo = 140, 310
	rec.Items[1].PackageCount = 171
	res := newValidator().Validate(rec)
	assert.True(t, res.HasError("items[1].package_from", domain.CodePackageRangeOverlap))
	assert.True(t, res.HasError("items[1].package_to", domain.CodePackageRangeGap))
}

func TestValidate_RangeHoleIsWarning(t *testing.T) {
	rec := validRecord()
	rec.Items[1].PackageFrom = 161
	rec.Items[1].PackageCount = 140
	res := newValidator().Validate(rec)
	found := false
	for _, w := range res.Warnings {
		if w.Field == "items[1].package_from" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidate_ItemAllocationsMustAddUp(t *testing.T) {
	rec := validRecord()
	rec.Items[0].Allocations[1].Quantity = dec("300")
	rec.Items[0].Allocations[1].NetWeight = dec("400")
	res := newValidator().Validate(rec)
	assert.True(t, res.HasError("items[0].allocations", domain.CodeQuantityInconsistency))
	assert.True(t, res.HasError("items[0].allocations.net_weight", domain.CodeWeightMismatch))
	assert.True(t, res.HasError("containers[1].net_weight", domain.CodeWeightMismatch))
}

func TestValidate_WeightTolerance(t *testing.T) {
	rec := validRecord()
	rec.Header.GrossWeightTotal = dec("3000.1")
	res := newValidator().Validate(rec)
	assert.False(t, res.HasCode(domain.CodeWeightMismatch), "0.1 kg drift is tolerated")

	rec.Header.GrossWeightTotal = dec("3000.2")
	res = newValidator().Validate(rec)
	assert.True(t, res.HasError("consistency.weight.header_containers", domain.CodeWeightMismatch))
	assert.True(t, res.HasError("consistency.weight.header_items", domain.CodeWeightMismatch))
}

func TestValidate_UnknownAllocationContainer(t *testing.T) {
	rec := validRecord()
	rec.Items[0].Allocations[0].ContainerNumber = "MAEU1000018"
	res := newValidator().Validate(rec)
	assert.True(t, res.HasError("items[0].allocations[0].container_number", domain.CodeInvalidReference))
}

func TestValidate_DuplicatesAreWarnings(t *testing.T) {
	rec := validRecord()
	rec.Items[1].ProductCode = "A-1"
	res := newValidator().Validate(rec)
	assert.True(t, res.IsValid)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, "items[1].product_code", res.Warnings[0].Field)
}

func TestValidate_MissingSecondaryDescriptionWarns(t *testing.T) {
	rec := validRecord()
	rec.Items[0].DescriptionSecondary = ""
	res := newValidator().Validate(rec)
	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "items[0].description_secondary", res.Warnings[0].Field)
	assert.NotEmpty(t, res.Warnings[0].Suggestion)
}

func TestValidate_FieldFormats(t *testing.T) {
	rec := validRecord()
	rec.Header.ImporterCNPJ = "11.222.333/0001-80"
	rec.Header.Date = "30/02/2024"
	rec.Header.Containers[0].Number = "CSQU3054384"
	rec.Items[1].LineNumber = 1
	res := newValidator().Validate(rec)
	assert.True(t, res.HasError("importer_cnpj", domain.CodeInvalidCNPJ))
	assert.True(t, res.HasError("date", domain.CodeInvalidDate))
	assert.True(t, res.HasError("containers[0].number", domain.CodeInvalidContainer))
	assert.True(t, res.HasError("items[1].line_number", domain.CodeInvalidSequence))
}
