package billoflading

import (
	"fmt"

	"github.com/shopspring/decimal"

	"comex/internal/domain"
	"comex/internal/validator"
)

type Validator struct {
	rules *validator.RuleSet[*Record]
}

func NewValidator(tol validator.Tolerances) *Validator {
	return &Validator{rules: validator.NewRuleSet(
		validator.Rule[*Record]{Key: "structure.sections", Pass: validator.PassStructural, Check: checkStructure},
		validator.Rule[*Record]{Key: "header.fields", Pass: validator.PassSection, Check: checkHeader},
		validator.Rule[*Record]{Key: "header.containers", Pass: validator.PassSection, Check: checkContainers},
		validator.Rule[*Record]{Key: "items.fields", Pass: validator.PassSection, Check: checkItems},
		validator.Rule[*Record]{Key: "consistency.container_refs", Pass: validator.PassCrossSection, Check: checkContainerRefs},
		validator.Rule[*Record]{Key: "consistency.totals", Pass: validator.PassCrossSection, Check: func(r *Record, c *validator.Collector) {
			checkTotals(c, r, tol.Weight)
		}},
	)}
}

func (v *Validator) Validate(rec *Record) domain.ValidationResult {
	return v.rules.Run(rec)
}

func checkStructure(r *Record, c *validator.Collector) {
	if r.Header == nil {
		c.Error("header", domain.CodeMissingHeader, "bill of lading header is missing")
	}
	if len(r.Items) == 0 {
		c.Error("items", domain.CodeMissingItems, "bill of lading has no cargo lines")
	}
}

func checkHeader(r *Record, c *validator.Collector) {
	h := r.Header
	validator.Required(c, "bl_number", h.BLNumber)
	validator.Date(c, "issue_date", h.IssueDate, true)
	validator.Required(c, "shipper", h.Shipper)
	validator.Required(c, "consignee", h.Consignee)
	validator.CNPJ(c, "consignee_cnpj", h.ConsigneeCNPJ, false)
	validator.Recommended(c, "vessel", h.Vessel, "vessel name is needed for the cargo manifest")
	validator.Recommended(c, "port_of_loading", h.PortOfLoading, "fill in the port of loading")
	validator.Recommended(c, "port_of_discharge", h.PortOfDischarge, "fill in the port of discharge")
	if h.PackageTotal < 0 {
		c.Error("package_total", domain.CodeInvalidNumber, "package_total must not be negative (got %d)", h.PackageTotal)
	}
	validator.NonNegative(c, "gross_weight_total", h.GrossWeightTotal)
}

func checkContainers(r *Record, c *validator.Collector) {
	numbers := make([]string, len(r.Header.Containers))
	for i, ct := range r.Header.Containers {
		numbers[i] = validator.NormalizeContainer(ct.Number)
		prefix := fmt.Sprintf("containers[%d]", i)
		validator.Container(c, prefix+".number", ct.Number, true)
		if ct.Packages < 0 {
			c.Error(prefix+".packages", domain.CodeInvalidNumber, "%s.packages must not be negative (got %d)", prefix, ct.Packages)
		}
		validator.NonNegative(c, prefix+".gross_weight", ct.GrossWeight)
	}
	validator.Duplicates(c, "containers[%d].number", "container", numbers)
}

func checkItems(r *Record, c *validator.Collector) {
	lines := make([]int, len(r.Items))
	for i, it := range r.Items {
		lines[i] = it.LineNumber
		prefix := fmt.Sprintf("items[%d]", i)
		validator.Required(c, prefix+".description", it.Description)
		if it.Packages <= 0 {
			c.Error(prefix+".packages", domain.CodeInvalidNumber, "%s.packages must be greater than zero (got %d)", prefix, it.Packages)
		}
		validator.NonNegative(c, prefix+".gross_weight", it.GrossWeight)
	}
	validator.Sequence(c, "items[%d].line_number", lines)
}

func checkContainerRefs(r *Record, c *validator.Collector) {
	if len(r.Header.Containers) == 0 {
		return
	}
	known := make(map[string]bool, len(r.Header.Containers))
	for _, ct := range r.Header.Containers {
		known[validator.NormalizeContainer(ct.Number)] = true
	}
	for i, it := range r.Items {
		if it.ContainerNumber == "" {
			continue
		}
		if !known[validator.NormalizeContainer(it.ContainerNumber)] {
			c.Error(fmt.Sprintf("items[%d].container_number", i), domain.CodeInvalidReference,
				"cargo line refers to container %s, which is not listed", it.ContainerNumber)
		}
	}
}

func checkTotals(c *validator.Collector, r *Record, weightTol decimal.Decimal) {
	h := r.Header
	itemPackages := 0
	var itemWeight decimal.Decimal
	for _, it := range r.Items {
		itemPackages += it.Packages
		itemWeight = itemWeight.Add(it.GrossWeight)
	}

	if len(h.Containers) > 0 {
		packages := 0
		var weight decimal.Decimal
		for _, ct := range h.Containers {
			packages += ct.Packages
			weight = weight.Add(ct.GrossWeight)
		}
		if h.PackageTotal > 0 && packages != h.PackageTotal {
			c.Error("consistency.packages.header_containers", domain.CodePackageTotalMismatch,
				"header declares %d packages, containers hold %d", h.PackageTotal, packages)
		}
		if h.GrossWeightTotal.IsPositive() && !validator.Within(weight, h.GrossWeightTotal, weightTol) {
			c.Error("consistency.weight.header_containers", domain.CodeWeightMismatch,
				"header gross weight %s kg, containers add up to %s kg", h.GrossWeightTotal.String(), weight.String())
		}
	}

	if h.PackageTotal > 0 && itemPackages != h.PackageTotal {
		c.Error("consistency.packages.header_items", domain.CodePackageTotalMismatch,
			"header declares %d packages, cargo lines add up to %d", h.PackageTotal, itemPackages)
	}
	if h.GrossWeightTotal.IsPositive() && !validator.Within(itemWeight, h.GrossWeightTotal, weightTol) {
		c.Error("consistency.weight.header_items", domain.CodeWeightMismatch,
			"header gross weight %s kg, cargo lines add up to %s kg", h.GrossWeightTotal.String(), itemWeight.String())
	}
}
