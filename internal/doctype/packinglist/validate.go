package packinglist

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"comex/internal/domain"
	"comex/internal/validator"
)

// Validator checks packing list structure, fields, and package/weight arithmetic.
type Validator struct {
	tol   validator.Tolerances
	rules *validator.RuleSet[*Record]
}

// NewValidator builds the rule set with the given tolerances.
func NewValidator(tol validator.Tolerances) *Validator {
	v := &Validator{tol: tol}
	v.rules = validator.NewRuleSet(
		validator.Rule[*Record]{Key: "structure.sections", Name: "Structure: Sections", Pass: validator.PassStructural, Check: checkStructure},
		validator.Rule[*Record]{Key: "header.fields", Name: "Header: Fields", Pass: validator.PassSection, Check: checkHeader},
		validator.Rule[*Record]{Key: "header.containers", Name: "Header: Containers", Pass: validator.PassSection, Check: checkContainers},
		validator.Rule[*Record]{Key: "items.fields", Name: "Items: Fields", Pass: validator.PassSection, Check: checkItems},
		validator.Rule[*Record]{Key: "consistency.header_containers", Name: "Consistency: Header vs Containers", Pass: validator.PassCrossSection, Check: v.checkHeaderContainers},
		validator.Rule[*Record]{Key: "consistency.header_items", Name: "Consistency: Header vs Items", Pass: validator.PassCrossSection, Check: v.checkHeaderItems},
		validator.Rule[*Record]{Key: "consistency.item_allocations", Name: "Consistency: Item Allocations", Pass: validator.PassCrossSection, Check: v.checkItemAllocations},
		validator.Rule[*Record]{Key: "consistency.container_allocations", Name: "Consistency: Container Allocations", Pass: validator.PassCrossSection, Check: v.checkContainerAllocations},
		validator.Rule[*Record]{Key: "consistency.package_ranges", Name: "Consistency: Package Ranges", Pass: validator.PassCrossSection, Check: checkPackageRanges},
	)
	return v
}

// Validate runs the structural, per-section and cross-section passes.
func (v *Validator) Validate(rec *Record) domain.ValidationResult {
	return v.rules.Run(rec)
}

func checkStructure(r *Record, c *validator.Collector) {
	if r.Header == nil {
		c.Error("header", domain.CodeMissingHeader, "packing list header is missing")
	}
	if len(r.Items) == 0 {
		c.Error("items", domain.CodeMissingItems, "packing list has no items")
	}
}

func checkHeader(r *Record, c *validator.Collector) {
	h := r.Header
	validator.Required(c, "invoice_number", h.InvoiceNumber)
	validator.Date(c, "date", h.Date, false)
	validator.CNPJ(c, "importer_cnpj", h.ImporterCNPJ, false)
	validator.Recommended(c, "exporter_name", h.ExporterName, "fill in the exporter from the document letterhead")
	if h.PackageTotal < 0 {
		c.Error("package_total", domain.CodeInvalidNumber, "package_total must not be negative (got %d)", h.PackageTotal)
	}
	if h.PackageTotal == 0 {
		c.Warn("package_total", "confirm the total number of packages on the source document", "package_total is zero")
	}
	validator.NonNegative(c, "gross_weight_total", h.GrossWeightTotal)
	validator.NonNegative(c, "net_weight_total", h.NetWeightTotal)
	if h.NetWeightTotal.GreaterThan(h.GrossWeightTotal) && h.GrossWeightTotal.IsPositive() {
		c.Error("net_weight_total", domain.CodeWeightMismatch, "net weight %s exceeds gross weight %s",
			h.NetWeightTotal, h.GrossWeightTotal)
	}
}

func checkContainers(r *Record, c *validator.Collector) {
	numbers := make([]string, len(r.Header.Containers))
	for i, ct := range r.Header.Containers {
		numbers[i] = validator.NormalizeContainer(ct.Number)
		validator.Container(c, fmt.Sprintf("containers[%d].number", i), ct.Number, true)
		if ct.PackageCount < 0 {
			c.Error(fmt.Sprintf("containers[%d].package_count", i), domain.CodeInvalidNumber, "package_count must not be negative")
		}
		validator.NonNegative(c, fmt.Sprintf("containers[%d].gross_weight", i), ct.GrossWeight)
	}
	validator.Duplicates(c, "containers[%d].number", "container", numbers)
}

func checkItems(r *Record, c *validator.Collector) {
	lines := make([]int, len(r.Items))
	codes := make([]string, len(r.Items))
	for i, it := range r.Items {
		lines[i] = it.LineNumber
		codes[i] = it.ProductCode
		prefix := fmt.Sprintf("items[%d]", i)
		validator.Required(c, prefix+".description", it.Description)
		validator.Recommended(c, prefix+".description_secondary", it.DescriptionSecondary,
			"add the secondary-language description required for customs clearance")
		validator.Positive(c, prefix+".quantity", it.Quantity)
		validator.NonNegative(c, prefix+".net_weight", it.NetWeight)
		validator.NonNegative(c, prefix+".gross_weight", it.GrossWeight)
		if it.NetWeight.GreaterThan(it.GrossWeight) && it.GrossWeight.IsPositive() {
			c.Error(prefix+".net_weight", domain.CodeWeightMismatch, "net weight %s exceeds gross weight %s", it.NetWeight, it.GrossWeight)
		}
		if it.PackageFrom > 0 || it.PackageTo > 0 {
			if it.PackageFrom <= 0 || it.PackageTo < it.PackageFrom {
				c.Error(prefix+".package_from", domain.CodeInvalidSequence, "package range %d-%d is invalid", it.PackageFrom, it.PackageTo)
			} else if it.PackageCount > 0 && it.PackageTo-it.PackageFrom+1 != it.PackageCount {
				c.Error(prefix+".package_count", domain.CodePackageTotalMismatch, "package range %d-%d holds %d packages, item declares %d",
					it.PackageFrom, it.PackageTo, it.PackageTo-it.PackageFrom+1, it.PackageCount)
			}
		}
		if it.Reference == "" {
			c.Warn(prefix+".reference", "group the line under its commercial reference", "item has no reference")
		}
	}
	validator.Sequence(c, "items[%d].line_number", lines)
	validator.Duplicates(c, "items[%d].product_code", "product code", codes)
}

func (v *Validator) checkHeaderContainers(r *Record, c *validator.Collector) {
	h := r.Header
	if len(h.Containers) == 0 {
		return
	}
	packages := 0
	var gross, net []decimal.Decimal
	for _, ct := range h.Containers {
		packages += ct.PackageCount
		gross = append(gross, ct.GrossWeight)
		net = append(net, ct.NetWeight)
	}
	if packages != h.PackageTotal {
		c.Error("consistency.packages.header_containers", domain.CodePackageTotalMismatch,
			"header declares %d packages, containers hold %d", h.PackageTotal, packages)
	}
	if sum := validator.Sum(gross...); sum.IsPositive() && !validator.Within(sum, h.GrossWeightTotal, v.tol.Weight) {
		c.Error("consistency.weight.header_containers", domain.CodeWeightMismatch,
			"header gross weight %s differs from containers total %s", h.GrossWeightTotal, sum)
	}
	if sum := validator.Sum(net...); sum.IsPositive() && !validator.Within(sum, h.NetWeightTotal, v.tol.Weight) {
		c.Error("consistency.net_weight.header_containers", domain.CodeWeightMismatch,
			"header net weight %s differs from containers total %s", h.NetWeightTotal, sum)
	}
}

func (v *Validator) checkHeaderItems(r *Record, c *validator.Collector) {
	h := r.Header
	packages := 0
	var gross, net []decimal.Decimal
	for _, it := range r.Items {
		packages += it.PackageCount
		gross = append(gross, it.GrossWeight)
		net = append(net, it.NetWeight)
	}
	if packages > 0 && packages != h.PackageTotal {
		c.Error("consistency.packages.header_items", domain.CodePackageTotalMismatch,
			"header declares %d packages, items add up to %d", h.PackageTotal, packages)
	}
	if sum := validator.Sum(gross...); sum.IsPositive() && !validator.Within(sum, h.GrossWeightTotal, v.tol.Weight) {
		c.Error("consistency.weight.header_items", domain.CodeWeightMismatch,
			"header gross weight %s differs from items total %s", h.GrossWeightTotal, sum)
	}
	if sum := validator.Sum(net...); sum.IsPositive() && !validator.Within(sum, h.NetWeightTotal, v.tol.Weight) {
		c.Error("consistency.net_weight.header_items", domain.CodeWeightMismatch,
			"header net weight %s differs from items total %s", h.NetWeightTotal, sum)
	}
}

func (v *Validator) checkItemAllocations(r *Record, c *validator.Collector) {
	known := make(map[string]bool, len(r.Header.Containers))
	for _, ct := range r.Header.Containers {
		known[validator.NormalizeContainer(ct.Number)] = true
	}
	for i, it := range r.Items {
		if len(it.Allocations) == 0 {
			continue
		}
		prefix := fmt.Sprintf("items[%d]", i)
		packages := 0
		var qty, net, gross []decimal.Decimal
		for j, a := range it.Allocations {
			if len(known) > 0 && !known[validator.NormalizeContainer(a.ContainerNumber)] {
				c.Error(fmt.Sprintf("%s.allocations[%d].container_number", prefix, j), domain.CodeInvalidReference,
					"container %q is not listed in the header", a.ContainerNumber)
			}
			packages += a.PackageCount
			qty = append(qty, a.Quantity)
			net = append(net, a.NetWeight)
			gross = append(gross, a.GrossWeight)
		}
		if sum := validator.Sum(qty...); !validator.Within(sum, it.Quantity, v.tol.Amount) {
			c.Error(prefix+".allocations", domain.CodeQuantityInconsistency,
				"allocations hold quantity %s, item declares %s", sum, it.Quantity)
		}
		if packages > 0 && it.PackageCount > 0 && packages != it.PackageCount {
			c.Error(prefix+".allocations.package_count", domain.CodePackageTotalMismatch,
				"allocations hold %d packages, item declares %d", packages, it.PackageCount)
		}
		if sum := validator.Sum(net...); sum.IsPositive() && !validator.Within(sum, it.NetWeight, v.tol.Weight) {
			c.Error(prefix+".allocations.net_weight", domain.CodeWeightMismatch,
				"allocations hold net weight %s, item declares %s", sum, it.NetWeight)
		}
		if sum := validator.Sum(gross...); sum.IsPositive() && !validator.Within(sum, it.GrossWeight, v.tol.Weight) {
			c.Error(prefix+".allocations.gross_weight", domain.CodeWeightMismatch,
				"allocations hold gross weight %s, item declares %s", sum, it.GrossWeight)
		}
	}
}

type containerLoad struct {
	packages   int
	net, gross decimal.Decimal
}

func (v *Validator) checkContainerAllocations(r *Record, c *validator.Collector) {
	loads := make(map[string]*containerLoad)
	for _, it := range r.Items {
		for _, a := range it.Allocations {
			key := validator.NormalizeContainer(a.ContainerNumber)
			l, ok := loads[key]
			if !ok {
				l = &containerLoad{}
				loads[key] = l
			}
			l.packages += a.PackageCount
			l.net = l.net.Add(a.NetWeight)
			l.gross = l.gross.Add(a.GrossWeight)
		}
	}
	if len(loads) == 0 {
		return
	}
	for i, ct := range r.Header.Containers {
		l, ok := loads[validator.NormalizeContainer(ct.Number)]
		if !ok {
			l = &containerLoad{}
		}
		prefix := fmt.Sprintf("containers[%d]", i)
		if l.packages != ct.PackageCount {
			c.Error(prefix+".package_count", domain.CodePackageTotalMismatch,
				"container %s declares %d packages, item allocations hold %d", ct.Number, ct.PackageCount, l.packages)
		}
		if ct.NetWeight.IsPositive() && !validator.Within(l.net, ct.NetWeight, v.tol.Weight) {
			c.Error(prefix+".net_weight", domain.CodeWeightMismatch,
				"container %s declares net weight %s, item allocations hold %s", ct.Number, ct.NetWeight, l.net)
		}
		if ct.GrossWeight.IsPositive() && !validator.Within(l.gross, ct.GrossWeight, v.tol.Weight) {
			c.Error(prefix+".gross_weight", domain.CodeWeightMismatch,
				"container %s declares gross weight %s, item allocations hold %s", ct.Number, ct.GrossWeight, l.gross)
		}
	}
}

type indexedRange struct {
	index    int
	from, to int
}

func checkPackageRanges(r *Record, c *validator.Collector) {
	var ranged []indexedRange
	for i, it := range r.Items {
		if it.PackageFrom > 0 && it.PackageTo >= it.PackageFrom {
			ranged = append(ranged, indexedRange{index: i, from: it.PackageFrom, to: it.PackageTo})
		}
	}
	if len(ranged) == 0 {
		return
	}
	sort.SliceStable(ranged, func(a, b int) bool { return ranged[a].from < ranged[b].from })

	total := r.Header.PackageTotal
	for k, cur := range ranged {
		field := fmt.Sprintf("items[%d].package_from", cur.index)
		if k > 0 {
			prev := ranged[k-1]
			switch {
			case cur.from <= prev.to:
				c.Error(field, domain.CodePackageRangeOverlap, "packages %d-%d overlap item %d (%d-%d)",
					cur.from, cur.to, prev.index, prev.from, prev.to)
			case cur.from > prev.to+1:
				c.Warn(field, "check whether packages are missing from the list",
					"packages %d-%d are not assigned to any item", prev.to+1, cur.from-1)
			}
		}
		if total > 0 && cur.to > total {
			c.Error(fmt.Sprintf("items[%d].package_to", cur.index), domain.CodePackageRangeGap,
				"package %d is beyond the declared total of %d", cur.to, total)
		}
	}

	containerRanges := ContainerRanges(r.Header.Containers)
	if len(containerRanges) == 0 {
		return
	}
	for _, cur := range ranged {
		it := r.Items[cur.index]
		field := fmt.Sprintf("items[%d].package_from", cur.index)
		switch len(it.Allocations) {
		case 0:
			if !anyContains(containerRanges, cur.from, cur.to) {
				c.Error(field, domain.CodePackageRangeOverlap,
					"packages %d-%d cross a container boundary", cur.from, cur.to)
			}
		case 1:
			cr, ok := rangeOf(containerRanges, it.Allocations[0].ContainerNumber)
			if ok && !cr.Contains(cur.from, cur.to) {
				c.Error(field, domain.CodePackageRangeOverlap,
					"packages %d-%d fall outside container %s range %d-%d", cur.from, cur.to, cr.ContainerNumber, cr.From, cr.To)
			}
		}
	}
}
