package packinglist

import "comex/internal/validator"

// PackageRange is an inclusive run of package numbers.
type PackageRange struct {
	ContainerNumber string
	From            int
	To              int
}

// Contains reports whether [from, to] lies inside the range.
func (r PackageRange) Contains(from, to int) bool {
	return from >= r.From && to <= r.To
}

// ContainerRanges assigns package numbers to containers sequentially in table order:
// with counts 100/100/100 the second container holds [101, 200]. Empty containers get no range.
func ContainerRanges(containers []Container) []PackageRange {
	out := make([]PackageRange, 0, len(containers))
	next := 1
	for _, c := range containers {
		if c.PackageCount <= 0 {
			continue
		}
		out = append(out, PackageRange{ContainerNumber: c.Number, From: next, To: next + c.PackageCount - 1})
		next += c.PackageCount
	}
	return out
}

func rangeOf(ranges []PackageRange, container string) (PackageRange, bool) {
	container = validator.NormalizeContainer(container)
	for _, r := range ranges {
		if validator.NormalizeContainer(r.ContainerNumber) == container {
			return r, true
		}
	}
	return PackageRange{}, false
}

func anyContains(ranges []PackageRange, from, to int) bool {
	for _, r := range ranges {
		if r.Contains(from, to) {
			return true
		}
	}
	return false
}
