package validator

import (
	"strings"

	"comex/internal/port"
)

// NCMLookup provides in-memory lookups over the tariff table.
// It is immutable after construction and safe for concurrent access.
type NCMLookup struct {
	byCode map[string]port.NCMEntry
}

// NewNCMLookup builds an NCMLookup from rows loaded from the database.
func NewNCMLookup(entries []port.NCMEntry) *NCMLookup {
	m := make(map[string]port.NCMEntry, len(entries))
	for i := range entries {
		m[normalizeNCM(entries[i].Code)] = entries[i]
	}
	return &NCMLookup{byCode: m}
}

// Len returns the number of codes loaded.
func (l *NCMLookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.byCode)
}

// Exists reports whether the code, or its 6 or 4 digit heading, is in the table.
func (l *NCMLookup) Exists(code string) bool {
	_, ok := l.Find(code)
	return ok
}

// Find returns the entry for a code with hierarchical prefix fallback 8 -> 6 -> 4.
func (l *NCMLookup) Find(code string) (port.NCMEntry, bool) {
	code = normalizeNCM(code)
	if l.Len() == 0 || code == "" {
		return port.NCMEntry{}, false
	}
	if e, ok := l.byCode[code]; ok {
		return e, true
	}
	for _, prefixLen := range []int{6, 4} {
		if len(code) > prefixLen {
			if e, ok := l.byCode[code[:prefixLen]]; ok {
				return e, true
			}
		}
	}
	return port.NCMEntry{}, false
}

func normalizeNCM(code string) string {
	return strings.ReplaceAll(strings.TrimSpace(code), ".", "")
}
