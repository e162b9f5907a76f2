package combiner

import "strings"

// BackfillReferences groups related lines that share one reference code. An item with an empty
// reference takes the nearest preceding non-empty reference; leading empties take the first
// following one. Items that are not objects are left alone.
func BackfillReferences(items []any, key string) {
	refs := make([]string, len(items))
	for i, it := range items {
		refs[i] = referenceOf(it, key)
	}
	FillReferences(refs)
	for i, it := range items {
		obj, ok := it.(map[string]any)
		if !ok || refs[i] == "" {
			continue
		}
		if referenceOf(obj, key) == "" {
			obj[key] = refs[i]
		}
	}
}

// FillReferences applies the back-fill rule to a plain slice of references in place.
func FillReferences(refs []string) {
	last := ""
	firstIdx := -1
	for i, r := range refs {
		if strings.TrimSpace(r) != "" {
			last = r
			if firstIdx < 0 {
				firstIdx = i
			}
			continue
		}
		if last != "" {
			refs[i] = last
		}
	}
	if firstIdx <= 0 {
		return
	}
	for i := 0; i < firstIdx; i++ {
		refs[i] = refs[firstIdx]
	}
}

func referenceOf(item any, key string) string {
	obj, ok := item.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
