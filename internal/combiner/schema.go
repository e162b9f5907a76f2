package combiner

// Schema is the loosely typed raw-step shape of one document type: which keys hold amounts, which hold
// counts, and which item key groups related lines by reference. Keys apply at any nesting depth.
// OpaqueHeader keeps a non-object header payload under a "content" key instead of rejecting it.
type Schema struct {
	Numeric      []string
	Integer      []string
	ReferenceKey string
	OpaqueHeader bool
}

type keySet map[string]struct{}

func newKeySet(keys []string) keySet {
	s := make(keySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s keySet) has(k string) bool {
	_, ok := s[k]
	return ok
}
