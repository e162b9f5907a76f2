package validator

import "comex/internal/domain"

// Pass orders rule execution. Structural failures stop the later passes.
type Pass int

const (
	PassStructural Pass = iota
	PassSection
	PassCrossSection
)

// Rule is one named check over a typed record.
type Rule[T any] struct {
	Key   string
	Name  string
	Pass  Pass
	Check func(rec T, c *Collector)
}

// RuleSet maps rule keys to rules and runs them pass by pass in registration order.
type RuleSet[T any] struct {
	keys  []string
	rules map[string]Rule[T]
}

// NewRuleSet creates a RuleSet holding the given rules.
func NewRuleSet[T any](rules ...Rule[T]) *RuleSet[T] {
	s := &RuleSet[T]{rules: make(map[string]Rule[T], len(rules))}
	for _, r := range rules {
		s.Register(r)
	}
	return s
}

// Register adds or replaces a rule.
func (s *RuleSet[T]) Register(r Rule[T]) {
	if _, ok := s.rules[r.Key]; !ok {
		s.keys = append(s.keys, r.Key)
	}
	s.rules[r.Key] = r
}

// Get returns the rule for a key.
func (s *RuleSet[T]) Get(key string) (Rule[T], bool) {
	r, ok := s.rules[key]
	return r, ok
}

// Keys returns rule keys in registration order.
func (s *RuleSet[T]) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Run applies every rule to rec and returns the collected result.
func (s *RuleSet[T]) Run(rec T) domain.ValidationResult {
	c := NewCollector()
	for _, pass := range []Pass{PassStructural, PassSection, PassCrossSection} {
		for _, key := range s.keys {
			r := s.rules[key]
			if r.Pass == pass {
				r.Check(rec, c)
			}
		}
		if pass == PassStructural && c.HasErrors() {
			break
		}
	}
	return c.Result()
}
