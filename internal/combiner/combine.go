package combiner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"comex/internal/domain"
	"comex/internal/port"
)

// Result is the merged record sections plus the data problems met while merging.
// Issues are reported as validation errors and never abort the merge.
type Result struct {
	Sections port.RecordSections
	Issues   []domain.ValidationError
}

type merger struct {
	opaque  bool
	numeric keySet
	integer keySet
	header  map[string]any
	items   []any
	tax     []any
	issues  []domain.ValidationError
}

// Combine folds step outputs into record sections, routing each step by its declared target.
// Steps that never ran leave their section empty.
func Combine(steps []domain.ProcessingStep, outputs []port.StepOutput, schema Schema) Result {
	m := &merger{
		opaque:  schema.OpaqueHeader,
		numeric: newKeySet(schema.Numeric),
		integer: newKeySet(schema.Integer),
	}

	byOrdinal := make(map[int]domain.ProcessingStep, len(steps))
	for _, s := range steps {
		byOrdinal[s.Ordinal] = s
	}

	ordered := append([]port.StepOutput(nil), outputs...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Ordinal < ordered[j].Ordinal })

	for _, out := range ordered {
		step, ok := byOrdinal[out.Ordinal]
		if !ok {
			m.issue("steps", domain.CodeInvalidDataStructure, "output for undeclared step %d ignored", out.Ordinal)
			continue
		}
		if step.Target == domain.SectionIntermediate {
			continue
		}
		value, ok := m.decode(step, out.Payload)
		if !ok {
			continue
		}
		m.route(step, value)
	}

	if schema.ReferenceKey != "" {
		BackfillReferences(m.items, schema.ReferenceKey)
	}

	return Result{Sections: m.sections(), Issues: m.issues}
}

func (m *merger) decode(step domain.ProcessingStep, payload json.RawMessage) (any, bool) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		m.issue(string(step.Target), domain.CodeInvalidDataStructure, "step %d (%s) output is not valid JSON: %v", step.Ordinal, step.Name, err)
		return nil, false
	}
	return v, true
}

func (m *merger) route(step domain.ProcessingStep, value any) {
	switch step.Target {
	case domain.SectionHeader:
		if step.TargetField != "" {
			if m.header == nil {
				m.header = map[string]any{}
			}
			field := step.TargetField
			seq := m.normalizeSeq(field, asSequence(value))
			if existing, ok := m.header[field].([]any); ok {
				seq = append(existing, seq...)
			}
			m.header[field] = seq
			return
		}
		obj, ok := asObject(value)
		if !ok && m.opaque {
			obj, ok = map[string]any{"content": value}, true
		}
		if !ok {
			m.issue("header", domain.CodeInvalidDataStructure, "step %d (%s) must produce a single object", step.Ordinal, step.Name)
			return
		}
		obj = m.normalize("", obj).(map[string]any)
		if m.header == nil {
			m.header = obj
			return
		}
		for k, v := range obj {
			m.header[k] = v
		}
	case domain.SectionItems:
		m.items = append(m.items, m.normalizeSeq("items", asSequence(value))...)
	case domain.SectionTaxBreakdown:
		m.tax = append(m.tax, m.normalizeSeq("tax_breakdown", asSequence(value))...)
	default:
		m.issue("steps", domain.CodeInvalidDataStructure, "step %d (%s) has unknown target %q", step.Ordinal, step.Name, step.Target)
	}
}

// asSequence wraps a lone object in a one-element sequence.
func asSequence(v any) []any {
	if seq, ok := v.([]any); ok {
		return seq
	}
	return []any{v}
}

// asObject accepts an object or a one-element sequence holding one.
func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		if len(t) == 1 {
			obj, ok := t[0].(map[string]any)
			return obj, ok
		}
	}
	return nil, false
}

func (m *merger) normalizeSeq(path string, seq []any) []any {
	out := make([]any, len(seq))
	for i, v := range seq {
		out[i] = m.normalize(fmt.Sprintf("%s[%d]", path, i), v)
	}
	return out
}

func (m *merger) normalize(path string, v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			childPath := join(path, k)
			switch {
			case m.integer.has(k):
				t[k] = m.number(childPath, child, true)
			case m.numeric.has(k):
				t[k] = m.number(childPath, child, false)
			default:
				t[k] = m.normalize(childPath, child)
			}
		}
		return t
	case []any:
		for i := range t {
			t[i] = m.normalize(fmt.Sprintf("%s[%d]", path, i), t[i])
		}
		return t
	default:
		return v
	}
}

func (m *merger) number(path string, v any, integer bool) any {
	var (
		raw string
		d   decimal.Decimal
	)
	switch t := v.(type) {
	case nil:
		return nil
	case json.Number:
		raw = t.String()
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			m.issue(path, domain.CodeInvalidNumber, "%s: %q is not a number", path, raw)
			return nil
		}
		d = parsed.Round(Scale)
	case string:
		raw = t
		if isBlank(raw) {
			return nil
		}
		parsed, ok := ParseNumber(raw)
		if !ok {
			m.issue(path, domain.CodeInvalidNumber, "%s: %q is not a number", path, raw)
			return nil
		}
		d = parsed
	case bool:
		m.issue(path, domain.CodeInvalidNumber, "%s: boolean is not a number", path)
		return nil
	default:
		return m.normalize(path, v)
	}
	if integer && !d.IsInteger() {
		m.issue(path, domain.CodeInvalidNumber, "%s: %q is not a whole number", path, raw)
		return nil
	}
	return json.Number(d.String())
}

func (m *merger) sections() port.RecordSections {
	var s port.RecordSections
	if m.header != nil {
		s.Header = m.marshal("header", m.header)
	}
	if len(m.items) > 0 {
		s.Items = m.marshal("items", m.items)
	}
	if len(m.tax) > 0 {
		s.TaxBreakdown = m.marshal("tax_breakdown", m.tax)
	}
	return s
}

func (m *merger) marshal(section string, v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		m.issue(section, domain.CodeInvalidDataStructure, "%s could not be encoded: %v", section, err)
		return nil
	}
	return b
}

func (m *merger) issue(field string, code domain.ErrorCode, format string, args ...any) {
	m.issues = append(m.issues, domain.ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func isBlank(s string) bool {
	return len(bytes.TrimSpace([]byte(s))) == 0
}
