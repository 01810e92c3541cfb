package schemas

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Operator is the closed set of rule comparison operators.
type Operator string

const (
	OpAtLeast Operator = ">="   // numeric or ordered-enum minimum
	OpEquals  Operator = "=="   // exact match (boolean flags, enums)
	OpInfo    Operator = "info" // display-only, never resolves to ok/fail
)

// ValueKind tags the expected-value union of a rule.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueBool
	ValueNumber
	ValueText
)

// Value is the expected value of a rule: a number, a boolean, or an
// ordered-enum string. It is a closed tagged union so that rule evaluation
// can branch on the kind instead of reflecting over interface{}.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Text   string
}

// BoolValue, NumberValue and TextValue construct tagged values.
func BoolValue(b bool) Value      { return Value{Kind: ValueBool, Bool: b} }
func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Number: n} }
func TextValue(s string) Value    { return Value{Kind: ValueText, Text: s} }

// UnmarshalJSON accepts a JSON bool, number or string, matching the loose
// shape the catalog stores rules in.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case bool:
		*v = BoolValue(t)
	case float64:
		*v = NumberValue(t)
	case string:
		*v = TextValue(t)
	default:
		return fmt.Errorf("unsupported rule value type %T", raw)
	}
	return nil
}

// MarshalJSON emits the underlying scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueNumber:
		// Avoid the float exponent form for whole numbers.
		if v.Number == float64(int64(v.Number)) {
			return []byte(strconv.FormatInt(int64(v.Number), 10)), nil
		}
		return json.Marshal(v.Number)
	case ValueText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalYAML accepts the same scalar shapes from YAML catalog snapshots.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var b bool
	if err := unmarshal(&b); err == nil {
		*v = BoolValue(b)
		return nil
	}
	var n float64
	if err := unmarshal(&n); err == nil {
		*v = NumberValue(n)
		return nil
	}
	var s string
	if err := unmarshal(&s); err == nil {
		*v = TextValue(s)
		return nil
	}
	return fmt.Errorf("unsupported rule value shape")
}

// Rule is a single declarative eligibility check over one profile field.
// Rules are evaluated independently; there is no boolean composition.
type Rule struct {
	Field string   `json:"field" yaml:"field"`
	Op    Operator `json:"op" yaml:"op"`
	Value Value    `json:"value" yaml:"value"`
}

// FieldKind classifies a rule field name into the closed set of evaluation
// shapes. Unknown fields evaluate to warn (needs review), never silently
// ok or fail.
type FieldKind int

const (
	FieldUnknown FieldKind = iota
	FieldEnglish
	FieldBoolean
	FieldNumeric
	FieldInfo
)

// fieldKinds is the fixed rule-field vocabulary. Adding a rule kind means
// adding an entry here and a case to the evaluator, both compile-checked.
var fieldKinds = map[string]FieldKind{
	"english": FieldEnglish,

	"study_in_state":     FieldBoolean,
	"job_offer":          FieldBoolean,
	"family_sponsorship": FieldBoolean,
	"sector_critical":    FieldBoolean,
	"financial_capacity": FieldBoolean,

	"experience_state_years":    FieldNumeric,
	"experience_overseas_years": FieldNumeric,
	"state_min_points":          FieldNumeric,

	"residency_requirement":    FieldInfo,
	"offshore_condition":       FieldInfo,
	"financial_capacity_value": FieldInfo,
	"family_sponsorship_state": FieldInfo,
	"other_requirement":        FieldInfo,
	"study_in_state_level":     FieldInfo,
}

// KindOfField resolves a rule field name to its evaluation shape.
func KindOfField(field string) FieldKind {
	if k, ok := fieldKinds[field]; ok {
		return k
	}
	return FieldUnknown
}

// PathwayMeta is free-form descriptive metadata attached to a pathway.
type PathwayMeta struct {
	Stream   string `json:"stream,omitempty" yaml:"stream,omitempty"`
	Offshore bool   `json:"offshore,omitempty" yaml:"offshore,omitempty"`
}

// Pathway is a named eligibility route within one (visa, state) pair,
// bundling the ordered rules that gate it.
type Pathway struct {
	ID    string      `json:"pathwayId" yaml:"pathwayId"`
	Title string      `json:"title" yaml:"title"`
	Rules []Rule      `json:"rules" yaml:"rules"`
	Meta  PathwayMeta `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// DisplayTitle returns the title, falling back to the ID when untitled.
func (p Pathway) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.ID
}
