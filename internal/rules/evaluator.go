// Package rules evaluates single eligibility rules against a profile's
// facts. Evaluation is total: every (facts, rule) pair resolves to exactly
// one of ok, warn or fail, and missing information always resolves to warn,
// the "cannot determine" sentinel, never to a silent pass or fail.
package rules

import "github.com/visapath/visapath-cli/api/schemas"

// Facts is the flat view of a profile that rules are checked against.
// Absence from a map means the fact is unknown, which is distinct from a
// false flag or a zero number.
type Facts struct {
	English schemas.EnglishLevel
	Flags   map[string]bool
	Numbers map[string]float64
}

// Fact names shared between FactsFromProfile and the catalog rule
// vocabulary.
const (
	factExperienceState    = "experience_state_years"
	factExperienceOverseas = "experience_overseas_years"
	factStateMinPoints     = "state_min_points"
)

// FactsFromProfile projects a profile and its base score into rule facts.
// baseScore is the breakdown total excluding the visa-subclass bonus;
// state-minimum-points rules compare against it directly. Experience fields
// the profile never supplied stay absent from Numbers, so rules over them
// resolve to warn instead of comparing against a phantom zero.
func FactsFromProfile(p schemas.Profile, baseScore int) Facts {
	flags := make(map[string]bool, len(p.Conditions))
	for k, v := range p.Conditions {
		flags[k] = v
	}
	numbers := map[string]float64{
		factStateMinPoints: float64(baseScore),
	}
	if p.YearsInCountry != nil {
		numbers[factExperienceState] = float64(*p.YearsInCountry)
	}
	if p.YearsOverseas != nil {
		numbers[factExperienceOverseas] = float64(*p.YearsOverseas)
	}
	return Facts{
		English: p.EnglishLevel,
		Flags:   flags,
		Numbers: numbers,
	}
}

// Evaluate resolves a single rule against the facts.
func Evaluate(f Facts, r schemas.Rule) schemas.Status {
	// Informational rules exist purely for display and never verdict.
	if r.Op == schemas.OpInfo {
		return schemas.StatusWarn
	}

	switch schemas.KindOfField(r.Field) {
	case schemas.FieldEnglish:
		return evaluateEnglish(f, r)
	case schemas.FieldBoolean:
		return evaluateFlag(f, r)
	case schemas.FieldNumeric:
		return evaluateMinimum(f, r)
	case schemas.FieldInfo:
		return schemas.StatusWarn
	default:
		// Unknown field: fail open to "needs review".
		return schemas.StatusWarn
	}
}

// Summarize aggregates a rule set with fail > warn > ok precedence: one
// failing rule dominates any number of passing ones.
func Summarize(f Facts, ruleSet []schemas.Rule) (status schemas.Status, failCount, warnCount int) {
	for _, r := range ruleSet {
		switch Evaluate(f, r) {
		case schemas.StatusFail:
			failCount++
		case schemas.StatusWarn:
			warnCount++
		}
	}
	switch {
	case failCount > 0:
		return schemas.StatusFail, failCount, warnCount
	case warnCount > 0:
		return schemas.StatusWarn, failCount, warnCount
	default:
		return schemas.StatusOK, failCount, warnCount
	}
}

func evaluateEnglish(f Facts, r schemas.Rule) schemas.Status {
	if r.Value.Kind != schemas.ValueText {
		return schemas.StatusWarn
	}
	met, known := f.English.AtLeast(schemas.EnglishLevel(r.Value.Text))
	if !known {
		return schemas.StatusWarn
	}
	if met {
		return schemas.StatusOK
	}
	return schemas.StatusFail
}

func evaluateFlag(f Facts, r schemas.Rule) schemas.Status {
	if r.Value.Kind != schemas.ValueBool {
		return schemas.StatusWarn
	}
	actual, present := f.Flags[r.Field]
	if !present {
		return schemas.StatusWarn
	}
	if actual == r.Value.Bool {
		return schemas.StatusOK
	}
	return schemas.StatusFail
}

func evaluateMinimum(f Facts, r schemas.Rule) schemas.Status {
	if r.Value.Kind != schemas.ValueNumber {
		return schemas.StatusWarn
	}
	actual, present := f.Numbers[r.Field]
	if !present {
		return schemas.StatusWarn
	}
	if actual >= r.Value.Number {
		return schemas.StatusOK
	}
	return schemas.StatusFail
}
