// Package eligibility buckets a profile's score against the fixed visa
// subclass thresholds and filters the subclasses an occupation is listed
// for. The bonus and threshold constants live here and nowhere else; they
// mirror the authoritative policy tables and are not configurable per state
// (state minimum points are a pathway-level rule, not a visa threshold).
package eligibility

import "github.com/visapath/visapath-cli/api/schemas"

// Per-subclass point bonuses applied before threshold comparison.
const (
	bonus190 = 5
	bonus491 = 15
)

// Status bucketing thresholds over the bonus-adjusted total.
const (
	okThreshold   = 65
	warnThreshold = 55
)

// Bonus returns the fixed point bonus a subclass adds to the base score.
func Bonus(v schemas.VisaCode) int {
	switch v {
	case schemas.Visa190:
		return bonus190
	case schemas.Visa491:
		return bonus491
	default:
		return 0
	}
}

// VisaStatus buckets the base score for a subclass: total >= 65 is ok,
// 55 <= total < 65 is warn, below 55 is fail. The bucketing is monotone in
// score for any fixed subclass.
func VisaStatus(v schemas.VisaCode, baseScore int) schemas.Status {
	total := baseScore + Bonus(v)
	switch {
	case total >= okThreshold:
		return schemas.StatusOK
	case total >= warnThreshold:
		return schemas.StatusWarn
	default:
		return schemas.StatusFail
	}
}

// EligibleVisas returns the subclasses the occupation is listed for, in
// canonical order, regardless of score. Score only affects the per-visa
// status, never membership: an under-threshold subclass still renders, as
// fail, so the applicant can see the gap.
func EligibleVisas(info schemas.OccupationInfo) []schemas.VisaCode {
	out := make([]schemas.VisaCode, 0, len(schemas.AllVisas))
	for _, v := range schemas.AllVisas {
		if info.Allows(v) {
			out = append(out, v)
		}
	}
	return out
}
