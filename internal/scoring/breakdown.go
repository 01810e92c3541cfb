// Package scoring computes the itemized point breakdown for a profile.
// Every category is an independent step function over one or more profile
// fields with fixed breakpoints; anything outside a defined breakpoint
// contributes zero, never a negative value and never a panic.
package scoring

import (
	"strings"

	"github.com/visapath/visapath-cli/api/schemas"
)

// Category names the point-contribution buckets of a breakdown. The set is
// fixed; totals are always recomputed from the category values.
type Category string

const (
	CategoryVisa              Category = "visa"
	CategoryAge               Category = "age"
	CategoryEnglish           Category = "english"
	CategoryWorkOutside       Category = "workOutside"
	CategoryWorkInside        Category = "workInside"
	CategoryEducation         Category = "education"
	CategoryAustralianStudy   Category = "australianStudy"
	CategoryCommunityLanguage Category = "communityLanguage"
	CategoryRegionalStudy     Category = "regionalStudy"
	CategoryProfessionalYear  Category = "professionalYear"
	CategoryPartner           Category = "partner"
	CategoryNomination        Category = "nomination"
)

// Categories lists every bucket in canonical display order.
var Categories = []Category{
	CategoryVisa, CategoryAge, CategoryEnglish,
	CategoryWorkOutside, CategoryWorkInside, CategoryEducation,
	CategoryAustralianStudy, CategoryCommunityLanguage,
	CategoryRegionalStudy, CategoryProfessionalYear,
	CategoryPartner, CategoryNomination,
}

// Breakdown maps each category to its non-negative point contribution.
type Breakdown map[Category]int

// Total is the sum of every category value. It is derived, never stored,
// so it cannot drift from the breakdown it came from.
func (b Breakdown) Total() int {
	sum := 0
	for _, v := range b {
		sum += v
	}
	return sum
}

// BaseTotal is the total excluding the visa-subclass bonus category. Visa
// eligibility bucketing adds each candidate subclass's own bonus on top of
// this base, so a stored subclass never double-counts.
func (b Breakdown) BaseTotal() int {
	return b.Total() - b[CategoryVisa]
}

const booleanBonus = 5

// Compute derives the full breakdown and its total from a profile.
func Compute(p schemas.Profile) (Breakdown, int) {
	b := Breakdown{
		CategoryVisa:        visaPoints(p.VisaSubclass),
		CategoryAge:         agePoints(p.Age),
		CategoryEnglish:     englishPoints(p.EnglishLevel),
		CategoryWorkOutside: overseasExperiencePoints(yearsOrZero(p.YearsOverseas)),
		CategoryWorkInside:  localExperiencePoints(yearsOrZero(p.YearsInCountry)),
		CategoryEducation:   educationPoints(p.Education),
		CategoryPartner:     partnerPoints(p.PartnerSkill),
		CategoryNomination:  nominationPoints(p.Nomination),
	}
	if p.AustralianStudy {
		b[CategoryAustralianStudy] = booleanBonus
	}
	if p.CommunityLanguage {
		b[CategoryCommunityLanguage] = booleanBonus
	}
	if p.RegionalStudy {
		b[CategoryRegionalStudy] = booleanBonus
	}
	if p.ProfessionalYear {
		b[CategoryProfessionalYear] = booleanBonus
	}
	return b, b.Total()
}

func visaPoints(v schemas.VisaCode) int {
	switch v {
	case schemas.Visa491:
		return 15
	case schemas.Visa190:
		return 5
	default:
		return 0
	}
}

func agePoints(age int) int {
	switch {
	case age >= 18 && age <= 24:
		return 25
	case age >= 25 && age <= 32:
		return 30
	case age >= 33 && age <= 39:
		return 25
	case age >= 40 && age <= 44:
		return 15
	default:
		return 0
	}
}

func englishPoints(level schemas.EnglishLevel) int {
	switch level {
	case schemas.EnglishSuperior:
		return 20
	case schemas.EnglishProficient:
		return 10
	default:
		return 0
	}
}

// yearsOrZero treats an unsupplied experience field as zero years: for
// scoring it earns nothing either way.
func yearsOrZero(years *int) int {
	if years == nil {
		return 0
	}
	return *years
}

func overseasExperiencePoints(years int) int {
	switch {
	case years >= 8:
		return 15
	case years >= 5:
		return 10
	case years >= 3:
		return 5
	default:
		return 0
	}
}

func localExperiencePoints(years int) int {
	switch {
	case years >= 8:
		return 20
	case years >= 5:
		return 15
	case years >= 3:
		return 10
	case years >= 1:
		return 5
	default:
		return 0
	}
}

// educationPoints matches the qualification text against the fixed lookup
// table. Matching is substring-based and case-insensitive because the
// catalog stores free-form qualification labels.
func educationPoints(qualification string) int {
	q := strings.ToLower(qualification)
	switch {
	case strings.Contains(q, "phd"), strings.Contains(q, "doctor"):
		return 20
	case strings.Contains(q, "master"):
		return 15
	case strings.Contains(q, "bachelor"), strings.Contains(q, "degree"):
		return 15
	default:
		return 0
	}
}

func partnerPoints(c schemas.PartnerCategory) int {
	switch c {
	case schemas.PartnerSkillAndEnglish, schemas.PartnerSingleOrResident:
		return 10
	case schemas.PartnerCompetentEnglish:
		return 5
	default:
		return 0
	}
}

func nominationPoints(c schemas.NominationCategory) int {
	switch c {
	case schemas.NominationState, schemas.NominationFamily:
		return 15
	default:
		return 0
	}
}
