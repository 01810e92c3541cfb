package schemas

import "regexp"

// anzscoPattern finds a six-digit ANZSCO classification code inside loose
// text; anzscoExact validates a standalone code.
var (
	anzscoPattern = regexp.MustCompile(`\b\d{6}\b`)
	anzscoExact   = regexp.MustCompile(`^\d{6}$`)
)

// OccupationRef identifies an occupation by its stable identifier, its
// six-digit ANZSCO classification code, or both. At least one must be set
// for a catalog lookup to succeed.
type OccupationRef struct {
	ID         string `json:"occupationId,omitempty"`
	AnzscoCode string `json:"anzscoCode,omitempty"`
}

// Key returns a deterministic cache/dedup key for the reference, preferring
// the stable identifier.
func (r OccupationRef) Key() string {
	if r.ID != "" {
		return "occ:" + r.ID
	}
	return "anzsco:" + r.AnzscoCode
}

// IsZero reports whether the reference carries no usable identifier.
func (r OccupationRef) IsZero() bool {
	return r.ID == "" && r.AnzscoCode == ""
}

// ValidAnzsco reports whether the classification code, if present, matches
// the fixed six-digit format.
func (r OccupationRef) ValidAnzsco() bool {
	return r.AnzscoCode == "" || anzscoExact.MatchString(r.AnzscoCode)
}

// ExtractAnzsco pulls a six-digit ANZSCO code out of a loosely formatted
// occupation reference string ("261313", "ICT 261313 (Software Engineer)").
// Returns the empty string when none is found.
func ExtractAnzsco(s string) string {
	return anzscoPattern.FindString(s)
}

// IntPtr returns a pointer to v, for the optional numeric profile fields.
func IntPtr(v int) *int {
	return &v
}

// PartnerCategory captures the partner-skill contribution bucket.
type PartnerCategory string

const (
	PartnerNone             PartnerCategory = ""
	PartnerCompetentEnglish PartnerCategory = "competentEnglish"
	PartnerSkillAndEnglish  PartnerCategory = "skill+english"
	PartnerSingleOrResident PartnerCategory = "singleOrCitizenPR"
)

// NominationCategory captures the nomination/sponsorship bucket.
type NominationCategory string

const (
	NominationNone   NominationCategory = ""
	NominationState  NominationCategory = "state"
	NominationFamily NominationCategory = "family"
)

// Profile is the applicant's full attribute record. It is immutable input to
// every core function: scoring, rule evaluation and graph construction all
// read it, none of them write it.
type Profile struct {
	UserID       string       `json:"userId,omitempty"`
	Age          int          `json:"age"`
	EnglishLevel EnglishLevel `json:"englishLevel"`

	// Work experience in whole years, outside and inside the country. A nil
	// field means the applicant never supplied it, which is distinct from
	// zero years: rules treat an absent value as unknown.
	YearsOverseas  *int `json:"workExperienceOut,omitempty"`
	YearsInCountry *int `json:"workExperienceIn,omitempty"`

	// Education is matched against a fixed qualification lookup table
	// ("PhD", "Masters", "Bachelor Degree", ...).
	Education string `json:"educationQualification"`

	AustralianStudy   bool `json:"australianStudy,omitempty"`
	CommunityLanguage bool `json:"communityLanguage,omitempty"`
	RegionalStudy     bool `json:"regionalStudy,omitempty"`
	ProfessionalYear  bool `json:"professionalYear,omitempty"`

	PartnerSkill PartnerCategory    `json:"partnerSkill,omitempty"`
	Nomination   NominationCategory `json:"nominationType,omitempty"`

	// VisaSubclass is the applicant's currently targeted subclass, used only
	// for the visa-subclass category of the score breakdown.
	VisaSubclass VisaCode `json:"visaSubclass,omitempty"`

	Occupation OccupationRef `json:"occupation"`

	// SkillAssessmentBody, when carried on the profile, takes precedence over
	// any catalog-resolved assessing authority.
	SkillAssessmentBody string `json:"skillAssessmentBody,omitempty"`

	// Conditions are the boolean facts referenced by pathway rules
	// (study_in_state, job_offer, family_sponsorship, ...). A field absent
	// from the map is "unknown" and evaluates to warn, not fail.
	Conditions map[string]bool `json:"conditions,omitempty"`
}
