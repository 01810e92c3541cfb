package schemas

import "context"

// OccupationInfo is the catalog's answer to an occupation lookup: the visa
// subclasses the occupation is listed for and, when known, the assessing
// authority and display details.
type OccupationInfo struct {
	Name                string     `json:"name,omitempty"`
	SkillLevel          int        `json:"skillLevel,omitempty"`
	VisaCodes           []VisaCode `json:"visaCodes"`
	SkillAssessmentBody string     `json:"skillAssessmentBody,omitempty"`
}

// Allows reports whether the occupation is listed for the given subclass.
func (o OccupationInfo) Allows(v VisaCode) bool {
	for _, c := range o.VisaCodes {
		if c == v {
			return true
		}
	}
	return false
}

// -- Catalog Interfaces --

// CatalogSource is the read-only eligibility catalog the assembler consumes.
// Implementations must treat an unknown occupation / (visa, state) pair as
// an empty result, not an error: missing data renders a partial graph,
// only transport or storage failures surface as errors.
type CatalogSource interface {
	// OccupationVisas resolves the visa subclasses available to an occupation.
	OccupationVisas(ctx context.Context, ref OccupationRef) (OccupationInfo, error)
	// States lists the state codes with eligibility listings for the
	// occupation under the given subclass.
	States(ctx context.Context, ref OccupationRef, visa VisaCode) ([]string, error)
	// Pathways lists the eligibility pathways, rules included, for the
	// occupation under the given (visa, state).
	Pathways(ctx context.Context, ref OccupationRef, visa VisaCode, state string) ([]Pathway, error)
}

// InvalidatingSource is implemented by catalog decorators that hold derived
// state (caches) which can be dropped per occupation.
type InvalidatingSource interface {
	CatalogSource
	// Invalidate drops any cached results derived from the given occupation.
	Invalidate(ref OccupationRef)
}
