package schemas

// Status is the three-way outcome of evaluating a rule or aggregating a set
// of rules, plus the display-only "info" used for structural graph nodes.
// "warn" is the deliberate "insufficient information" sentinel: it must never
// collapse into either "ok" or "fail".
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusInfo Status = "info"
)

// Rank orders the verdict statuses for monotonicity checks: fail < warn < ok.
// Info is not a verdict and ranks below all of them.
func (s Status) Rank() int {
	switch s {
	case StatusFail:
		return 1
	case StatusWarn:
		return 2
	case StatusOK:
		return 3
	default:
		return 0
	}
}

// VisaCode identifies a skilled-migration visa subclass.
type VisaCode string

const (
	Visa189 VisaCode = "189" // Skilled Independent
	Visa190 VisaCode = "190" // State Nominated
	Visa491 VisaCode = "491" // Skilled Work Regional
)

// AllVisas lists the supported subclasses in their canonical display order.
var AllVisas = []VisaCode{Visa189, Visa190, Visa491}

// Valid reports whether the code is one of the supported subclasses.
func (v VisaCode) Valid() bool {
	return v == Visa189 || v == Visa190 || v == Visa491
}

// EnglishLevel is the ordered English-proficiency enum:
// Competent < Proficient < Superior.
type EnglishLevel string

const (
	EnglishCompetent  EnglishLevel = "Competent"
	EnglishProficient EnglishLevel = "Proficient"
	EnglishSuperior   EnglishLevel = "Superior"
)

// Rank returns the ordinal position of the level and whether it is a
// recognized value. Comparisons against unrecognized levels must resolve to
// a warn outcome, never a pass or fail.
func (l EnglishLevel) Rank() (int, bool) {
	switch l {
	case EnglishCompetent:
		return 0, true
	case EnglishProficient:
		return 1, true
	case EnglishSuperior:
		return 2, true
	default:
		return 0, false
	}
}

// AtLeast reports whether l meets or exceeds the required level. The second
// return is false when either side is missing or unrecognized.
func (l EnglishLevel) AtLeast(required EnglishLevel) (bool, bool) {
	lr, ok := l.Rank()
	if !ok {
		return false, false
	}
	rr, ok := required.Rank()
	if !ok {
		return false, false
	}
	return lr >= rr, true
}
