package decisiongraph

import (
	"fmt"

	"github.com/visapath/visapath-cli/api/schemas"
	"github.com/visapath/visapath-cli/internal/eligibility"
	"github.com/visapath/visapath-cli/internal/rules"
	"github.com/visapath/visapath-cli/internal/scoring"
)

// visaTitles and visaTooltips carry the fixed display text per subclass.
var visaTitles = map[schemas.VisaCode]string{
	schemas.Visa189: "189 — Skilled Independent",
	schemas.Visa190: "190 — State Nominated",
	schemas.Visa491: "491 — Skilled Work Regional",
}

var visaTooltips = map[schemas.VisaCode]string{
	schemas.Visa189: "Points + skill assessment + English. No state nomination.",
	schemas.Visa190: "State nomination. Requirements vary by state and pathway.",
	schemas.Visa491: "State or family nomination. Regional requirements apply.",
}

// BuildBase constructs the fixed upper levels of the graph: Start,
// occupation summary, visa list, and one node per subclass the occupation
// is listed for. Visa statuses bucket the base score (breakdown total minus
// the stored visa-subclass bonus) plus each candidate subclass's own bonus.
func BuildBase(profile schemas.Profile, breakdown scoring.Breakdown, occ schemas.OccupationInfo, authority string) (*Graph, error) {
	g := New()
	baseScore := breakdown.BaseTotal()

	g.AddNode(schemas.Node{
		Key:      schemas.NodeKeyStart,
		Text:     fmt.Sprintf("Total: %d pts", baseScore),
		Status:   schemas.StatusInfo,
		Expanded: true,
		Tooltip: fmt.Sprintf("User: %s | Age: %d | English: %s",
			profile.UserID, profile.Age, profile.EnglishLevel),
	})

	occText := "Occupation"
	if occ.Name != "" {
		occText = fmt.Sprintf("Occupation: %s", occ.Name)
	}
	if code := profile.Occupation.AnzscoCode; code != "" {
		occText = fmt.Sprintf("%s (%s)", occText, code)
	}
	g.AddNode(schemas.Node{
		Key:    schemas.NodeKeyOccupation,
		Text:   occText,
		Status: schemas.StatusInfo,
		Parent: schemas.NodeKeyStart,
		Tooltip: fmt.Sprintf("Skill level: %d | Authority: %s",
			occ.SkillLevel, authority),
	})
	g.AddNode(schemas.Node{
		Key:    schemas.NodeKeyVisaList,
		Text:   "Visas available for this occupation",
		Status: schemas.StatusInfo,
		Parent: schemas.NodeKeyStart,
	})
	if err := g.AddEdge(schemas.Edge{From: schemas.NodeKeyStart, To: schemas.NodeKeyOccupation}); err != nil {
		return nil, err
	}
	if err := g.AddEdge(schemas.Edge{From: schemas.NodeKeyStart, To: schemas.NodeKeyVisaList}); err != nil {
		return nil, err
	}

	for _, v := range eligibility.EligibleVisas(occ) {
		key := schemas.VisaNodeKey(v)
		g.AddNode(schemas.Node{
			Key:     key,
			Text:    visaTitles[v],
			Status:  eligibility.VisaStatus(v, baseScore),
			Parent:  schemas.NodeKeyVisaList,
			Tooltip: visaTooltips[v],
		})
		if err := g.AddEdge(schemas.Edge{From: schemas.NodeKeyVisaList, To: key}); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Options narrows an Extend call to the caller's current selection and the
// catalog data fetched for it. States and Pathways are externally supplied;
// the builder never performs lookups itself.
type Options struct {
	SelectedVisa      schemas.VisaCode
	SelectedState     string
	SelectedPathwayID string
	States            []string
	Pathways          []schemas.Pathway
}

// Extend appends the state, pathway and rule-summary levels under the
// selected visa. The base graph is never mutated; insertion is idempotent
// by key, so re-running with a superset of a previous selection cannot
// duplicate the already-built prefix.
//
// With no visa selected, or a selected visa whose node is absent from the
// base graph, the base is returned unchanged. Subclass 189 has no
// state-based eligibility and skips these levels entirely.
func Extend(base *Graph, facts rules.Facts, opts Options) (*Graph, error) {
	if opts.SelectedVisa == "" || opts.SelectedVisa == schemas.Visa189 {
		return base, nil
	}
	visaKey := schemas.VisaNodeKey(opts.SelectedVisa)
	if !base.Has(visaKey) {
		return base, nil
	}

	g := base.Clone()

	containerKey := schemas.StatesContainerKey(opts.SelectedVisa)
	g.AddNode(schemas.Node{
		Key:      containerKey,
		Text:     "States",
		Status:   schemas.StatusInfo,
		Parent:   visaKey,
		Expanded: true,
	})
	if err := g.AddEdge(schemas.Edge{From: visaKey, To: containerKey}); err != nil {
		return nil, err
	}

	for _, state := range opts.States {
		stateKey := schemas.StateNodeKey(opts.SelectedVisa, state)
		g.AddNode(schemas.Node{
			Key:    stateKey,
			Text:   state,
			Status: schemas.StatusInfo,
			Parent: containerKey,
		})
		if err := g.AddEdge(schemas.Edge{From: containerKey, To: stateKey}); err != nil {
			return nil, err
		}
	}

	if opts.SelectedState == "" {
		return g, nil
	}
	stateKey := schemas.StateNodeKey(opts.SelectedVisa, opts.SelectedState)
	if !g.Has(stateKey) {
		// The selection points at a state the catalog did not list; render
		// what we have rather than invent a node.
		return g, nil
	}

	for _, pw := range opts.Pathways {
		pwKey := schemas.PathwayNodeKey(opts.SelectedVisa, opts.SelectedState, pw.ID)
		g.AddNode(schemas.Node{
			Key:      pwKey,
			Text:     pw.DisplayTitle(),
			Status:   schemas.StatusInfo,
			Parent:   stateKey,
			Expanded: pw.ID == opts.SelectedPathwayID,
		})
		if err := g.AddEdge(schemas.Edge{From: stateKey, To: pwKey}); err != nil {
			return nil, err
		}

		status, fails, warns := rules.Summarize(facts, pw.Rules)
		summaryKey := schemas.SummaryNodeKey(pwKey)
		g.AddNode(schemas.Node{
			Key:    summaryKey,
			Text:   fmt.Sprintf("Gaps: %d fail / %d warn", fails, warns),
			Status: status,
			Parent: pwKey,
		})
		if err := g.AddEdge(schemas.Edge{From: pwKey, To: summaryKey}); err != nil {
			return nil, err
		}
	}
	return g, nil
}
