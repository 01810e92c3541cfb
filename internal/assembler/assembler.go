// Package assembler coordinates the catalog lookups the graph builder
// needs and drives graph construction as the caller's selection narrows
// (visa, then state, then pathway). It owns no state between requests:
// every Assess call works on immutable inputs and produces a fresh graph.
package assembler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/visapath/visapath-cli/api/schemas"
	"github.com/visapath/visapath-cli/internal/catalog"
	"github.com/visapath/visapath-cli/internal/decisiongraph"
	"github.com/visapath/visapath-cli/internal/rules"
	"github.com/visapath/visapath-cli/internal/scoring"
)

// Selection is the caller's current narrowing of the decision graph.
// An empty field means "not selected yet".
type Selection struct {
	Visa      schemas.VisaCode `json:"selectedVisa,omitempty"`
	State     string           `json:"selectedState,omitempty"`
	PathwayID string           `json:"selectedPathwayId,omitempty"`
}

// Result is one complete assessment: the score breakdown, the catalog data
// the selection surfaced, and the rendered graph payload.
type Result struct {
	AssessmentID string               `json:"assessmentId"`
	Breakdown    scoring.Breakdown    `json:"breakdown"`
	Score        int                  `json:"score"`
	Visas        []schemas.VisaCode   `json:"visas"`
	States       []string             `json:"states,omitempty"`
	Pathways     []schemas.Pathway    `json:"pathways,omitempty"`
	Graph        schemas.GraphPayload `json:"graph"`
}

// Assembler fetches catalog data and assembles decision graphs. Concurrent
// equivalent lookups are collapsed through a singleflight group so a burst
// of requests for the same (occupation, visa, state) hits the catalog once.
type Assembler struct {
	catalog schemas.CatalogSource
	log     *zap.Logger
	flight  singleflight.Group
}

// New creates an Assembler. The catalog source is required.
func New(cat schemas.CatalogSource, logger *zap.Logger) (*Assembler, error) {
	if cat == nil {
		return nil, fmt.Errorf("cannot initialize assembler with nil catalog")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{catalog: cat, log: logger.Named("assembler")}, nil
}

// Assess runs one full assessment for a profile and selection. Catalog
// failures propagate as recoverable errors; missing catalog data renders a
// partial graph instead of failing.
func (a *Assembler) Assess(ctx context.Context, profile schemas.Profile, sel Selection) (*Result, error) {
	ref := profile.Occupation
	if ref.IsZero() {
		return nil, fmt.Errorf("profile carries no occupation reference")
	}

	breakdown, score := scoring.Compute(profile)

	info, err := a.occupationVisas(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("occupation lookup failed: %w", err)
	}

	authority := resolveAuthority(profile, info)

	base, err := decisiongraph.BuildBase(profile, breakdown, info, authority)
	if err != nil {
		return nil, fmt.Errorf("base graph construction failed: %w", err)
	}

	result := &Result{
		AssessmentID: uuid.NewString(),
		Breakdown:    breakdown,
		Score:        score,
		Visas:        info.VisaCodes,
	}

	states, pathways, err := a.fetchSelectionData(ctx, ref, sel)
	if err != nil {
		return nil, err
	}
	result.States = states

	// Stale-selection discard: the pathways lookup was issued for the
	// request's state key. If the states that actually came back no longer
	// list that state, the pathway data belongs to a dead selection and is
	// dropped, by key comparison rather than arrival order.
	effectiveState := sel.State
	if effectiveState != "" && !containsState(states, effectiveState) {
		a.log.Debug("Discarding stale pathway lookup",
			zap.String("occupation", ref.Key()),
			zap.String("state", effectiveState))
		effectiveState = ""
		pathways = nil
	}
	result.Pathways = pathways

	facts := rules.FactsFromProfile(profile, breakdown.BaseTotal())
	graph, err := decisiongraph.Extend(base, facts, decisiongraph.Options{
		SelectedVisa:      sel.Visa,
		SelectedState:     effectiveState,
		SelectedPathwayID: sel.PathwayID,
		States:            states,
		Pathways:          pathways,
	})
	if err != nil {
		return nil, fmt.Errorf("graph extension failed: %w", err)
	}

	result.Graph = graph.Payload()
	a.log.Debug("Assessment complete",
		zap.String("assessment_id", result.AssessmentID),
		zap.String("occupation", ref.Key()),
		zap.Int("score", score),
		zap.Int("nodes", graph.NodeCount()))
	return result, nil
}

// fetchSelectionData issues the states and pathways lookups for the current
// selection in parallel. Each level's lookup is independent; the pathways
// lookup is only issued once its prerequisite state selection is fixed.
func (a *Assembler) fetchSelectionData(ctx context.Context, ref schemas.OccupationRef, sel Selection) (states []string, pathways []schemas.Pathway, err error) {
	// Subclass 189 has no state-based eligibility, and without a selected
	// visa there is nothing below the visa level to fetch.
	if sel.Visa == "" || sel.Visa == schemas.Visa189 {
		return nil, nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var serr error
		states, serr = a.states(gctx, ref, sel.Visa)
		if serr != nil {
			return fmt.Errorf("states lookup failed: %w", serr)
		}
		return nil
	})
	if sel.State != "" {
		g.Go(func() error {
			var perr error
			pathways, perr = a.pathways(gctx, ref, sel.Visa, sel.State)
			if perr != nil {
				return fmt.Errorf("pathways lookup failed: %w", perr)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return states, pathways, nil
}

func (a *Assembler) occupationVisas(ctx context.Context, ref schemas.OccupationRef) (schemas.OccupationInfo, error) {
	v, err, _ := a.flight.Do(ref.Key()+"|visas", func() (interface{}, error) {
		return a.catalog.OccupationVisas(ctx, ref)
	})
	if err != nil {
		return schemas.OccupationInfo{}, err
	}
	return v.(schemas.OccupationInfo), nil
}

func (a *Assembler) states(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode) ([]string, error) {
	v, err, _ := a.flight.Do(ref.Key()+"|states|"+string(visa), func() (interface{}, error) {
		return a.catalog.States(ctx, ref, visa)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (a *Assembler) pathways(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode, state string) ([]schemas.Pathway, error) {
	v, err, _ := a.flight.Do(ref.Key()+"|pathways|"+string(visa)+"|"+state, func() (interface{}, error) {
		return a.catalog.Pathways(ctx, ref, visa, state)
	})
	if err != nil {
		return nil, err
	}
	return v.([]schemas.Pathway), nil
}

// resolveAuthority picks the skill-assessment authority: the explicit
// profile-carried value, then the freshly fetched catalog value, then the
// static lookup by classification code. First non-empty wins.
func resolveAuthority(profile schemas.Profile, info schemas.OccupationInfo) string {
	if profile.SkillAssessmentBody != "" {
		return profile.SkillAssessmentBody
	}
	if info.SkillAssessmentBody != "" {
		return info.SkillAssessmentBody
	}
	return catalog.AuthorityForCode(profile.Occupation.AnzscoCode)
}

func containsState(states []string, state string) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
