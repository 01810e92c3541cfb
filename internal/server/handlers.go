package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/visapath/visapath-cli/api/schemas"
	"github.com/visapath/visapath-cli/internal/assembler"
	"github.com/visapath/visapath-cli/internal/eligibility"
	"github.com/visapath/visapath-cli/internal/scoring"
)

// assessRequest is the decision-graph request body: a full applicant
// profile plus the caller's current selection.
type assessRequest struct {
	Profile   schemas.Profile    `json:"profile"`
	Selection assembler.Selection `json:"selection"`
}

func validateRef(ref schemas.OccupationRef) error {
	if ref.IsZero() {
		return fmt.Errorf("an occupation id or a classification code is required")
	}
	if ref.AnzscoCode != "" && !ref.ValidAnzsco() {
		return fmt.Errorf("classification code must be exactly six digits, got %q", ref.AnzscoCode)
	}
	return nil
}

func validateVisa(visa schemas.VisaCode) error {
	if visa != "" && !visa.Valid() {
		return fmt.Errorf("unknown visa subclass %q", visa)
	}
	return nil
}

func (s *Server) handleDecisionGraph(w http.ResponseWriter, r *http.Request) {
	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	if err := validateRef(req.Profile.Occupation); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateVisa(req.Selection.Visa); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateVisa(req.Profile.VisaSubclass); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.asm.Assess(r.Context(), req.Profile, req.Selection)
	if err != nil {
		s.log.Error("Assessment failed",
			zap.String("occupation", req.Profile.Occupation.Key()), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "assessment failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// breakdownResponse reports the points breakdown together with the visa
// outlook derived from the base score.
type breakdownResponse struct {
	Breakdown scoring.Breakdown                  `json:"breakdown"`
	Score     int                                `json:"score"`
	Outlook   map[schemas.VisaCode]schemas.Status `json:"outlook"`
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	var profile schemas.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	if err := validateVisa(profile.VisaSubclass); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	breakdown, score := scoring.Compute(profile)
	base := breakdown.BaseTotal()
	outlook := make(map[schemas.VisaCode]schemas.Status, len(schemas.AllVisas))
	for _, visa := range schemas.AllVisas {
		outlook[visa] = eligibility.VisaStatus(visa, base)
	}
	s.writeJSON(w, http.StatusOK, breakdownResponse{
		Breakdown: breakdown,
		Score:     score,
		Outlook:   outlook,
	})
}

// refFromQuery builds an occupation reference from query parameters.
func refFromQuery(r *http.Request) schemas.OccupationRef {
	return schemas.OccupationRef{
		ID:         r.URL.Query().Get("occupation_id"),
		AnzscoCode: r.URL.Query().Get("anzsco"),
	}
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	ref := refFromQuery(r)
	visa := schemas.VisaCode(r.URL.Query().Get("visa"))
	if err := validateRef(ref); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !visa.Valid() {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown visa subclass %q", visa))
		return
	}

	states, err := s.catalog.States(r.Context(), ref, visa)
	if err != nil {
		s.log.Error("States lookup failed", zap.String("occupation", ref.Key()), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "states lookup failed")
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=60")
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"states": states})
}

func (s *Server) handlePathways(w http.ResponseWriter, r *http.Request) {
	ref := refFromQuery(r)
	visa := schemas.VisaCode(r.URL.Query().Get("visa"))
	state := r.URL.Query().Get("state")
	if err := validateRef(ref); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !visa.Valid() {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown visa subclass %q", visa))
		return
	}
	if state == "" {
		s.writeError(w, http.StatusBadRequest, "state is required")
		return
	}

	pathways, err := s.catalog.Pathways(r.Context(), ref, visa, state)
	if err != nil {
		s.log.Error("Pathways lookup failed", zap.String("occupation", ref.Key()), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "pathways lookup failed")
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=60")
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"pathways": pathways})
}
