package catalog

import (
	"fmt"
	"os"

	"github.com/visapath/visapath-cli/api/schemas"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Snapshot is the YAML shape of a catalog file, used for offline
// assessments and seeding test fixtures.
type Snapshot struct {
	Occupations []SnapshotOccupation `yaml:"occupations"`
}

// SnapshotOccupation is one occupation entry in a snapshot.
type SnapshotOccupation struct {
	ID                  string             `yaml:"occupationId"`
	AnzscoCode          string             `yaml:"anzscoCode"`
	Name                string             `yaml:"name"`
	SkillLevel          int                `yaml:"skillLevel"`
	SkillAssessmentBody string             `yaml:"skillAssessmentBody"`
	Visas               []schemas.VisaCode `yaml:"visas"`
	Eligibility         []SnapshotListing  `yaml:"eligibility"`
}

// SnapshotListing groups the pathways listed for one (visa, state).
type SnapshotListing struct {
	Visa     schemas.VisaCode  `yaml:"visa"`
	State    string            `yaml:"state"`
	Pathways []schemas.Pathway `yaml:"pathways"`
}

// LoadFile reads a YAML catalog snapshot into an in-memory source.
func LoadFile(path string, logger *zap.Logger) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse catalog snapshot %s: %w", path, err)
	}
	return FromSnapshot(snap, logger), nil
}

// FromSnapshot builds an in-memory source from a parsed snapshot.
func FromSnapshot(snap Snapshot, logger *zap.Logger) *Memory {
	m := NewMemory(logger)
	for _, occ := range snap.Occupations {
		rec := OccupationRecord{
			ID:         occ.ID,
			AnzscoCode: occ.AnzscoCode,
			Info: schemas.OccupationInfo{
				Name:                occ.Name,
				SkillLevel:          occ.SkillLevel,
				VisaCodes:           occ.Visas,
				SkillAssessmentBody: occ.SkillAssessmentBody,
			},
			States:   make(map[schemas.VisaCode][]string),
			Pathways: make(map[schemas.VisaCode]map[string][]schemas.Pathway),
		}
		for _, listing := range occ.Eligibility {
			rec.States[listing.Visa] = append(rec.States[listing.Visa], listing.State)
			if rec.Pathways[listing.Visa] == nil {
				rec.Pathways[listing.Visa] = make(map[string][]schemas.Pathway)
			}
			rec.Pathways[listing.Visa][listing.State] = listing.Pathways
			// A listing row implies availability even when the occupation's
			// own visa flags lag behind the eligibility data.
			if !rec.Info.Allows(listing.Visa) {
				rec.Info.VisaCodes = append(rec.Info.VisaCodes, listing.Visa)
			}
		}
		m.Put(rec)
	}
	return m
}
