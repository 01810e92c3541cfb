// Package catalog provides the eligibility catalog sources the assembler
// reads from: an in-memory store, a YAML snapshot loader, a PostgreSQL
// store, a TTL cache decorator, and a primary/fallback merge. All sources
// answer unknown occupations and (visa, state) pairs with empty results;
// only transport or storage failures surface as errors.
package catalog

import (
	"context"
	"sync"

	"github.com/visapath/visapath-cli/api/schemas"
	"go.uber.org/zap"
)

// OccupationRecord is one occupation's full catalog entry.
type OccupationRecord struct {
	ID         string
	AnzscoCode string
	Info       schemas.OccupationInfo
	// States lists the state codes with eligibility listings per subclass.
	States map[schemas.VisaCode][]string
	// Pathways maps (visa, state) to the pathways listed there.
	Pathways map[schemas.VisaCode]map[string][]schemas.Pathway
}

// Memory is a fast, ephemeral, in-memory catalog. It backs offline
// assessments from a snapshot file and doubles as the test fixture source.
type Memory struct {
	mu     sync.RWMutex
	byID   map[string]*OccupationRecord
	byCode map[string]*OccupationRecord
	log    *zap.Logger
}

// Compile-time interface check.
var _ schemas.CatalogSource = (*Memory)(nil)

// NewMemory creates an empty in-memory catalog.
func NewMemory(logger *zap.Logger) *Memory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{
		byID:   make(map[string]*OccupationRecord),
		byCode: make(map[string]*OccupationRecord),
		log:    logger.Named("catalog.memory"),
	}
}

// Put inserts or replaces an occupation record, indexing it under both its
// stable identifier and its classification code.
func (m *Memory) Put(rec OccupationRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := rec
	if r.ID != "" {
		m.byID[r.ID] = &r
	}
	if r.AnzscoCode != "" {
		m.byCode[r.AnzscoCode] = &r
	}
	m.log.Debug("Occupation record stored",
		zap.String("id", r.ID), zap.String("anzsco", r.AnzscoCode))
}

// resolve finds a record by ID first, then by classification code.
// Callers must hold at least a read lock.
func (m *Memory) resolve(ref schemas.OccupationRef) *OccupationRecord {
	if ref.ID != "" {
		if r, ok := m.byID[ref.ID]; ok {
			return r
		}
	}
	if ref.AnzscoCode != "" {
		if r, ok := m.byCode[ref.AnzscoCode]; ok {
			return r
		}
	}
	return nil
}

// OccupationVisas implements schemas.CatalogSource.
func (m *Memory) OccupationVisas(ctx context.Context, ref schemas.OccupationRef) (schemas.OccupationInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec := m.resolve(ref)
	if rec == nil {
		return schemas.OccupationInfo{}, nil
	}
	return rec.Info, nil
}

// States implements schemas.CatalogSource.
func (m *Memory) States(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec := m.resolve(ref)
	if rec == nil {
		return nil, nil
	}
	states := rec.States[visa]
	out := make([]string, len(states))
	copy(out, states)
	return out, nil
}

// Pathways implements schemas.CatalogSource.
func (m *Memory) Pathways(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode, state string) ([]schemas.Pathway, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec := m.resolve(ref)
	if rec == nil {
		return nil, nil
	}
	byState := rec.Pathways[visa]
	if byState == nil {
		return nil, nil
	}
	pws := byState[state]
	out := make([]schemas.Pathway, len(pws))
	copy(out, pws)
	return out, nil
}
