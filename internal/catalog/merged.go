package catalog

import (
	"context"

	"github.com/visapath/visapath-cli/api/schemas"
	"go.uber.org/zap"
)

// Merged prefers the primary ("cascader") source's non-empty answer and
// falls back to the secondary only when the primary yields nothing. A
// primary transport failure also falls through to the secondary; the error
// surfaces only when both sources fail.
type Merged struct {
	primary   schemas.CatalogSource
	secondary schemas.CatalogSource
	log       *zap.Logger
}

// Compile-time interface check.
var _ schemas.CatalogSource = (*Merged)(nil)

// NewMerged combines a primary and a secondary catalog source.
func NewMerged(primary, secondary schemas.CatalogSource, logger *zap.Logger) *Merged {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merged{
		primary:   primary,
		secondary: secondary,
		log:       logger.Named("catalog.merged"),
	}
}

// OccupationVisas implements schemas.CatalogSource.
func (m *Merged) OccupationVisas(ctx context.Context, ref schemas.OccupationRef) (schemas.OccupationInfo, error) {
	info, err := m.primary.OccupationVisas(ctx, ref)
	if err == nil && len(info.VisaCodes) > 0 {
		return info, nil
	}
	if err != nil {
		m.log.Warn("Primary catalog lookup failed, using fallback",
			zap.String("occupation", ref.Key()), zap.Error(err))
	}
	fallback, ferr := m.secondary.OccupationVisas(ctx, ref)
	if ferr != nil {
		if err != nil {
			return schemas.OccupationInfo{}, err
		}
		// The primary gave a valid, merely empty answer; a broken fallback
		// must not turn that into a failure.
		m.log.Warn("Fallback catalog lookup failed, keeping primary answer",
			zap.String("occupation", ref.Key()), zap.Error(ferr))
		return info, nil
	}
	// Keep primary display fields when it answered but listed no visas.
	if err == nil && len(fallback.VisaCodes) == 0 {
		return info, nil
	}
	return fallback, nil
}

// States implements schemas.CatalogSource.
func (m *Merged) States(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode) ([]string, error) {
	states, err := m.primary.States(ctx, ref, visa)
	if err == nil && len(states) > 0 {
		return states, nil
	}
	if err != nil {
		m.log.Warn("Primary states lookup failed, using fallback",
			zap.String("occupation", ref.Key()), zap.String("visa", string(visa)), zap.Error(err))
	}
	fallback, ferr := m.secondary.States(ctx, ref, visa)
	if ferr != nil {
		if err != nil {
			return nil, err
		}
		m.log.Warn("Fallback states lookup failed, keeping primary answer",
			zap.String("occupation", ref.Key()), zap.String("visa", string(visa)), zap.Error(ferr))
		return states, nil
	}
	return fallback, nil
}

// Pathways implements schemas.CatalogSource.
func (m *Merged) Pathways(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode, state string) ([]schemas.Pathway, error) {
	pws, err := m.primary.Pathways(ctx, ref, visa, state)
	if err == nil && len(pws) > 0 {
		return pws, nil
	}
	if err != nil {
		m.log.Warn("Primary pathways lookup failed, using fallback",
			zap.String("occupation", ref.Key()), zap.String("visa", string(visa)),
			zap.String("state", state), zap.Error(err))
	}
	fallback, ferr := m.secondary.Pathways(ctx, ref, visa, state)
	if ferr != nil {
		if err != nil {
			return nil, err
		}
		m.log.Warn("Fallback pathways lookup failed, keeping primary answer",
			zap.String("occupation", ref.Key()), zap.String("visa", string(visa)),
			zap.String("state", state), zap.Error(ferr))
		return pws, nil
	}
	return fallback, nil
}
