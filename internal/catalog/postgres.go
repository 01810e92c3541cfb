package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/visapath/visapath-cli/api/schemas"
	"go.uber.org/zap"
)

// DBPool abstracts the pgxpool.Pool so the store can be mocked in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the production catalog source, reading the occupations,
// eligibility_listings and pathways tables.
type Postgres struct {
	pool DBPool
	log  *zap.Logger
}

// Compile-time interface check.
var _ schemas.CatalogSource = (*Postgres)(nil)

// NewPostgres creates a catalog store and verifies the connection.
func NewPostgres(ctx context.Context, pool DBPool, logger *zap.Logger) (*Postgres, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Postgres{pool: pool, log: logger.Named("catalog.postgres")}, nil
}

// OccupationVisas resolves the occupation row and unions its subclass flags
// with any subclasses that have eligibility listing rows, matching listings
// even when the occupation's own flags lag behind the eligibility data.
func (p *Postgres) OccupationVisas(ctx context.Context, ref schemas.OccupationRef) (schemas.OccupationInfo, error) {
	var (
		info             schemas.OccupationInfo
		v189, v190, v491 bool
	)
	err := p.pool.QueryRow(ctx, `
		SELECT name, skill_level, skill_assessment_body, visa_189, visa_190, visa_491
		FROM occupations
		WHERE ($1 <> '' AND occupation_id = $1) OR ($2 <> '' AND anzsco_code = $2)
		LIMIT 1;
	`, ref.ID, ref.AnzscoCode).Scan(
		&info.Name, &info.SkillLevel, &info.SkillAssessmentBody, &v189, &v190, &v491)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schemas.OccupationInfo{}, nil
		}
		return schemas.OccupationInfo{}, fmt.Errorf("occupation lookup failed: %w", err)
	}

	seen := map[schemas.VisaCode]bool{
		schemas.Visa189: v189,
		schemas.Visa190: v190,
		schemas.Visa491: v491,
	}

	rows, err := p.pool.Query(ctx, `
		SELECT DISTINCT visa FROM eligibility_listings
		WHERE ($1 <> '' AND occupation_id = $1) OR ($2 <> '' AND anzsco_code = $2);
	`, ref.ID, ref.AnzscoCode)
	if err != nil {
		return schemas.OccupationInfo{}, fmt.Errorf("listing lookup failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var visa string
		if err := rows.Scan(&visa); err != nil {
			return schemas.OccupationInfo{}, err
		}
		if code := schemas.VisaCode(visa); code.Valid() {
			seen[code] = true
		}
	}
	if err := rows.Err(); err != nil {
		return schemas.OccupationInfo{}, err
	}

	for _, v := range schemas.AllVisas {
		if seen[v] {
			info.VisaCodes = append(info.VisaCodes, v)
		}
	}
	return info, nil
}

// States implements schemas.CatalogSource.
func (p *Postgres) States(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode) ([]string, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT state FROM eligibility_listings
		WHERE (($1 <> '' AND occupation_id = $1) OR ($2 <> '' AND anzsco_code = $2))
		  AND visa = $3
		ORDER BY state;
	`, ref.ID, ref.AnzscoCode, string(visa))
	if err != nil {
		return nil, fmt.Errorf("states lookup failed: %w", err)
	}
	defer rows.Close()

	var states []string
	for rows.Next() {
		var state string
		if err := rows.Scan(&state); err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, rows.Err()
}

// Pathways implements schemas.CatalogSource. Rules are stored as a JSONB
// array per pathway row.
func (p *Postgres) Pathways(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode, state string) ([]schemas.Pathway, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT pathway_id, title, stream, offshore, rules
		FROM pathways
		WHERE (($1 <> '' AND occupation_id = $1) OR ($2 <> '' AND anzsco_code = $2))
		  AND visa = $3 AND state = $4
		ORDER BY pathway_id;
	`, ref.ID, ref.AnzscoCode, string(visa), state)
	if err != nil {
		return nil, fmt.Errorf("pathways lookup failed: %w", err)
	}
	defer rows.Close()

	var pathways []schemas.Pathway
	for rows.Next() {
		var (
			pw       schemas.Pathway
			rawRules []byte
		)
		if err := rows.Scan(&pw.ID, &pw.Title, &pw.Meta.Stream, &pw.Meta.Offshore, &rawRules); err != nil {
			return nil, err
		}
		if len(rawRules) > 0 {
			if err := json.Unmarshal(rawRules, &pw.Rules); err != nil {
				p.log.Warn("Skipping pathway with malformed rules",
					zap.String("pathway", pw.ID), zap.Error(err))
				continue
			}
		}
		pathways = append(pathways, pw)
	}
	return pathways, rows.Err()
}
