// Package service builds the application's component graph from
// configuration: database pool, catalog source chain and assembler.
package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/visapath/visapath-cli/api/schemas"
	"github.com/visapath/visapath-cli/internal/assembler"
	"github.com/visapath/visapath-cli/internal/catalog"
	"github.com/visapath/visapath-cli/internal/config"
)

// Components is the assembled application core. Close releases the
// database pool when one was opened.
type Components struct {
	Catalog   schemas.CatalogSource
	Assembler *assembler.Assembler

	pool *pgxpool.Pool
}

// Close releases held resources.
func (c *Components) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Build constructs the catalog chain and assembler from configuration.
//
// The chain is: postgres (when database.url is set) merged over the YAML
// snapshot (when catalog.snapshot_path is set), the whole thing behind a
// TTL cache. With neither source configured the catalog is empty, which
// still renders score-only graphs.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		primary schemas.CatalogSource
		pool    *pgxpool.Pool
	)
	if cfg.Database.URL != "" {
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid database url: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxConns)

		pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
		defer cancel()
		pool, err = pgxpool.NewWithConfig(pingCtx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		primary, err = catalog.NewPostgres(pingCtx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to connect catalog store: %w", err)
		}
		logger.Info("Database catalog source connected")
	}

	var secondary schemas.CatalogSource
	if cfg.Catalog.SnapshotPath != "" {
		mem, err := catalog.LoadFile(cfg.Catalog.SnapshotPath, logger)
		if err != nil {
			if pool != nil {
				pool.Close()
			}
			return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
		}
		secondary = mem
		logger.Info("Catalog snapshot loaded", zap.String("path", cfg.Catalog.SnapshotPath))
	} else {
		secondary = catalog.NewMemory(logger)
	}

	var src schemas.CatalogSource = secondary
	if primary != nil {
		src = catalog.NewMerged(primary, secondary, logger)
	}
	src = catalog.NewCached(src, cfg.Catalog.CacheTTL, logger)

	asm, err := assembler.New(src, logger)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, err
	}

	return &Components{Catalog: src, Assembler: asm, pool: pool}, nil
}
