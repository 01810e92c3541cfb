package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visapath/visapath-cli/api/schemas"
	"github.com/visapath/visapath-cli/internal/assembler"
	"github.com/visapath/visapath-cli/internal/config"
)

const testSnapshot = `
occupations:
  - occupationId: software-engineer
    anzscoCode: "261313"
    name: Software Engineer
    visas: ["189", "190"]
`

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshot-only configuration serves the catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte(testSnapshot), 0o644))

		cfg := config.NewDefaultConfig()
		cfg.Catalog.SnapshotPath = path

		components, err := Build(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer components.Close()

		info, err := components.Catalog.OccupationVisas(ctx, schemas.OccupationRef{AnzscoCode: "261313"})
		require.NoError(t, err)
		assert.Equal(t, "Software Engineer", info.Name)

		result, err := components.Assembler.Assess(ctx, schemas.Profile{
			Age:        30,
			Occupation: schemas.OccupationRef{AnzscoCode: "261313"},
		}, assembler.Selection{})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Graph.Nodes)
	})

	t.Run("missing snapshot file fails the build", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.Catalog.SnapshotPath = filepath.Join(t.TempDir(), "absent.yaml")

		_, err := Build(ctx, cfg, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("no sources configured still builds an empty catalog", func(t *testing.T) {
		components, err := Build(ctx, config.NewDefaultConfig(), zap.NewNop())
		require.NoError(t, err)
		defer components.Close()

		info, err := components.Catalog.OccupationVisas(ctx, schemas.OccupationRef{ID: "ghost"})
		require.NoError(t, err)
		assert.Empty(t, info.VisaCodes)
	})
}
