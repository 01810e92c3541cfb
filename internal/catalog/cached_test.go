package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visapath/visapath-cli/api/schemas"
)

// countingSource wraps a CatalogSource and counts calls per method, with an
// optional forced error.
type countingSource struct {
	mu       sync.Mutex
	inner    schemas.CatalogSource
	visas    int
	states   int
	pathways int
	err      error
}

func (c *countingSource) OccupationVisas(ctx context.Context, ref schemas.OccupationRef) (schemas.OccupationInfo, error) {
	c.mu.Lock()
	c.visas++
	c.mu.Unlock()
	if c.err != nil {
		return schemas.OccupationInfo{}, c.err
	}
	return c.inner.OccupationVisas(ctx, ref)
}

func (c *countingSource) States(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode) ([]string, error) {
	c.mu.Lock()
	c.states++
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.States(ctx, ref, visa)
}

func (c *countingSource) Pathways(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode, state string) ([]schemas.Pathway, error) {
	c.mu.Lock()
	c.pathways++
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.Pathways(ctx, ref, visa, state)
}

func (c *countingSource) counts() (int, int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visas, c.states, c.pathways
}

func newCountedMemory(t *testing.T) (*countingSource, *Cached) {
	t.Helper()
	m := NewMemory(zap.NewNop())
	m.Put(seedRecord())
	src := &countingSource{inner: m}
	return src, NewCached(src, time.Minute, zap.NewNop())
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	ref := schemas.OccupationRef{ID: "software-engineer"}

	t.Run("second lookup hits the cache", func(t *testing.T) {
		src, c := newCountedMemory(t)

		first, err := c.OccupationVisas(ctx, ref)
		require.NoError(t, err)
		second, err := c.OccupationVisas(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		visas, _, _ := src.counts()
		assert.Equal(t, 1, visas)
	})

	t.Run("distinct visas and states are cached separately", func(t *testing.T) {
		src, c := newCountedMemory(t)

		_, err := c.States(ctx, ref, schemas.Visa190)
		require.NoError(t, err)
		_, err = c.States(ctx, ref, schemas.Visa491)
		require.NoError(t, err)
		_, err = c.States(ctx, ref, schemas.Visa190)
		require.NoError(t, err)

		_, states, _ := src.counts()
		assert.Equal(t, 2, states)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		src, c := newCountedMemory(t)
		boom := errors.New("transport down")
		src.err = boom

		_, err := c.OccupationVisas(ctx, ref)
		assert.ErrorIs(t, err, boom)

		src.err = nil
		info, err := c.OccupationVisas(ctx, ref)
		require.NoError(t, err)
		assert.NotEmpty(t, info.VisaCodes)

		visas, _, _ := src.counts()
		assert.Equal(t, 2, visas)
	})

	t.Run("entries expire after the ttl", func(t *testing.T) {
		src, c := newCountedMemory(t)
		now := time.Now()
		c.now = func() time.Time { return now }

		_, err := c.OccupationVisas(ctx, ref)
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, err = c.OccupationVisas(ctx, ref)
		require.NoError(t, err)

		visas, _, _ := src.counts()
		assert.Equal(t, 2, visas)
	})

	t.Run("invalidate drops only the given occupation", func(t *testing.T) {
		m := NewMemory(zap.NewNop())
		m.Put(seedRecord())
		other := seedRecord()
		other.ID = "accountant"
		other.AnzscoCode = "221111"
		m.Put(other)

		src := &countingSource{inner: m}
		c := NewCached(src, time.Minute, zap.NewNop())

		otherRef := schemas.OccupationRef{ID: "accountant"}
		_, err := c.OccupationVisas(ctx, ref)
		require.NoError(t, err)
		_, err = c.OccupationVisas(ctx, otherRef)
		require.NoError(t, err)

		c.Invalidate(ref)

		_, err = c.OccupationVisas(ctx, ref)
		require.NoError(t, err)
		_, err = c.OccupationVisas(ctx, otherRef)
		require.NoError(t, err)

		visas, _, _ := src.counts()
		assert.Equal(t, 3, visas, "only the invalidated occupation refetches")
	})
}
