package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-retriever/internal/domain"
	"mesh-retriever/internal/vectorstore"
	"mesh-retriever/internal/vectorstore/memory"
)

func spec(name string) vectorstore.CollectionSpec {
	return vectorstore.CollectionSpec{Name: name, Dimension: 384, Distance: vectorstore.DistanceCosine}
}

func TestEnsureCreatesOnce(t *testing.T) {
	store := memory.New()
	reg := New(store, nil)
	ctx := context.Background()

	require.NoError(t, reg.Ensure(ctx, spec("research_corpus")))

	// Identical second call is a no-op.
	require.NoError(t, reg.Ensure(ctx, spec("research_corpus")))

	got, err := store.DescribeCollection(ctx, "research_corpus")
	require.NoError(t, err)
	assert.Equal(t, 384, got.Dimension)
	assert.Equal(t, vectorstore.DistanceCosine, got.Distance)
}

func TestEnsureRejectsConflictingSpec(t *testing.T) {
	store := memory.New()
	reg := New(store, nil)
	ctx := context.Background()

	require.NoError(t, reg.Ensure(ctx, spec("corpus")))

	conflicting := spec("corpus")
	conflicting.Dimension = 768
	err := reg.Ensure(ctx, conflicting)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSpecConflict))

	conflicting = spec("corpus")
	conflicting.Distance = vectorstore.DistanceDot
	err = reg.Ensure(ctx, conflicting)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSpecConflict))

	// The existing collection keeps its original parameters.
	got, err := store.DescribeCollection(ctx, "corpus")
	require.NoError(t, err)
	assert.Equal(t, 384, got.Dimension)
}

func TestResetAndCreateDropsContent(t *testing.T) {
	store := memory.New()
	reg := New(store, nil)
	ctx := context.Background()

	require.NoError(t, reg.Ensure(ctx, spec("corpus")))
	vec := make([]float32, 384)
	vec[0] = 1
	require.NoError(t, store.Upsert(ctx, "corpus", []domain.Point{
		{ID: 1, Vector: vec, Payload: domain.Payload{Filename: "old.txt", Content: "stale"}},
	}))

	require.NoError(t, reg.ResetAndCreate(ctx, spec("corpus")))

	hits, err := store.Query(ctx, "corpus", vec, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestResetAndCreateOnMissingCollection(t *testing.T) {
	store := memory.New()
	reg := New(store, nil)

	require.NoError(t, reg.ResetAndCreate(context.Background(), spec("fresh")))
	names, err := store.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, names)
}
