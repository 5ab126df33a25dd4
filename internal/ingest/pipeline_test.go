package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-retriever/internal/chunker"
	"mesh-retriever/internal/domain"
	"mesh-retriever/internal/vectorstore"
	"mesh-retriever/internal/vectorstore/memory"
)

type stubEmbedder struct {
	dim      int
	failedOn string
}

func (s stubEmbedder) Name() string   { return "stub" }
func (s stubEmbedder) Dimension() int { return s.dim }
func (s stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if s.failedOn != "" && strings.Contains(text, s.failedOn) {
			return nil, errors.New("embedding backend rejected input")
		}
		v := make([]float32, s.dim)
		for j := range v {
			v[j] = float32((len(text)+i+j)%7) + 1
		}
		out[i] = v
	}
	return out, nil
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newCollection(t *testing.T, store vectorstore.Store, name string, dim int) {
	t.Helper()
	require.NoError(t, store.CreateCollection(context.Background(), vectorstore.CollectionSpec{
		Name: name, Dimension: dim, Distance: vectorstore.DistanceCosine,
	}))
}

func TestRunIndexesDocument(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "paper.txt", strings.Repeat("z", 2500))

	store := memory.New()
	newCollection(t, store, "research_corpus", 4)
	p := New(chunker.NewFixedChunker(1000), stubEmbedder{dim: 4}, store, nil)

	report, err := p.Run(context.Background(), dir, ".txt", "research_corpus")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Documents)
	assert.Equal(t, 3, report.Chunks)
	assert.Empty(t, report.Failures)
}

func TestRunAssignsMonotonicIDs(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", strings.Repeat("a", 2500))
	writeDoc(t, dir, "b.txt", strings.Repeat("b", 1500))

	var upserted []domain.Point
	store := &recordingStore{Store: memory.New(), points: &upserted}
	newCollection(t, store.Store, "corpus", 4)
	p := New(chunker.NewFixedChunker(1000), stubEmbedder{dim: 4}, store, nil)

	report, err := p.Run(context.Background(), dir, ".txt", "corpus")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	assert.Equal(t, 5, report.Chunks)

	require.Len(t, upserted, 5)
	for i, pt := range upserted {
		assert.Equal(t, uint64(i+1), pt.ID)
	}
	// a.txt sorts first, so its three chunks take ids 1..3.
	assert.Equal(t, "a.txt", upserted[0].Payload.Filename)
	assert.Equal(t, "b.txt", upserted[3].Payload.Filename)
	assert.Equal(t, "corpus", upserted[0].Payload.Source)
}

func TestRunSkipsBrokenDocument(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "good.txt", "usable content")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.txt"), []byte{0xff, 0xfe, 0x00}, 0o644))

	store := memory.New()
	newCollection(t, store, "corpus", 4)
	p := New(chunker.NewFixedChunker(1000), stubEmbedder{dim: 4}, store, nil)

	report, err := p.Run(context.Background(), dir, ".txt", "corpus")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Documents)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Path, "broken.txt")
}

func TestRunFailsWhenEveryDocumentFails(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "only.txt", "poison pill")

	store := memory.New()
	newCollection(t, store, "corpus", 4)
	p := New(chunker.NewFixedChunker(1000), stubEmbedder{dim: 4, failedOn: "poison"}, store, nil)

	report, err := p.Run(context.Background(), dir, ".txt", "corpus")
	require.Error(t, err)
	assert.Equal(t, 0, report.Documents)
	assert.Len(t, report.Failures, 1)
}

func TestRunIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "doc.txt", "indexed")
	writeDoc(t, dir, "notes.md", "not indexed")

	store := memory.New()
	newCollection(t, store, "corpus", 4)
	p := New(chunker.NewFixedChunker(1000), stubEmbedder{dim: 4}, store, nil)

	report, err := p.Run(context.Background(), dir, ".txt", "corpus")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Documents)
}

// recordingStore captures upserted points in arrival order.
type recordingStore struct {
	vectorstore.Store
	points *[]domain.Point
}

func (r *recordingStore) Upsert(ctx context.Context, collection string, points []domain.Point) error {
	*r.points = append(*r.points, points...)
	return r.Store.Upsert(ctx, collection, points)
}
