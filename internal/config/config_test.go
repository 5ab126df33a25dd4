package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:6333", cfg.Qdrant.URL)
	assert.Equal(t, "ollama", cfg.Embedder.Type)
	assert.Equal(t, 384, cfg.Embedder.Ollama.Dimension)
	assert.Equal(t, 1000, cfg.Ingest.ChunkChars)
	assert.Equal(t, []string{"research_corpus", "llama_research"}, cfg.Search.DefaultCollections)
	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
qdrant:
  url: http://qdrant.internal:6333
ingest:
  collection: llama_research
  chunk_chars: 500
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://qdrant.internal:6333", cfg.Qdrant.URL)
	assert.Equal(t, 15, cfg.Qdrant.TimeoutSecs)
	assert.Equal(t, "llama_research", cfg.Ingest.Collection)
	assert.Equal(t, 500, cfg.Ingest.ChunkChars)
	assert.Equal(t, ".txt", cfg.Ingest.Extension)
	assert.Equal(t, "Cosine", cfg.Ingest.Distance)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("qdrant: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
