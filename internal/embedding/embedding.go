package embedding

import "context"

// Embedder converts text into dense vector representations via a remote
// model. Implementations are safe for concurrent use.
type Embedder interface {
	Name() string
	// Dimension is the fixed length of every vector this embedder produces.
	Dimension() int
	// Embed encodes a batch of texts. The returned slice preserves input
	// order and has the same length as texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
