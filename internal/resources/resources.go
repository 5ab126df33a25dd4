package resources

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"mesh-retriever/internal/embedding"
	"mesh-retriever/internal/vectorstore"
)

// Provider lazily constructs the embedding client and the vector store
// exactly once per process and hands the same instances to every caller.
// Construction failure is cached: a down dependency fails fast on every
// later call instead of being hammered with expensive retries.
type Provider struct {
	newEmbedder func(context.Context) (embedding.Embedder, error)
	newStore    func(context.Context) (vectorstore.Store, error)
	log         *zap.Logger

	once     sync.Once
	embedder embedding.Embedder
	store    vectorstore.Store
	err      error
}

func NewProvider(newEmbedder func(context.Context) (embedding.Embedder, error), newStore func(context.Context) (vectorstore.Store, error), log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{newEmbedder: newEmbedder, newStore: newStore, log: log}
}

// Acquire returns the shared embedder and store, building them on first use.
// Safe for concurrent use; all callers observe the same result. The context
// governs only the one construction that actually runs; a construction
// aborted by it is cached as a failure like any other.
func (p *Provider) Acquire(ctx context.Context) (embedding.Embedder, vectorstore.Store, error) {
	p.once.Do(func() {
		p.log.Info("initializing embedding client")
		emb, err := p.newEmbedder(ctx)
		if err != nil {
			p.err = fmt.Errorf("initialize embedder: %w", err)
			return
		}
		p.log.Info("embedding client ready", zap.String("embedder", emb.Name()), zap.Int("dimension", emb.Dimension()))

		p.log.Info("initializing vector store client")
		store, err := p.newStore(ctx)
		if err != nil {
			p.err = fmt.Errorf("initialize vector store: %w", err)
			return
		}
		p.embedder = emb
		p.store = store
	})
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.embedder, p.store, nil
}
