package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mesh-retriever/internal/domain"
	"mesh-retriever/internal/embedding"
	"mesh-retriever/internal/vectorstore"
)

// ErrAllCollectionsFailed reports a fan-out in which not a single target
// collection could be searched.
var ErrAllCollectionsFailed = errors.New("all collections failed")

// Engine answers a query by embedding it once, searching every target
// collection concurrently and merging the hits into one ranked list.
type Engine struct {
	embedder      embedding.Embedder
	store         vectorstore.Store
	searchTimeout time.Duration
	log           *zap.Logger
}

func New(emb embedding.Embedder, store vectorstore.Store, searchTimeout time.Duration, log *zap.Logger) *Engine {
	if searchTimeout <= 0 {
		searchTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{embedder: emb, store: store, searchTimeout: searchTimeout, log: log}
}

// collectionResult is the explicit per-collection outcome: either hits or a
// reason the collection contributed nothing.
type collectionResult struct {
	collection string
	hits       []domain.SearchHit
	err        error
}

// Search fans the query out over collections and returns at most limit hits
// in non-increasing score order. A failing collection contributes an empty
// result set; only if every collection fails does Search return an error.
//
// Ties are broken by the order collections were listed, then by each hit's
// rank within its collection, so identical inputs always merge identically
// regardless of which search finishes first.
func (e *Engine) Search(ctx context.Context, query string, collections []string, limit int) ([]domain.SearchHit, error) {
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if len(collections) == 0 {
		return nil, errors.New("at least one collection is required")
	}

	// The embed call gets the same deadline as a collection search; a hung
	// embedding backend must not block the request forever.
	ectx, cancel := context.WithTimeout(ctx, e.searchTimeout)
	vectors, err := e.embedder.Embed(ectx, []string{query})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors for one input", len(vectors))
	}
	vector := vectors[0]

	// One fixed slot per collection keeps merge order independent of
	// goroutine completion order.
	results := make([]collectionResult, len(collections))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range collections {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, e.searchTimeout)
			defer cancel()
			hits, err := e.store.Query(cctx, name, vector, limit)
			results[i] = collectionResult{collection: name, hits: hits, err: err}
			return nil
		})
	}
	// Goroutines never return errors; failures stay in their slot.
	_ = g.Wait()

	var merged []domain.SearchHit
	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			e.log.Warn("collection search failed",
				zap.String("collection", res.collection),
				zap.Error(res.err))
			continue
		}
		merged = append(merged, res.hits...)
	}
	if failed == len(collections) {
		return nil, fmt.Errorf("%w: %d of %d", ErrAllCollectionsFailed, failed, len(collections))
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if limit < len(merged) {
		merged = merged[:limit]
	}
	return merged, nil
}
