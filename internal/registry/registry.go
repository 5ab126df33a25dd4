package registry

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mesh-retriever/internal/vectorstore"
)

// ErrSpecConflict reports an existing collection whose dimension or distance
// does not match the requested spec. The registry never silently recreates.
var ErrSpecConflict = errors.New("collection spec conflict")

// Registry makes sure named collections exist with the right parameters
// before the write path touches them.
type Registry struct {
	store vectorstore.Store
	log   *zap.Logger
}

func New(store vectorstore.Store, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{store: store, log: log}
}

// Ensure creates the collection if it is absent. Calling it again with the
// same spec is a no-op; calling it with a different dimension or distance
// for an existing name fails loudly.
func (r *Registry) Ensure(ctx context.Context, spec vectorstore.CollectionSpec) error {
	names, err := r.store.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, name := range names {
		if name != spec.Name {
			continue
		}
		existing, err := r.store.DescribeCollection(ctx, spec.Name)
		if err != nil {
			return fmt.Errorf("describe collection %s: %w", spec.Name, err)
		}
		if existing.Dimension != spec.Dimension || existing.Distance != spec.Distance {
			return fmt.Errorf("%w: %s exists with dim=%d distance=%s, requested dim=%d distance=%s",
				ErrSpecConflict, spec.Name,
				existing.Dimension, existing.Distance,
				spec.Dimension, spec.Distance)
		}
		return nil
	}
	r.log.Info("creating collection",
		zap.String("collection", spec.Name),
		zap.Int("dimension", spec.Dimension),
		zap.String("distance", string(spec.Distance)))
	if err := r.store.CreateCollection(ctx, spec); err != nil {
		return fmt.Errorf("create collection %s: %w", spec.Name, err)
	}
	return nil
}

// ResetAndCreate drops any existing collection of this name and creates a
// fresh, empty one. This is the destructive reset path; callers must opt in
// deliberately.
func (r *Registry) ResetAndCreate(ctx context.Context, spec vectorstore.CollectionSpec) error {
	r.log.Warn("resetting collection", zap.String("collection", spec.Name))
	if err := r.store.DeleteCollection(ctx, spec.Name); err != nil {
		return fmt.Errorf("delete collection %s: %w", spec.Name, err)
	}
	if err := r.store.CreateCollection(ctx, spec); err != nil {
		return fmt.Errorf("create collection %s: %w", spec.Name, err)
	}
	return nil
}
