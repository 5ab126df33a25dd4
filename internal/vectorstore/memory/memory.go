package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"mesh-retriever/internal/domain"
	"mesh-retriever/internal/vectorstore"
)

// Store is an in-memory vector store using brute-force scoring. It exists so
// the pipeline and engine can run without a live Qdrant, tests included.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	spec   vectorstore.CollectionSpec
	points []domain.Point
}

func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

func (s *Store) CreateCollection(_ context.Context, spec vectorstore.CollectionSpec) error {
	if spec.Dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[spec.Name]; ok {
		return fmt.Errorf("collection %s already exists", spec.Name)
	}
	s.collections[spec.Name] = &collection{spec: spec}
	return nil
}

func (s *Store) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

func (s *Store) ListCollections(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) DescribeCollection(_ context.Context, name string) (vectorstore.CollectionSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return vectorstore.CollectionSpec{}, vectorstore.ErrCollectionNotFound
	}
	return c.spec, nil
}

func (s *Store) Upsert(_ context.Context, name string, points []domain.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return vectorstore.ErrCollectionNotFound
	}
	for _, p := range points {
		if len(p.Vector) != c.spec.Dimension {
			return fmt.Errorf("vector dimension %d does not match collection dimension %d", len(p.Vector), c.spec.Dimension)
		}
	}
	c.points = append(c.points, points...)
	return nil
}

func (s *Store) Query(_ context.Context, name string, vector []float32, limit int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, vectorstore.ErrCollectionNotFound
	}
	if limit <= 0 {
		limit = 1
	}
	hits := make([]domain.SearchHit, 0, len(c.points))
	for _, p := range c.points {
		source := p.Payload.Filename
		if source == "" {
			source = name
		}
		hits = append(hits, domain.SearchHit{
			Source:  source,
			Content: p.Payload.Content,
			Score:   score(c.spec.Distance, p.Vector, vector),
		})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit < len(hits) {
		hits = hits[:limit]
	}
	return hits, nil
}

func score(distance vectorstore.Distance, a, b []float32) float64 {
	switch distance {
	case vectorstore.DistanceEuclid:
		// Negated so that higher is still better.
		return -math.Sqrt(sqDist(a, b))
	case vectorstore.DistanceDot:
		return dot(a, b)
	default:
		return cosine(a, b)
	}
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func sqDist(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func cosine(a, b []float32) float64 {
	na := math.Sqrt(dot(a, a))
	nb := math.Sqrt(dot(b, b))
	if na == 0 || nb == 0 {
		return 0
	}
	return dot(a, b) / (na * nb)
}
