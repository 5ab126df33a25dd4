package vectorstore

import (
	"context"
	"errors"

	"mesh-retriever/internal/domain"
)

// ErrCollectionNotFound reports a query or describe against a collection the
// store does not know about.
var ErrCollectionNotFound = errors.New("collection not found")

// Distance is the similarity function a collection scores vectors with.
// It is fixed at collection creation.
type Distance string

const (
	DistanceCosine Distance = "Cosine"
	DistanceEuclid Distance = "Euclid"
	DistanceDot    Distance = "Dot"
)

// CollectionSpec describes a collection's fixed parameters.
type CollectionSpec struct {
	Name      string
	Dimension int
	Distance  Distance
}

// Store is a connection to an external vector database holding named
// collections. Implementations are safe for concurrent use; ownership of the
// data belongs to the store, not the process.
type Store interface {
	CreateCollection(ctx context.Context, spec CollectionSpec) error
	DeleteCollection(ctx context.Context, name string) error
	// ListCollections returns the names of all existing collections.
	ListCollections(ctx context.Context) ([]string, error)
	// DescribeCollection returns the spec a collection was created with.
	DescribeCollection(ctx context.Context, name string) (CollectionSpec, error)
	Upsert(ctx context.Context, collection string, points []domain.Point) error
	// Query returns up to limit nearest neighbours of vector, best first.
	Query(ctx context.Context, collection string, vector []float32, limit int) ([]domain.SearchHit, error)
}
