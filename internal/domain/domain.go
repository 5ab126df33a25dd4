package domain

// Document is a single source file loaded for indexing.
type Document struct {
	Name string
	Path string
	Text string
}

// Chunk is a bounded contiguous slice of a document's text, the unit of
// embedding. Seq is the zero-based position of the chunk within its document.
type Chunk struct {
	Seq  int
	Text string
}

// Payload is the metadata stored alongside every vector.
type Payload struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Source   string `json:"source"`
}

// Point is a persisted (id, vector, payload) record inside a collection.
// IDs are assigned by the ingestion run and never reused within it.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload Payload
}

// SearchHit is one merged query result.
type SearchHit struct {
	Source  string  `json:"source"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchRequest is a caller's query against one or more collections.
type SearchRequest struct {
	Query       string   `json:"query"`
	Limit       int      `json:"limit"`
	Collections []string `json:"collections"`
}
