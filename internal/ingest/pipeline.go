package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mesh-retriever/internal/chunker"
	"mesh-retriever/internal/domain"
	"mesh-retriever/internal/embedding"
	"mesh-retriever/internal/extract"
	"mesh-retriever/internal/vectorstore"
)

// DocumentFailure records one document that could not be indexed.
type DocumentFailure struct {
	Path   string
	Reason string
}

// Report summarizes one ingestion run.
type Report struct {
	Documents int
	Chunks    int
	Failures  []DocumentFailure
}

// Pipeline reads a directory of documents, chunks and embeds them, and
// writes the resulting points into one collection.
//
// Point ids count up from 1 across the whole run and are never reused
// within it. Re-running against an ensured (not reset) collection appends
// the same content again under fresh ids; the pipeline does not deduplicate.
type Pipeline struct {
	chunker  *chunker.FixedChunker
	embedder embedding.Embedder
	store    vectorstore.Store
	log      *zap.Logger
}

func New(ch *chunker.FixedChunker, emb embedding.Embedder, store vectorstore.Store, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{chunker: ch, embedder: emb, store: store, log: log}
}

// Run indexes every matching document under dir into collection. A document
// that fails extraction or embedding is logged, recorded in the report and
// skipped; the run keeps going. Run itself fails only when the source
// directory cannot be listed, the caller cancels, or nothing at all could
// be indexed because the backing services were down for every document.
func (p *Pipeline) Run(ctx context.Context, dir, ext, collection string) (Report, error) {
	paths, err := extract.ListDocuments(dir, ext)
	if err != nil {
		return Report{}, err
	}
	p.log.Info("starting ingestion",
		zap.String("dir", dir),
		zap.String("collection", collection),
		zap.Int("documents", len(paths)))

	var report Report
	nextID := uint64(1)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		count, err := p.ingestDocument(ctx, path, collection, &nextID)
		if err != nil {
			p.log.Error("document failed", zap.String("path", path), zap.Error(err))
			report.Failures = append(report.Failures, DocumentFailure{Path: path, Reason: err.Error()})
			continue
		}
		report.Documents++
		report.Chunks += count
	}

	p.log.Info("ingestion finished",
		zap.Int("documents", report.Documents),
		zap.Int("chunks", report.Chunks),
		zap.Int("failures", len(report.Failures)))
	if report.Documents == 0 && len(report.Failures) > 0 {
		return report, fmt.Errorf("all %d documents failed", len(report.Failures))
	}
	return report, nil
}

func (p *Pipeline) ingestDocument(ctx context.Context, path, collection string, nextID *uint64) (int, error) {
	doc, err := extract.ReadDocument(path)
	if err != nil {
		return 0, err
	}
	chunks := p.chunker.Chunk(doc)
	if len(chunks) == 0 {
		return 0, nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", doc.Name, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embed %s: got %d vectors for %d chunks", doc.Name, len(vectors), len(chunks))
	}
	points := make([]domain.Point, len(chunks))
	for i := range chunks {
		points[i] = domain.Point{
			ID:     *nextID,
			Vector: vectors[i],
			Payload: domain.Payload{
				Filename: doc.Name,
				Content:  chunks[i].Text,
				Source:   collection,
			},
		}
		*nextID++
	}
	// The counter is not rolled back on failure: once assigned, an id is
	// never handed out again within the run.
	if err := p.store.Upsert(ctx, collection, points); err != nil {
		return 0, fmt.Errorf("upsert %s: %w", doc.Name, err)
	}
	p.log.Info("indexed document", zap.String("file", doc.Name), zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}
