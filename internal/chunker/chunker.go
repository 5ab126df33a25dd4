package chunker

import (
	"mesh-retriever/internal/domain"
)

// FixedChunker splits text into consecutive non-overlapping windows of at
// most maxChars runes. Windows are taken in original-text order, so joining
// a document's chunks reproduces its text exactly.
type FixedChunker struct {
	maxChars int
}

func NewFixedChunker(maxChars int) *FixedChunker {
	if maxChars <= 0 {
		maxChars = 1000
	}
	return &FixedChunker{maxChars: maxChars}
}

func (c *FixedChunker) MaxChars() int { return c.maxChars }

func (c *FixedChunker) Chunk(doc domain.Document) []domain.Chunk {
	runes := []rune(doc.Text)
	if len(runes) == 0 {
		return nil
	}
	var chunks []domain.Chunk
	for i := 0; i < len(runes); i += c.maxChars {
		end := i + c.maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			Seq:  len(chunks),
			Text: string(runes[i:end]),
		})
	}
	return chunks
}
