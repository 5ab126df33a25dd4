package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-retriever/internal/domain"
)

func TestChunkReconstructsText(t *testing.T) {
	c := NewFixedChunker(1000)
	text := strings.Repeat("abcdefghij", 250) // 2500 chars
	chunks := c.Chunk(domain.Document{Name: "doc.txt", Text: text})

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0].Text, 1000)
	assert.Len(t, chunks[1].Text, 1000)
	assert.Len(t, chunks[2].Text, 500)

	var b strings.Builder
	for i, ch := range chunks {
		assert.Equal(t, i, ch.Seq)
		b.WriteString(ch.Text)
	}
	assert.Equal(t, text, b.String())
}

func TestChunkCount(t *testing.T) {
	cases := []struct {
		length int
		max    int
		want   int
	}{
		{0, 1000, 0},
		{1, 1000, 1},
		{999, 1000, 1},
		{1000, 1000, 1},
		{1001, 1000, 2},
		{2500, 1000, 3},
		{3000, 1000, 3},
	}
	for _, tc := range cases {
		c := NewFixedChunker(tc.max)
		chunks := c.Chunk(domain.Document{Text: strings.Repeat("x", tc.length)})
		assert.Len(t, chunks, tc.want, "length=%d max=%d", tc.length, tc.max)
		for _, ch := range chunks {
			assert.LessOrEqual(t, len([]rune(ch.Text)), tc.max)
		}
	}
}

func TestChunkCountsRunesNotBytes(t *testing.T) {
	c := NewFixedChunker(3)
	chunks := c.Chunk(domain.Document{Text: "ααββγγ"}) // 6 runes, 12 bytes

	require.Len(t, chunks, 2)
	assert.Equal(t, "ααβ", chunks[0].Text)
	assert.Equal(t, "βγγ", chunks[1].Text)
}

func TestZeroMaxFallsBackToDefault(t *testing.T) {
	c := NewFixedChunker(0)
	assert.Equal(t, 1000, c.MaxChars())
}
