package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultOverlap, c.overlap)
	})

	t.Run("custom chunk size", func(t *testing.T) {
		c := New(WithChunkSize(500))
		assert.Equal(t, 500, c.chunkSize)
	})

	t.Run("custom overlap", func(t *testing.T) {
		c := New(WithOverlap(50))
		assert.Equal(t, 50, c.overlap)
	})

	t.Run("overlap exceeding chunk size is reduced", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		assert.Less(t, c.overlap, c.chunkSize)
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultOverlap, c.overlap)
	})
}

func TestChunk_NilDocument(t *testing.T) {
	c := New()
	segments, err := c.Chunk(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, segments)
}

func TestChunk_BlankContent(t *testing.T) {
	c := New()
	for _, content := range []string{"", "   ", "\n\n\t  \n"} {
		segments, err := c.Chunk(&domain.Document{ID: "doc", Content: content})
		require.NoError(t, err)
		assert.Empty(t, segments)
	}
}

func TestChunk_ShortContent(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{ID: "doc", Content: "A short piece of text."}

	segments, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	seg := segments[0]
	assert.Equal(t, doc.Content, seg.Content)
	assert.Equal(t, "doc", seg.DocumentID)
	assert.Equal(t, 0, seg.Position)
	assert.Equal(t, 0, seg.Start)
	assert.Equal(t, len(doc.Content), seg.End)
	assert.NotEmpty(t, seg.ID)
}

func TestChunk_Coverage(t *testing.T) {
	c := New(WithChunkSize(80), WithOverlap(16))
	content := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	doc := &domain.Document{ID: "doc", Content: content}

	segments, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Greater(t, len(segments), 1)

	// Offsets must cover the text with no gaps.
	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, len(content), segments[len(segments)-1].End)
	for i := 1; i < len(segments); i++ {
		assert.LessOrEqual(t, segments[i].Start, segments[i-1].End,
			"segment %d leaves a gap", i)
		assert.Greater(t, segments[i].End, segments[i-1].End,
			"segment %d does not advance", i)
	}

	// Concatenating contents minus the overlapping prefixes must
	// reconstruct the original text.
	var b strings.Builder
	b.WriteString(segments[0].Content)
	for i := 1; i < len(segments); i++ {
		dup := segments[i-1].End - segments[i].Start
		b.WriteString(segments[i].Content[dup:])
	}
	assert.Equal(t, content, b.String())
}

func TestChunk_SegmentSizeBound(t *testing.T) {
	c := New(WithChunkSize(120), WithOverlap(30))
	content := strings.Repeat("Sentence number one is here. And then another follows it. ", 30)

	segments, err := c.Chunk(&domain.Document{ID: "doc", Content: content})
	require.NoError(t, err)

	for i, seg := range segments {
		assert.LessOrEqual(t, len(seg.Content), 120, "segment %d too large", i)
	}
}

func TestChunk_OverlapInvariant(t *testing.T) {
	overlap := 25
	c := New(WithChunkSize(100), WithOverlap(overlap))
	content := strings.Repeat("abcdefghij", 55) // no boundaries, hard cuts only

	segments, err := c.Chunk(&domain.Document{ID: "doc", Content: content})
	require.NoError(t, err)
	require.Greater(t, len(segments), 1)

	for i := 1; i < len(segments); i++ {
		prev, cur := segments[i-1], segments[i]
		assert.Equal(t, prev.End-overlap, cur.Start)
		assert.Equal(t,
			prev.Content[len(prev.Content)-overlap:],
			cur.Content[:overlap],
			"segments %d/%d do not share the overlap", i-1, i)
	}
}

func TestChunk_PrefersParagraphBoundary(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(10))
	first := strings.Repeat("a", 60)
	second := strings.Repeat("b", 80)
	content := first + "\n\n" + second

	segments, err := c.Chunk(&domain.Document{ID: "doc", Content: content})
	require.NoError(t, err)
	require.Len(t, segments, 2)

	// The cut lands after the paragraph break, not at the hard limit.
	assert.Equal(t, first+"\n\n", segments[0].Content)
	assert.True(t, strings.HasSuffix(segments[1].Content, second))
}

func TestChunk_PrefersSentenceBoundary(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(10))
	first := "This is the opening sentence of the document, and it runs on. "
	content := first + strings.Repeat("x", 120)

	segments, err := c.Chunk(&domain.Document{ID: "doc", Content: content})
	require.NoError(t, err)
	require.Greater(t, len(segments), 1)

	assert.Equal(t, first, segments[0].Content)
}

func TestChunk_Ordinals(t *testing.T) {
	c := New(WithChunkSize(50), WithOverlap(10))
	content := strings.Repeat("0123456789", 20)

	segments, err := c.Chunk(&domain.Document{ID: "doc", Content: content})
	require.NoError(t, err)

	for i, seg := range segments {
		assert.Equal(t, i, seg.Position)
	}
}
