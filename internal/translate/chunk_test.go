package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentences builds n sentences of roughly 60 characters each.
func sentences(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "This sentence number " + strings.Repeat("x", i%5) + " is used for chunking tests"
	}
	return strings.Join(parts, ". ") + "."
}

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	assert.Equal(t, []string{"Hello. World."}, Split("  Hello. World.  ", DefaultChunkSize))
	assert.Nil(t, Split("   ", DefaultChunkSize))
}

func TestSplitLongTextRespectsLimitAndOrder(t *testing.T) {
	text := sentences(20)
	for len(text) < 1200 {
		text += " " + sentences(3)
	}
	text = text[:1200]

	chunks := Split(text, DefaultChunkSize)

	require.Greater(t, len(chunks), 2)
	for i, c := range chunks {
		assert.LessOrEqual(t, runeLen(c), DefaultChunkSize, "chunk %d too long", i)
		assert.NotEmpty(t, c)
	}
	assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(strings.Fields(strings.Join(chunks, " ")), " "))
}

func TestSplitKeepsSentenceBoundaries(t *testing.T) {
	text := sentences(30)
	for _, c := range Split(text, 200) {
		assert.True(t, strings.HasSuffix(c, "."), "chunk %q does not end a sentence", c)
	}
}

func TestSplitLeavesFinalSentenceAsWritten(t *testing.T) {
	text := sentences(20) + " Final words without a period"

	chunks := Split(text, DefaultChunkSize)

	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "without a period"))
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c, "."), "chunk %q lost its period", c)
	}
}

func TestSplitOversizedSentence(t *testing.T) {
	word := strings.Repeat("a", 30)
	long := strings.TrimSpace(strings.Repeat(word+" ", 40)) // ~1240 chars, no ". "

	chunks := Split(long, DefaultChunkSize)

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, runeLen(c), DefaultChunkSize)
		assert.False(t, strings.HasPrefix(c, " "))
	}
	assert.Equal(t, long, strings.Join(chunks, " "))
}

func TestSplitUnbrokenRunCutsMidWord(t *testing.T) {
	run := strings.Repeat("я", 1100)
	chunks := Split(run, DefaultChunkSize)
	assert.Equal(t, []int{500, 500, 100}, []int{runeLen(chunks[0]), runeLen(chunks[1]), runeLen(chunks[2])})
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	// 300 Cyrillic runes are 600 bytes but fit in one chunk.
	text := strings.Repeat("ж", 300)
	assert.Equal(t, []string{text}, Split(text, DefaultChunkSize))
}
