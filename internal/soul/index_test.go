package soul

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens := tokenize("Well, I worked at the factory in Salt Lake City.")

	assert.Contains(t, tokens, "worked")
	assert.Contains(t, tokens, "factory")
	assert.Contains(t, tokens, "salt")
	// Stop words and short tokens are dropped.
	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "well")
	assert.NotContains(t, tokens, "i")
	assert.NotContains(t, tokens, "at")
}

func TestChunkText_Overlap(t *testing.T) {
	words := make([]string, 250)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	chunks := chunkText(text, 100)

	// Step is max(50, chunkSize/2) = 50, so starts at 0, 50, 100, 150, 200.
	require.Len(t, chunks, 5)
	assert.Len(t, strings.Fields(chunks[0]), 100)
	assert.Len(t, strings.Fields(chunks[4]), 50)
}

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, chunkText("", 300))
	assert.Empty(t, chunkText("   ", 300))
}

func TestIndexSearch_RanksByOverlap(t *testing.T) {
	idx := BuildIndex([]string{
		"The factory whistle blew every morning and the workers filed in slowly.",
		"We planted corn on the farm every spring before the rains came down.",
		"The factory workers went on strike that spring over wages and hours.",
	}, 300)

	assert.Equal(t, 3, idx.Chunks())
	assert.Greater(t, idx.Keywords(), 0)

	results := idx.Search("factory workers", 2)

	require.Len(t, results, 2)
	// Both hits mention the factory; the strike chunk and the whistle
	// chunk each match both query tokens, so first-seen order holds.
	assert.Contains(t, results[0], "factory")
	assert.Contains(t, results[1], "factory")
}

func TestIndexSearch_NoTokens(t *testing.T) {
	idx := BuildIndex([]string{"Some transcript text about the old days."}, 300)

	assert.Nil(t, idx.Search("the a of", 5))
	assert.Nil(t, idx.Search("", 5))
}

func TestIndexSearch_TopKLimit(t *testing.T) {
	idx := BuildIndex([]string{
		"fishing on the river",
		"fishing with grandpa",
		"fishing before dawn",
	}, 300)

	results := idx.Search("fishing", 2)
	assert.Len(t, results, 2)
}
