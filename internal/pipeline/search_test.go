package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexSearchFindsContextBlock(t *testing.T) {
	text := "line one\nline two\nERROR here\nline four\nline five"

	result, err := RegexSearch(text, "ERROR", false, false, 1, 10)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "ERROR here")
	assert.Contains(t, result.Text, "line two")
	assert.Contains(t, result.Text, "line four")
}

func TestRegexSearchNoMatches(t *testing.T) {
	result, err := RegexSearch("nothing to see here", "ZZZ", false, false, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, result.Text)
}

func TestBM25SearchRanksRelevantChunkHigher(t *testing.T) {
	text := "Cats are small domestic animals.\n\nThe stock market fell sharply today amid inflation fears."

	result, err := BM25Search(text, "inflation market stocks", 2)
	require.NoError(t, err)
	require.NotEmpty(t, result.Text)
	assert.True(t, strings.Contains(result.Text, "stock market"))
}

func TestFuzzySearchToleratesTypos(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog."

	result, err := FuzzySearch(text, "quikc brown", 0.6, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Text)
}

func TestContextSearchReturnsEnclosingParagraph(t *testing.T) {
	text := "First paragraph about nothing interesting.\n\nSecond paragraph mentions a unicorn directly."

	result, err := ContextSearch(text, "unicorn", false, false, 5)
	require.NoError(t, err)
	assert.Contains(t, result.Text, "Second paragraph")
	assert.NotContains(t, result.Text, "First paragraph")
}
