package pipeline

import (
	"regexp"
	"strings"
)

// Chunk is one paragraph-sized span of text, tracked with its byte offsets
// in the original text. The search processors read only Text.
type Chunk struct {
	Text  string
	Start int
	End   int
}

var sentenceSplitter = regexp.MustCompile(`[.!?]+\s+`)

// splitParagraphs breaks text into chunks for BM25 scoring, fuzzy
// matching, and context extraction: paragraphs separated by a blank line,
// falling back to sentence splitting for single-paragraph text so a
// giant unbroken blob still yields usable granularity.
func splitParagraphs(text string) []Chunk {
	var chunks []Chunk
	offset := 0
	for _, para := range strings.Split(text, "\n\n") {
		start := strings.Index(text[offset:], para) + offset
		end := start + len(para)
		offset = end
		trimmed := strings.TrimSpace(para)
		if trimmed == "" {
			continue
		}
		chunks = append(chunks, Chunk{Text: trimmed, Start: start, End: end})
	}

	if len(chunks) > 1 {
		return chunks
	}

	// Single paragraph (or none): fall back to sentence-level chunks so
	// search still has something finer-grained than "the whole document".
	sentences := sentenceSplitter.Split(text, -1)
	if len(sentences) <= 1 {
		return chunks
	}
	var out []Chunk
	offset = 0
	for _, s := range sentences {
		start := strings.Index(text[offset:], s) + offset
		end := start + len(s)
		offset = end
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		out = append(out, Chunk{Text: trimmed, Start: start, End: end})
	}
	return out
}

var wordPattern = regexp.MustCompile(`\w+`)

func tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}
