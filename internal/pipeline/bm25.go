package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

type scoredChunk struct {
	chunk Chunk
	score float64
}

// BM25Search ranks the paragraph chunks of text against pattern (treated
// as a bag of query terms, not a regular expression) and returns the
// top_k highest scoring chunks, highest first.
func BM25Search(text, pattern string, topK int) (Result, error) {
	const op = "pipeline.BM25Search"

	if strings.TrimSpace(pattern) == "" {
		return Result{}, errf(op, "pattern must not be empty")
	}
	if topK <= 0 {
		topK = 5
	}

	chunks := splitParagraphs(text)
	if len(chunks) == 0 {
		return TextResult("", "no content to search"), nil
	}

	docTokens := make([][]string, len(chunks))
	docFreq := make(map[string]int)
	totalLen := 0
	for i, c := range chunks {
		toks := tokenize(c.Text)
		docTokens[i] = toks
		totalLen += len(toks)
		seen := make(map[string]bool)
		for _, t := range toks {
			if !seen[t] {
				docFreq[t]++
				seen[t] = true
			}
		}
	}
	avgLen := float64(totalLen) / float64(len(chunks))

	queryTerms := tokenize(pattern)
	if len(queryTerms) == 0 {
		return TextResult("", "no content to search"), nil
	}

	n := float64(len(chunks))
	scored := make([]scoredChunk, 0, len(chunks))
	for i, toks := range docTokens {
		termCount := make(map[string]int)
		for _, t := range toks {
			termCount[t]++
		}
		score := 0.0
		dl := float64(len(toks))
		for _, q := range queryTerms {
			tf := float64(termCount[q])
			if tf == 0 {
				continue
			}
			df := float64(docFreq[q])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			num := tf * (bm25K1 + 1)
			den := tf + bm25K1*(1-bm25B+bm25B*dl/avgLen)
			score += idf * num / den
		}
		if score > 0 {
			scored = append(scored, scoredChunk{chunk: chunks[i], score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > topK {
		scored = scored[:topK]
	}

	if len(scored) == 0 {
		return TextResult("", "no matches found"), nil
	}

	var out strings.Builder
	for i, s := range scored {
		if i > 0 {
			out.WriteString("--\n")
		}
		fmt.Fprintf(&out, "[score %.3f] %s\n", s.score, s.chunk.Text)
	}

	return TextResult(out.String(), fmt.Sprintf("%d chunk(s) ranked", len(scored))), nil
}
