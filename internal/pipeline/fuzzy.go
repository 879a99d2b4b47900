package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

type fuzzyHit struct {
	window string
	chunk  Chunk
	score  float64
}

// FuzzySearch slides a window the length of pattern across each paragraph
// chunk of text and scores it by normalized Levenshtein similarity,
// keeping windows at or above threshold (0..1, default 0.7).
func FuzzySearch(text, pattern string, threshold float64, maxResults int) (Result, error) {
	const op = "pipeline.FuzzySearch"

	if pattern == "" {
		return Result{}, errf(op, "pattern must not be empty")
	}
	if threshold <= 0 {
		threshold = 0.7
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	chunks := splitParagraphs(text)
	patLower := strings.ToLower(pattern)
	windowLen := len(patLower)

	var hits []fuzzyHit
	for _, c := range chunks {
		body := strings.ToLower(c.Text)
		if len(body) < windowLen {
			sim := similarity(body, patLower)
			if sim >= threshold {
				hits = append(hits, fuzzyHit{window: c.Text, chunk: c, score: sim})
			}
			continue
		}
		step := windowLen / 2
		if step < 1 {
			step = 1
		}
		for i := 0; i+windowLen <= len(body); i += step {
			window := body[i : i+windowLen]
			sim := similarity(window, patLower)
			if sim >= threshold {
				hits = append(hits, fuzzyHit{window: c.Text[i : i+windowLen], chunk: c, score: sim})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	if len(hits) == 0 {
		return TextResult("", "no matches found"), nil
	}

	var out strings.Builder
	for i, h := range hits {
		if i > 0 {
			out.WriteString("--\n")
		}
		fmt.Fprintf(&out, "[similarity %.2f] %s\n", h.score, h.chunk.Text)
	}
	return TextResult(out.String(), fmt.Sprintf("%d fuzzy match(es)", len(hits))), nil
}

// similarity returns normalized Levenshtein similarity in [0, 1]: 1 means
// identical, 0 means completely dissimilar.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	dist := levenshtein(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			curr[j] = best
		}
		prev, curr = curr, prev
	}
	return prev[n]
}
