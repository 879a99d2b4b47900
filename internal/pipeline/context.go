package pipeline

import (
	"fmt"
	"strings"
)

// ContextSearch returns the full enclosing paragraph for every chunk that
// contains a match of pattern, the paragraph-level equivalent of regex
// mode's line-based context window. Text with a single paragraph is
// chunked by sentence (see splitParagraphs), so there the matching
// sentence is returned rather than the whole paragraph; context_lines is
// not used.
func ContextSearch(text, pattern string, caseInsensitive, multiline bool, maxResults int) (Result, error) {
	const op = "pipeline.ContextSearch"

	re, err := compilePattern(pattern, caseInsensitive, multiline)
	if err != nil {
		return Result{}, errf(op, "invalid pattern: %v", err)
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	chunks := splitParagraphs(text)
	var matched []Chunk
	for _, c := range chunks {
		if re.MatchString(c.Text) {
			matched = append(matched, c)
			if len(matched) >= maxResults {
				break
			}
		}
	}

	if len(matched) == 0 {
		return TextResult("", "no matches found"), nil
	}

	var out strings.Builder
	for i, c := range matched {
		if i > 0 {
			out.WriteString("--\n")
		}
		out.WriteString(c.Text)
		out.WriteByte('\n')
	}
	return TextResult(out.String(), fmt.Sprintf("%d paragraph(s) matched", len(matched))), nil
}
