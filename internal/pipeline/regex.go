package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// patternCache bounds the number of compiled regular expressions kept
// around across repeated proxy_search calls, so a caller hammering the
// same pattern (or a small rotating set of them) doesn't recompile it
// every time. Eviction is plain recency-based, which is fine here: unlike
// the response cache, a missed entry just costs a recompile, not a
// correctness problem.
var patternCache, _ = lru.New[string, *regexp.Regexp](256)

func compilePattern(pattern string, caseInsensitive, multiline bool) (*regexp.Regexp, error) {
	key := fmt.Sprintf("%t|%t|%s", caseInsensitive, multiline, pattern)
	if re, ok := patternCache.Get(key); ok {
		return re, nil
	}

	var flags string
	if caseInsensitive {
		flags += "i"
	}
	if multiline {
		flags += "m"
	}
	expr := pattern
	if flags != "" {
		expr = "(?" + flags + ")" + pattern
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patternCache.Add(key, re)
	return re, nil
}

// RegexSearch finds lines matching pattern in text and renders them with
// contextLines of surrounding context, blocks separated by "--" the way
// grep -C does. Overlapping context windows are merged into one block.
func RegexSearch(text, pattern string, caseInsensitive, multiline bool, contextLines, maxResults int) (Result, error) {
	const op = "pipeline.RegexSearch"

	re, err := compilePattern(pattern, caseInsensitive, multiline)
	if err != nil {
		return Result{}, errf(op, "invalid pattern: %v", err)
	}
	if contextLines < 0 {
		contextLines = 0
	}
	if maxResults <= 0 {
		maxResults = 100
	}

	lines := strings.Split(text, "\n")

	type match struct{ line int }
	var matches []match
	for i, line := range lines {
		if re.MatchString(line) {
			matches = append(matches, match{line: i})
			if len(matches) >= maxResults {
				break
			}
		}
	}

	if len(matches) == 0 {
		return TextResult("", "no matches found"), nil
	}

	type block struct{ start, end int }
	var blocks []block
	for _, m := range matches {
		start := m.line - contextLines
		if start < 0 {
			start = 0
		}
		end := m.line + contextLines
		if end >= len(lines) {
			end = len(lines) - 1
		}
		if len(blocks) > 0 && start <= blocks[len(blocks)-1].end+1 {
			if end > blocks[len(blocks)-1].end {
				blocks[len(blocks)-1].end = end
			}
			continue
		}
		blocks = append(blocks, block{start: start, end: end})
	}

	var out strings.Builder
	for i, b := range blocks {
		if i > 0 {
			out.WriteString("--\n")
		}
		for ln := b.start; ln <= b.end; ln++ {
			out.WriteString(lines[ln])
			out.WriteByte('\n')
		}
	}

	return TextResult(out.String(), fmt.Sprintf("%d match(es) in %d block(s)", len(matches), len(blocks))), nil
}
