// Package pipeline implements the processors that back the proxy's
// drill-down tools: projection, regex/BM25/fuzzy search, context
// extraction, and structure exploration, plus the small dispatcher that
// picks one by name.
package pipeline

import (
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/jsonvalue"
	"github.com/pratikjadhav2726/mcp-rlm-proxy/internal/perr"
)

// Result is what every processor produces: either structured JSON (Value
// set) or plain text (Text set), plus a human-readable summary of what was
// done, suitable for surfacing to the calling model alongside the payload.
//
// Applied, OriginalSize, ProcessedSize, and Metadata mirror the pipeline
// contract's ProcessorResult: Applied is false only when a processor's
// parameters didn't apply to the content and it was passed through
// unchanged (e.g. non-JSON content reaching the projection processor).
// Metadata is set only by PassthroughResult. OriginalSize and
// ProcessedSize are left zero: processors here work over either a parsed
// Value or raw text, not a single common byte length, and the frontend
// computes the before/after sizes for a debug log line without storing
// them in the Result.
type Result struct {
	Value   jsonvalue.Value
	Text    string
	IsText  bool
	Summary string

	Applied       bool
	OriginalSize  int
	ProcessedSize int
	Metadata      map[string]any
}

// TextResult wraps plain text produced by a text-oriented processor (regex,
// BM25, fuzzy, context).
func TextResult(text, summary string) Result {
	return Result{Text: text, IsText: true, Summary: summary, Applied: true}
}

// ValueResult wraps a structured Value produced by projection or structure
// exploration.
func ValueResult(v jsonvalue.Value, summary string) Result {
	return Result{Value: v, Summary: summary, Applied: true}
}

// PassthroughResult wraps content a processor declined to touch because
// its parameters didn't apply, per the pipeline contract's `applied=false`
// case (e.g. proxy_filter given non-JSON content).
func PassthroughResult(raw, note string) Result {
	return Result{
		Text:     raw,
		IsText:   true,
		Summary:  note,
		Applied:  false,
		Metadata: map[string]any{"note": note},
	}
}

// Source is the raw cached content a processor runs over: the original
// bytes plus a best-effort parse as a Value when the content is JSON.
type Source struct {
	Raw    string
	Parsed jsonvalue.Value
	IsJSON bool
}

// NewSource builds a Source from raw cached text, attempting a JSON parse.
func NewSource(raw string) Source {
	v, err := jsonvalue.Parse([]byte(raw))
	if err != nil {
		return Source{Raw: raw}
	}
	return Source{Raw: raw, Parsed: v, IsJSON: true}
}

// errf is a small helper shared by the processor files for building
// perr.ProcessorError values.
func errf(op, format string, args ...any) error {
	return perr.Newf(perr.ProcessorError, op, format, args...)
}
