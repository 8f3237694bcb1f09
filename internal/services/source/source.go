package source

import (
	_ "embed"
	"strings"
)

//go:embed FlowShift_v1.0.mq5
var code string

const (
	FileName = "FlowShift_v1.0.mq5"
	Standard = "MQL5 (Strict)"
)

// LineKind is the highlight class of a source line.
type LineKind string

const (
	KindComment     LineKind = "comment"
	KindDirective   LineKind = "directive"
	KindDeclaration LineKind = "declaration"
	KindCode        LineKind = "code"
)

type Line struct {
	Number int      `json:"number"`
	Text   string   `json:"text"`
	Kind   LineKind `json:"kind"`
}

// Listing is the numbered, classified robot source.
type Listing struct {
	FileName  string `json:"fileName"`
	Standard  string `json:"standard"`
	LineCount int    `json:"lineCount"`
	Lines     []Line `json:"lines"`
}

// Code returns the Expert Advisor source text.
func Code() string { return code }

// Classify checks the raw line, indentation included, so an indented
// comment is plain code.
func Classify(line string) LineKind {
	switch {
	case strings.HasPrefix(line, "//"):
		return KindComment
	case strings.HasPrefix(line, "#"):
		return KindDirective
	case strings.Contains(line, "input"), strings.Contains(line, "double"), strings.Contains(line, "int"):
		return KindDeclaration
	default:
		return KindCode
	}
}

// NewListing numbers and classifies text from line 1.
func NewListing(text string) Listing {
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, l := range raw {
		lines[i] = Line{Number: i + 1, Text: l, Kind: Classify(l)}
	}
	return Listing{
		FileName:  FileName,
		Standard:  Standard,
		LineCount: len(lines),
		Lines:     lines,
	}
}

// Get returns the listing of the embedded robot source.
func Get() Listing { return NewListing(code) }
