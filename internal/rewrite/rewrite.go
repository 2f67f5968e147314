// Package rewrite applies the gradient fix to whole documents: stylesheets,
// HTML files and JS/TS modules with css or html tagged templates.
package rewrite

import (
	"fmt"
	"strings"

	"bennypowers.dev/gtf/internal/fixer"
	"bennypowers.dev/gtf/internal/gradient"
	"bennypowers.dev/gtf/internal/parser"
	"bennypowers.dev/gtf/internal/position"
)

// Diagnostic codes
const (
	CodeTransparentGradient = "transparent-gradient"
	CodeStopPosition        = "stop-position"
	CodeInvalidColor        = "invalid-color"
)

// MessageTransparentGradient is reported for every declaration the fix changes
const MessageTransparentGradient = "`transparent` in a gradient fades through transparent black. Use an alpha-zero version of the neighbouring color."

// Edit replaces the value of one declaration
type Edit struct {
	Property string
	// Start and End are byte offsets of the value in the original content
	Start   int
	End     int
	Range   position.Range
	OldText string
	NewText string
}

// Diagnostic is a positioned finding for one declaration
type Diagnostic struct {
	Code     string
	Message  string
	Property string
	Start    int
	End      int
	Range    position.Range
	// Edit is the fix for a CodeTransparentGradient diagnostic
	Edit *Edit
}

// Result is the outcome of rewriting one document
type Result struct {
	// Content is the fixed document
	Content     string
	Edits       []Edit
	Diagnostics []Diagnostic
}

// Changed reports whether any declaration was rewritten
func (r *Result) Changed() bool {
	return len(r.Edits) > 0
}

// Rewriter fixes the eligible declarations of documents
type Rewriter struct {
	fixer *fixer.Fixer
}

// New returns a Rewriter for the declarations f accepts
func New(f *fixer.Fixer) *Rewriter {
	if f == nil {
		f = fixer.Default()
	}
	return &Rewriter{fixer: f}
}

// Rewrite fixes every eligible declaration of a document. Unsupported
// languages come back unchanged.
func (rw *Rewriter) Rewrite(content, languageID string) (*Result, error) {
	result := &Result{Content: content}

	parsed, err := parser.ParseDeclarations(content, languageID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s document: %w", languageID, err)
	}
	if parsed == nil {
		return result, nil
	}

	index := position.NewIndex(content)
	for _, decl := range parsed.Declarations {
		if !rw.fixer.Eligible(decl.Property) {
			continue
		}
		start, end := int(decl.Start), int(decl.End) //nolint:gosec // G115: offsets are bounded by the source length
		fixed := rw.fixer.FixDeclaration(decl.Property, decl.Value)
		rng := index.Range(start, end)

		for _, w := range fixed.Warnings {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Code:     codeFor(w),
				Message:  w.Message,
				Property: decl.Property,
				Start:    start,
				End:      end,
				Range:    rng,
			})
		}

		if !fixed.Changed {
			continue
		}
		edit := Edit{
			Property: decl.Property,
			Start:    start,
			End:      end,
			Range:    rng,
			OldText:  decl.Value,
			NewText:  fixed.Value,
		}
		result.Edits = append(result.Edits, edit)
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Code:     CodeTransparentGradient,
			Message:  MessageTransparentGradient,
			Property: decl.Property,
			Start:    start,
			End:      end,
			Range:    rng,
			Edit:     &edit,
		})
	}

	result.Content = Apply(content, result.Edits)
	return result, nil
}

// Apply replaces the spans of non-overlapping edits sorted by offset
func Apply(content string, edits []Edit) string {
	if len(edits) == 0 {
		return content
	}
	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, e := range edits {
		if e.Start < last || e.End > len(content) {
			continue
		}
		b.WriteString(content[last:e.Start])
		b.WriteString(e.NewText)
		last = e.End
	}
	b.WriteString(content[last:])
	return b.String()
}

func codeFor(w gradient.Warning) string {
	if w.Message == gradient.WarningInvalidColor {
		return CodeInvalidColor
	}
	return CodeStopPosition
}
