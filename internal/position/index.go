package position

import (
	"fmt"
	"sort"
	"strings"
)

// Position is a zero-based line and UTF-16 character offset, as used by LSP
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open span between two positions
type Range struct {
	Start Position
	End   Position
}

// Index maps byte offsets of a document to line/character positions
type Index struct {
	content    string
	lineStarts []int
}

// NewIndex records the line starts of content
func NewIndex(content string) *Index {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{content: content, lineStarts: starts}
}

// Position converts a byte offset to a line and UTF-16 character position.
// Offsets past the end of the content are clamped.
func (x *Index) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(x.content) {
		offset = len(x.content)
	}
	line := sort.SearchInts(x.lineStarts, offset+1) - 1
	start := x.lineStarts[line]
	end := len(x.content)
	if line+1 < len(x.lineStarts) {
		end = x.lineStarts[line+1]
	}
	lineText := strings.TrimRight(x.content[start:end], "\r\n")
	return Position{
		Line:      uint32(line),                                      //nolint:gosec // G115: line count is bounded by file size
		Character: uint32(ByteOffsetToUTF16(lineText, offset-start)), //nolint:gosec // G115: bounded by line length
	}
}

// Offset converts a line and UTF-16 character position to a byte offset.
// Characters past the end of a line clamp to the line end. The line one past
// the last is accepted only at character 0, meaning end of content.
func (x *Index) Offset(p Position) (int, error) {
	line := int(p.Line)
	switch {
	case line < len(x.lineStarts):
	case line == len(x.lineStarts) && p.Character == 0:
		return len(x.content), nil
	default:
		return 0, fmt.Errorf("line %d out of bounds (total lines: %d)", p.Line, len(x.lineStarts))
	}
	start := x.lineStarts[line]
	end := len(x.content)
	if line+1 < len(x.lineStarts) {
		end = x.lineStarts[line+1] - 1
	}
	return start + UTF16ToByteOffset(x.content[start:end], int(p.Character)), nil
}

// Range converts a byte span to a Range
func (x *Index) Range(start, end int) Range {
	return Range{Start: x.Position(start), End: x.Position(end)}
}
