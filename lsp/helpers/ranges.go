package helpers

import (
	"bennypowers.dev/gtf/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// RangesIntersect checks if two LSP ranges intersect. Ranges are half-open
// intervals [start, end), so adjacent ranges do not intersect.
func RangesIntersect(a, b protocol.Range) bool {
	return before(a.Start, b.End) && before(b.Start, a.End)
}

// Touches reports whether a requested range applies to target. An empty
// request range, as sent for a bare cursor, touches target when it lies
// anywhere within it, both ends included.
func Touches(request, target protocol.Range) bool {
	if request.Start == request.End {
		return !before(request.Start, target.Start) && !before(target.End, request.Start)
	}
	return RangesIntersect(request, target)
}

// ToProtocolRange converts a document range to its LSP form
func ToProtocolRange(r position.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: r.Start.Line, Character: r.Start.Character},
		End:   protocol.Position{Line: r.End.Line, Character: r.End.Character},
	}
}

func before(a, b protocol.Position) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Character < b.Character)
}
