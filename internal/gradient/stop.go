package gradient

import (
	"strings"

	"bennypowers.dev/gtf/internal/collections"
	"bennypowers.dev/gtf/internal/color"
	"bennypowers.dev/gtf/internal/parser/value"
)

const (
	keywordTransparent = "transparent"

	// calcUnit marks a position given as an expression instead of a dimension
	calcUnit = "calc"
)

// functions whose result is a length rather than a color
var mathFunctions = collections.NewSet("calc", "min", "max", "clamp")

// ColorStop is one comma separated entry of a gradient. It owns the nodes it
// was built from so the gradient can be printed back from its stop list.
type ColorStop struct {
	// Before holds the leading comma and any whitespace or comments before the color
	Before []value.Node
	// Color is the color node. It is never nil for a stop in Gradient.Stops.
	Color value.Node
	// Separator holds whitespace or comments between the color and the position
	Separator []value.Node
	// Position is the position node, nil when the stop has none
	Position value.Node
	// Extra holds anything after the position, such as the second position of
	// a double-position stop, verbatim
	Extra []value.Node
	// Warning is the pending diagnostic for this stop, if any
	Warning string

	number  float64
	unit    string
	numeric bool

	// last position of a double-position stop, equal to the first otherwise
	lastNumber  float64
	lastUnit    string
	lastNumeric bool
}

func newStop(before []value.Node) ColorStop {
	return ColorStop{Before: before}
}

// HasPosition reports whether the stop was written with a position
func (s *ColorStop) HasPosition() bool {
	return s.Position != nil
}

// PositionNumber returns the numeric position, either parsed from the
// position node or inferred from the neighbouring stops
func (s *ColorStop) PositionNumber() (float64, bool) {
	return s.number, s.numeric
}

// PositionUnit returns the unit of the position, "calc" for an expression,
// or "" when there is no position
func (s *ColorStop) PositionUnit() string {
	return s.unit
}

// LastPositionNumber returns the position the stop ends at: the second
// position of a double-position stop such as `red 10% 20%`, or the same value
// as PositionNumber
func (s *ColorStop) LastPositionNumber() (float64, bool) {
	return s.lastNumber, s.lastNumeric
}

// LastPositionUnit returns the unit of LastPositionNumber
func (s *ColorStop) LastPositionUnit() string {
	return s.lastUnit
}

func (s *ColorStop) derivePosition() {
	s.number, s.unit, s.numeric = parsePosition(s.Position)
	s.lastNumber, s.lastUnit, s.lastNumeric = s.number, s.unit, s.numeric
	for _, n := range s.Extra {
		if value.IsSpaceOrComment(n) {
			continue
		}
		s.lastNumber, s.lastUnit, s.lastNumeric = parsePosition(n)
	}
}

func parsePosition(n value.Node) (number float64, unit string, numeric bool) {
	switch pos := n.(type) {
	case *value.Function:
		return 0, calcUnit, false
	case *value.Word:
		if number, unit, ok := value.Unit(pos.Value); ok {
			return number, unit, true
		}
	}
	return 0, "", false
}

func (s *ColorStop) setInferred(number float64, unit string) {
	s.number, s.unit, s.numeric = number, unit, true
	s.lastNumber, s.lastUnit, s.lastNumeric = number, unit, true
}

// ColorText returns the source text of the color
func (s *ColorStop) ColorText() string {
	if s.Color == nil {
		return ""
	}
	return s.Color.String()
}

// IsTransparentKeyword reports whether the color is literally `transparent`
func (s *ColorStop) IsTransparentKeyword() bool {
	w, ok := s.Color.(*value.Word)
	return ok && strings.EqualFold(w.Value, keywordTransparent)
}

// IsHint reports whether the stop is a color interpolation hint such as the
// "30%" in `red, 30%, blue`
func (s *ColorStop) IsHint() bool {
	switch c := s.Color.(type) {
	case *value.Word:
		_, _, ok := value.Unit(c.Value)
		return ok
	case *value.Function:
		return mathFunctions.Has(strings.ToLower(c.Name))
	}
	return false
}

func (s *ColorStop) parseColor() (color.Color, error) {
	return color.Parse(s.ColorText())
}

// SetColor replaces the color text. It reports whether the stop's node list
// changed shape and the owning gradient has to be re-synced.
func (s *ColorStop) SetColor(text string) (resync bool) {
	if w, ok := s.Color.(*value.Word); ok {
		w.Value = text
		return false
	}
	s.Color = &value.Word{Value: text}
	return true
}

// SetPosition replaces the position text, creating the position node and a
// separating space when the stop had none. It reports whether the owning
// gradient has to be re-synced.
func (s *ColorStop) SetPosition(text string) (resync bool) {
	defer s.derivePosition()
	if w, ok := s.Position.(*value.Word); ok {
		w.Value = text
		return false
	}
	s.Position = &value.Word{Value: text}
	if len(s.Separator) == 0 {
		s.Separator = []value.Node{&value.Space{Value: " "}}
	}
	return true
}

// clone deep copies the stop for insertion directly after it
func (s *ColorStop) clone() ColorStop {
	c := *s
	c.Before = []value.Node{&value.Div{Value: ",", After: commaSpacing(s.Before)}}
	c.Separator = value.CloneAll(s.Separator)
	c.Extra = value.CloneAll(s.Extra)
	c.Warning = ""
	if s.Color != nil {
		c.Color = value.Clone(s.Color)
	}
	if s.Position != nil {
		c.Position = value.Clone(s.Position)
	}
	return c
}

// commaSpacing returns the whitespace to write after a comma inserted next to
// a stop: none when the stop's own comma has none, the same line break and
// indentation when it starts a new line, otherwise one space
func commaSpacing(before []value.Node) string {
	for _, n := range before {
		d, ok := n.(*value.Div)
		if !ok || d.Value != "," {
			continue
		}
		switch {
		case d.After == "":
			return ""
		case strings.Contains(d.After, "\n"):
			return d.After
		}
		return " "
	}
	return " "
}

// Nodes returns the stop's nodes in source order
func (s *ColorStop) Nodes() []value.Node {
	nodes := make([]value.Node, 0, len(s.Before)+len(s.Separator)+len(s.Extra)+2)
	nodes = append(nodes, s.Before...)
	if s.Color != nil {
		nodes = append(nodes, s.Color)
	}
	nodes = append(nodes, s.Separator...)
	if s.Position != nil {
		nodes = append(nodes, s.Position)
	}
	return append(nodes, s.Extra...)
}

// String returns the stop's text without its leading comma
func (s *ColorStop) String() string {
	text := s.ColorText()
	if s.Position != nil {
		text += " " + s.Position.String()
	}
	return text
}
