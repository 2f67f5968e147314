// Package gradient rewrites the `transparent` color stops of CSS gradient
// functions into alpha-zero versions of their neighbouring colors.
package gradient

import (
	"strings"

	"bennypowers.dev/gtf/internal/color"
	"bennypowers.dev/gtf/internal/parser/value"
)

// Gradient is the stop list view of one gradient function node. Building a
// Gradient does not change the node; Sync writes edits back to it.
type Gradient struct {
	// Prelude holds the angle, shape, size or position arguments before the first stop
	Prelude []value.Node
	// Stops holds the color stops in rendering order
	Stops []ColorStop
	// After holds trailing whitespace and comments after the last stop
	After []value.Node

	fn    *value.Function
	dirty bool
}

// IsGradientFunction reports whether a function name is one of the
// *-gradient functions, including repeating and vendor prefixed forms. The
// legacy -webkit-gradient() syntax has no color stop list and is excluded.
func IsGradientFunction(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, "-gradient") && lower != "-webkit-gradient"
}

// New splits a gradient function node into prelude, stops and trailing nodes
func New(fn *value.Function) *Gradient {
	g := &Gradient{fn: fn}
	inPrelude := startsWithPrelude(fn.Nodes)

	var pending []value.Node
	stop := newStop(nil)

	for _, n := range fn.Nodes {
		switch {
		case value.IsSpaceOrComment(n):
			pending = append(pending, n)

		case value.IsComma(n):
			if inPrelude {
				g.Prelude = append(g.Prelude, pending...)
				pending = nil
				inPrelude = false
			}
			var before []value.Node
			if stop.Color != nil {
				g.Stops = append(g.Stops, stop)
			} else {
				// an empty entry such as `red, , blue` keeps its nodes
				before = append(before, stop.Before...)
			}
			before = append(before, pending...)
			stop = newStop(append(before, n))
			pending = nil

		case inPrelude:
			g.Prelude = append(g.Prelude, pending...)
			g.Prelude = append(g.Prelude, n)
			pending = nil

		case stop.Color == nil:
			stop.Before = append(stop.Before, pending...)
			stop.Color = n
			pending = nil

		case stop.Position == nil:
			stop.Separator = append(stop.Separator, pending...)
			stop.Position = n
			stop.derivePosition()
			pending = nil

		default:
			stop.Extra = append(stop.Extra, pending...)
			stop.Extra = append(stop.Extra, n)
			stop.derivePosition()
			pending = nil
		}
	}

	if stop.Color != nil {
		g.Stops = append(g.Stops, stop)
	} else {
		g.After = append(g.After, stop.Before...)
	}
	g.After = append(g.After, pending...)
	return g
}

// startsWithPrelude reports whether the first argument configures geometry
// rather than being a color: angles, `to right`, shapes and `at` positions
// never parse as colors
func startsWithPrelude(nodes []value.Node) bool {
	for _, n := range nodes {
		if value.IsSpaceOrComment(n) {
			continue
		}
		if value.IsComma(n) {
			return false
		}
		_, err := color.Parse(n.String())
		return err != nil
	}
	return false
}

// Function returns the node the gradient was built from
func (g *Gradient) Function() *value.Function {
	return g.fn
}

// Nodes returns the gradient's arguments rebuilt from its current stop list
func (g *Gradient) Nodes() []value.Node {
	nodes := make([]value.Node, 0, len(g.fn.Nodes)+len(g.Stops))
	nodes = append(nodes, g.Prelude...)
	for i := range g.Stops {
		nodes = append(nodes, g.Stops[i].Nodes()...)
	}
	return append(nodes, g.After...)
}

func (g *Gradient) markDirty(resync bool) {
	if resync {
		g.dirty = true
	}
}

// Sync writes the stop list back to the function node if any stop changed shape
func (g *Gradient) Sync() {
	if !g.dirty {
		return
	}
	g.fn.Nodes = g.Nodes()
	g.dirty = false
}

// colorIndexes returns the indexes of stops that carry a color, skipping
// interpolation hints
func (g *Gradient) colorIndexes() []int {
	indexes := make([]int, 0, len(g.Stops))
	for i := range g.Stops {
		if !g.Stops[i].IsHint() {
			indexes = append(indexes, i)
		}
	}
	return indexes
}

// Warnings returns the pending warnings of all stops in document order
func (g *Gradient) Warnings() []Warning {
	var warnings []Warning
	for i := range g.Stops {
		if w := g.Stops[i].Warning; w != "" {
			warnings = append(warnings, Warning{Message: w, Stop: g.Stops[i].String()})
		}
	}
	return warnings
}

// Fix infers missing positions, resolves every transparent stop and writes
// the result back to the function node
func (g *Gradient) Fix() []Warning {
	InferPositions(g.Stops)
	g.Resolve()
	g.Sync()
	return g.Warnings()
}
