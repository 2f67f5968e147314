package gradient

import (
	"slices"

	"bennypowers.dev/gtf/internal/color"
)

// insertion is a stop queued to be placed directly after Stops[after]
type insertion struct {
	after int
	stop  ColorStop
}

// Resolve replaces every `transparent` stop with alpha-zero versions of its
// neighbours. A stop between two different opaque colors is split into two
// stops at the same position so neither side of the transition fades
// through grey.
//
// Edits happen in two phases: a walk over the color stops updates values in
// place and queues new stops, then the queued stops are inserted from the
// highest index down so earlier indexes stay valid.
func (g *Gradient) Resolve() {
	indexes := g.colorIndexes()
	if len(indexes) < 2 {
		return
	}

	var queued []insertion
	for k, i := range indexes {
		s := &g.Stops[i]
		if !s.IsTransparentKeyword() {
			continue
		}
		switch k {
		case 0:
			g.resolveEdge(s, &g.Stops[indexes[k+1]])
		case len(indexes) - 1:
			g.resolveEdge(s, &g.Stops[indexes[k-1]])
		default:
			if ins, ok := g.resolveInterior(i, &g.Stops[indexes[k-1]], &g.Stops[indexes[k+1]]); ok {
				queued = append(queued, ins)
			}
		}
	}

	slices.SortFunc(queued, func(a, b insertion) int { return b.after - a.after })
	for _, ins := range queued {
		g.Stops = slices.Insert(g.Stops, ins.after+1, ins.stop)
		g.dirty = true
	}
}

// resolveEdge fades a first or last stop into its only neighbour
func (g *Gradient) resolveEdge(s, neighbour *ColorStop) {
	c, err := neighbour.parseColor()
	if err != nil {
		s.Warning = WarningInvalidColor
		return
	}
	s.Warning = ""
	g.markDirty(s.SetColor(c.Transparent()))
}

func (g *Gradient) resolveInterior(i int, prev, next *ColorStop) (insertion, bool) {
	s := &g.Stops[i]

	prevColor, err := prev.parseColor()
	if err != nil {
		s.Warning = WarningInvalidColor
		return insertion{}, false
	}
	nextColor, err := next.parseColor()
	if err != nil {
		s.Warning = WarningInvalidColor
		return insertion{}, false
	}

	sameColors := prevColor.CanonicalTransparent() == nextColor.CanonicalTransparent()
	consecutive := prevColor.IsFullyTransparent() || nextColor.IsFullyTransparent()
	needsExtraStop := !sameColors && !consecutive

	if needsExtraStop && !s.HasPosition() {
		n, ok := s.PositionNumber()
		if !ok {
			if s.Warning == "" {
				s.Warning = WarningStopPosition
			}
			return insertion{}, false
		}
		g.markDirty(s.SetPosition(formatPosition(n, s.PositionUnit())))
	}

	g.markDirty(s.SetColor(pick(prevColor, nextColor, needsExtraStop)))
	s.Warning = ""

	if !needsExtraStop {
		return insertion{}, false
	}
	extra := s.clone()
	extra.SetColor(nextColor.Transparent())
	return insertion{after: i, stop: extra}, true
}

// pick chooses the alpha-zero color for a stop that is not split: the previous
// color, unless that one is already fully transparent
func pick(prev, next color.Color, split bool) string {
	if !split && prev.IsFullyTransparent() {
		return next.Transparent()
	}
	return prev.Transparent()
}
