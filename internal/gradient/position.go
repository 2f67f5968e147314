package gradient

import (
	"math"
	"strconv"
)

const (
	defaultUnit  = "%"
	defaultStart = 0.0
	defaultEnd   = 100.0
)

// bound is the positioned stop that closes a run of positionless stops
type bound struct {
	number float64
	unit   string
	ok     bool
	real   bool
}

// startBound is where a run after s begins: the last position of s
func startBound(s *ColorStop) bound {
	n, ok := s.LastPositionNumber()
	return bound{number: n, unit: s.LastPositionUnit(), ok: ok, real: true}
}

// endBound is where a run before s ends: the first position of s
func endBound(s *ColorStop) bound {
	n, ok := s.PositionNumber()
	return bound{number: n, unit: s.PositionUnit(), ok: ok, real: true}
}

// InferPositions computes evenly spaced positions for runs of stops written
// without one, the way browsers place them. Values are kept on the stops and
// only rendered when a transparent stop has to be split. When a run is bounded
// by a calc() position or by stops in different units, every transparent
// stop in the run is flagged with WarningStopPosition instead.
func InferPositions(stops []ColorStop) {
	indexes := make([]int, 0, len(stops))
	for i := range stops {
		if !stops[i].IsHint() {
			indexes = append(indexes, i)
		}
	}

	for k := 0; k < len(indexes); {
		if stops[indexes[k]].HasPosition() {
			k++
			continue
		}
		end := k
		for end < len(indexes) && !stops[indexes[end]].HasPosition() {
			end++
		}
		run := indexes[k:end]

		start := bound{number: defaultStart, unit: defaultUnit, ok: true}
		if k > 0 {
			start = startBound(&stops[indexes[k-1]])
		}
		stop := bound{number: defaultEnd, unit: defaultUnit, ok: true}
		if end < len(indexes) {
			stop = endBound(&stops[indexes[end]])
		}

		values, ok := interpolate(start, stop, len(run))
		for j, i := range run {
			if ok {
				stops[i].setInferred(values[j], start.unit)
			} else if stops[i].IsTransparentKeyword() {
				stops[i].Warning = WarningStopPosition
			}
		}
		k = end
	}
}

// interpolate spreads n positions evenly between two bounds. Real bounds take
// a slot of their own, which is then dropped from the result.
func interpolate(start, end bound, n int) ([]float64, bool) {
	if !start.ok || !end.ok || start.unit != end.unit {
		return nil, false
	}

	count := n
	offset := 0
	if start.real {
		count++
		offset = 1
	}
	if end.real {
		count++
	}

	step := 0.0
	if count > 1 {
		step = (end.number - start.number) / float64(count-1)
	}
	values := make([]float64, n)
	for j := range values {
		values[j] = start.number + float64(j+offset)*step
	}
	return values, true
}

// formatPosition renders an inferred position, rounded to two decimals
func formatPosition(number float64, unit string) string {
	rounded := math.Round(number*100) / 100
	if rounded == 0 {
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64) + unit
}
