package value

import (
	"regexp"
	"strconv"
	"strings"
)

var dimensionPattern = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)([a-zA-Z%]*)$`)

// Unit splits a numeric word like "30%" or "2.5em" into its number and its
// lower-cased unit. ok is false for anything that is not a plain dimension.
func Unit(word string) (number float64, unit string, ok bool) {
	m := dimensionPattern.FindStringSubmatch(word)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return n, strings.ToLower(m[2]), true
}
