// Package fixer applies the gradient transparency fix to CSS declarations.
package fixer

import (
	"fmt"
	"regexp"
	"strings"

	"bennypowers.dev/gtf/internal/gradient"
	"bennypowers.dev/gtf/internal/parser/value"
)

// DefaultProperties matches `background`, `background-image` and every other
// `*-image` property, such as `border-image` or `mask-image`
const DefaultProperties = `(^background|-image)$`

var transparentPattern = regexp.MustCompile(`(?i)\btransparent\b`)

// Result is the outcome of fixing one declaration value
type Result struct {
	// Value is the fixed value, or the input unchanged
	Value string
	// Changed reports whether Value differs from the input
	Changed bool
	// Gradients is the number of gradient functions visited
	Gradients int
	// Warnings lists the problems found, in document order
	Warnings []gradient.Warning
}

// Fixer rewrites the values of declarations whose property matches its pattern.
// A Fixer holds no per-declaration state and is safe for concurrent use.
type Fixer struct {
	properties *regexp.Regexp
}

// New returns a Fixer for properties matching pattern, compared against the
// lower-cased property name. An empty pattern selects DefaultProperties.
func New(pattern string) (*Fixer, error) {
	if pattern == "" {
		pattern = DefaultProperties
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid property pattern %q: %w", pattern, err)
	}
	return &Fixer{properties: re}, nil
}

// Default returns a Fixer using DefaultProperties
func Default() *Fixer {
	return &Fixer{properties: regexp.MustCompile(DefaultProperties)}
}

// Pattern returns the property pattern in use
func (f *Fixer) Pattern() string {
	return f.properties.String()
}

// Eligible reports whether declarations of property are scanned at all
func (f *Fixer) Eligible(property string) bool {
	return f.properties.MatchString(strings.ToLower(strings.TrimSpace(property)))
}

// Triggered reports whether a value may hold a gradient with a transparent stop
func Triggered(v string) bool {
	return strings.Contains(strings.ToLower(v), "-gradient") && transparentPattern.MatchString(v)
}

// FixDeclaration fixes the value of one declaration. Values of other
// properties, and values without a gradient and a `transparent` keyword, come
// back untouched.
func (f *Fixer) FixDeclaration(property, v string) Result {
	if !f.Eligible(property) {
		return Result{Value: v}
	}
	return FixValue(v)
}

// FixValue fixes every gradient function in a value, including gradients
// nested in other functions
func FixValue(v string) Result {
	result := Result{Value: v}
	if !Triggered(v) {
		return result
	}

	nodes := value.Parse(v)
	value.Walk(nodes, func(n value.Node) bool {
		fn, ok := n.(*value.Function)
		if !ok || !gradient.IsGradientFunction(fn.Name) {
			return true
		}
		result.Gradients++
		result.Warnings = append(result.Warnings, gradient.New(fn).Fix()...)
		return false
	})

	result.Value = value.Stringify(nodes)
	result.Changed = result.Value != v
	return result
}
