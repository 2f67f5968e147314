// Package value parses CSS declaration values into a mutable node tree that
// prints back byte for byte.
package value

import "strings"

// Node is one item of a parsed value. The set of implementations is closed:
// *Word, *Space, *Comment, *String, *Div and *Function.
type Node interface {
	// String renders the node exactly as it appeared in the source
	String() string
	node()
}

// Word is any run of characters that is not whitespace, punctuation or a
// quoted string: keywords, numbers with units, hex colors, operators.
type Word struct {
	Value string
}

// Space is a run of whitespace between two other nodes
type Space struct {
	Value string
}

// Comment is a /* ... */ comment. Value excludes the delimiters.
type Comment struct {
	Value    string
	Unclosed bool
}

// String is a quoted string. Value excludes the quotes.
type String struct {
	Value    string
	Quote    byte
	Unclosed bool
}

// Div is a separator (",", "/" or ":") together with the whitespace
// immediately around it.
type Div struct {
	Value  string
	Before string
	After  string
}

// Function is a name followed by a parenthesised list of nodes. A bare
// parenthesised group has an empty Name. Before and After hold the whitespace
// just inside the parentheses.
type Function struct {
	Name     string
	Before   string
	After    string
	Nodes    []Node
	Unclosed bool
}

func (*Word) node()     {}
func (*Space) node()    {}
func (*Comment) node()  {}
func (*String) node()   {}
func (*Div) node()      {}
func (*Function) node() {}

func (n *Word) String() string  { return n.Value }
func (n *Space) String() string { return n.Value }

func (n *Comment) String() string {
	if n.Unclosed {
		return "/*" + n.Value
	}
	return "/*" + n.Value + "*/"
}

func (n *String) String() string {
	q := string(n.Quote)
	if n.Unclosed {
		return q + n.Value
	}
	return q + n.Value + q
}

func (n *Div) String() string {
	return n.Before + n.Value + n.After
}

func (n *Function) String() string {
	var b strings.Builder
	b.WriteString(n.Name)
	b.WriteByte('(')
	b.WriteString(n.Before)
	for _, child := range n.Nodes {
		b.WriteString(child.String())
	}
	b.WriteString(n.After)
	if !n.Unclosed {
		b.WriteByte(')')
	}
	return b.String()
}

// Stringify renders a list of nodes
func Stringify(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.String())
	}
	return b.String()
}

// IsSpaceOrComment reports whether n carries no value of its own
func IsSpaceOrComment(n Node) bool {
	switch n.(type) {
	case *Space, *Comment:
		return true
	}
	return false
}

// IsComma reports whether n is a "," separator
func IsComma(n Node) bool {
	d, ok := n.(*Div)
	return ok && d.Value == ","
}

// Clone returns a deep copy of n
func Clone(n Node) Node {
	switch n := n.(type) {
	case *Word:
		c := *n
		return &c
	case *Space:
		c := *n
		return &c
	case *Comment:
		c := *n
		return &c
	case *String:
		c := *n
		return &c
	case *Div:
		c := *n
		return &c
	case *Function:
		c := *n
		c.Nodes = CloneAll(n.Nodes)
		return &c
	}
	return nil
}

// CloneAll deep copies a list of nodes
func CloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}
