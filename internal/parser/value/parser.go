package value

import "strings"

type parser struct {
	src   string
	pos   int
	root  []Node
	stack []*Function
}

// Parse splits a declaration value into nodes. It never fails: unbalanced
// parentheses, strings and comments are marked Unclosed so that Stringify
// still reproduces the input exactly.
func Parse(src string) []Node {
	p := &parser{src: src}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case isSpace(c):
			p.readSpace()
		case c == '\'' || c == '"':
			p.readString(c)
		case c == '/' && p.peek(1) == '*':
			p.readComment()
		case isDiv(c):
			p.readDiv()
		case c == '(':
			p.pos++
			p.openFunction("")
		case c == ')':
			p.closeFunction()
		default:
			p.readWord()
		}
	}
	for _, fn := range p.stack {
		fn.Unclosed = true
	}
	return p.root
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDiv(c byte) bool {
	return c == ',' || c == '/' || c == ':'
}

func (p *parser) peek(offset int) byte {
	if p.pos+offset < len(p.src) {
		return p.src[p.pos+offset]
	}
	return 0
}

func (p *parser) current() *Function {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) nodes() []Node {
	if fn := p.current(); fn != nil {
		return fn.Nodes
	}
	return p.root
}

func (p *parser) push(n Node) {
	if fn := p.current(); fn != nil {
		fn.Nodes = append(fn.Nodes, n)
		return
	}
	p.root = append(p.root, n)
}

func (p *parser) pop() Node {
	if fn := p.current(); fn != nil {
		last := fn.Nodes[len(fn.Nodes)-1]
		fn.Nodes = fn.Nodes[:len(fn.Nodes)-1]
		return last
	}
	last := p.root[len(p.root)-1]
	p.root = p.root[:len(p.root)-1]
	return last
}

func (p *parser) readSpace() {
	start := p.pos
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	ws := p.src[start:p.pos]
	next := p.peek(0)
	fn := p.current()

	switch {
	case fn != nil && len(fn.Nodes) == 0:
		fn.Before += ws
	case fn != nil && (next == ')' || p.pos == len(p.src)):
		fn.After += ws
	default:
		nodes := p.nodes()
		if len(nodes) > 0 {
			if div, ok := nodes[len(nodes)-1].(*Div); ok {
				div.After += ws
				return
			}
		}
		// whitespace in front of a separator is claimed by readDiv
		p.push(&Space{Value: ws})
	}
}

func (p *parser) readDiv() {
	div := &Div{Value: string(p.src[p.pos])}
	if nodes := p.nodes(); len(nodes) > 0 {
		if sp, ok := nodes[len(nodes)-1].(*Space); ok {
			p.pop()
			div.Before = sp.Value
		}
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	div.After = p.src[start:p.pos]
	p.push(div)
}

func (p *parser) readString(quote byte) {
	p.pos++
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '\\' {
			p.pos += 2
			continue
		}
		if c == quote {
			p.push(&String{Value: p.src[start:p.pos], Quote: quote})
			p.pos++
			return
		}
		p.pos++
	}
	if p.pos > len(p.src) {
		p.pos = len(p.src)
	}
	p.push(&String{Value: p.src[start:p.pos], Quote: quote, Unclosed: true})
}

func (p *parser) readComment() {
	start := p.pos + 2
	end := strings.Index(p.src[start:], "*/")
	if end < 0 {
		p.push(&Comment{Value: p.src[start:], Unclosed: true})
		p.pos = len(p.src)
		return
	}
	p.push(&Comment{Value: p.src[start : start+end]})
	p.pos = start + end + 2
}

func (p *parser) readWord() {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '\\' {
			p.pos += 2
			continue
		}
		if isSpace(c) || isDiv(c) || c == '\'' || c == '"' || c == '(' || c == ')' {
			break
		}
		p.pos++
	}
	if p.pos > len(p.src) {
		p.pos = len(p.src)
	}
	word := p.src[start:p.pos]

	if p.peek(0) == '(' {
		p.pos++
		if strings.EqualFold(word, "url") && !p.quotedArgument() {
			p.readURL(word)
			return
		}
		p.openFunction(word)
		return
	}
	p.push(&Word{Value: word})
}

// quotedArgument reports whether the next non-space character opens a string
func (p *parser) quotedArgument() bool {
	i := p.pos
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	return i < len(p.src) && (p.src[i] == '"' || p.src[i] == '\'')
}

func (p *parser) openFunction(name string) {
	fn := &Function{Name: name}
	p.push(fn)
	p.stack = append(p.stack, fn)
}

func (p *parser) closeFunction() {
	p.pos++
	if len(p.stack) == 0 {
		p.push(&Word{Value: ")"})
		return
	}
	p.stack = p.stack[:len(p.stack)-1]
}

// readURL reads an unquoted url() body as a single word, since it may contain
// characters that would otherwise split it.
func (p *parser) readURL(name string) {
	fn := &Function{Name: name}
	p.push(fn)

	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ')' {
		if p.src[p.pos] == '\\' {
			p.pos++
		}
		p.pos++
	}
	if p.pos > len(p.src) {
		p.pos = len(p.src)
	}
	body := p.src[start:p.pos]
	trimmedLeft := strings.TrimLeft(body, " \t\n\r\f")
	fn.Before = body[:len(body)-len(trimmedLeft)]
	trimmed := strings.TrimRight(trimmedLeft, " \t\n\r\f")
	fn.After = trimmedLeft[len(trimmed):]
	if trimmed != "" {
		fn.Nodes = []Node{&Word{Value: trimmed}}
	}

	if p.pos < len(p.src) {
		p.pos++
		return
	}
	fn.Unclosed = true
}
