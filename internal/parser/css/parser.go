package css

import (
	"fmt"
	"sync"

	"bennypowers.dev/gtf/internal/log"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// inlinePrefix wraps declaration lists such as style attributes in a rule
const inlinePrefix = "x{"

// Parser finds property declarations in CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse finds every declaration in a stylesheet, including those nested in
// at-rules
func (p *Parser) Parse(source string) (*ParseResult, error) {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	result := &ParseResult{Declarations: []*Declaration{}}
	walkTree(tree.RootNode(), sourceBytes, result)
	return result, nil
}

// ParseInline parses a bare declaration list, as found in a style attribute.
// Offsets are relative to source.
func (p *Parser) ParseInline(source string) (*ParseResult, error) {
	result, err := p.Parse(inlinePrefix + source + "}")
	if err != nil {
		return nil, err
	}
	result.Shift(-len(inlinePrefix))
	return result, nil
}

func walkTree(node *sitter.Node, source []byte, result *ParseResult) {
	if node == nil {
		return
	}

	if node.Kind() == "declaration" {
		if d := declaration(node, source); d != nil {
			result.Declarations = append(result.Declarations, d)
		}
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walkTree(node.Child(i), source, result)
	}
}

// declaration extracts the property and the value span of a declaration
// node. The value spans every child after the colon up to a trailing
// `!important` or semicolon.
func declaration(node *sitter.Node, source []byte) *Declaration {
	if node.HasError() {
		log.Debug("Skipping declaration with syntax errors at byte %d", node.StartByte())
		return nil
	}

	var property *sitter.Node
	var first, last *sitter.Node
	afterColon := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch kind := child.Kind(); {
		case kind == "property_name":
			property = child
		case kind == ":" && !afterColon:
			afterColon = true
		case !afterColon, kind == ";", kind == "important", kind == "comment" && first == nil:
			continue
		default:
			if first == nil {
				first = child
			}
			last = child
		}
	}

	if property == nil || first == nil {
		return nil
	}

	start, end := first.StartByte(), last.EndByte()
	return &Declaration{
		Property: string(source[property.StartByte():property.EndByte()]),
		Value:    string(source[start:end]),
		Start:    start,
		End:      end,
	}
}
