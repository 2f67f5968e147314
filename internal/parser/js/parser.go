package js

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/parser/css"
	htmlparser "bennypowers.dev/gtf/internal/parser/html"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// taggedTemplateQuery matches css`...` and html`...`. The second pattern is
// the TypeScript generic form css<Type>`...`, which the JS grammar reads as
// (css < Type) > `...`.
// See: https://github.com/tree-sitter/tree-sitter-typescript/issues/341
const taggedTemplateQuery = `
(call_expression
	function: (identifier) @tag
	arguments: (template_string) @template
	(#any-of? @tag "css" "html"))

(binary_expression
	left: (binary_expression
		left: (identifier) @tag)
	right: (template_string) @template
	(#any-of? @tag "css" "html"))
`

// Parser finds the css and html tagged templates of a JS/TS module
type Parser struct {
	parser   *sitter.Parser
	query    *sitter.Query
	tag      uint32
	template uint32
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

var parserPool = sync.Pool{
	New: func() any {
		p, err := newParser()
		if err != nil {
			panic(err)
		}
		return p
	},
}

func newParser() (*Parser, error) {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(jsLang); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set JS language: %w", err)
	}

	query, qerr := sitter.NewQuery(jsLang, taggedTemplateQuery)
	if qerr != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to compile tagged template query: %w", qerr)
	}

	tag, _ := query.CaptureIndexForName("tag")
	template, _ := query.CaptureIndexForName("template")
	return &Parser{
		parser:   parser,
		query:    query,
		tag:      uint32(tag),      //nolint:gosec // G115: two captures
		template: uint32(template), //nolint:gosec // G115: two captures
	}, nil
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

// Close releases the tree-sitter resources of the parser
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.query != nil {
		p.query.Close()
	}
}

// ClosePool closes the parsers idling in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// ParseTemplates returns the css and html tagged templates of source in
// document order, each split at its ${...} substitutions
func (p *Parser) ParseTemplates(source string) []TemplateRegion {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var regions []TemplateRegion
	matches := cursor.Matches(p.query, tree.RootNode(), src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var region TemplateRegion
		for _, capture := range match.Captures {
			switch capture.Index {
			case p.tag:
				region.Tag = capture.Node.Utf8Text(src)
			case p.template:
				region.Segments = fragments(&capture.Node, src)
			}
		}
		if len(region.Segments) > 0 {
			regions = append(regions, region)
		}
	}

	slices.SortStableFunc(regions, func(a, b TemplateRegion) int {
		return cmp.Compare(a.Segments[0].Start, b.Segments[0].Start)
	})
	return regions
}

// fragments returns the literal text of a template_string, one segment per
// run of text between substitutions
func fragments(template *sitter.Node, src []byte) []Segment {
	var segments []Segment
	for i := range template.ChildCount() {
		child := template.Child(i)
		if child == nil || child.Kind() != "string_fragment" {
			continue
		}
		segments = append(segments, Segment{
			Content: child.Utf8Text(src),
			Start:   child.StartByte(),
		})
	}
	return segments
}

// ParseCSS parses the declarations of every css and html tagged template.
// Declaration offsets are relative to source.
func (p *Parser) ParseCSS(source string) (*css.ParseResult, error) {
	result := &css.ParseResult{Declarations: []*css.Declaration{}}

	templates := p.ParseTemplates(source)
	if len(templates) == 0 {
		return result, nil
	}

	cssParser := css.AcquireParser()
	defer css.ReleaseParser(cssParser)
	htmlParser := htmlparser.AcquireParser()
	defer htmlparser.ReleaseParser(htmlParser)

	for _, tmpl := range templates {
		parse := cssParser.Parse
		if tmpl.Tag == "html" {
			parse = htmlParser.ParseCSS
		}
		for _, seg := range tmpl.Segments {
			parsed, err := parse(seg.Content)
			if err != nil {
				log.Debug("Failed to parse %s template segment at byte %d: %v", tmpl.Tag, seg.Start, err)
				continue
			}
			parsed.Shift(int(seg.Start)) //nolint:gosec // G115: offsets are bounded by the source length
			result.Declarations = append(result.Declarations, parsed.Declarations...)
		}
	}

	slices.SortStableFunc(result.Declarations, func(a, b *css.Declaration) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return result, nil
}
