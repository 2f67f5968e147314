package html

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/parser/css"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// cssRegionQuery captures the text of <style> elements and the values of
// style attributes, quoted or not
const cssRegionQuery = `
(style_element (raw_text) @style)

(attribute
	(attribute_name) @name
	(quoted_attribute_value (attribute_value) @attribute)
	(#match? @name "^(?i)style$"))

(attribute
	(attribute_name) @name
	(attribute_value) @attribute
	(#match? @name "^(?i)style$"))
`

// Parser finds the CSS regions of an HTML document
type Parser struct {
	parser    *sitter.Parser
	query     *sitter.Query
	style     uint32
	attribute uint32
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

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
	if err := parser.SetLanguage(htmlLang); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set HTML language: %w", err)
	}

	query, qerr := sitter.NewQuery(htmlLang, cssRegionQuery)
	if qerr != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to compile CSS region query: %w", qerr)
	}

	style, _ := query.CaptureIndexForName("style")
	attribute, _ := query.CaptureIndexForName("attribute")
	return &Parser{
		parser:    parser,
		query:     query,
		style:     uint32(style),     //nolint:gosec // G115: three captures
		attribute: uint32(attribute), //nolint:gosec // G115: three captures
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

// ParseCSSRegions returns the <style> contents and style attribute values of
// an HTML document, in document order
func (p *Parser) ParseCSSRegions(source string) []CSSRegion {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var regions []CSSRegion
	matches := cursor.Matches(p.query, tree.RootNode(), src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			var kind RegionType
			switch capture.Index {
			case p.style:
				kind = StyleTag
			case p.attribute:
				kind = StyleAttribute
			default:
				continue
			}
			regions = append(regions, CSSRegion{
				Content: capture.Node.Utf8Text(src),
				Start:   capture.Node.StartByte(),
				Type:    kind,
			})
		}
	}

	slices.SortStableFunc(regions, func(a, b CSSRegion) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return regions
}

// ParseCSS extracts CSS from HTML and parses it. Declaration offsets are
// mapped back to the HTML source.
func (p *Parser) ParseCSS(source string) (*css.ParseResult, error) {
	result := &css.ParseResult{Declarations: []*css.Declaration{}}

	regions := p.ParseCSSRegions(source)
	if len(regions) == 0 {
		return result, nil
	}

	cssParser := css.AcquireParser()
	defer css.ReleaseParser(cssParser)

	for _, region := range regions {
		var parsed *css.ParseResult
		var err error
		switch region.Type {
		case StyleTag:
			parsed, err = cssParser.Parse(region.Content)
		case StyleAttribute:
			parsed, err = cssParser.ParseInline(region.Content)
		default:
			continue
		}
		if err != nil {
			log.Debug("Failed to parse CSS region at byte %d: %v", region.Start, err)
			continue
		}
		parsed.Shift(int(region.Start)) //nolint:gosec // G115: offsets are bounded by the source length
		result.Declarations = append(result.Declarations, parsed.Declarations...)
	}

	return result, nil
}
