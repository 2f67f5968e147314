// Package parser finds CSS declarations in stylesheets, HTML documents and
// JS/TS modules.
package parser

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/gtf/internal/parser/css"
	"bennypowers.dev/gtf/internal/parser/html"
	"bennypowers.dev/gtf/internal/parser/js"
)

// cssLanguages maps language IDs to the parser category they use.
// "css" → direct CSS, "html" → HTML parser, "js" → JS parser.
var cssLanguages = map[string]string{
	"css":             "css",
	"html":            "html",
	"javascript":      "js",
	"javascriptreact": "js",
	"typescript":      "js",
	"typescriptreact": "js",
}

// extensions maps file extensions to language IDs
var extensions = map[string]string{
	".css":  "css",
	".pcss": "css",
	".html": "html",
	".htm":  "html",
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "javascriptreact",
	".ts":   "typescript",
	".mts":  "typescript",
	".cts":  "typescript",
	".tsx":  "typescriptreact",
}

// IsCSSSupportedLanguage returns true if the language supports CSS extraction
func IsCSSSupportedLanguage(languageID string) bool {
	_, ok := cssLanguages[languageID]
	return ok
}

// LanguageForPath returns the language ID for a file name, or "" when the
// file type is not supported
func LanguageForPath(path string) string {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// ParseDeclarations finds the CSS declarations of any supported document
// type. Offsets in the result are byte offsets into content. Unsupported
// languages yield a nil result.
func ParseDeclarations(content, languageID string) (*css.ParseResult, error) {
	switch cssLanguages[languageID] {
	case "css":
		p := css.AcquireParser()
		defer css.ReleaseParser(p)
		return p.Parse(content)

	case "html":
		p := html.AcquireParser()
		defer html.ReleaseParser(p)
		return p.ParseCSS(content)

	case "js":
		p := js.AcquireParser()
		defer js.ReleaseParser(p)
		return p.ParseCSS(content)

	default:
		return nil, nil
	}
}

// ClosePools releases every pooled tree-sitter parser
func ClosePools() {
	css.ClosePool()
	html.ClosePool()
	js.ClosePool()
}
