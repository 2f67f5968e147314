package documents

import (
	"fmt"
	"sync"

	"bennypowers.dev/gtf/internal/parser"
	"bennypowers.dev/gtf/internal/rewrite"
	"bennypowers.dev/gtf/internal/uriutil"
)

// Document represents a text document being managed by the language server
type Document struct {
	uri        string
	languageID string
	content    string
	version    int

	mu       sync.Mutex
	analysis *rewrite.Result
}

// NewDocument creates a new document
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		content:    content,
	}
}

// URI returns the document's URI
func (d *Document) URI() string {
	return d.uri
}

// LanguageID returns the document's language identifier
func (d *Document) LanguageID() string {
	return d.languageID
}

// EffectiveLanguage returns the language the document is scanned as. Clients
// that send an unknown language ID fall back to the file extension.
func (d *Document) EffectiveLanguage() string {
	if parser.IsCSSSupportedLanguage(d.languageID) {
		return d.languageID
	}
	return parser.LanguageForPath(uriutil.URIToPath(d.uri))
}

// Version returns the document's version
func (d *Document) Version() int {
	return d.version
}

// Content returns the document's current content
func (d *Document) Content() string {
	return d.content
}

// SetContent updates the document's content and version.
// Returns an error if the provided version is older than the current document version,
// preventing stale updates from being applied.
func (d *Document) SetContent(content string, version int) error {
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.content = content
	d.version = version
	d.Invalidate()
	return nil
}

// Analyze returns the rewrite result for the current content, computing it
// with rw on first use after a change
func (d *Document) Analyze(rw *rewrite.Rewriter) (*rewrite.Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.analysis != nil {
		return d.analysis, nil
	}
	result, err := rw.Rewrite(d.content, d.EffectiveLanguage())
	if err != nil {
		return nil, err
	}
	d.analysis = result
	return result, nil
}

// Invalidate drops the cached rewrite result
func (d *Document) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.analysis = nil
}
