package lsp

import (
	"sync"

	"bennypowers.dev/gtf/internal/config"
	"bennypowers.dev/gtf/internal/documents"
	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/parser"
	"bennypowers.dev/gtf/internal/rewrite"
	"bennypowers.dev/gtf/lsp/methods/lifecycle"
	"bennypowers.dev/gtf/lsp/methods/textDocument"
	codeaction "bennypowers.dev/gtf/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/gtf/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/gtf/lsp/methods/workspace"
	"bennypowers.dev/gtf/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

var _ types.ServerContext = (*Server)(nil)

// Server is the gradient transparency language server
type Server struct {
	documents  *documents.Manager
	glspServer *server.Server

	// configMu guards everything below
	configMu     sync.RWMutex
	context      *glsp.Context
	rootURI      string
	rootPath     string
	explicitPath string        // --config, used instead of discovery
	fileConfig   config.Config // from the config file, or the defaults
	configPath   string
	settings     any // editor settings, merged over fileConfig
	cfg          config.Config
	rewriter     *rewrite.Rewriter

	clientDiagnosticCapability *bool // nil until initialize
	usePullDiagnostics         bool
}

// NewServer creates the language server. A non-empty configPath names the
// config file to load instead of looking in the workspace root.
func NewServer(configPath string) (*Server, error) {
	s := &Server{
		documents:    documents.NewManager(),
		explicitPath: configPath,
		fileConfig:   config.Default(),
		cfg:          config.Default(),
		rewriter:     rewrite.New(nil),
	}

	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentCodeAction:          method(s, "textDocument/codeAction", codeaction.CodeAction),
		CodeActionResolve:               method(s, "codeAction/resolve", codeaction.CodeActionResolve),
	}

	customHandler := &CustomHandler{
		Handler: &protocolHandler,
		server:  s,
	}

	s.glspServer = server.NewServer(customHandler, lifecycle.ServerName, false)

	return s, nil
}

// RunStdio serves the protocol on stdin and stdout
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close releases the parser pools. It is safe to call more than once.
func (s *Server) Close() error {
	parser.ClosePools()
	return nil
}

// Document returns the open document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// AllDocuments returns all open documents
func (s *Server) AllDocuments() []*documents.Document {
	return s.documents.GetAll()
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// GLSPContext returns the client connection saved on initialized
func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

// SetGLSPContext saves the client connection
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}

// ClientDiagnosticCapability returns whether the client declared pull
// diagnostics support, or nil before initialize
func (s *Server) ClientDiagnosticCapability() *bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.clientDiagnosticCapability
}

// SetClientDiagnosticCapability records what the CustomHandler detected in
// the raw initialize params
func (s *Server) SetClientDiagnosticCapability(hasCapability bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.clientDiagnosticCapability = &hasCapability
}

// UsePullDiagnostics reports whether the client requests diagnostics with
// textDocument/diagnostic, in which case none are pushed
func (s *Server) UsePullDiagnostics() bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.usePullDiagnostics
}

// SetUsePullDiagnostics selects the diagnostics model
func (s *Server) SetUsePullDiagnostics(use bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.usePullDiagnostics = use
}

// PublishDiagnostics pushes the diagnostics of a document. A closed document
// gets an empty list, which clears its diagnostics in the client.
func (s *Server) PublishDiagnostics(context *glsp.Context, uri string) error {
	if s.UsePullDiagnostics() {
		return nil
	}
	if context == nil {
		context = s.GLSPContext()
	}
	if context == nil || context.Notify == nil {
		log.Debug("Skipping diagnostics for %s (no client context)", uri)
		return nil
	}

	found, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	diagnostics := append([]protocol.Diagnostic{}, found...)

	log.Debug("Publishing %d diagnostics for %s", len(diagnostics), uri)
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}
