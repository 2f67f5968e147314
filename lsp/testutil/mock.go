package testutil

import (
	"sync"

	"bennypowers.dev/gtf/internal/config"
	"bennypowers.dev/gtf/internal/documents"
	"bennypowers.dev/gtf/internal/rewrite"
	"bennypowers.dev/gtf/lsp/types"
	"github.com/tliron/glsp"
)

// MockServerContext implements types.ServerContext for testing.
// Behavior can be replaced with the callback fields.
type MockServerContext struct {
	docs        *documents.Manager
	rootURI     string
	rootPath    string
	fileConfig  config.Config
	configPath  string
	cfg         config.Config
	rewriter    *rewrite.Rewriter
	glspContext *glsp.Context

	clientDiagnosticCapability *bool
	usePullDiagnostics         bool

	// Optional callbacks for custom behavior in tests
	LoadConfigFunc         func() error
	RegisterWatchersFunc   func(*glsp.Context) error
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	// Tracking for tests that verify methods were called
	LoadConfigCalled       bool
	RegisterWatchersCalled bool

	mu        sync.Mutex
	published []string
}

// NewMockServerContext creates a mock server context with the default
// configuration
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:       documents.NewManager(),
		fileConfig: config.Default(),
		cfg:        config.Default(),
		rewriter:   rewrite.New(nil),
	}
}

// Document returns the document with the given URI
func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

// DocumentManager returns the document manager
func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

// AllDocuments returns all tracked documents
func (m *MockServerContext) AllDocuments() []*documents.Document {
	return m.docs.GetAll()
}

// RootURI returns the workspace root URI
func (m *MockServerContext) RootURI() string {
	return m.rootURI
}

// RootPath returns the workspace root path
func (m *MockServerContext) RootPath() string {
	return m.rootPath
}

// SetRootURI sets the workspace root URI
func (m *MockServerContext) SetRootURI(uri string) {
	m.rootURI = uri
}

// SetRootPath sets the workspace root path
func (m *MockServerContext) SetRootPath(path string) {
	m.rootPath = path
}

// Config returns the effective configuration
func (m *MockServerContext) Config() config.Config {
	return m.cfg
}

// ConfigPath returns the path of the loaded config file
func (m *MockServerContext) ConfigPath() string {
	return m.configPath
}

// SetConfig replaces the effective configuration and rebuilds the rewriter
func (m *MockServerContext) SetConfig(cfg config.Config) error {
	f, err := cfg.Fixer()
	if err != nil {
		return err
	}
	m.cfg = cfg
	m.rewriter = rewrite.New(f)
	m.docs.InvalidateAll()
	return nil
}

// LoadWorkspaceConfig loads the config file of the root path, if any
func (m *MockServerContext) LoadWorkspaceConfig() error {
	m.LoadConfigCalled = true
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc()
	}
	if m.rootPath == "" {
		return nil
	}
	cfg, path, err := config.Load(m.rootPath)
	if err != nil {
		return err
	}
	m.fileConfig, m.configPath = cfg, path
	return m.SetConfig(cfg)
}

// ApplySettings merges editor settings over the file configuration
func (m *MockServerContext) ApplySettings(settings any) error {
	cfg, err := m.fileConfig.Merge(settings)
	if err != nil {
		return err
	}
	return m.SetConfig(cfg)
}

// IsConfigFile reports whether path is a config file name
func (m *MockServerContext) IsConfigFile(path string) bool {
	return config.IsConfigFile(path)
}

// Rewriter returns the rewriter for the effective configuration
func (m *MockServerContext) Rewriter() *rewrite.Rewriter {
	return m.rewriter
}

// RegisterFileWatchers records the call
func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.RegisterWatchersCalled = true
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

// GLSPContext returns the GLSP context
func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

// SetGLSPContext sets the GLSP context
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

// ClientDiagnosticCapability returns the detected client capability
func (m *MockServerContext) ClientDiagnosticCapability() *bool {
	return m.clientDiagnosticCapability
}

// SetClientDiagnosticCapability records the detected client capability
func (m *MockServerContext) SetClientDiagnosticCapability(hasCapability bool) {
	m.clientDiagnosticCapability = &hasCapability
}

// UsePullDiagnostics returns whether pull diagnostics are in use
func (m *MockServerContext) UsePullDiagnostics() bool {
	return m.usePullDiagnostics
}

// SetUsePullDiagnostics sets the diagnostics model
func (m *MockServerContext) SetUsePullDiagnostics(use bool) {
	m.usePullDiagnostics = use
}

// PublishDiagnostics records the URI, then calls PublishDiagnosticsFunc
func (m *MockServerContext) PublishDiagnostics(context *glsp.Context, uri string) error {
	m.mu.Lock()
	m.published = append(m.published, uri)
	m.mu.Unlock()
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(context, uri)
	}
	return nil
}

// Published returns the URIs PublishDiagnostics was called with, in order
func (m *MockServerContext) Published() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.published...)
}

var _ types.ServerContext = (*MockServerContext)(nil)
