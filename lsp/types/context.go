package types

import (
	"bennypowers.dev/gtf/internal/config"
	"bennypowers.dev/gtf/internal/documents"
	"bennypowers.dev/gtf/internal/rewrite"
	"github.com/tliron/glsp"
)

// ServerContext provides all dependencies needed for LSP handlers.
// Handlers depend on this interface rather than on the server so they can be
// tested against a mock.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	// Configuration. Config is the effective configuration: the workspace
	// config file with editor settings merged over it.
	Config() config.Config
	ConfigPath() string
	SetConfig(cfg config.Config) error
	LoadWorkspaceConfig() error
	ApplySettings(settings any) error
	IsConfigFile(path string) bool
	Rewriter() *rewrite.Rewriter

	// Client registration
	RegisterFileWatchers(ctx *glsp.Context) error

	// LSP context (for publishing diagnostics, etc.)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	// Diagnostics model
	ClientDiagnosticCapability() *bool
	SetClientDiagnosticCapability(hasCapability bool)
	UsePullDiagnostics() bool
	SetUsePullDiagnostics(use bool)

	// Diagnostics publishing
	PublishDiagnostics(context *glsp.Context, uri string) error
}
