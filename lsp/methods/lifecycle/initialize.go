package lifecycle

import (
	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/uriutil"
	"bennypowers.dev/gtf/internal/version"
	codeaction "bennypowers.dev/gtf/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/gtf/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/gtf/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerName is reported in serverInfo
const ServerName = "gradient-transparency-fix"

// Initialize handles the LSP initialize request
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", clientName)

	// The CustomHandler detects the LSP 3.17 diagnostic capability from the
	// raw params before this handler runs
	pull := false
	if detected := req.Server.ClientDiagnosticCapability(); detected != nil {
		pull = *detected
	}
	req.Server.SetUsePullDiagnostics(pull)
	if pull {
		log.Info("Using pull diagnostics model (LSP 3.17)")
	} else {
		log.Info("Using push diagnostics model")
	}

	if params.RootURI != nil {
		req.Server.SetRootURI(*params.RootURI)
		req.Server.SetRootPath(uriutil.URIToPath(*params.RootURI))
		log.Info("Workspace root: %s", req.Server.RootPath())
	} else if params.RootPath != nil {
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(uriutil.PathToURI(*params.RootPath))
		log.Info("Workspace root (from rootPath): %s", req.Server.RootPath())
	}

	if params.InitializationOptions != nil {
		if err := req.Server.ApplySettings(params.InitializationOptions); err != nil {
			req.AddWarning(err)
		}
	}

	// glsp's ServerCapabilities lacks the LSP 3.17 diagnosticProvider field,
	// so capabilities are built as a map
	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := map[string]any{
		"textDocumentSync": protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},
		"codeActionProvider": protocol.CodeActionOptions{
			CodeActionKinds: []protocol.CodeActionKind{
				protocol.CodeActionKindQuickFix,
				codeaction.KindFixAll,
			},
			ResolveProvider: boolPtr(true),
		},
	}
	if pull {
		capabilities["diagnosticProvider"] = diagnostic.DiagnosticOptions{
			InterFileDependencies: false,
			WorkspaceDiagnostics:  false,
		}
	}

	return struct {
		Capabilities any                                  `json:"capabilities"`
		ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
	}{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: strPtr(version.Get()),
		},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
