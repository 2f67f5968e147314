package lifecycle

import (
	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification. Failing to load the
// workspace config or to register watchers does not fail initialization.
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadWorkspaceConfig(); err != nil {
		log.Warn("Failed to load workspace config: %v", err)
		req.AddWarning(err)
	} else if path := req.Server.ConfigPath(); path != "" {
		log.Info("Loaded config from %s", path)
	}

	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		log.Warn("Failed to register file watchers: %v", err)
		req.AddWarning(err)
	}

	return nil
}
