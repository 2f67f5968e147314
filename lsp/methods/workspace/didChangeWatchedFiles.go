package workspace

import (
	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/uriutil"
	"bennypowers.dev/gtf/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles
// notification. A created, changed or deleted config file reloads the
// workspace configuration.
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Debug("Watched files changed: %d files", len(params.Changes))

	reload := false
	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		if req.Server.IsConfigFile(path) {
			log.Info("Config file changed: %s (type: %d)", path, change.Type)
			reload = true
		}
	}
	if !reload {
		return nil
	}

	if err := req.Server.LoadWorkspaceConfig(); err != nil {
		LogWarning(req.GLSP, "Failed to reload configuration: %v", err)
		return nil
	}

	republish(req)
	return nil
}
