package lsp

import (
	"path/filepath"

	"bennypowers.dev/gtf/internal/config"
	"bennypowers.dev/gtf/internal/log"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const watcherRegistrationID = "gradient-transparency-fix-config-watcher"

// IsConfigFile reports whether path is the file the workspace configuration
// is read from: the --config file, or a config file name in the root
func (s *Server) IsConfigFile(path string) bool {
	s.configMu.RLock()
	explicitPath, rootPath := s.explicitPath, s.rootPath
	s.configMu.RUnlock()

	cleanPath := filepath.Clean(path)
	if explicitPath != "" {
		return cleanPath == filepath.Clean(explicitPath)
	}
	if !config.IsConfigFile(cleanPath) {
		return false
	}
	return rootPath == "" || filepath.Dir(cleanPath) == filepath.Clean(rootPath)
}

// watchPatterns returns the glob patterns of the files IsConfigFile accepts
func (s *Server) watchPatterns() []string {
	s.configMu.RLock()
	explicitPath, rootPath := s.explicitPath, s.rootPath
	s.configMu.RUnlock()

	if explicitPath != "" {
		abs, err := filepath.Abs(explicitPath)
		if err != nil {
			abs = explicitPath
		}
		return []string{filepath.ToSlash(abs)}
	}
	if rootPath == "" {
		return nil
	}

	root := filepath.ToSlash(filepath.Clean(rootPath))
	patterns := make([]string, 0, len(config.FileNames)+1)
	for _, name := range config.FileNames {
		patterns = append(patterns, root+"/"+name)
	}
	return append(patterns, root+"/package.json")
}

// RegisterFileWatchers asks the client to report changes to the config files
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	// Contexts created in tests have no connection
	if context == nil || context.Call == nil {
		log.Info("Skipping file watcher registration (no client context)")
		return nil
	}

	patterns := s.watchPatterns()
	if len(patterns) == 0 {
		log.Info("No file watchers to register")
		return nil
	}

	watchers := make([]protocol.FileSystemWatcher, 0, len(patterns))
	for _, pattern := range patterns {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: pattern})
	}

	params := protocol.RegistrationParams{
		Registrations: []protocol.Registration{
			{
				ID:     watcherRegistrationID,
				Method: protocol.MethodWorkspaceDidChangeWatchedFiles,
				RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
					Watchers: watchers,
				},
			},
		},
	}

	// client/registerCapability is a request. Calling it from the handler
	// would block the message loop that has to read the response.
	go func(ctx *glsp.Context) {
		var result any
		ctx.Call(protocol.ServerClientRegisterCapability, params, &result)
		log.Debug("File watcher registration completed")
	}(context)

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
	return nil
}
