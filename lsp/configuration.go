package lsp

import (
	"bennypowers.dev/gtf/internal/config"
	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/rewrite"
)

// Config returns the effective configuration
func (s *Server) Config() config.Config {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.cfg
}

// ConfigPath returns the config file the workspace configuration came from,
// or "" when it is the defaults
func (s *Server) ConfigPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.configPath
}

// Rewriter returns the rewriter for the effective configuration
func (s *Server) Rewriter() *rewrite.Rewriter {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rewriter
}

// SetConfig replaces the effective configuration. Cached analyses of open
// documents are dropped.
func (s *Server) SetConfig(cfg config.Config) error {
	f, err := cfg.Fixer()
	if err != nil {
		return err
	}

	s.configMu.Lock()
	s.cfg = cfg
	s.rewriter = rewrite.New(f)
	s.configMu.Unlock()

	s.documents.InvalidateAll()
	log.Debug("Properties pattern: %s", cfg.Properties)
	return nil
}

// LoadWorkspaceConfig reads the --config file, or looks for a config file in
// the workspace root, then applies the editor settings over it. Without
// either the defaults stay in effect.
func (s *Server) LoadWorkspaceConfig() error {
	s.configMu.RLock()
	explicitPath, rootPath, settings := s.explicitPath, s.rootPath, s.settings
	s.configMu.RUnlock()

	var (
		fileConfig config.Config
		path       string
		err        error
	)
	switch {
	case explicitPath != "":
		fileConfig, err = config.LoadFile(explicitPath)
		path = explicitPath
	case rootPath != "":
		fileConfig, path, err = config.Load(rootPath)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	merged, err := fileConfig.Merge(settings)
	if err != nil {
		return err
	}

	s.configMu.Lock()
	s.fileConfig = fileConfig
	s.configPath = path
	s.configMu.Unlock()

	if path != "" {
		log.Info("Using config %s", path)
	}
	return s.SetConfig(merged)
}

// ApplySettings merges editor settings over the workspace configuration.
// Invalid settings leave the configuration unchanged.
func (s *Server) ApplySettings(settings any) error {
	s.configMu.RLock()
	fileConfig := s.fileConfig
	s.configMu.RUnlock()

	merged, err := fileConfig.Merge(settings)
	if err != nil {
		return err
	}

	s.configMu.Lock()
	s.settings = settings
	s.configMu.Unlock()

	return s.SetConfig(merged)
}
