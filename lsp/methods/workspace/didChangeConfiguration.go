package workspace

import (
	"fmt"

	"bennypowers.dev/gtf/internal/config"
	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// alternateSettingsKey is accepted next to config.PackageJSONKey
const alternateSettingsKey = "gradient-transparency-fix"

// DidChangeConfiguration handles the workspace/didChangeConfiguration
// notification. Settings are merged over the workspace config file; invalid
// settings are reported and leave the configuration unchanged.
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	settings, err := extractSettings(params.Settings)
	if err != nil {
		LogWarning(req.GLSP, "Ignoring configuration: %v", err)
		return nil
	}

	if err := req.Server.ApplySettings(settings); err != nil {
		LogWarning(req.GLSP, "Ignoring configuration: %v", err)
		return nil
	}
	log.Debug("New configuration: %+v", req.Server.Config())

	republish(req)
	return nil
}

// extractSettings picks our section out of the settings object
func extractSettings(settings any) (any, error) {
	if settings == nil {
		return nil, nil
	}
	settingsMap, ok := settings.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("settings is not a map")
	}
	if section, ok := settingsMap[config.PackageJSONKey]; ok {
		return section, nil
	}
	if section, ok := settingsMap[alternateSettingsKey]; ok {
		return section, nil
	}
	return nil, nil
}

// republish refreshes the diagnostics of every open document
func republish(req *types.RequestContext) {
	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil {
		return
	}
	for _, doc := range req.Server.AllDocuments() {
		if err := req.Server.PublishDiagnostics(glspCtx, doc.URI()); err != nil {
			req.AddWarning(fmt.Errorf("failed to publish diagnostics for %s: %w", doc.URI(), err))
		}
	}
}
