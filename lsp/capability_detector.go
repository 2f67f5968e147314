package lsp

import (
	"encoding/json"
)

// DetectPullDiagnosticsSupport reports whether raw initialize params declare
// the textDocument.diagnostic client capability. glsp v0.2.2 parses
// initialize params with the 3.16 types, which drop that field, so it is read
// from the raw JSON. Malformed params count as no support.
func DetectPullDiagnosticsSupport(rawParams json.RawMessage) bool {
	var initParams struct {
		Capabilities struct {
			TextDocument *struct {
				Diagnostic *json.RawMessage `json:"diagnostic"`
			} `json:"textDocument"`
		} `json:"capabilities"`
	}
	if err := json.Unmarshal(rawParams, &initParams); err != nil {
		return false
	}
	textDocument := initParams.Capabilities.TextDocument
	return textDocument != nil && textDocument.Diagnostic != nil
}
