package diagnostic

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Pull diagnostics arrived in LSP 3.17, after glsp v0.2.2 (protocol_3_16).
// These are the few 3.17 types the server needs.

// MethodDocumentDiagnostic is the pull diagnostics request
const MethodDocumentDiagnostic = "textDocument/diagnostic"

// DocumentDiagnosticParams are the params of textDocument/diagnostic
type DocumentDiagnosticParams struct {
	TextDocument     protocol.TextDocumentIdentifier `json:"textDocument"`
	Identifier       string                          `json:"identifier,omitempty"`
	PreviousResultID string                          `json:"previousResultId,omitempty"`
}

// DocumentDiagnosticReportKind is "full" or "unchanged"
type DocumentDiagnosticReportKind string

const (
	DiagnosticFull      DocumentDiagnosticReportKind = "full"
	DiagnosticUnchanged DocumentDiagnosticReportKind = "unchanged"
)

// RelatedFullDocumentDiagnosticReport is a full report. Findings never span
// documents, so RelatedDocuments stays empty.
type RelatedFullDocumentDiagnosticReport struct {
	Kind             string                `json:"kind"`
	ResultID         string                `json:"resultId,omitempty"`
	Items            []protocol.Diagnostic `json:"items"`
	RelatedDocuments map[string]any        `json:"relatedDocuments,omitempty"`
}

// DiagnosticOptions advertises pull diagnostics in the server capabilities
type DiagnosticOptions struct {
	InterFileDependencies bool `json:"interFileDependencies"`
	WorkspaceDiagnostics  bool `json:"workspaceDiagnostics"`
}
