package diagnostic

import (
	"fmt"

	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/rewrite"
	"bennypowers.dev/gtf/lsp/helpers"
	"bennypowers.dev/gtf/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Source is reported as the origin of every diagnostic
const Source = "gradient-transparency-fix"

// DocumentDiagnostic handles the textDocument/diagnostic request (pull
// diagnostics). glsp only knows LSP 3.16, so the CustomHandler routes this
// method here.
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("Pull diagnostics requested for: %s", uri)

	diagnostics, err := GetDiagnostics(req.Server, uri)
	if err != nil {
		return nil, err
	}

	return RelatedFullDocumentDiagnosticReport{
		Kind:  string(DiagnosticFull),
		Items: diagnostics,
	}, nil
}

// GetDiagnostics returns the diagnostics for an open document. Unknown
// documents and unsupported languages have none.
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := ctx.Document(uri)
	if doc == nil {
		return nil, nil
	}

	result, err := doc.Analyze(ctx.Rewriter())
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", uri, err)
	}

	diagnostics := make([]protocol.Diagnostic, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		diagnostics = append(diagnostics, Convert(d))
	}
	return diagnostics, nil
}

// Convert turns a rewrite diagnostic into its LSP form. Fixable declarations
// are warnings; stops the fix had to leave alone are informational.
func Convert(d rewrite.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityInformation
	if d.Code == rewrite.CodeTransparentGradient {
		severity = protocol.DiagnosticSeverityWarning
	}
	source := Source
	return protocol.Diagnostic{
		Range:    helpers.ToProtocolRange(d.Range),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   &source,
		Message:  d.Message,
	}
}
