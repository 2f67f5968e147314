package codeaction

import (
	"fmt"
	"strings"

	"bennypowers.dev/gtf/internal/log"
	"bennypowers.dev/gtf/internal/rewrite"
	"bennypowers.dev/gtf/lsp/helpers"
	"bennypowers.dev/gtf/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// KindFixAll is the code action kind of the document-wide fix
const KindFixAll protocol.CodeActionKind = "source.fixAll"

// TitleFixAll names the document-wide fix
const TitleFixAll = "Fix all transparent gradients"

// CodeAction handles the textDocument/codeAction request. Every fixable
// declaration touching the requested range gets a quick fix, and a document
// with any fixable declaration gets a lazily resolved fix-all action.
func CodeAction(req *types.RequestContext, params *protocol.CodeActionParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("CodeAction requested: %s", uri)

	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}

	result, err := doc.Analyze(req.Server.Rewriter())
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", uri, err)
	}
	if len(result.Edits) == 0 {
		return nil, nil
	}

	var actions []protocol.CodeAction
	if wants(params.Context.Only, protocol.CodeActionKindQuickFix) {
		for _, edit := range result.Edits {
			rng := helpers.ToProtocolRange(edit.Range)
			if !helpers.Touches(params.Range, rng) {
				continue
			}
			actions = append(actions, quickFix(uri, edit, matchingDiagnostic(params.Context.Diagnostics, rng)))
		}
	}

	if wants(params.Context.Only, KindFixAll) {
		kind := KindFixAll
		actions = append(actions, protocol.CodeAction{
			Title: TitleFixAll,
			Kind:  &kind,
			Data:  map[string]any{"uri": uri},
		})
	}

	return actions, nil
}

// CodeActionResolve handles the codeAction/resolve request by computing the
// edits of the fix-all action. Other actions already carry their edit.
func CodeActionResolve(req *types.RequestContext, action *protocol.CodeAction) (*protocol.CodeAction, error) {
	if action.Title != TitleFixAll {
		return action, nil
	}

	data, ok := action.Data.(map[string]any)
	if !ok {
		return action, nil
	}
	uri, ok := data["uri"].(string)
	if !ok {
		return action, nil
	}

	doc := req.Server.Document(uri)
	if doc == nil {
		req.AddWarning(fmt.Errorf("cannot resolve %q: document %s is not open", action.Title, uri))
		return action, nil
	}

	result, err := doc.Analyze(req.Server.Rewriter())
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", uri, err)
	}

	edits := make([]protocol.TextEdit, 0, len(result.Edits))
	for _, edit := range result.Edits {
		edits = append(edits, textEdit(edit))
	}
	action.Edit = &protocol.WorkspaceEdit{
		Changes: map[string][]protocol.TextEdit{uri: edits},
	}
	return action, nil
}

func quickFix(uri string, edit rewrite.Edit, diag *protocol.Diagnostic) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	action := protocol.CodeAction{
		Title: fmt.Sprintf("Fix transparent gradient in '%s'", edit.Property),
		Kind:  &kind,
		Edit: &protocol.WorkspaceEdit{
			Changes: map[string][]protocol.TextEdit{uri: {textEdit(edit)}},
		},
	}
	if diag != nil {
		action.Diagnostics = []protocol.Diagnostic{*diag}
		preferred := true
		action.IsPreferred = &preferred
	}
	return action
}

func textEdit(edit rewrite.Edit) protocol.TextEdit {
	return protocol.TextEdit{
		Range:   helpers.ToProtocolRange(edit.Range),
		NewText: edit.NewText,
	}
}

// matchingDiagnostic finds the client's transparent-gradient diagnostic for a
// declaration range
func matchingDiagnostic(diagnostics []protocol.Diagnostic, rng protocol.Range) *protocol.Diagnostic {
	for i := range diagnostics {
		d := &diagnostics[i]
		if d.Range != rng || d.Code == nil {
			continue
		}
		if code, ok := d.Code.Value.(string); ok && code == rewrite.CodeTransparentGradient {
			return d
		}
	}
	return nil
}

// wants reports whether kind passes the client's "only" filter. A filter
// entry also selects its sub-kinds.
func wants(only []protocol.CodeActionKind, kind protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, k := range only {
		if kind == k || strings.HasPrefix(string(kind), string(k)+".") {
			return true
		}
	}
	return false
}
