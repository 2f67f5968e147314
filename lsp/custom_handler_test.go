package lsp

import (
	"testing"

	"bennypowers.dev/gtf/lsp/methods/textDocument/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
)

func TestCustomHandlerDiagnostic(t *testing.T) {
	s, _ := newTestServer(t, "")
	require.NoError(t, s.DocumentManager().DidOpen(fadeURI, "css", 1, fadeCSS))

	t.Run("valid params", func(t *testing.T) {
		result, validMethod, validParams, err := s.glspServer.Handler.Handle(&glsp.Context{
			Method: diagnostic.MethodDocumentDiagnostic,
			Params: []byte(`{"textDocument":{"uri":"` + fadeURI + `"}}`),
		})
		require.NoError(t, err)
		assert.True(t, validMethod)
		assert.True(t, validParams)
		report, ok := result.(diagnostic.RelatedFullDocumentDiagnosticReport)
		require.True(t, ok)
		assert.Len(t, report.Items, 1)
	})

	t.Run("malformed params", func(t *testing.T) {
		_, validMethod, validParams, err := s.glspServer.Handler.Handle(&glsp.Context{
			Method: diagnostic.MethodDocumentDiagnostic,
			Params: []byte(`{invalid json`),
		})
		assert.Error(t, err)
		assert.True(t, validMethod)
		assert.False(t, validParams)
	})
}

func TestCustomHandlerInitializeDetectsCapability(t *testing.T) {
	s, c := newTestServer(t, "")
	assert.Nil(t, s.ClientDiagnosticCapability())

	handle(t, s, c, "initialize", map[string]any{"capabilities": map[string]any{}})

	detected := s.ClientDiagnosticCapability()
	require.NotNil(t, detected)
	assert.False(t, *detected)
}

func TestCustomHandlerFallsThrough(t *testing.T) {
	s, _ := newTestServer(t, "")

	// protocol.Handler rejects requests before initialize
	_, _, _, err := s.glspServer.Handler.Handle(&glsp.Context{
		Method: "textDocument/codeAction",
		Params: []byte(`{}`),
	})
	assert.EqualError(t, err, "server not initialized")
}
