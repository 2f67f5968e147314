package lifecycle_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/gtf/internal/config"
	"bennypowers.dev/gtf/lsp/methods/lifecycle"
	"bennypowers.dev/gtf/lsp/testutil"
	"bennypowers.dev/gtf/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func newRequest() (*testutil.MockServerContext, *types.RequestContext) {
	ctx := testutil.NewMockServerContext()
	return ctx, types.NewRequestContext(ctx, &glsp.Context{})
}

func capabilities(t *testing.T, result any) map[string]any {
	t.Helper()
	data, err := json.Marshal(result)
	require.NoError(t, err)
	var decoded struct {
		Capabilities map[string]any `json:"capabilities"`
		ServerInfo   struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, lifecycle.ServerName, decoded.ServerInfo.Name)
	return decoded.Capabilities
}

func TestInitialize_Root(t *testing.T) {
	t.Run("from rootUri", func(t *testing.T) {
		ctx, req := newRequest()
		rootURI := "file:///workspace"
		_, err := lifecycle.Initialize(req, &protocol.InitializeParams{RootURI: &rootURI})
		require.NoError(t, err)
		assert.Equal(t, "file:///workspace", ctx.RootURI())
		assert.Equal(t, filepath.FromSlash("/workspace"), ctx.RootPath())
	})

	t.Run("from rootPath", func(t *testing.T) {
		ctx, req := newRequest()
		rootPath := "/workspace"
		_, err := lifecycle.Initialize(req, &protocol.InitializeParams{RootPath: &rootPath})
		require.NoError(t, err)
		assert.Equal(t, "/workspace", ctx.RootPath())
		assert.Contains(t, ctx.RootURI(), "workspace")
	})
}

func TestInitialize_Capabilities(t *testing.T) {
	_, req := newRequest()
	result, err := lifecycle.Initialize(req, &protocol.InitializeParams{})
	require.NoError(t, err)

	caps := capabilities(t, result)
	sync, ok := caps["textDocumentSync"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(protocol.TextDocumentSyncKindIncremental), sync["change"])

	actions, ok := caps["codeActionProvider"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"quickfix", "source.fixAll"}, actions["codeActionKinds"])
	assert.Equal(t, true, actions["resolveProvider"])

	assert.NotContains(t, caps, "diagnosticProvider")
}

func TestInitialize_PullDiagnostics(t *testing.T) {
	ctx, req := newRequest()
	ctx.SetClientDiagnosticCapability(true)

	result, err := lifecycle.Initialize(req, &protocol.InitializeParams{})
	require.NoError(t, err)

	assert.True(t, ctx.UsePullDiagnostics())
	assert.Contains(t, capabilities(t, result), "diagnosticProvider")
}

func TestInitialize_InitializationOptions(t *testing.T) {
	ctx, req := newRequest()
	_, err := lifecycle.Initialize(req, &protocol.InitializeParams{
		InitializationOptions: map[string]any{"properties": "^mask$"},
	})
	require.NoError(t, err)
	assert.Equal(t, "^mask$", ctx.Config().Properties)

	ctx, req = newRequest()
	_, err = lifecycle.Initialize(req, &protocol.InitializeParams{
		InitializationOptions: map[string]any{"properties": "("},
	})
	require.NoError(t, err)
	assert.True(t, req.HasWarnings())
	assert.Equal(t, config.Default().Properties, ctx.Config().Properties)
}

func TestInitialized(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"),
		[]byte(`{"name": "site", "gradientTransparencyFix": {"properties": "^background$"}}`), 0o644))

	ctx, req := newRequest()
	ctx.SetRootPath(root)

	require.NoError(t, lifecycle.Initialized(req, &protocol.InitializedParams{}))

	assert.Same(t, req.GLSP, ctx.GLSPContext())
	assert.True(t, ctx.LoadConfigCalled)
	assert.True(t, ctx.RegisterWatchersCalled)
	assert.Equal(t, "^background$", ctx.Config().Properties)
	assert.Equal(t, filepath.Join(root, "package.json"), ctx.ConfigPath())
	assert.False(t, req.HasWarnings())
}

func TestInitialized_FailuresAreWarnings(t *testing.T) {
	ctx, req := newRequest()
	ctx.LoadConfigFunc = func() error { return errors.New("bad config") }
	ctx.RegisterWatchersFunc = func(*glsp.Context) error { return errors.New("no client") }

	require.NoError(t, lifecycle.Initialized(req, &protocol.InitializedParams{}))
	assert.Len(t, req.Warnings(), 2)
}

func TestShutdown(t *testing.T) {
	_, req := newRequest()
	assert.NoError(t, lifecycle.Shutdown(req))
	assert.NoError(t, lifecycle.Shutdown(req), "safe to call twice")
}

func TestSetTrace(t *testing.T) {
	_, req := newRequest()
	assert.NoError(t, lifecycle.SetTrace(req, &protocol.SetTraceParams{Value: protocol.TraceValue("verbose")}))
}
