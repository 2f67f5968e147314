package lsp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bennypowers.dev/gtf/internal/rewrite"
	"bennypowers.dev/gtf/internal/uriutil"
	codeaction "bennypowers.dev/gtf/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/gtf/lsp/methods/textDocument/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	fadeURI = "file:///workspace/fade.css"
	fadeCSS = ".hero { background: linear-gradient(red, transparent); }"
)

// client records what the server sends
type client struct {
	mu    sync.Mutex
	notes []notification
}

type notification struct {
	method string
	params any
}

func (c *client) notify(method string, params any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, notification{method, params})
}

// published returns the diagnostics of every publishDiagnostics for uri
func (c *client) published(uri string) [][]protocol.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	var all [][]protocol.Diagnostic
	for _, n := range c.notes {
		params, ok := n.params.(protocol.PublishDiagnosticsParams)
		if n.method == protocol.ServerTextDocumentPublishDiagnostics && ok && params.URI == uri {
			all = append(all, params.Diagnostics)
		}
	}
	return all
}

func (c *client) latest(t *testing.T, uri string) []protocol.Diagnostic {
	t.Helper()
	all := c.published(uri)
	require.NotEmpty(t, all, "no diagnostics published for %s", uri)
	return all[len(all)-1]
}

func newTestServer(t *testing.T, configPath string) (*Server, *client) {
	t.Helper()
	s, err := NewServer(configPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, &client{}
}

// handle sends one message through the same handler chain RunStdio uses
func handle(t *testing.T, s *Server, c *client, method string, params any) any {
	t.Helper()
	data, err := json.Marshal(params)
	require.NoError(t, err)
	result, validMethod, validParams, err := s.glspServer.Handler.Handle(&glsp.Context{
		Method: method,
		Params: data,
		Notify: c.notify,
	})
	require.True(t, validMethod, method)
	require.True(t, validParams, method)
	require.NoError(t, err, method)
	return result
}

// decode round-trips a handler result through JSON, as the client sees it
func decode[T any](t *testing.T, result any) T {
	t.Helper()
	data, err := json.Marshal(result)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func initialize(t *testing.T, s *Server, c *client, root string, capabilities map[string]any) {
	t.Helper()
	params := map[string]any{"capabilities": capabilities}
	if root != "" {
		params["rootUri"] = uriutil.PathToURI(root)
	}
	handle(t, s, c, "initialize", params)
	handle(t, s, c, "initialized", map[string]any{})
}

func open(t *testing.T, s *Server, c *client, uri, text string) {
	t.Helper()
	handle(t, s, c, "textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "css", "version": 1, "text": text},
	})
}

func TestServerPushDiagnostics(t *testing.T) {
	s, c := newTestServer(t, "")
	initialize(t, s, c, t.TempDir(), map[string]any{})
	assert.False(t, s.UsePullDiagnostics())

	open(t, s, c, fadeURI, fadeCSS)
	diags := c.latest(t, fadeURI)
	require.Len(t, diags, 1)
	assert.Equal(t, rewrite.CodeTransparentGradient, diags[0].Code.Value)
	assert.Equal(t, diagnostic.Source, *diags[0].Source)

	handle(t, s, c, "textDocument/didChange", map[string]any{
		"textDocument":   map[string]any{"uri": fadeURI, "version": 2},
		"contentChanges": []any{map[string]any{"text": ".hero { color: red; }"}},
	})
	diags = c.latest(t, fadeURI)
	assert.NotNil(t, diags, "an empty list clears the client's diagnostics")
	assert.Empty(t, diags)

	handle(t, s, c, "textDocument/didClose", map[string]any{
		"textDocument": map[string]any{"uri": fadeURI},
	})
	assert.Nil(t, s.Document(fadeURI))
	assert.Len(t, c.published(fadeURI), 3)
	assert.Empty(t, c.latest(t, fadeURI))
}

func TestServerIncrementalChange(t *testing.T) {
	s, c := newTestServer(t, "")
	initialize(t, s, c, "", map[string]any{})
	open(t, s, c, fadeURI, ".hero { background: linear-gradient(red, blue); }")
	assert.Empty(t, c.latest(t, fadeURI))

	// replace "blue" (columns 41-45) with "transparent"
	handle(t, s, c, "textDocument/didChange", map[string]any{
		"textDocument": map[string]any{"uri": fadeURI, "version": 2},
		"contentChanges": []any{map[string]any{
			"range": map[string]any{
				"start": map[string]any{"line": 0, "character": 41},
				"end":   map[string]any{"line": 0, "character": 45},
			},
			"text": "transparent",
		}},
	})
	assert.Equal(t, fadeCSS, s.Document(fadeURI).Content())
	assert.Len(t, c.latest(t, fadeURI), 1)
}

func TestServerPullDiagnostics(t *testing.T) {
	s, c := newTestServer(t, "")
	initialize(t, s, c, "", map[string]any{
		"textDocument": map[string]any{"diagnostic": map[string]any{}},
	})
	require.True(t, s.UsePullDiagnostics())
	require.NotNil(t, s.ClientDiagnosticCapability())

	open(t, s, c, fadeURI, fadeCSS)
	assert.Empty(t, c.published(fadeURI), "pull clients are never pushed diagnostics")

	result := handle(t, s, c, diagnostic.MethodDocumentDiagnostic, map[string]any{
		"textDocument": map[string]any{"uri": fadeURI},
	})
	// glsp cannot decode IntegerOrString, so codes are read as strings
	report := decode[struct {
		Kind  string
		Items []struct{ Code string }
	}](t, result)
	assert.Equal(t, "full", report.Kind)
	require.Len(t, report.Items, 1)
	assert.Equal(t, rewrite.CodeTransparentGradient, report.Items[0].Code)
}

func TestServerCapabilities(t *testing.T) {
	tests := []struct {
		name         string
		capabilities map[string]any
		wantPull     bool
	}{
		{name: "push client", capabilities: map[string]any{}},
		{
			name:         "pull client",
			capabilities: map[string]any{"textDocument": map[string]any{"diagnostic": map[string]any{}}},
			wantPull:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newTestServer(t, "")
			result := handle(t, s, c, "initialize", map[string]any{"capabilities": tt.capabilities})
			reply := decode[map[string]map[string]any](t, result)

			caps := reply["capabilities"]
			assert.Contains(t, caps, "codeActionProvider")
			assert.Contains(t, caps, "textDocumentSync")
			_, hasProvider := caps["diagnosticProvider"]
			assert.Equal(t, tt.wantPull, hasProvider)
			assert.Equal(t, "gradient-transparency-fix", reply["serverInfo"]["name"])
		})
	}
}

func TestServerCodeActions(t *testing.T) {
	s, c := newTestServer(t, "")
	initialize(t, s, c, "", map[string]any{})
	open(t, s, c, fadeURI, fadeCSS)

	result := handle(t, s, c, "textDocument/codeAction", map[string]any{
		"textDocument": map[string]any{"uri": fadeURI},
		"range": map[string]any{
			"start": map[string]any{"line": 0, "character": 25},
			"end":   map[string]any{"line": 0, "character": 25},
		},
		"context": map[string]any{"diagnostics": []any{}},
	})
	actions := decode[[]protocol.CodeAction](t, result)
	require.Len(t, actions, 2)

	quick := actions[0]
	require.NotNil(t, quick.Edit)
	edits := quick.Edit.Changes[fadeURI]
	require.Len(t, edits, 1)
	assert.Equal(t, "linear-gradient(red, rgba(255, 0, 0, 0))", edits[0].NewText)

	fixAll := actions[1]
	assert.Equal(t, codeaction.KindFixAll, *fixAll.Kind)
	assert.Nil(t, fixAll.Edit)

	resolved := handle(t, s, c, "codeAction/resolve", fixAll)
	action := decode[protocol.CodeAction](t, resolved)
	require.NotNil(t, action.Edit)
	assert.Len(t, action.Edit.Changes[fadeURI], 1)
}

func TestServerWorkspaceConfig(t *testing.T) {
	root := t.TempDir()
	configFile := filepath.Join(root, ".gradient-transparency-fix.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("properties: '^mask-image$'\n"), 0o600))

	s, c := newTestServer(t, "")
	initialize(t, s, c, root, map[string]any{})
	assert.Equal(t, configFile, s.ConfigPath())
	assert.Equal(t, "^mask-image$", s.Config().Properties)

	open(t, s, c, fadeURI, fadeCSS)
	assert.Empty(t, c.latest(t, fadeURI), "background is not configured")

	handle(t, s, c, "workspace/didChangeConfiguration", map[string]any{
		"settings": map[string]any{"gradientTransparencyFix": map[string]any{"properties": "^background$"}},
	})
	assert.Equal(t, "^background$", s.Config().Properties)
	assert.Len(t, c.latest(t, fadeURI), 1, "open documents are republished")

	// settings survive a reload of the file
	require.NoError(t, os.WriteFile(configFile, []byte("exclude: ['dist/**']\n"), 0o600))
	handle(t, s, c, "workspace/didChangeWatchedFiles", map[string]any{
		"changes": []any{map[string]any{"uri": uriutil.PathToURI(configFile), "type": 2}},
	})
	assert.Equal(t, "^background$", s.Config().Properties)
	assert.Equal(t, []string{"dist/**"}, s.Config().Exclude)
}

func TestServerInitializationOptions(t *testing.T) {
	s, c := newTestServer(t, "")
	handle(t, s, c, "initialize", map[string]any{
		"capabilities":          map[string]any{},
		"initializationOptions": map[string]any{"properties": "^border-image$"},
	})
	assert.Equal(t, "^border-image$", s.Config().Properties)
}

func TestServerApplySettingsInvalid(t *testing.T) {
	s, _ := newTestServer(t, "")
	before := s.Config()
	rw := s.Rewriter()

	err := s.ApplySettings(map[string]any{"properties": "("})
	require.Error(t, err)
	assert.Equal(t, before, s.Config())
	assert.Same(t, rw, s.Rewriter())
}

func TestServerExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "gradients.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{
		// comments are allowed
		"properties": "^background-image$"
	}`), 0o600))

	s, c := newTestServer(t, configFile)
	initialize(t, s, c, t.TempDir(), map[string]any{})

	assert.Equal(t, configFile, s.ConfigPath())
	assert.Equal(t, "^background-image$", s.Config().Properties)
	assert.True(t, s.IsConfigFile(configFile))
	assert.False(t, s.IsConfigFile(filepath.Join(s.RootPath(), "package.json")))
	assert.Equal(t, []string{filepath.ToSlash(configFile)}, s.watchPatterns())
}

func TestServerLoadWorkspaceConfigError(t *testing.T) {
	s, _ := newTestServer(t, filepath.Join(t.TempDir(), "missing.yaml"))
	err := s.LoadWorkspaceConfig()
	require.Error(t, err)
	assert.Empty(t, s.ConfigPath())
}

func TestServerIsConfigFile(t *testing.T) {
	root := t.TempDir()
	s, _ := newTestServer(t, "")

	assert.True(t, s.IsConfigFile(filepath.Join(root, "package.json")), "any config name before initialize")

	s.SetRootPath(root)
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "package.json"), true},
		{filepath.Join(root, ".gradient-transparency-fix.yml"), true},
		{filepath.Join(root, ".gradient-transparency-fix.jsonc"), true},
		{filepath.Join(root, "packages", "a", "package.json"), false},
		{filepath.Join(root, "styles.css"), false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsConfigFile(tt.path))
		})
	}
}

func TestServerWatchPatterns(t *testing.T) {
	s, _ := newTestServer(t, "")
	assert.Empty(t, s.watchPatterns())

	s.SetRootPath("/workspace")
	assert.Equal(t, []string{
		"/workspace/.gradient-transparency-fix.yaml",
		"/workspace/.gradient-transparency-fix.yml",
		"/workspace/.gradient-transparency-fix.json",
		"/workspace/.gradient-transparency-fix.jsonc",
		"/workspace/package.json",
	}, s.watchPatterns())
}

func TestServerRegisterFileWatchers(t *testing.T) {
	s, _ := newTestServer(t, "")
	s.SetRootPath(t.TempDir())

	require.NoError(t, s.RegisterFileWatchers(nil))
	require.NoError(t, s.RegisterFileWatchers(&glsp.Context{}))

	calls := make(chan protocol.RegistrationParams, 1)
	ctx := &glsp.Context{
		Call: func(method string, params any, result any) {
			assert.Equal(t, "client/registerCapability", method)
			calls <- params.(protocol.RegistrationParams)
		},
	}
	require.NoError(t, s.RegisterFileWatchers(ctx))

	select {
	case params := <-calls:
		require.Len(t, params.Registrations, 1)
		registration := params.Registrations[0]
		assert.Equal(t, "workspace/didChangeWatchedFiles", registration.Method)
		options := registration.RegisterOptions.(protocol.DidChangeWatchedFilesRegistrationOptions)
		assert.Len(t, options.Watchers, 5)
	case <-time.After(time.Second):
		t.Fatal("registration was not sent")
	}
}

func TestServerPublishDiagnosticsWithoutClient(t *testing.T) {
	s, c := newTestServer(t, "")
	require.NoError(t, s.DocumentManager().DidOpen(fadeURI, "css", 1, fadeCSS))

	assert.NoError(t, s.PublishDiagnostics(nil, fadeURI))
	assert.NoError(t, s.PublishDiagnostics(&glsp.Context{}, fadeURI))

	s.SetUsePullDiagnostics(true)
	assert.NoError(t, s.PublishDiagnostics(&glsp.Context{Notify: c.notify}, fadeURI))
	assert.Empty(t, c.published(fadeURI))
}

func TestServerClose(t *testing.T) {
	s, err := NewServer("")
	require.NoError(t, err)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
