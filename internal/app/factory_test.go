package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sha1n/mcp-eda-server/internal/config"
	"github.com/sha1n/mcp-eda-server/internal/content"
	"github.com/sha1n/mcp-eda-server/internal/domain"
	"github.com/sha1n/mcp-eda-server/internal/resources"
	"github.com/sha1n/mcp-eda-server/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() *config.Settings {
	return &config.Settings{
		Transport: config.TransportStdio,
		Scheme:    "eda",
		LogLevel:  "info",
		Search:    config.SearchSettings{MaxResults: 10},
		Auth:      config.AuthSettings{Type: config.AuthNone},
		Preview:   config.PreviewSettings{Rows: 5},
	}
}

// writeContentDir creates a content directory with the given files,
// relative to the directory root
func writeContentDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "content")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, content.ResourcesDir), 0755))
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
	return dir
}

func writeMetadata(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mcp-metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) string {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %s not registered", name)
	result, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestCreateMCPServer_Defaults(t *testing.T) {
	s, cleanup, err := CreateMCPServer(testSettings())
	require.NoError(t, err)
	defer cleanup()

	assert.Len(t, s.ListTools(), 4)

	text := callTool(t, s, domain.ToolSearch, map[string]any{"query": "spearman"})
	assert.Contains(t, text, "eda://builtin/guides/")
}

func TestCreateMCPServer_Success(t *testing.T) {
	contentDir := writeContentDir(t, map[string]string{
		"resources/res.md":   "---\nname: Zeppelin fleet\ndescription: A test resource\nkeywords: [airships]\n---\nFleet utilisation figures.",
		"prompts/prompt.md":  "---\nname: prompt\ndescription: A test prompt\n---\nHello",
		"resources/skip.txt": "not markdown",
	})

	settings := testSettings()
	settings.ContentDir = contentDir
	settings.Metadata = writeMetadata(t, `
server:
  name: test
  version: 1.0.0
  instructions: inst
tools:
  - name: search
    description: Search the team notes
`)

	s, cleanup, err := CreateMCPServer(settings)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "Search the team notes", s.ListTools()[domain.ToolSearch].Tool.Description)

	text := callTool(t, s, domain.ToolSearch, map[string]any{"query": "zeppelin", "source": LocalSourceName})
	assert.Contains(t, text, "eda://local/res")
	assert.NotContains(t, text, "eda://builtin")

	body := callTool(t, s, domain.ToolRead, map[string]any{"uri": "eda://local/res"})
	assert.Equal(t, "Fleet utilisation figures.", body)
}

func TestCreateMCPServer_MetadataErrors(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		want     string
	}{
		{"invalid yaml", "not: valid: yaml: {{", "failed to parse metadata"},
		{"empty server", "server:\n  name: \"\"\n", "metadata validation failed"},
		{"tool without name", "server: { name: test, version: 1.0, instructions: inst }\ntools:\n  - { name: \"\", description: d }\n", "metadata validation failed"},
		{"duplicate tools", "server: { name: test, version: 1.0, instructions: inst }\ntools:\n  - { name: search, description: d1 }\n  - { name: search, description: d2 }\n", "duplicate tool name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings()
			settings.Metadata = writeMetadata(t, tt.metadata)
			_, _, err := CreateMCPServer(settings)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	settings := testSettings()
	settings.Metadata = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err := CreateMCPServer(settings)
	assert.ErrorContains(t, err, "failed to read metadata file")
}

func TestCreateMCPServer_ContentDirWithoutResources(t *testing.T) {
	settings := testSettings()
	settings.ContentDir = t.TempDir()

	_, _, err := CreateMCPServer(settings)
	assert.ErrorContains(t, err, "failed to initialize content provider")
}

func TestCreateMCPServer_InvalidResourceIsSkipped(t *testing.T) {
	settings := testSettings()
	settings.ContentDir = writeContentDir(t, map[string]string{
		"resources/invalid.md":  "---\n: broken\n---\ncontent",
		"resources/no-front.md": "# No frontmatter",
	})

	s, cleanup, err := CreateMCPServer(settings)
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, s)
}

func TestCreateMCPServer_InvalidPromptDefaults(t *testing.T) {
	settings := testSettings()
	settings.Prompts.Defaults = map[string]string{"dataset_name": "X"}

	_, _, err := CreateMCPServer(settings)
	assert.ErrorContains(t, err, "failed to initialize prompt engine")
}

func TestCreateMCPServer_CrossRef(t *testing.T) {
	files := map[string]string{
		"resources/doc-a.md":        "---\nname: Doc A\ndescription: Document A\n---\nSee [Doc B](guides/doc-b.md) for more.",
		"resources/guides/doc-b.md": "---\nname: Doc B\ndescription: Document B\n---\nBack to [Doc A](../doc-a.md).",
	}

	settings := testSettings()
	settings.ContentDir = writeContentDir(t, files)
	settings.CrossRef = true

	s, cleanup, err := CreateMCPServer(settings)
	require.NoError(t, err)
	defer cleanup()

	docA := callTool(t, s, domain.ToolRead, map[string]any{"uri": "eda://local/doc-a"})
	assert.Contains(t, docA, "(eda://local/guides/doc-b)")
	docB := callTool(t, s, domain.ToolRead, map[string]any{"uri": "eda://local/guides/doc-b"})
	assert.Contains(t, docB, "(eda://local/doc-a)")

	settings.CrossRef = false
	plain, cleanupPlain, err := CreateMCPServer(settings)
	require.NoError(t, err)
	defer cleanupPlain()

	docA = callTool(t, plain, domain.ToolRead, map[string]any{"uri": "eda://local/doc-a"})
	assert.Contains(t, docA, "(guides/doc-b.md)")
}

func TestNewPromptEngine(t *testing.T) {
	settings := testSettings()
	settings.Prompts.Strict = true
	settings.Prompts.Defaults = map[string]string{"analysis_depth": "comprehensive"}

	engine, err := NewPromptEngine(settings)
	require.NoError(t, err)
	assert.True(t, engine.Strict())
	depth, _ := engine.Defaults().Lookup("analysis_depth")
	assert.Equal(t, "comprehensive", depth)
}

type failingSearcher struct {
	search.Searcher
}

func (failingSearcher) Index(ctx context.Context, docs <-chan domain.Document) error {
	return errors.New("index full")
}

func TestIndexResources_PropagatesIndexError(t *testing.T) {
	cp, err := NewContentProvider("")
	require.NoError(t, err)
	defs, err := resources.DiscoverResources(cp, "eda")
	require.NoError(t, err)
	provider := resources.NewResourceProvider(cp, defs)

	err = IndexResources(context.Background(), provider, failingSearcher{})
	assert.EqualError(t, err, "index full")
}

func TestBuildInstructions(t *testing.T) {
	assert.Equal(t, "base", buildInstructions("base", nil))

	text := buildInstructions("base", []content.Location{
		{Name: "builtin", Description: "Guides"},
		{Name: "local", Description: "Team notes"},
	})
	assert.True(t, strings.HasPrefix(text, "base\n\nAvailable content sources:\n"))
	assert.Contains(t, text, "- builtin: Guides\n")
	assert.Contains(t, text, "- local: Team notes\n")
}
