package resources

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/sha1n/mcp-eda-server/internal/content"
	"github.com/sha1n/mcp-eda-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContent(t *testing.T) *content.ContentProvider {
	t.Helper()
	team := fstest.MapFS{
		"resources/playbook.md":        {Data: []byte("---\nname: Playbook\ndescription: Team analysis playbook\nkeywords: [churn, retention]\n---\nSee [glossary](terms/glossary.md).\n")},
		"resources/terms/glossary.md":  {Data: []byte("---\nname: Glossary\ndescription: Terms\n---\nARPU: average revenue per user\n")},
		"resources/no-metadata.md":     {Data: []byte("---\nname: Orphan\n---\nbody")},
		"resources/no-frontmatter.md":  {Data: []byte("# plain")},
		"resources/data.csv":           {Data: []byte("a,b\n1,2\n")},
		"prompts/ignored-by-resources": {Data: []byte("x")},
	}
	cp, err := content.NewContentProvider(content.Builtin(), content.Location{Name: "team", FS: team})
	require.NoError(t, err)
	return cp
}

func TestDiscoverResources(t *testing.T) {
	cp := newTestContent(t)

	defs, err := DiscoverResources(cp, "eda")
	require.NoError(t, err)

	byURI := make(map[string]ResourceDefinition)
	for _, d := range defs {
		byURI[d.URI] = d
	}

	playbook, ok := byURI["eda://team/playbook"]
	require.True(t, ok, "team playbook should be discovered")
	assert.Equal(t, "Playbook", playbook.Name)
	assert.Equal(t, "Team analysis playbook", playbook.Description)
	assert.Equal(t, []string{"churn", "retention"}, playbook.Keywords)
	assert.Equal(t, "resources/playbook.md", playbook.Path)
	assert.Equal(t, "team", playbook.Source)
	assert.Equal(t, "text/markdown", playbook.MIMEType)

	assert.Contains(t, byURI, "eda://team/terms/glossary")
	assert.Contains(t, byURI, "eda://builtin/guides/statistical-tests")
	assert.NotContains(t, byURI, "eda://team/no-metadata")
	assert.NotContains(t, byURI, "eda://team/no-frontmatter")
	assert.NotContains(t, byURI, "eda://team/data")
}

func TestDiscoverResources_MissingResourcesDir(t *testing.T) {
	cp, err := content.NewContentProvider(content.Location{Name: "empty", FS: fstest.MapFS{}})
	require.NoError(t, err)

	_, err = DiscoverResources(cp, "eda")
	assert.Error(t, err)
}

func TestResourceProvider_ReadResource(t *testing.T) {
	cp := newTestContent(t)
	defs, err := DiscoverResources(cp, "eda")
	require.NoError(t, err)

	t.Run("strips frontmatter", func(t *testing.T) {
		p := NewResourceProvider(cp, defs)
		got, err := p.ReadResource("eda://team/terms/glossary")
		require.NoError(t, err)
		assert.Equal(t, "ARPU: average revenue per user\n", got)
	})

	t.Run("applies transformers", func(t *testing.T) {
		p := NewResourceProvider(cp, defs, NewCrossRefTransformer(defs, "eda"))
		got, err := p.ReadResource("eda://team/playbook")
		require.NoError(t, err)
		assert.Equal(t, "See [glossary](eda://team/terms/glossary).\n", got)
	})

	t.Run("unknown uri", func(t *testing.T) {
		p := NewResourceProvider(cp, defs)
		_, err := p.ReadResource("eda://team/missing")
		assert.Error(t, err)
	})
}

func TestResourceProvider_ListResources(t *testing.T) {
	cp := newTestContent(t)
	defs, err := DiscoverResources(cp, "eda")
	require.NoError(t, err)

	list := NewResourceProvider(cp, defs).ListResources()
	require.Len(t, list, len(defs))
	for i, r := range list {
		assert.Equal(t, defs[i].URI, r.URI)
		assert.Equal(t, defs[i].Name, r.Name)
		assert.Equal(t, "text/markdown", r.MIMEType)
	}
}

func TestResourceProvider_StreamResources(t *testing.T) {
	cp := newTestContent(t)
	defs, err := DiscoverResources(cp, "eda")
	require.NoError(t, err)
	p := NewResourceProvider(cp, defs)

	ch := make(chan domain.Document, len(defs))
	require.NoError(t, p.StreamResources(context.Background(), ch))
	close(ch)

	var docs []domain.Document
	for d := range ch {
		docs = append(docs, d)
	}
	assert.Len(t, docs, len(defs))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.StreamResources(ctx, make(chan domain.Document)), context.Canceled)
}
