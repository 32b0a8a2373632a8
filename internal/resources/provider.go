package resources

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sha1n/mcp-eda-server/internal/content"
	"github.com/sha1n/mcp-eda-server/internal/domain"
)

// ResourceDefinition definition of a reference resource
type ResourceDefinition struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	Path        string // Slash-separated path inside the content location
	Keywords    []string
	Source      string // Content location name
}

// ContentTransformer rewrites resource content before it is served
type ContentTransformer func(content string, currentDef ResourceDefinition) string

// ResourceProvider provides access to resources
type ResourceProvider struct {
	cp           *content.ContentProvider
	definitions  []ResourceDefinition
	uriMap       map[string]ResourceDefinition
	transformers []ContentTransformer
}

// NewResourceProvider creates a new resource provider
func NewResourceProvider(cp *content.ContentProvider, definitions []ResourceDefinition, transformers ...ContentTransformer) *ResourceProvider {
	uriMap := make(map[string]ResourceDefinition, len(definitions))
	for _, d := range definitions {
		uriMap[d.URI] = d
	}
	return &ResourceProvider{
		cp:           cp,
		definitions:  definitions,
		uriMap:       uriMap,
		transformers: transformers,
	}
}

// Definitions returns the discovered definitions
func (p *ResourceProvider) Definitions() []ResourceDefinition {
	out := make([]ResourceDefinition, len(p.definitions))
	copy(out, p.definitions)
	return out
}

// ListResources lists all available resources
func (p *ResourceProvider) ListResources() []mcp.Resource {
	resources := make([]mcp.Resource, len(p.definitions))
	for i, d := range p.definitions {
		resources[i] = mcp.NewResource(d.URI, d.Name,
			mcp.WithResourceDescription(d.Description),
			mcp.WithMIMEType(d.MIMEType),
		)
	}
	return resources
}

// ReadResource reads a resource by URI, without its frontmatter
func (p *ResourceProvider) ReadResource(uri string) (string, error) {
	defn, ok := p.uriMap[uri]
	if !ok {
		return "", fmt.Errorf("unknown resource: %s", uri)
	}

	data, err := p.cp.ReadFile(defn.Source, defn.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read resource %s: %w", uri, err)
	}

	body := content.StripFrontmatter(string(data))
	for _, transform := range p.transformers {
		body = transform(body, defn)
	}
	return body, nil
}

// StreamResources streams all resource contents to a channel
func (p *ResourceProvider) StreamResources(ctx context.Context, ch chan<- domain.Document) error {
	for _, defn := range p.definitions {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		resourceContent, err := p.ReadResource(defn.URI)
		if err != nil {
			slog.Error("Error reading resource for indexing", "uri", defn.URI, "error", err)
			continue
		}

		doc := domain.Document{
			URI:      defn.URI,
			Name:     defn.Name,
			Content:  resourceContent,
			Keywords: defn.Keywords,
			Source:   defn.Source,
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch <- doc:
		}
	}
	return nil
}

// DiscoverResources discovers resources from the resources/ directory of
// every content location
func DiscoverResources(cp *content.ContentProvider, scheme string) ([]ResourceDefinition, error) {
	var definitions []ResourceDefinition

	for _, loc := range cp.Locations() {
		locDefs, err := discoverResourcesInLocation(loc, cp, scheme)
		if err != nil {
			return nil, fmt.Errorf("error discovering resources in %s: %w", loc.Name, err)
		}
		definitions = append(definitions, locDefs...)
	}

	return definitions, nil
}

func discoverResourcesInLocation(loc content.Location, cp *content.ContentProvider, scheme string) ([]ResourceDefinition, error) {
	var definitions []ResourceDefinition

	err := fs.WalkDir(loc.FS, content.ResourcesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}

		md, err := cp.LoadMarkdownWithFrontmatter(loc.Name, p)
		if err != nil {
			slog.Warn("Skipping invalid resource file", "file", p, "source", loc.Name, "error", err)
			return nil
		}

		name, _ := md.Metadata["name"].(string)
		description, _ := md.Metadata["description"].(string)
		if name == "" || description == "" {
			slog.Warn("Skipping resource with missing metadata", "file", p, "source", loc.Name)
			return nil
		}

		var keywords []string
		if kw, ok := md.Metadata["keywords"].([]interface{}); ok {
			for _, k := range kw {
				if s, ok := k.(string); ok {
					keywords = append(keywords, s)
				}
			}
		}

		rel := strings.TrimPrefix(p, content.ResourcesDir+"/")
		uri := fmt.Sprintf("%s://%s/%s", scheme, loc.Name, strings.TrimSuffix(rel, path.Ext(rel)))

		definitions = append(definitions, ResourceDefinition{
			URI:         uri,
			Name:        name,
			Description: description,
			MIMEType:    "text/markdown",
			Path:        p,
			Keywords:    keywords,
			Source:      loc.Name,
		})

		slog.Debug("Loaded resource", "uri", uri, "name", name, "source", loc.Name)

		return nil
	})

	if err != nil {
		return nil, err
	}

	return definitions, nil
}
