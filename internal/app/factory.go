// Package app wires the server components together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sha1n/mcp-eda-server/internal/config"
	"github.com/sha1n/mcp-eda-server/internal/content"
	"github.com/sha1n/mcp-eda-server/internal/domain"
	"github.com/sha1n/mcp-eda-server/internal/inspect"
	"github.com/sha1n/mcp-eda-server/internal/mcp"
	"github.com/sha1n/mcp-eda-server/internal/prompts"
	"github.com/sha1n/mcp-eda-server/internal/resources"
	"github.com/sha1n/mcp-eda-server/internal/search"
	"golang.org/x/sync/errgroup"
)

// Version is stamped at build time
var Version = "dev"

// LocalSourceName names the user content directory location
const LocalSourceName = "local"

// CreateMCPServer initializes the core MCP server components
func CreateMCPServer(settings *config.Settings) (*server.MCPServer, func(), error) {
	metadata, err := loadMetadata(settings.Metadata)
	if err != nil {
		return nil, nil, err
	}

	cp, err := NewContentProvider(settings.ContentDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize content provider: %w", err)
	}

	resourceDefinitions, err := resources.DiscoverResources(cp, settings.Scheme)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to discover resources: %w", err)
	}

	var transformers []resources.ContentTransformer
	if settings.CrossRef {
		transformers = append(transformers, resources.NewCrossRefTransformer(resourceDefinitions, settings.Scheme))
	}
	resourceProvider := resources.NewResourceProvider(cp, resourceDefinitions, transformers...)

	engine, err := NewPromptEngine(settings)
	if err != nil {
		return nil, nil, err
	}

	promptDefinitions, err := prompts.DiscoverPrompts(cp)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to discover prompts: %w", err)
	}
	promptProvider := prompts.NewPromptProvider(engine, promptDefinitions)

	searchService, err := search.NewService(search.Settings{MaxResults: settings.Search.MaxResults})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize search: %w", err)
	}
	cleanup := func() {
		searchService.Close()
	}

	if err := IndexResources(context.Background(), resourceProvider, searchService); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to index resources: %w", err)
	}

	workspace, err := mcp.NewWorkspace(settings.Workspace)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	mcpServer := mcp.CreateServer(
		metadata,
		buildInstructions(metadata.Server.Instructions, cp.Locations()),
		resourceProvider,
		promptProvider,
		searchService,
		mcp.FileToolSettings{
			Workspace: workspace,
			Preview:   PreviewOptions(settings),
		},
	)

	slog.Info("Server ready",
		"resources", len(resourceDefinitions),
		"prompts", len(promptProvider.ListPrompts()),
		"workspace", workspace.Root(),
	)

	return mcpServer, cleanup, nil
}

// NewPromptEngine builds the prompt engine from the prompt settings
func NewPromptEngine(settings *config.Settings) (*prompts.Engine, error) {
	var opts []prompts.Option
	if len(settings.Prompts.Defaults) > 0 {
		opts = append(opts, prompts.WithDefaults(settings.Prompts.Defaults))
	}
	if settings.Prompts.Strict {
		opts = append(opts, prompts.WithStrictRequired())
	}
	engine, err := prompts.NewEngine(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt engine: %w", err)
	}
	return engine, nil
}

// PreviewOptions maps the preview settings onto the inspection options
func PreviewOptions(settings *config.Settings) inspect.PreviewOptions {
	return inspect.PreviewOptions{
		DefaultRows:     settings.Preview.Rows,
		RaggedTolerance: settings.Preview.RaggedTolerance,
	}
}

// NewContentProvider returns the built-in library plus the optional user
// content directory
func NewContentProvider(contentDir string) (*content.ContentProvider, error) {
	locations := []content.Location{content.Builtin()}
	if contentDir != "" {
		local, err := content.DirLocation(LocalSourceName, "Project reference material from "+contentDir, contentDir)
		if err != nil {
			return nil, err
		}
		locations = append(locations, local)
	}
	return content.NewContentProvider(locations...)
}

// IndexResources streams every resource into the search index
func IndexResources(ctx context.Context, provider *resources.ResourceProvider, searcher search.Searcher) error {
	docs := make(chan domain.Document)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(docs)
		return provider.StreamResources(ctx, docs)
	})
	g.Go(func() error {
		return searcher.Index(ctx, docs)
	})

	return g.Wait()
}

func loadMetadata(path string) (domain.McpMetadata, error) {
	if path == "" {
		return domain.DefaultMetadata(Version), nil
	}
	return domain.LoadMetadata(path)
}

// buildInstructions builds enhanced instructions with content source information
func buildInstructions(baseInstructions string, locations []content.Location) string {
	if len(locations) == 0 {
		return baseInstructions
	}

	var sb strings.Builder
	sb.WriteString(baseInstructions)
	sb.WriteString("\n\nAvailable content sources:\n")
	for _, loc := range locations {
		fmt.Fprintf(&sb, "- %s: %s\n", loc.Name, loc.Description)
	}
	sb.WriteString("\nUse the search tool to find reference material. You can optionally filter by source.")
	return sb.String()
}
