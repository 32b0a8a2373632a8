package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sha1n/mcp-eda-server/internal/domain"
	"github.com/sha1n/mcp-eda-server/internal/inspect"
	"github.com/sha1n/mcp-eda-server/internal/prompts"
	"github.com/sha1n/mcp-eda-server/internal/resources"
	"github.com/sha1n/mcp-eda-server/internal/search"
)

// FileToolSettings configures the file inspection tools
type FileToolSettings struct {
	Workspace *Workspace
	Preview   inspect.PreviewOptions
}

// CreateServer creates and configures the MCP server
func CreateServer(
	metadata domain.McpMetadata,
	instructions string,
	resourceProvider *resources.ResourceProvider,
	promptProvider *prompts.PromptProvider,
	searchService search.Searcher,
	files FileToolSettings,
) *server.MCPServer {
	s := server.NewMCPServer(
		metadata.Server.Name,
		metadata.Server.Version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	for _, res := range resourceProvider.ListResources() {
		s.AddResource(res, makeResourceHandler(resourceProvider, res.URI, res.MIMEType))
	}
	slog.Info("Registered resources", "count", len(resourceProvider.Definitions()))

	for _, p := range promptProvider.ListPrompts() {
		s.AddPrompt(p, makePromptHandler(promptProvider, p.Name))
		slog.Debug("Registered prompt", "name", p.Name)
	}

	ws := files.Workspace
	if ws == nil {
		ws = &Workspace{}
	}

	readCSV := metadata.GetToolMetadata(domain.ToolReadCSVFile)
	RegisterReadCSVTool(s, ws, files.Preview, readCSV)
	slog.Info("Registered tool", "name", readCSV.Name)

	listFiles := metadata.GetToolMetadata(domain.ToolListFiles)
	RegisterListFilesTool(s, ws, listFiles)
	slog.Info("Registered tool", "name", listFiles.Name)

	searchTool := metadata.GetToolMetadata(domain.ToolSearch)
	RegisterSearchTool(s, searchService, searchTool)
	slog.Info("Registered tool", "name", searchTool.Name)

	readTool := metadata.GetToolMetadata(domain.ToolRead)
	RegisterReadTool(s, resourceProvider, readTool)
	slog.Info("Registered tool", "name", readTool.Name)

	return s
}

func makeResourceHandler(provider *resources.ResourceProvider, uri, mimeType string) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := provider.ReadResource(uri)
		if err != nil {
			slog.Error("Failed to read resource", "uri", uri, "error", err)
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: mimeType,
				Text:     text,
			},
		}, nil
	}
}

func makePromptHandler(provider *prompts.PromptProvider, name string) server.PromptHandlerFunc {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		slog.Info("Prompt request", "name", name)

		msgs, err := provider.GetPrompt(name, req.Params.Arguments)
		if err != nil {
			slog.Warn("Prompt rendering failed", "name", name, "error", err)
			return nil, err
		}
		return mcp.NewGetPromptResult(provider.Description(name), msgs), nil
	}
}
