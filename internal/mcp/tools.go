package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sha1n/mcp-eda-server/internal/domain"
	"github.com/sha1n/mcp-eda-server/internal/inspect"
	"github.com/sha1n/mcp-eda-server/internal/resources"
	"github.com/sha1n/mcp-eda-server/internal/search"
)

// ToolHandler is the mcp-go tool handler signature
type ToolHandler = func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)

// RegisterReadCSVTool registers the tabular preview tool with the server
func RegisterReadCSVTool(s *server.MCPServer, ws *Workspace, opts inspect.PreviewOptions, metadata domain.ToolMetadata) {
	tool := mcp.NewTool(
		metadata.Name,
		mcp.WithDescription(metadata.Description),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the CSV or TSV file to read"),
		),
		mcp.WithNumber("preview_rows",
			mcp.Description("Number of data rows to include in the preview"),
			mcp.DefaultNumber(float64(opts.DefaultRows)),
		),
	)

	s.AddTool(tool, NewReadCSVToolHandler(ws, opts))
}

// RegisterListFilesTool registers the directory listing tool with the server
func RegisterListFilesTool(s *server.MCPServer, ws *Workspace, metadata domain.ToolMetadata) {
	tool := mcp.NewTool(
		metadata.Name,
		mcp.WithDescription(metadata.Description),
		mcp.WithString("directory",
			mcp.Description("Directory to list"),
			mcp.DefaultString("."),
		),
		mcp.WithString("file_extension",
			mcp.Description("Only list files ending with this suffix, e.g. .csv"),
			mcp.DefaultString(""),
		),
	)

	s.AddTool(tool, NewListFilesToolHandler(ws))
}

// RegisterSearchTool registers the search tool with the server
func RegisterSearchTool(s *server.MCPServer, searchService search.Searcher, metadata domain.ToolMetadata) {
	tool := mcp.NewTool(
		metadata.Name,
		mcp.WithDescription(metadata.Description),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search query. Use natural language or keywords."),
		),
		mcp.WithString("source",
			mcp.Description("Restrict results to one content source, e.g. builtin"),
		),
	)

	s.AddTool(tool, NewSearchToolHandler(searchService))
}

// RegisterReadTool registers the resource read tool with the server
func RegisterReadTool(s *server.MCPServer, resourceProvider *resources.ResourceProvider, metadata domain.ToolMetadata) {
	tool := mcp.NewTool(
		metadata.Name,
		mcp.WithDescription(metadata.Description),
		mcp.WithString("uri",
			mcp.Required(),
			mcp.Description("The URI of the resource to read"),
		),
	)

	s.AddTool(tool, NewReadToolHandler(resourceProvider))
}

// NewReadCSVToolHandler creates the handler for the read_csv_file tool
func NewReadCSVToolHandler(ws *Workspace, opts inspect.PreviewOptions) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath := req.GetString("file_path", "")
		if filePath == "" {
			return mcp.NewToolResultError("file_path is required"), nil
		}
		rows := req.GetInt("preview_rows", opts.DefaultRows)

		slog.Info("Read CSV request", "file", filePath, "rows", rows)

		resolved, err := ws.Resolve(filePath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		preview, err := inspect.Preview(resolved, rows, opts)
		if err != nil {
			slog.Warn("Read CSV failed", "file", filePath, "error", err)
			return mcp.NewToolResultErrorFromErr(fmt.Sprintf("failed to read %s", filePath), err), nil
		}

		return mcp.NewToolResultText(preview.Text()), nil
	}
}

// NewListFilesToolHandler creates the handler for the list_files_in_directory tool
func NewListFilesToolHandler(ws *Workspace) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dir := req.GetString("directory", ".")
		if strings.TrimSpace(dir) == "" {
			dir = "."
		}
		suffix := req.GetString("file_extension", "")

		slog.Info("List files request", "directory", dir, "suffix", suffix)

		resolved, err := ws.Resolve(dir)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		listing, err := inspect.List(resolved, suffix)
		if err != nil {
			slog.Warn("List files failed", "directory", dir, "error", err)
			return mcp.NewToolResultErrorFromErr(fmt.Sprintf("failed to list %s", dir), err), nil
		}

		return mcp.NewToolResultText(listing.Text()), nil
	}
}

// NewSearchToolHandler creates the handler for the search tool
func NewSearchToolHandler(searchService search.Searcher) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("query is required"), nil
		}

		var opts *search.SearchOptions
		if source := req.GetString("source", ""); source != "" {
			opts = &search.SearchOptions{Source: source}
		}

		slog.Info("Search request", "query", query)

		results, err := searchService.Search(query, opts)
		if err != nil {
			slog.Error("Search failed", "query", query, "error", err)
			return mcp.NewToolResultErrorFromErr("search failed", err), nil
		}

		var sb strings.Builder
		if len(results) == 0 {
			fmt.Fprintf(&sb, "No results found for '%s'", query)
		} else {
			fmt.Fprintf(&sb, "Search results for '%s':\n\n", query)
			for _, r := range results {
				fmt.Fprintf(&sb, "- [%s](%s): %s\n\n", r.Name, r.URI, r.Snippet)
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// NewReadToolHandler creates the handler for the read tool
func NewReadToolHandler(resourceProvider *resources.ResourceProvider) ToolHandler {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uri := req.GetString("uri", "")
		if uri == "" {
			return mcp.NewToolResultError("uri is required"), nil
		}

		slog.Info("Read resource request", "uri", uri)

		content, err := resourceProvider.ReadResource(uri)
		if err != nil {
			slog.Error("Read resource failed", "uri", uri, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(content), nil
	}
}
