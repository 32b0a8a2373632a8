package domain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tool names served by the EDA server
const (
	ToolReadCSVFile    = "read_csv_file"
	ToolListFiles      = "list_files_in_directory"
	ToolSearch         = "search"
	ToolRead           = "read"
	defaultServerName  = "mcp-eda"
	defaultInstruction = `This server helps with exploratory data analysis.

Use the analysis prompts (initial_data_exploration, advanced_statistical_analysis,
correlation_and_relationships, visualization_storytelling_strategy) to get a structured
plan for each stage of an analysis. Use read_csv_file to preview a data file and
collect the column names and types the prompts ask for, and list_files_in_directory
to find data files.`
)

// ServerMetadata describes the MCP server
type ServerMetadata struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	Instructions string `yaml:"instructions"`
}

// ToolMetadata overrides the name shown for a tool and its description
type ToolMetadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// McpMetadata is the server metadata file
type McpMetadata struct {
	Server ServerMetadata `yaml:"server"`
	Tools  []ToolMetadata `yaml:"tools"`
}

// DefaultToolMetadata holds the built-in tool descriptions
var DefaultToolMetadata = map[string]ToolMetadata{
	ToolReadCSVFile: {
		Name:        ToolReadCSVFile,
		Description: "Read a delimited data file (CSV, TSV) and return its shape, inferred column types, missing value counts and a preview of the first rows.",
	},
	ToolListFiles: {
		Name:        ToolListFiles,
		Description: "List the files in a directory, optionally filtered by file extension, sorted by name.",
	},
	ToolSearch: {
		Name:        ToolSearch,
		Description: "Search the analysis reference library. Returns matching resource URIs with names and snippets.",
	},
	ToolRead: {
		Name:        ToolRead,
		Description: "Read the full content of a reference library resource by URI.",
	},
}

// DefaultMetadata returns the metadata used when no metadata file is configured
func DefaultMetadata(version string) McpMetadata {
	return McpMetadata{
		Server: ServerMetadata{
			Name:         defaultServerName,
			Version:      version,
			Instructions: defaultInstruction,
		},
	}
}

// LoadMetadata reads and validates a metadata YAML file
func LoadMetadata(path string) (McpMetadata, error) {
	var metadata McpMetadata

	data, err := os.ReadFile(path)
	if err != nil {
		return metadata, fmt.Errorf("failed to read metadata file: %w", err)
	}
	if err := yaml.Unmarshal(data, &metadata); err != nil {
		return metadata, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if err := metadata.Validate(); err != nil {
		return metadata, fmt.Errorf("metadata validation failed: %w", err)
	}
	return metadata, nil
}

// Validate checks required fields
func (m McpMetadata) Validate() error {
	if m.Server.Name == "" {
		return fmt.Errorf("server name is required")
	}
	if m.Server.Version == "" {
		return fmt.Errorf("server version is required")
	}
	if m.Server.Instructions == "" {
		return fmt.Errorf("server instructions are required")
	}
	for i, t := range m.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool[%d]: name is required", i)
		}
		if t.Description == "" {
			return fmt.Errorf("tool %s: description is required", t.Name)
		}
	}
	_, err := m.ToolsMap()
	return err
}

// ToolsMap indexes tool overrides by name
func (m McpMetadata) ToolsMap() (map[string]ToolMetadata, error) {
	tools := make(map[string]ToolMetadata, len(m.Tools))
	for _, t := range m.Tools {
		if _, exists := tools[t.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name: %s", t.Name)
		}
		tools[t.Name] = t
	}
	return tools, nil
}

// GetToolMetadata returns the override for a tool, falling back to the
// built-in metadata. Unknown tools yield an empty value.
func (m McpMetadata) GetToolMetadata(name string) ToolMetadata {
	for _, t := range m.Tools {
		if t.Name == name {
			return t
		}
	}
	return DefaultToolMetadata[name]
}
