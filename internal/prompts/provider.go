package prompts

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sha1n/mcp-eda-server/internal/content"
)

// PromptProvider serves the engine's families and file-based template
// prompts through one MCP prompt catalogue.
type PromptProvider struct {
	engine      *Engine
	definitions []PromptDefinition
	nameMap     map[string]PromptDefinition
}

// NewPromptProvider creates a new prompt provider. Template prompts whose
// name, with or without its "source:" prefix, collides with a family are
// ignored.
func NewPromptProvider(engine *Engine, definitions []PromptDefinition) *PromptProvider {
	nameMap := make(map[string]PromptDefinition, len(definitions))
	kept := make([]PromptDefinition, 0, len(definitions))
	for _, d := range definitions {
		if _, clash := engine.Family(unprefixed(d.Name)); clash {
			slog.Warn("Skipping prompt that shadows an analysis prompt", "name", d.Name, "file", d.FilePath)
			continue
		}
		if _, dup := nameMap[d.Name]; dup {
			slog.Warn("Skipping duplicate prompt", "name", d.Name, "file", d.FilePath)
			continue
		}
		nameMap[d.Name] = d
		kept = append(kept, d)
	}
	return &PromptProvider{
		engine:      engine,
		definitions: kept,
		nameMap:     nameMap,
	}
}

// unprefixed strips the "source:" prefix from a discovered prompt name
func unprefixed(name string) string {
	return name[strings.LastIndex(name, ":")+1:]
}

// ListPrompts lists the analysis families followed by the template prompts
func (p *PromptProvider) ListPrompts() []mcp.Prompt {
	families := p.engine.Families()
	prompts := make([]mcp.Prompt, 0, len(families)+len(p.definitions))

	for _, f := range families {
		opts := []mcp.PromptOption{mcp.WithPromptDescription(f.Description)}
		for _, param := range f.Params {
			opts = append(opts, mcp.WithArgument(param.Name, argumentOptions(p.engine.ParamDescription(param), param.Required)...))
		}
		prompts = append(prompts, mcp.NewPrompt(f.Name, opts...))
	}

	for _, d := range p.definitions {
		opts := []mcp.PromptOption{mcp.WithPromptDescription(d.Description)}
		for _, a := range d.Arguments {
			opts = append(opts, mcp.WithArgument(a.Name, argumentOptions(a.Description, a.Required)...))
		}
		prompts = append(prompts, mcp.NewPrompt(d.Name, opts...))
	}

	return prompts
}

func argumentOptions(description string, required bool) []mcp.ArgumentOption {
	opts := []mcp.ArgumentOption{mcp.ArgumentDescription(description)}
	if required {
		opts = append(opts, mcp.RequiredArgument())
	}
	return opts
}

// Description returns the description of a prompt, or "" if it is unknown
func (p *PromptProvider) Description(name string) string {
	if f, ok := p.engine.Family(name); ok {
		return f.Description
	}
	return p.nameMap[name].Description
}

// GetPrompt renders a prompt by name with arguments
func (p *PromptProvider) GetPrompt(name string, arguments map[string]string) ([]mcp.PromptMessage, error) {
	if _, ok := p.engine.Family(name); ok {
		doc, err := p.engine.Compose(name, arguments)
		if err != nil {
			return nil, err
		}
		return userMessage(doc.String()), nil
	}

	defn, ok := p.nameMap[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}

	for _, arg := range defn.Arguments {
		if arg.Required {
			val, ok := arguments[arg.Name]
			if !ok || val == "" {
				return nil, fmt.Errorf("missing required argument: %s", arg.Name)
			}
		}
	}

	var buf bytes.Buffer
	if err := defn.Template.Execute(&buf, arguments); err != nil {
		return nil, fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return userMessage(buf.String()), nil
}

func userMessage(text string) []mcp.PromptMessage {
	return []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	}
}

// DiscoverPrompts loads template prompts from the prompts/ directory of
// every content location. The directory is optional; invalid files are
// skipped with a warning.
func DiscoverPrompts(cp *content.ContentProvider) ([]PromptDefinition, error) {
	var definitions []PromptDefinition

	for _, loc := range cp.Locations() {
		locDefs, err := discoverPromptsInLocation(loc, cp)
		if err != nil {
			return nil, fmt.Errorf("error discovering prompts in %s: %w", loc.Name, err)
		}
		definitions = append(definitions, locDefs...)
	}

	return definitions, nil
}

func discoverPromptsInLocation(loc content.Location, cp *content.ContentProvider) ([]PromptDefinition, error) {
	info, err := fs.Stat(loc.FS, content.PromptsDir)
	if err != nil || !info.IsDir() {
		slog.Debug("Prompts directory not found (optional)", "source", loc.Name)
		return nil, nil
	}

	var definitions []PromptDefinition

	err = fs.WalkDir(loc.FS, content.PromptsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Error("Error walking prompts directory", "path", p, "source", loc.Name, "error", err)
			return nil
		}
		if d.IsDir() || path.Ext(p) != ".md" {
			return nil
		}

		md, err := cp.LoadMarkdownWithFrontmatter(loc.Name, p)
		if err != nil {
			slog.Warn("Skipping invalid prompt file", "file", p, "source", loc.Name, "error", err)
			return nil
		}

		baseName, _ := md.Metadata["name"].(string)
		description, _ := md.Metadata["description"].(string)
		if baseName == "" || description == "" {
			slog.Warn("Skipping prompt with missing metadata", "file", p, "source", loc.Name)
			return nil
		}

		namespacedName := fmt.Sprintf("%s:%s", loc.Name, baseName)

		tmpl, err := template.New(namespacedName).Option("missingkey=zero").Parse(md.Content)
		if err != nil {
			slog.Warn("Skipping prompt with invalid template", "file", p, "source", loc.Name, "error", err)
			return nil
		}

		definitions = append(definitions, PromptDefinition{
			Name:        namespacedName,
			Description: description,
			Arguments:   parseArguments(md.Metadata["arguments"]),
			FilePath:    p,
			Template:    tmpl,
			Source:      loc.Name,
		})

		slog.Debug("Loaded prompt", "name", namespacedName, "source", loc.Name)

		return nil
	})

	return definitions, err
}

// parseArguments reads the frontmatter argument list. Arguments are
// required unless marked otherwise.
func parseArguments(raw interface{}) []PromptArgument {
	args, ok := raw.([]interface{})
	if !ok {
		return nil
	}

	var arguments []PromptArgument
	for _, a := range args {
		amap, ok := a.(map[string]interface{})
		if !ok {
			continue
		}
		argName, _ := amap["name"].(string)
		argDesc, _ := amap["description"].(string)
		argReq, ok := amap["required"].(bool)
		if !ok {
			argReq = true
		}
		if argName != "" {
			arguments = append(arguments, PromptArgument{
				Name:        argName,
				Description: argDesc,
				Required:    argReq,
			})
		}
	}
	return arguments
}
