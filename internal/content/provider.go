// Package content loads markdown documents with YAML frontmatter from
// named content locations.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// BuiltinName is the name of the embedded content location.
	BuiltinName = "builtin"

	// ResourcesDir holds reference resources inside a location.
	ResourcesDir = "resources"

	// PromptsDir holds prompt templates inside a location. It is optional.
	PromptsDir = "prompts"
)

//go:embed builtin
var builtinFS embed.FS

// Location is a named content root containing a resources/ directory and
// an optional prompts/ directory.
type Location struct {
	Name        string
	Description string
	FS          fs.FS
}

// MarkdownWithFrontmatter is a parsed markdown document.
type MarkdownWithFrontmatter struct {
	Metadata map[string]interface{}
	Content  string
}

// ContentProvider gives access to the configured content locations.
type ContentProvider struct {
	locations []Location
	byName    map[string]Location
}

// NewContentProvider creates a content provider. Location names must be
// unique.
func NewContentProvider(locations ...Location) (*ContentProvider, error) {
	byName := make(map[string]Location, len(locations))
	for _, loc := range locations {
		if loc.Name == "" {
			return nil, fmt.Errorf("content location name is required")
		}
		if _, dup := byName[loc.Name]; dup {
			return nil, fmt.Errorf("duplicate content location: %s", loc.Name)
		}
		byName[loc.Name] = loc
	}
	return &ContentProvider{locations: locations, byName: byName}, nil
}

// Builtin returns the embedded reference library.
func Builtin() Location {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("embedded content is missing: %v", err))
	}
	return Location{
		Name:        BuiltinName,
		Description: "Built-in exploratory data analysis reference guides",
		FS:          sub,
	}
}

// DirLocation creates a location backed by a directory on disk. The
// directory must contain a resources/ sub-directory.
func DirLocation(name, description, dir string) (Location, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Location{}, fmt.Errorf("failed to open content directory: %w", err)
	}
	if !info.IsDir() {
		return Location{}, fmt.Errorf("content path is not a directory: %s", dir)
	}
	fsys := os.DirFS(dir)
	if info, err := fs.Stat(fsys, ResourcesDir); err != nil || !info.IsDir() {
		return Location{}, fmt.Errorf("content directory %s has no %s directory", dir, ResourcesDir)
	}
	return Location{Name: name, Description: description, FS: fsys}, nil
}

// Locations returns all locations in registration order.
func (cp *ContentProvider) Locations() []Location {
	out := make([]Location, len(cp.locations))
	copy(out, cp.locations)
	return out
}

// ReadFile reads a file from a named location.
func (cp *ContentProvider) ReadFile(source, name string) ([]byte, error) {
	loc, ok := cp.byName[source]
	if !ok {
		return nil, fmt.Errorf("unknown content location: %s", source)
	}
	return fs.ReadFile(loc.FS, name)
}

// LoadMarkdownWithFrontmatter reads and parses a markdown file.
func (cp *ContentProvider) LoadMarkdownWithFrontmatter(source, name string) (*MarkdownWithFrontmatter, error) {
	data, err := cp.ReadFile(source, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return ParseFrontmatter(data)
}

// ParseFrontmatter splits a document into its YAML frontmatter and body.
// A document must start with a frontmatter block.
func ParseFrontmatter(data []byte) (*MarkdownWithFrontmatter, error) {
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, fmt.Errorf("missing frontmatter")
	}

	rest := normalized[4:]
	var header, body []byte
	if bytes.HasPrefix(rest, []byte("---\n")) || bytes.Equal(rest, []byte("---")) {
		body = bytes.TrimPrefix(rest[3:], []byte("\n"))
	} else {
		end := bytes.Index(rest, []byte("\n---"))
		if end == -1 {
			return nil, fmt.Errorf("unterminated frontmatter")
		}
		header = rest[:end]
		body = rest[end+4:]
		body = bytes.TrimPrefix(body, []byte("\n"))
	}

	metadata := make(map[string]interface{})
	if len(bytes.TrimSpace(header)) > 0 {
		if err := yaml.Unmarshal(header, &metadata); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}

	return &MarkdownWithFrontmatter{
		Metadata: metadata,
		Content:  string(body),
	}, nil
}

// StripFrontmatter returns the body of a document, or the document itself
// when it has no well-formed frontmatter.
func StripFrontmatter(s string) string {
	md, err := ParseFrontmatter([]byte(s))
	if err != nil {
		return s
	}
	return md.Content
}
