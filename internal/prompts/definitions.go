package prompts

import (
	"text/template"
)

// PromptDefinition definition of a file-based MCP prompt
type PromptDefinition struct {
	Name        string // Namespaced name: "source:promptname"
	Description string
	Arguments   []PromptArgument
	FilePath    string
	Template    *template.Template
	Source      string // Content location name
}

// PromptArgument definition of an MCP prompt argument
type PromptArgument struct {
	Name        string
	Description string
	Required    bool
}

// Param describes one named parameter of a template family.
type Param struct {
	Name        string
	Description string
	Required    bool
	// List marks comma-separated values that render as an enumeration.
	List bool
}

// Section is one always-present block of a family's document.
type Section struct {
	Heading string
	Render  func(v Values) string
}

// Family is a template family: a parameter schema plus a fixed, ordered
// list of section renderers.
type Family struct {
	Name        string
	Title       string
	Description string
	Params      []Param
	Sections    []Section
}

// Headings returns the family's table of contents.
func (f *Family) Headings() []string {
	headings := make([]string, len(f.Sections))
	for i, s := range f.Sections {
		headings[i] = s.Heading
	}
	return headings
}

// Param looks up a parameter by name.
func (f *Family) Param(name string) (Param, bool) {
	for _, p := range f.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
