package prompts

import "strings"

// Document is a composed analysis prompt.
type Document struct {
	Family   string
	Title    string
	Sections []RenderedSection
}

// RenderedSection is a section after rendering.
type RenderedSection struct {
	Heading string
	Body    string
}

// Headings returns the section headings in document order.
func (d *Document) Headings() []string {
	headings := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		headings[i] = s.Heading
	}
	return headings
}

// Section returns the section with the given heading.
func (d *Document) Section(heading string) (RenderedSection, bool) {
	for _, s := range d.Sections {
		if s.Heading == heading {
			return s, true
		}
	}
	return RenderedSection{}, false
}

// String renders the document as markdown.
func (d *Document) String() string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(d.Title)
	sb.WriteString("\n")
	for _, s := range d.Sections {
		sb.WriteString("\n## ")
		sb.WriteString(s.Heading)
		sb.WriteString("\n\n")
		sb.WriteString(s.Body)
		sb.WriteString("\n")
	}
	return sb.String()
}
