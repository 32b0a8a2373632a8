package resources

import (
	"path"
	"regexp"
	"strings"
)

// linkPattern finds inline markdown links. Submatches: image marker, label,
// destination, optional quoted title with its leading whitespace.
var linkPattern = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+)(\s+"[^"]*")?\)`)

// NewCrossRefTransformer returns a transformer that points relative links
// between documents of the same content source at their resource URIs.
// Images, anchors, links carrying any URI scheme (scheme included) and
// links to files that are not registered resources are left untouched.
func NewCrossRefTransformer(definitions []ResourceDefinition, scheme string) ContentTransformer {
	idx := linkIndex{scheme: scheme + ":", uris: make(map[string]map[string]string)}
	for _, d := range definitions {
		bySource, ok := idx.uris[d.Source]
		if !ok {
			bySource = make(map[string]string)
			idx.uris[d.Source] = bySource
		}
		bySource[d.Path] = d.URI
	}

	return func(content string, doc ResourceDefinition) string {
		base := path.Dir(doc.Path)
		return linkPattern.ReplaceAllStringFunc(content, func(link string) string {
			return idx.rewrite(link, doc.Source, base)
		})
	}
}

// linkIndex maps source name to document path to resource URI
type linkIndex struct {
	scheme string
	uris   map[string]map[string]string
}

func (idx linkIndex) rewrite(link, source, base string) string {
	m := linkPattern.FindStringSubmatch(link)
	image, label, dest, title := m[1], m[2], m[3], m[4]
	if image != "" || !isDocumentPath(dest) || strings.HasPrefix(dest, idx.scheme) {
		return link
	}

	file, anchor, hasAnchor := strings.Cut(dest, "#")
	uri, ok := idx.uris[source][path.Join(base, file)]
	if !ok {
		return link
	}
	if hasAnchor {
		uri += "#" + anchor
	}
	return "[" + label + "](" + uri + title + ")"
}

// isDocumentPath reports whether a link destination names a file relative to
// the linking document, as opposed to an anchor or an absolute URI.
func isDocumentPath(dest string) bool {
	return !strings.HasPrefix(dest, "#") && !strings.Contains(dest, ":")
}
