package prompts

import (
	"fmt"
	"strings"
)

// bullets renders one "- " line per item.
func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// codeBullets renders identifiers such as column names.
func codeBullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- `" + item + "`"
	}
	return strings.Join(lines, "\n")
}

// enumerate renders a list parameter, or the placeholder when it is empty.
func enumerate(items []string) string {
	if len(items) == 0 {
		return notProvided
	}
	return codeBullets(items)
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return strings.Join(lines, "\n")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}

// quoted renders identifiers inline: `a`, `b` and `c`.
func quoted(items []string) string {
	q := make([]string, len(items))
	for i, item := range items {
		q[i] = "`" + item + "`"
	}
	switch len(q) {
	case 0:
		return ""
	case 1:
		return q[0]
	default:
		return strings.Join(q[:len(q)-1], ", ") + " and " + q[len(q)-1]
	}
}

// normalizeKey folds a free-text option name onto a lookup key.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func joinParagraphs(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
