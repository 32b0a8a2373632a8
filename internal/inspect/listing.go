package inspect

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Listing is the result of List.
type Listing struct {
	Path   string
	Suffix string
	Files  []string
}

// List returns the names of the regular files in dir whose names end with
// suffix, sorted lexicographically. An empty suffix matches every file and
// the match is case-sensitive. Sub-directories are not listed.
func List(dir, suffix string) (*Listing, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(e.Name(), suffix) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	return &Listing{Path: dir, Suffix: suffix, Files: files}, nil
}

// Text renders the listing one file per line under a count header.
func (l *Listing) Text() string {
	filter := ""
	if l.Suffix != "" {
		filter = fmt.Sprintf(" matching *%s", l.Suffix)
	}
	if len(l.Files) == 0 {
		return fmt.Sprintf("No files found in %s%s\n", l.Path, filter)
	}

	var sb strings.Builder
	noun := "files"
	if len(l.Files) == 1 {
		noun = "file"
	}
	fmt.Fprintf(&sb, "%d %s in %s%s:\n", len(l.Files), noun, l.Path, filter)
	for _, f := range l.Files {
		sb.WriteString("- " + f + "\n")
	}
	return sb.String()
}
