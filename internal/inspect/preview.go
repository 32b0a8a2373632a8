package inspect

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRows is the preview size used when none is requested.
const DefaultRows = 5

// candidateDelimiters are tried, in order of preference, when sniffing.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// PreviewOptions tunes Preview.
type PreviewOptions struct {
	// DefaultRows is used when the requested row count is not positive.
	DefaultRows int
	// RaggedTolerance is the number of rows whose field count may differ
	// from the header before the file is rejected.
	RaggedTolerance int
}

// DefaultPreviewOptions returns the options used by the CLI and the server
// when nothing is configured.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{DefaultRows: DefaultRows}
}

// Column describes one column of a previewed file.
type Column struct {
	Name    string
	Type    string
	Missing int
}

// FilePreview is the result of Preview.
type FilePreview struct {
	Path        string
	RowCount    int
	ColumnCount int
	Columns     []Column
	Rows        [][]string
	Delimiter   rune
	// RaggedRows counts rows padded or truncated to the header width.
	RaggedRows int
}

// Preview reads a delimited text file with a header row. It returns the
// number of data rows, the columns with inferred types and missing-value
// counts, and the first rows of the file. rows is clamped to the number of
// data rows; a non-positive value selects opts.DefaultRows.
func Preview(path string, rows int, opts PreviewOptions) (*FilePreview, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileNotFound, path, err)
	}
	defer func() { _ = f.Close() }()

	if rows <= 0 {
		rows = opts.DefaultRows
		if rows <= 0 {
			rows = DefaultRows
		}
	}

	br := bufio.NewReader(f)
	firstLine, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	firstLine = strings.TrimPrefix(firstLine, "\ufeff")

	delimiter := sniffDelimiter(firstLine)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		delimiter = '\t'
	}

	r := csv.NewReader(io.MultiReader(strings.NewReader(firstLine), br))
	r.Comma = delimiter
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: file has no header row", ErrFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
	}

	width := len(header)
	stats := make([]*columnStats, width)
	for i := range stats {
		stats[i] = newColumnStats()
	}

	result := &FilePreview{
		Path:        path,
		ColumnCount: width,
		Delimiter:   delimiter,
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFormat, path, err)
		}

		if len(record) != width {
			result.RaggedRows++
			if result.RaggedRows > opts.RaggedTolerance {
				return nil, fmt.Errorf("%w: %s: line %d has %d fields, header has %d",
					ErrFormat, path, result.RowCount+2, len(record), width)
			}
			record = fitWidth(record, width)
		}

		for i, v := range record {
			stats[i].observe(v)
		}
		if len(result.Rows) < rows {
			result.Rows = append(result.Rows, record)
		}
		result.RowCount++
	}

	names := columnNames(header)
	result.Columns = make([]Column, width)
	for i, s := range stats {
		result.Columns[i] = Column{Name: names[i], Type: s.label(), Missing: s.missing}
	}
	return result, nil
}

// sniffDelimiter picks the candidate occurring most often in the header
// line outside double-quoted spans, preferring earlier candidates on ties
// and a comma when none occur.
func sniffDelimiter(line string) rune {
	counts := make(map[rune]int, len(candidateDelimiters))
	quoted := false
	for _, r := range line {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[r]++
		}
	}

	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if n := counts[d]; n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func fitWidth(record []string, width int) []string {
	out := make([]string, width)
	copy(out, record)
	return out
}

// columnNames names blank header cells by position and disambiguates
// repeated names with a numeric suffix.
func columnNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n := seen[name]; n > 0 {
			seen[name]++
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}
	return names
}

// Text renders the preview as a markdown report.
func (p *FilePreview) Text() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# File: %s\n\n", filepath.Base(p.Path))
	fmt.Fprintf(&sb, "**Shape:** %d rows × %d columns\n", p.RowCount, p.ColumnCount)
	fmt.Fprintf(&sb, "**Delimiter:** %s\n", delimiterName(p.Delimiter))
	if p.RaggedRows > 0 {
		fmt.Fprintf(&sb, "**Ragged rows adjusted:** %d\n", p.RaggedRows)
	}

	sb.WriteString("\n## Columns\n\n")
	sb.WriteString("| Column | Type | Missing |\n|---|---|---|\n")
	for _, c := range p.Columns {
		fmt.Fprintf(&sb, "| %s | %s | %d |\n", escapeCell(c.Name), c.Type, c.Missing)
	}

	fmt.Fprintf(&sb, "\n## First %d rows\n\n", len(p.Rows))
	if len(p.Rows) == 0 {
		sb.WriteString("The file has no data rows.\n")
		return sb.String()
	}

	sb.WriteString("|")
	for _, c := range p.Columns {
		sb.WriteString(" " + escapeCell(c.Name) + " |")
	}
	sb.WriteString("\n|")
	for range p.Columns {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
	for _, row := range p.Rows {
		sb.WriteString("|")
		for _, v := range row {
			sb.WriteString(" " + escapeCell(v) + " |")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func delimiterName(d rune) string {
	switch d {
	case '\t':
		return "tab"
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '|':
		return "pipe"
	default:
		return string(d)
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
