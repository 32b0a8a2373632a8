package inspect

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `customer_id,age,annual_income,spending_score
1,23,15000,39
2,24,16000,81
3,25,17000,6
4,26,18000,77
5,27,19000,40
6,28,20000,76
7,29,21000,94
8,30,22000,3
9,31,23000,72
10,32,24000,27`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPreview_SampleData(t *testing.T) {
	path := writeFile(t, "sample_data.csv", sampleCSV)

	p, err := Preview(path, 5, DefaultPreviewOptions())
	require.NoError(t, err)

	assert.Equal(t, 10, p.RowCount)
	assert.Equal(t, 4, p.ColumnCount)
	assert.Len(t, p.Rows, 5)
	assert.Equal(t, []string{"1", "23", "15000", "39"}, p.Rows[0])
	assert.Equal(t, ',', p.Delimiter)

	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
		assert.Equal(t, TypeInt, c.Type)
		assert.Zero(t, c.Missing)
	}
	assert.Equal(t, []string{"customer_id", "age", "annual_income", "spending_score"}, names)
}

func TestPreview_RowClamping(t *testing.T) {
	path := writeFile(t, "sample_data.csv", sampleCSV)

	for _, k := range []int{1, 5, 10, 11, 100} {
		p, err := Preview(path, k, DefaultPreviewOptions())
		require.NoError(t, err)
		want := k
		if want > p.RowCount {
			want = p.RowCount
		}
		assert.Len(t, p.Rows, want, "rows=%d", k)
		for _, row := range p.Rows {
			assert.Len(t, row, p.ColumnCount)
		}
	}
}

func TestPreview_NonPositiveRowsUsesDefault(t *testing.T) {
	path := writeFile(t, "sample_data.csv", sampleCSV)

	p, err := Preview(path, 0, PreviewOptions{DefaultRows: 3})
	require.NoError(t, err)
	assert.Len(t, p.Rows, 3)

	p, err = Preview(path, -1, PreviewOptions{})
	require.NoError(t, err)
	assert.Len(t, p.Rows, DefaultRows)
}

func TestPreview_TypeInference(t *testing.T) {
	content := strings.Join([]string{
		"id,price,active,signup,city,score,flag,empty",
		"1,9.99,true,2024-01-15,Paris,10,true,",
		"2,12,False,2024-02-01,Lyon,,false,",
		"3,7.5,TRUE,2024-03-20,Nice,7,,NA",
	}, "\n")
	path := writeFile(t, "mixed.csv", content)

	p, err := Preview(path, 5, DefaultPreviewOptions())
	require.NoError(t, err)

	types := make(map[string]string)
	missing := make(map[string]int)
	for _, c := range p.Columns {
		types[c.Name] = c.Type
		missing[c.Name] = c.Missing
	}
	assert.Equal(t, TypeInt, types["id"])
	assert.Equal(t, TypeFloat, types["price"])
	assert.Equal(t, TypeBool, types["active"])
	assert.Equal(t, TypeDatetime, types["signup"])
	assert.Equal(t, TypeObject, types["city"])
	assert.Equal(t, TypeFloat, types["score"], "integers with gaps widen to float")
	assert.Equal(t, TypeObject, types["flag"], "booleans with gaps fall back to object")
	assert.Equal(t, TypeObject, types["empty"])
	assert.Equal(t, 1, missing["score"])
	assert.Equal(t, 3, missing["empty"])
}

func TestPreview_Delimiters(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		body  string
		delim rune
	}{
		{"semicolon", "data.csv", "a;b;c\n1;2;3\n", ';'},
		{"pipe", "data.txt", "a|b\n1|2\n", '|'},
		{"tab sniffed", "data.csv", "a\tb\n1\t2\n", '\t'},
		{"tsv extension", "data.tsv", "a,b\tc\n1,2\t3\n", '\t'},
		{"single column", "data.csv", "a\n1\n", ','},
		{"quoted commas", "data.csv", "\"name, full\";\"age, years\";city\n\"a, b\";1;x\n", ';'},
		{"quoted semicolons", "data.csv", "\"a;b;c\",d\n1,2\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Preview(writeFile(t, tt.file, tt.body), 5, DefaultPreviewOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.delim, p.Delimiter)
			assert.Equal(t, 1, p.RowCount)
		})
	}
}

func TestPreview_RaggedRows(t *testing.T) {
	content := "a,b,c\n1,2,3\n4,5\n6,7,8,9\n"
	path := writeFile(t, "ragged.csv", content)

	_, err := Preview(path, 5, DefaultPreviewOptions())
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Preview(path, 5, PreviewOptions{RaggedTolerance: 1})
	assert.ErrorIs(t, err, ErrFormat)

	p, err := Preview(path, 5, PreviewOptions{RaggedTolerance: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, p.RowCount)
	assert.Equal(t, 2, p.RaggedRows)
	assert.Equal(t, []string{"4", "5", ""}, p.Rows[1])
	assert.Equal(t, []string{"6", "7", "8"}, p.Rows[2])
}

func TestPreview_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Preview(filepath.Join(dir, "missing.csv"), 5, DefaultPreviewOptions())
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = Preview(dir, 5, DefaultPreviewOptions())
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = Preview(writeFile(t, "empty.csv", ""), 5, DefaultPreviewOptions())
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Preview(writeFile(t, "quotes.csv", "a,b\n\"1,2\n"), 5, DefaultPreviewOptions())
	assert.ErrorIs(t, err, ErrFormat)
}

func TestPreview_HeaderOnly(t *testing.T) {
	p, err := Preview(writeFile(t, "header.csv", "a,b,c\n"), 5, DefaultPreviewOptions())
	require.NoError(t, err)
	assert.Zero(t, p.RowCount)
	assert.Equal(t, 3, p.ColumnCount)
	assert.Empty(t, p.Rows)
	assert.Contains(t, p.Text(), "The file has no data rows.")
}

func TestPreview_HeaderNames(t *testing.T) {
	p, err := Preview(writeFile(t, "names.csv", "\ufeffid,,id,name\n1,2,3,x\n"), 5, DefaultPreviewOptions())
	require.NoError(t, err)

	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"id", "Unnamed: 1", "id.1", "name"}, names)
}

func TestFilePreview_Text(t *testing.T) {
	path := writeFile(t, "sample_data.csv", sampleCSV)
	p, err := Preview(path, 2, DefaultPreviewOptions())
	require.NoError(t, err)

	text := p.Text()
	assert.Contains(t, text, "# File: sample_data.csv")
	assert.Contains(t, text, "**Shape:** 10 rows × 4 columns")
	assert.Contains(t, text, "| customer_id | int64 | 0 |")
	assert.Contains(t, text, "## First 2 rows")
	assert.Contains(t, text, "| 2 | 24 | 16000 | 81 |")
}
