package resources

import (
	"testing"
)

func guideDef(uri, p string) ResourceDefinition {
	return ResourceDefinition{URI: uri, Path: p, Source: "builtin"}
}

func TestCrossRefTransformer(t *testing.T) {
	defs := []ResourceDefinition{
		guideDef("eda://builtin/guides/statistical-tests", "resources/guides/statistical-tests.md"),
		guideDef("eda://builtin/guides/correlation-methods", "resources/guides/correlation-methods.md"),
		guideDef("eda://builtin/checklists/quality", "resources/checklists/quality.md"),
		guideDef("eda://builtin/deep/nested/doc", "resources/deep/nested/doc.md"),
	}
	current := guideDef("eda://builtin/guides/current", "resources/guides/current.md")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "sibling link",
			input: "See [tests](statistical-tests.md) for details.",
			want:  "See [tests](eda://builtin/guides/statistical-tests) for details.",
		},
		{
			name:  "dot slash link",
			input: "[tests](./statistical-tests.md)",
			want:  "[tests](eda://builtin/guides/statistical-tests)",
		},
		{
			name:  "parent directory link",
			input: "Start with the [checklist](../checklists/quality.md).",
			want:  "Start with the [checklist](eda://builtin/checklists/quality).",
		},
		{
			name:  "nested link",
			input: "[doc](../deep/nested/doc.md)",
			want:  "[doc](eda://builtin/deep/nested/doc)",
		},
		{
			name:  "fragment is kept",
			input: "[normality](statistical-tests.md#checking-assumptions)",
			want:  "[normality](eda://builtin/guides/statistical-tests#checking-assumptions)",
		},
		{
			name:  "title is kept",
			input: `[tests](statistical-tests.md "Tests")`,
			want:  `[tests](eda://builtin/guides/statistical-tests "Tests")`,
		},
		{
			name:  "fragment and title",
			input: `[tests](statistical-tests.md#reporting "Tests")`,
			want:  `[tests](eda://builtin/guides/statistical-tests#reporting "Tests")`,
		},
		{
			name:  "multiple links",
			input: "[a](statistical-tests.md)[b](correlation-methods.md)",
			want:  "[a](eda://builtin/guides/statistical-tests)[b](eda://builtin/guides/correlation-methods)",
		},
		{
			name:  "empty link text",
			input: "[](statistical-tests.md)",
			want:  "[](eda://builtin/guides/statistical-tests)",
		},
		{
			name:  "multiline",
			input: "First\n[tests](statistical-tests.md)\nLast",
			want:  "First\n[tests](eda://builtin/guides/statistical-tests)\nLast",
		},
		{
			name:  "mixed links",
			input: "See [tests](statistical-tests.md), [ext](https://example.com) and [section](#foo).",
			want:  "See [tests](eda://builtin/guides/statistical-tests), [ext](https://example.com) and [section](#foo).",
		},
	}

	transformer := NewCrossRefTransformer(defs, "eda")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transformer(tt.input, current); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCrossRefTransformer_Unchanged(t *testing.T) {
	defs := []ResourceDefinition{
		guideDef("eda://builtin/guides/chart-selection", "resources/guides/chart-selection.md"),
	}
	current := guideDef("eda://builtin/guides/current", "resources/guides/current.md")

	inputs := map[string]string{
		"https url":       "Visit [example](https://example.com).",
		"http url":        "Visit [example](http://example.com).",
		"ftp url":         "Get [file](ftp://server/file).",
		"same scheme":     "See [guide](eda://builtin/guides/other).",
		"mailto":          "Contact [us](mailto:test@example.com).",
		"fragment only":   "See [section](#setup).",
		"image":           "![chart](chart-selection.md)",
		"unknown file":    "See [missing](missing.md).",
		"non md resource": "See [data](data.csv).",
		"plain text":      "No links here.",
		"empty":           "",
	}

	transformer := NewCrossRefTransformer(defs, "eda")
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			if got := transformer(input, current); got != input {
				t.Errorf("got %q, want %q (unchanged)", got, input)
			}
		})
	}
}

func TestCrossRefTransformer_CustomScheme(t *testing.T) {
	defs := []ResourceDefinition{
		{URI: "myco://team/intro", Path: "resources/intro.md", Source: "team"},
	}
	transformer := NewCrossRefTransformer(defs, "myco")

	current := ResourceDefinition{Path: "resources/current.md", Source: "team"}
	got := transformer("See [intro](intro.md) and [x](myco://team/x).", current)
	want := "See [intro](myco://team/intro) and [x](myco://team/x)."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCrossRefTransformer_DoesNotCrossSources(t *testing.T) {
	defs := []ResourceDefinition{
		{URI: "eda://team/intro", Path: "resources/intro.md", Source: "team"},
	}
	transformer := NewCrossRefTransformer(defs, "eda")

	current := ResourceDefinition{Path: "resources/current.md", Source: "builtin"}
	input := "See [intro](intro.md)."
	if got := transformer(input, current); got != input {
		t.Errorf("got %q, want %q (unchanged)", got, input)
	}
}

func TestCrossRefTransformer_EmptyDefinitions(t *testing.T) {
	transformer := NewCrossRefTransformer(nil, "eda")

	current := guideDef("eda://builtin/current", "resources/current.md")
	input := "See [link](other.md) for more."
	if got := transformer(input, current); got != input {
		t.Errorf("got %q, want %q (unchanged)", got, input)
	}
}
