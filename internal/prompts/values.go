package prompts

import "strings"

// Values is the resolved parameter set of one composition call. Optional
// parameters already carry their defaults; absent required parameters are
// empty.
type Values struct {
	values map[string]string
}

// Get returns the resolved value, or "" when the parameter is absent.
func (v Values) Get(name string) string {
	return v.values[name]
}

// Has reports whether the resolved value is non-empty.
func (v Values) Has(name string) bool {
	return v.values[name] != ""
}

// Text returns the resolved value or the missing-value placeholder.
func (v Values) Text(name string) string {
	if val := v.values[name]; val != "" {
		return val
	}
	return notProvided
}

// List splits a comma-separated value into trimmed, non-empty items.
func (v Values) List(name string) []string {
	return splitList(v.values[name])
}

func splitList(s string) []string {
	var items []string
	for _, part := range strings.Split(s, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
