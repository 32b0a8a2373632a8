// Package prompts composes exploratory data analysis guidance documents
// from dataset metadata, and serves them as MCP prompts alongside
// file-based prompt templates.
package prompts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMissingRequiredParameter is returned by a strict engine when a
	// required parameter is absent.
	ErrMissingRequiredParameter = errors.New("missing required parameter")

	// ErrUnknownFamily is returned when no family has the requested name.
	ErrUnknownFamily = errors.New("unknown prompt family")
)

// notProvided stands in for absent required parameters.
const notProvided = "(not provided)"

// Defaults is an immutable table of fallback values for optional
// parameters, shared by every family of an engine.
type Defaults struct {
	values map[string]string
}

// BuiltinDefaults returns the default policy for optional parameters.
func BuiltinDefaults() Defaults {
	return Defaults{values: map[string]string{
		"business_context":    "",
		"sample_data":         "",
		"data_types":          "",
		"target_variable":     "",
		"analysis_depth":      "standard",
		"statistical_tests":   "auto-select",
		"correlation_methods": "pearson,spearman",
		"relationship_types":  "linear,monotonic",
		"key_insights":        "",
		"visualization_tools": "",
		"interactivity_level": "medium",
	}}
}

// Lookup returns the default for a parameter.
func (d Defaults) Lookup(name string) (string, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Names returns the parameter names with a declared default, sorted.
func (d Defaults) Names() []string {
	names := make([]string, 0, len(d.values))
	for name := range d.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d Defaults) with(overrides map[string]string) Defaults {
	values := make(map[string]string, len(d.values)+len(overrides))
	for k, v := range d.values {
		values[k] = v
	}
	for k, v := range overrides {
		values[k] = strings.TrimSpace(v)
	}
	return Defaults{values: values}
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	overrides map[string]string
	strict    bool
}

// WithDefaults overrides built-in defaults of optional parameters.
func WithDefaults(overrides map[string]string) Option {
	return func(o *engineOptions) {
		if o.overrides == nil {
			o.overrides = make(map[string]string, len(overrides))
		}
		for k, v := range overrides {
			o.overrides[k] = v
		}
	}
}

// WithStrictRequired makes Compose fail when a required parameter is absent
// instead of rendering a placeholder.
func WithStrictRequired() Option {
	return func(o *engineOptions) {
		o.strict = true
	}
}

// Engine composes documents for a fixed set of template families. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	families []*Family
	byName   map[string]*Family
	defaults Defaults
	strict   bool
}

// NewEngine creates an engine serving the built-in families.
func NewEngine(opts ...Option) (*Engine, error) {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	families := []*Family{
		initialExplorationFamily(),
		statisticalAnalysisFamily(),
		correlationFamily(),
		visualizationFamily(),
	}

	optional := make(map[string]bool)
	for _, f := range families {
		for _, p := range f.Params {
			if !p.Required {
				optional[p.Name] = true
			}
		}
	}

	overrideNames := make([]string, 0, len(o.overrides))
	for name := range o.overrides {
		overrideNames = append(overrideNames, name)
	}
	sort.Strings(overrideNames)
	for _, name := range overrideNames {
		if !optional[name] {
			return nil, fmt.Errorf("cannot override default of %q: not an optional parameter", name)
		}
	}

	defaults := BuiltinDefaults().with(o.overrides)

	byName := make(map[string]*Family, len(families))
	for _, f := range families {
		for _, p := range f.Params {
			if _, ok := defaults.Lookup(p.Name); !p.Required && !ok {
				return nil, fmt.Errorf("no default declared for optional parameter %s.%s", f.Name, p.Name)
			}
		}
		byName[f.Name] = f
	}

	return &Engine{
		families: families,
		byName:   byName,
		defaults: defaults,
		strict:   o.strict,
	}, nil
}

// Families returns the engine's families in registration order.
func (e *Engine) Families() []*Family {
	out := make([]*Family, len(e.families))
	copy(out, e.families)
	return out
}

// Family looks up a family by name.
func (e *Engine) Family(name string) (*Family, bool) {
	f, ok := e.byName[name]
	return f, ok
}

// Defaults returns the engine's default policy.
func (e *Engine) Defaults() Defaults {
	return e.defaults
}

// Strict reports whether absent required parameters are rejected.
func (e *Engine) Strict() bool {
	return e.strict
}

// ParamDescription returns a parameter description annotated with its
// default value, if any.
func (e *Engine) ParamDescription(p Param) string {
	desc := p.Description
	if p.List {
		desc += " (comma-separated)"
	}
	if p.Required {
		return desc
	}
	if def, _ := e.defaults.Lookup(p.Name); def != "" {
		return fmt.Sprintf("%s. Default: %s", desc, def)
	}
	return desc
}

// Compose resolves args against the family's schema and renders every
// section. Arguments the family does not declare are ignored.
func (e *Engine) Compose(family string, args map[string]string) (*Document, error) {
	f, ok := e.byName[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, family)
	}

	values, err := e.resolve(f, args)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Family:   f.Name,
		Title:    f.Title,
		Sections: make([]RenderedSection, 0, len(f.Sections)),
	}
	for _, s := range f.Sections {
		body := strings.TrimSpace(s.Render(values))
		if body == "" {
			body = "No additional guidance applies to this section."
		}
		doc.Sections = append(doc.Sections, RenderedSection{Heading: s.Heading, Body: body})
	}
	return doc, nil
}

// resolve applies defaults once; rendering only sees the result.
func (e *Engine) resolve(f *Family, args map[string]string) (Values, error) {
	values := make(map[string]string, len(f.Params))
	for _, p := range f.Params {
		raw := strings.TrimSpace(args[p.Name])
		switch {
		case raw != "":
			values[p.Name] = raw
		case p.Required:
			if e.strict {
				return Values{}, fmt.Errorf("%w: %s", ErrMissingRequiredParameter, p.Name)
			}
			values[p.Name] = ""
		default:
			values[p.Name], _ = e.defaults.Lookup(p.Name)
		}
	}
	return Values{values: values}, nil
}
