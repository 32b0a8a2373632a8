package prompts

import (
	"fmt"
	"strings"
)

var toolNotes = map[string]string{
	"plotly":     "interactive charts for notebooks and web apps; use Dash for full dashboards.",
	"tableau":    "drag-and-drop dashboards with filters and actions; publish to Tableau Server or Cloud.",
	"matplotlib": "full control for static, publication-quality figures.",
	"seaborn":    "statistical charts on top of matplotlib with sensible defaults.",
	"power_bi":   "business dashboards with slicers and drill-through; integrates with Microsoft 365.",
	"powerbi":    "business dashboards with slicers and drill-through; integrates with Microsoft 365.",
	"d3":         "bespoke web visualisations; highest flexibility, highest effort.",
	"altair":     "declarative charts from a compact grammar of graphics.",
	"bokeh":      "interactive browser charts and server apps from Python.",
	"ggplot2":    "layered grammar-of-graphics charts in R.",
	"excel":      "familiar charts for audiences who will reuse the numbers.",
}

var interactivityLevels = map[string]string{
	"low":    "static charts with clear annotations; suitable for slides, reports and print.",
	"medium": "tooltips, legends that toggle series and a small number of filters.",
	"high":   "linked views, drill-down, cross-filtering and parameter controls for self-service exploration.",
}

type audienceKind int

const (
	audienceGeneral audienceKind = iota
	audienceExecutive
	audienceTechnical
)

func classifyAudience(s string) audienceKind {
	s = strings.ToLower(s)
	for _, kw := range []string{"executive", "c-level", "board", "leadership", "director", "manager", "stakeholder"} {
		if strings.Contains(s, kw) {
			return audienceExecutive
		}
	}
	for _, kw := range []string{"analyst", "scientist", "engineer", "technical", "research", "statistician"} {
		if strings.Contains(s, kw) {
			return audienceTechnical
		}
	}
	return audienceGeneral
}

func visualizationFamily() *Family {
	return &Family{
		Name:        "visualization_storytelling_strategy",
		Title:       "Visualization and Storytelling Strategy",
		Description: "Design a visualization and data storytelling strategy tailored to an audience and its objectives",
		Params: []Param{
			{Name: "dataset_name", Description: "Name of the dataset", Required: true},
			{Name: "analysis_objectives", Description: "What the visualizations must achieve", Required: true},
			{Name: "target_audience", Description: "Who will consume the visualizations", Required: true},
			{Name: "key_insights", Description: "Insights the visualizations must communicate", List: true},
			{Name: "visualization_tools", Description: "Preferred visualization tools", List: true},
			{Name: "interactivity_level", Description: "Interactivity required: low, medium or high"},
		},
		Sections: []Section{
			{Heading: "Strategy Overview", Render: visualizationOverview},
			{Heading: "Audience Profile", Render: visualizationAudience},
			{Heading: "Key Insights to Communicate", Render: visualizationInsights},
			{Heading: "Recommended Chart Types", Render: visualizationCharts},
			{Heading: "Tooling", Render: visualizationTooling},
			{Heading: "Interactivity", Render: visualizationInteractivity},
			{Heading: "Narrative Structure", Render: visualizationNarrative},
			{Heading: "Accessibility and Design Checklist", Render: visualizationChecklist},
		},
	}
}

func visualizationOverview(v Values) string {
	return joinParagraphs(
		"You are a data visualization specialist designing how the results of an analysis will be shown and explained. Every chart must answer a specific question for the audience.",
		fmt.Sprintf("**Dataset:** %s", v.Text("dataset_name")),
		fmt.Sprintf("**Objectives:** %s", v.Text("analysis_objectives")),
		fmt.Sprintf("**Audience:** %s", v.Text("target_audience")),
	)
}

func visualizationAudience(v Values) string {
	var guidance []string
	switch classifyAudience(v.Get("target_audience")) {
	case audienceExecutive:
		guidance = []string{
			"Lead with the conclusion and the decision it supports.",
			"Show few, high-level KPIs with comparisons to target or prior period.",
			"Keep charts simple; move methodology to an appendix.",
		}
	case audienceTechnical:
		guidance = []string{
			"Show distributions, uncertainty and sample sizes, not only point estimates.",
			"Expose the methodology and allow drilling into the underlying data.",
			"Denser, multi-panel charts are acceptable when they aid comparison.",
		}
	default:
		guidance = []string{
			"Avoid jargon and explain every metric in one sentence.",
			"Prefer familiar chart types such as bars and lines.",
			"Annotate charts directly with the takeaway.",
		}
	}
	return joinParagraphs(
		fmt.Sprintf("Tailor the visuals to: %s", v.Text("target_audience")),
		bullets(guidance),
	)
}

func visualizationInsights(v Values) string {
	insights := v.List("key_insights")
	if len(insights) == 0 {
		return "No key insights were supplied. Derive three to five from the completed analysis and rank them by importance to the objectives before choosing any chart."
	}
	return joinParagraphs(
		"Build at least one visual for each insight:",
		bullets(insights),
	)
}

func visualizationCharts(v Values) string {
	charts := []string{
		"**Comparison:** bar or dot plots; sort categories by value.",
		"**Trend over time:** line charts; annotate events and changes of regime.",
		"**Distribution:** histograms, box plots or violin plots.",
		"**Composition:** stacked bars or treemaps; avoid pie charts with more than a few slices.",
		"**Relationship:** scatter plots with trend lines; heatmaps for correlation matrices.",
	}
	note := ""
	switch classifyAudience(v.Get("target_audience")) {
	case audienceExecutive:
		note = "For this audience, favour KPI tiles, bullet charts and simple trend lines."
	case audienceTechnical:
		note = "For this audience, small multiples and charts with confidence bands are appropriate."
	}
	return joinParagraphs(
		"Match the chart to the question it answers:",
		bullets(charts),
		note,
	)
}

func visualizationTooling(v Values) string {
	tools := v.List("visualization_tools")
	if len(tools) == 0 {
		return "No tools were specified. Recommend a tool that fits the audience and the interactivity level, and justify the choice."
	}
	lines := make([]string, len(tools))
	for i, t := range tools {
		note, ok := toolNotes[normalizeKey(t)]
		if !ok {
			note = "confirm it supports the chart types and interactivity required."
		}
		lines[i] = fmt.Sprintf("**%s**: %s", t, note)
	}
	return joinParagraphs(
		"Use the preferred tools:",
		bullets(lines),
	)
}

func visualizationInteractivity(v Values) string {
	level := v.Get("interactivity_level")
	desc, ok := interactivityLevels[strings.ToLower(level)]
	if !ok {
		return fmt.Sprintf("Interactivity level: %s (unrecognised; applying medium): %s", level, interactivityLevels["medium"])
	}
	return fmt.Sprintf("Interactivity level: %s: %s", level, desc)
}

func visualizationNarrative(v Values) string {
	return joinParagraphs(
		fmt.Sprintf("Structure the story around the objectives (%s):", v.Text("analysis_objectives")),
		numbered([]string{
			"**Context:** why this matters now and what question is being answered.",
			"**Findings:** the insights in order of importance, one visual each.",
			"**Implications:** what the findings mean for the audience.",
			"**Actions:** concrete recommendations and how success will be measured.",
		}),
	)
}

func visualizationChecklist(Values) string {
	return bullets([]string{
		"Use colour-blind safe palettes and never encode meaning in colour alone.",
		"Label axes with units; start bar chart axes at zero.",
		"Give every chart a title that states the takeaway.",
		"Keep fonts legible at presentation size and maintain sufficient contrast.",
		"Provide alternative text or a data table for every visual.",
	})
}
