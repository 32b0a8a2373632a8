package prompts

import (
	"fmt"
	"strings"
)

var correlationMethodNotes = map[string]string{
	"pearson":            "linear association between continuous variables; assumes approximate normality and is sensitive to outliers.",
	"spearman":           "rank-based monotonic association; robust to outliers and suitable for ordinal data.",
	"kendall":            "rank concordance; preferable to Spearman for small samples or many ties.",
	"point_biserial":     "association between a continuous and a binary variable.",
	"cramers_v":          "strength of association between two categorical variables, derived from the chi-square statistic.",
	"mutual_information": "general dependence including non-linear and non-monotonic relationships; not bounded to [-1, 1].",
	"distance":           "distance correlation; zero only under independence, detects non-linear dependence.",
}

var relationshipTypeNotes = map[string]string{
	"linear":      "check scatter plots with fitted lines and residual plots; Pearson captures this pattern.",
	"monotonic":   "consistently increasing or decreasing but not necessarily linear; compare Spearman with Pearson.",
	"non_linear":  "curved, threshold or U-shaped patterns; use LOWESS smoothers, binned means or mutual information.",
	"nonlinear":   "curved, threshold or U-shaped patterns; use LOWESS smoothers, binned means or mutual information.",
	"interaction": "the effect of one variable depends on another; compare relationships within segments.",
	"categorical": "dependence between categorical variables; use contingency tables and Cramér's V.",
}

func correlationFamily() *Family {
	return &Family{
		Name:        "correlation_and_relationships",
		Title:       "Correlation and Relationships Analysis",
		Description: "Plan a correlation and relationship analysis between variables, with methods, relationship types and caveats",
		Params: []Param{
			{Name: "dataset_name", Description: "Name of the dataset", Required: true},
			{Name: "variables", Description: "Variables to analyse", Required: true, List: true},
			{Name: "target_variable", Description: "Outcome variable to relate the others to"},
			{Name: "correlation_methods", Description: "Correlation methods to apply", List: true},
			{Name: "relationship_types", Description: "Relationship types to look for", List: true},
		},
		Sections: []Section{
			{Heading: "Analysis Scope", Render: correlationScope},
			{Heading: "Variables", Render: correlationVariables},
			{Heading: "Correlation Methods", Render: correlationMethods},
			{Heading: "Relationship Types", Render: correlationRelationships},
			{Heading: "Target Relationships", Render: correlationTarget},
			{Heading: "Multicollinearity and Confounding", Render: correlationMulticollinearity},
			{Heading: "Caveats", Render: correlationCaveats},
			{Heading: "Deliverables", Render: correlationDeliverables},
		},
	}
}

func correlationScope(v Values) string {
	n := len(v.List("variables"))
	target := "**Target variable:** not specified"
	if v.Has("target_variable") {
		target = fmt.Sprintf("**Target variable:** `%s`", v.Get("target_variable"))
	}
	return joinParagraphs(
		"You are a data analyst investigating how variables relate to each other. Quantify every relationship, visualise it, and separate association from causation.",
		fmt.Sprintf("**Dataset:** %s", v.Text("dataset_name")),
		fmt.Sprintf("**Variables:** %d (%s)", n, plural(n*(n-1)/2, "pair", "pairs")),
		target,
	)
}

func correlationVariables(v Values) string {
	return joinParagraphs(
		"Variables to analyse:",
		enumerate(v.List("variables")),
		"Confirm the type and scale of each variable first; the right method depends on whether it is continuous, ordinal, binary or nominal.",
	)
}

func correlationMethods(v Values) string {
	methods := v.List("correlation_methods")
	if len(methods) == 0 {
		return "No correlation methods were specified. Choose methods by variable type: Pearson for linear relationships between continuous variables, Spearman for monotonic or ordinal data, Cramér's V for categorical pairs."
	}
	lines := make([]string, len(methods))
	for i, m := range methods {
		note, ok := correlationMethodNotes[normalizeKey(m)]
		if !ok {
			note = "custom method; document its definition, assumptions and interpretation."
		}
		lines[i] = fmt.Sprintf("**%s**: %s", m, note)
	}
	return joinParagraphs(
		"Apply each method and compare the results; large disagreements between methods are findings in themselves:",
		bullets(lines),
	)
}

func correlationRelationships(v Values) string {
	types := v.List("relationship_types")
	if len(types) == 0 {
		return "No relationship types were specified. Inspect scatter plots of every pair and classify each relationship as linear, monotonic, non-linear or absent."
	}
	lines := make([]string, len(types))
	for i, t := range types {
		note, ok := relationshipTypeNotes[normalizeKey(t)]
		if !ok {
			note = "custom relationship type; describe how you will detect and measure it."
		}
		lines[i] = fmt.Sprintf("**%s**: %s", t, note)
	}
	return joinParagraphs(
		"Look for these relationship types:",
		bullets(lines),
	)
}

func correlationTarget(v Values) string {
	if !v.Has("target_variable") {
		return joinParagraphs(
			"Target variable: not specified.",
			"Analyse the full pairwise matrix instead: rank pairs by absolute correlation, cluster strongly related variables, and highlight surprising relationships.",
		)
	}

	target := v.Get("target_variable")
	var others []string
	for _, name := range v.List("variables") {
		if !strings.EqualFold(name, target) {
			others = append(others, name)
		}
	}

	parts := []string{fmt.Sprintf("Target variable: `%s`.", target)}
	if len(others) > 0 {
		parts = append(parts, fmt.Sprintf("Relate each variable to `%s` with every selected method and rank them by strength:", target))
		pairs := make([]string, len(others))
		for i, o := range others {
			pairs[i] = fmt.Sprintf("`%s` → `%s`", o, target)
		}
		parts = append(parts, bullets(pairs))
	}
	parts = append(parts, "Plot the strongest relationships against the target and check whether they hold within key segments.")
	return joinParagraphs(parts...)
}

func correlationMulticollinearity(v Values) string {
	items := []string{
		"Flag predictor pairs with |r| above 0.8 as potentially redundant.",
		"Compute variance inflation factors (VIF); values above 5 to 10 indicate multicollinearity.",
		"Consider confounders that could drive two variables at once, such as time, size or segment, and check partial correlations controlling for them.",
	}
	if n := len(v.List("variables")); n >= 3 {
		items = append(items, fmt.Sprintf("With %d variables, look for groups of correlated variables with hierarchical clustering of the correlation matrix.", n))
	}
	return bullets(items)
}

func correlationCaveats(Values) string {
	return bullets([]string{
		"Correlation does not imply causation.",
		"Correlation coefficients are sensitive to outliers and restricted ranges; always look at the scatter plot.",
		"Aggregated data can hide or reverse relationships (Simpson's paradox); check key segments.",
		"With many pairs some correlations will be significant by chance; adjust p-values for multiple testing.",
	})
}

func correlationDeliverables(v Values) string {
	methods := v.List("correlation_methods")
	matrix := "A correlation matrix heatmap."
	if len(methods) > 0 {
		matrix = fmt.Sprintf("A correlation matrix heatmap for each method (%s).", quoted(methods))
	}
	return numbered([]string{
		matrix,
		"A ranked table of the strongest relationships with coefficient, p-value and method.",
		"Scatter plots with trend lines for the top relationships.",
		"A short narrative of the key relationships and their business meaning.",
	})
}
