package prompts

import (
	"fmt"
	"strings"
)

const autoSelect = "auto-select"

type depthLevel int

const (
	depthBasic depthLevel = iota
	depthStandard
	depthComprehensive
)

var depthDescriptions = map[depthLevel]string{
	depthBasic:         "core descriptive statistics and a small number of targeted tests",
	depthStandard:      "descriptive statistics, distribution checks and the main inferential tests",
	depthComprehensive: "a full descriptive profile, assumption testing, inferential tests with effect sizes and robustness checks",
}

// parseDepth maps unrecognised values onto the standard level.
func parseDepth(s string) (depthLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return depthBasic, true
	case "standard":
		return depthStandard, true
	case "comprehensive":
		return depthComprehensive, true
	default:
		return depthStandard, false
	}
}

func statisticalAnalysisFamily() *Family {
	return &Family{
		Name:        "advanced_statistical_analysis",
		Title:       "Advanced Statistical Analysis",
		Description: "Plan a statistical analysis: descriptive statistics, test selection, target analysis and reporting",
		Params: []Param{
			{Name: "dataset_name", Description: "Name of the dataset", Required: true},
			{Name: "numerical_columns", Description: "Numerical columns to analyse", Required: true, List: true},
			{Name: "categorical_columns", Description: "Categorical columns to analyse", Required: true, List: true},
			{Name: "target_variable", Description: "Outcome variable of interest"},
			{Name: "analysis_depth", Description: "Depth of the analysis: basic, standard or comprehensive"},
			{Name: "statistical_tests", Description: "Tests to run, or auto-select to let the analyst choose", List: true},
		},
		Sections: []Section{
			{Heading: "Analysis Scope", Render: statisticalScope},
			{Heading: "Variables Under Study", Render: statisticalVariables},
			{Heading: "Descriptive Statistics", Render: statisticalDescriptive},
			{Heading: "Recommended Statistical Tests", Render: statisticalTests},
			{Heading: "Target Variable Analysis", Render: statisticalTarget},
			{Heading: "Assumptions and Caveats", Render: statisticalCaveats},
			{Heading: "Reporting Requirements", Render: statisticalReporting},
		},
	}
}

func statisticalScope(v Values) string {
	level, known := parseDepth(v.Get("analysis_depth"))
	depth := fmt.Sprintf("**Analysis depth:** %s: %s.", v.Get("analysis_depth"), depthDescriptions[level])
	if !known {
		depth = fmt.Sprintf("**Analysis depth:** %s (unrecognised; applying the standard level: %s).", v.Get("analysis_depth"), depthDescriptions[level])
	}

	target := "**Target variable:** not specified"
	if v.Has("target_variable") {
		target = fmt.Sprintf("**Target variable:** `%s`", v.Get("target_variable"))
	}

	return joinParagraphs(
		"You are a statistician designing a rigorous analysis. Justify every method you choose, check its assumptions before interpreting results, and report effect sizes alongside p-values.",
		fmt.Sprintf("**Dataset:** %s", v.Text("dataset_name")),
		depth,
		target,
	)
}

func statisticalVariables(v Values) string {
	numerical := v.List("numerical_columns")
	categorical := v.List("categorical_columns")
	return joinParagraphs(
		fmt.Sprintf("Numerical columns (%d):", len(numerical)),
		enumerate(numerical),
		fmt.Sprintf("Categorical columns (%d):", len(categorical)),
		enumerate(categorical),
	)
}

func statisticalDescriptive(v Values) string {
	level, _ := parseDepth(v.Get("analysis_depth"))

	numeric := []string{"count, mean, median, standard deviation, minimum and maximum"}
	categorical := []string{"frequency and relative frequency of each level"}
	if level >= depthStandard {
		numeric = append(numeric, "quartiles, IQR, skewness and kurtosis", "normality check with Q-Q plots")
		categorical = append(categorical, "mode, cardinality and rare-level share")
	}
	if level >= depthComprehensive {
		numeric = append(numeric, "trimmed means and bootstrap confidence intervals", "robust outlier detection (median absolute deviation)")
		categorical = append(categorical, "cross-tabulations between every pair of categorical columns")
	}

	return joinParagraphs(
		"For the numerical columns compute:",
		bullets(numeric),
		"For the categorical columns compute:",
		bullets(categorical),
	)
}

func statisticalTests(v Values) string {
	if !strings.EqualFold(v.Get("statistical_tests"), autoSelect) {
		return joinParagraphs(
			"Run the requested tests:",
			enumerate(v.List("statistical_tests")),
			"For each test state the null and alternative hypotheses, verify its assumptions, and name the fallback you would use if an assumption fails.",
		)
	}

	numerical := len(v.List("numerical_columns"))
	categorical := len(v.List("categorical_columns"))
	level, _ := parseDepth(v.Get("analysis_depth"))

	var recs []string
	if numerical > 0 {
		recs = append(recs, "**Normality:** Shapiro-Wilk (n < 5000) or Anderson-Darling on each numerical column; use the result to choose between parametric and non-parametric tests.")
	}
	if numerical >= 2 {
		recs = append(recs, "**Association between numerical columns:** Pearson correlation when both are approximately normal, Spearman otherwise.")
	}
	if numerical > 0 && categorical > 0 {
		recs = append(recs, "**Group comparisons:** t-test or Mann-Whitney U for two groups; one-way ANOVA or Kruskal-Wallis for three or more, followed by post-hoc tests (Tukey HSD or Dunn).")
	}
	if categorical >= 2 {
		recs = append(recs, "**Independence of categorical columns:** chi-square test of independence, Fisher's exact test when expected counts fall below 5; report Cramér's V.")
	}
	if v.Has("target_variable") {
		recs = append(recs, fmt.Sprintf("**Relationship with `%s`:** linear regression if the target is numeric, logistic regression or chi-square if it is categorical.", v.Get("target_variable")))
	}
	if level >= depthComprehensive {
		recs = append(recs,
			"**Multiple comparisons:** control the error rate with Holm or Benjamini-Hochberg corrections.",
			"**Robustness:** repeat key tests on bootstrap resamples and with outliers removed.",
		)
	}
	if len(recs) == 0 {
		recs = append(recs, "No columns were supplied, so no test can be recommended yet. List the variables first, then select tests by variable type and sample size.")
	}

	return joinParagraphs(
		"Tests are auto-selected from the variable types supplied:",
		bullets(recs),
	)
}

func statisticalTarget(v Values) string {
	if !v.Has("target_variable") {
		return joinParagraphs(
			"Target variable: not specified.",
			"Without a target, treat the analysis as exploratory: look for structure among the variables (correlation clusters, principal components, natural segments) and propose candidate targets for follow-up work.",
		)
	}

	target := v.Get("target_variable")
	return joinParagraphs(
		fmt.Sprintf("Target variable: `%s`.", target),
		bullets([]string{
			fmt.Sprintf("Describe the distribution of `%s` and check for class imbalance or heavy tails.", target),
			fmt.Sprintf("Test the relationship between `%s` and every numerical and categorical column.", target),
			"Rank the variables by effect size and identify candidate drivers.",
			"Check for leakage: variables that are recorded after, or derived from, the target.",
		}),
	)
}

func statisticalCaveats(v Values) string {
	caveats := []string{
		"Statistical significance is not practical significance; always report effect sizes and confidence intervals.",
		"Observational data supports association, not causation.",
		"Check independence of observations: repeated measures and time series need dedicated methods.",
		"Document how missing values and outliers were treated and how that affects the results.",
	}
	if level, _ := parseDepth(v.Get("analysis_depth")); level >= depthComprehensive {
		caveats = append(caveats, "Report a sensitivity analysis for every key conclusion.")
	}
	return bullets(caveats)
}

func statisticalReporting(v Values) string {
	items := []string{
		"Executive summary of the main findings in plain language.",
		"A methods table: question, test, assumptions checked, result, effect size.",
		"Charts supporting each finding.",
	}
	if level, _ := parseDepth(v.Get("analysis_depth")); level >= depthStandard {
		items = append(items, "Limitations and recommended follow-up analyses.")
	}
	if level, _ := parseDepth(v.Get("analysis_depth")); level >= depthComprehensive {
		items = append(items, "An appendix with reproducible code and full test output.")
	}
	return numbered(items)
}
