package prompts

import (
	"fmt"
	"strings"
)

func initialExplorationFamily() *Family {
	return &Family{
		Name:        "initial_data_exploration",
		Title:       "Initial Data Exploration",
		Description: "Guide a first-pass exploratory analysis of a dataset: structure, quality, distributions and first hypotheses",
		Params: []Param{
			{Name: "dataset_info", Description: "What the dataset is: source, period covered and granularity", Required: true},
			{Name: "columns", Description: "Column names in file order", Required: true, List: true},
			{Name: "business_context", Description: "Business question or decision the analysis supports"},
			{Name: "sample_data", Description: "One or more sample rows"},
			{Name: "data_types", Description: "Data type of each column, in the same order as columns", List: true},
		},
		Sections: []Section{
			{Heading: "Dataset Overview", Render: explorationOverview},
			{Heading: "Column Inventory", Render: explorationColumns},
			{Heading: "Sample Data", Render: explorationSample},
			{Heading: "Data Quality Assessment", Render: explorationQuality},
			{Heading: "Univariate Analysis", Render: explorationUnivariate},
			{Heading: "Initial Hypotheses", Render: explorationHypotheses},
			{Heading: "Deliverables", Render: explorationDeliverables},
		},
	}
}

func explorationOverview(v Values) string {
	context := v.Get("business_context")
	if context == "" {
		context = "Not specified. Infer plausible uses of this data from the column names and state your assumptions explicitly."
	}
	return joinParagraphs(
		"You are an experienced data analyst taking a first exploratory pass over a dataset. Work systematically, show the code or queries you run, and explain each finding in plain language.",
		fmt.Sprintf("**Dataset:** %s", v.Text("dataset_info")),
		fmt.Sprintf("**Columns supplied:** %d", len(v.List("columns"))),
		fmt.Sprintf("**Business context:** %s", context),
	)
}

func explorationColumns(v Values) string {
	columns := v.List("columns")
	types := v.List("data_types")

	if len(columns) == 0 {
		return joinParagraphs(
			"Column list: "+notProvided,
			"Start by listing every column with its inferred type, then continue with the steps below.",
		)
	}

	var inventory string
	switch {
	case len(types) == len(columns):
		paired := make([]string, len(columns))
		for i, c := range columns {
			paired[i] = fmt.Sprintf("`%s` (%s)", c, types[i])
		}
		inventory = bullets(paired)
	case len(types) > 0:
		inventory = joinParagraphs(
			codeBullets(columns),
			fmt.Sprintf("Declared data types (%d) do not match the number of columns (%d). Verify the type of every column directly:", len(types), len(columns)),
			bullets(types),
		)
	default:
		inventory = joinParagraphs(
			codeBullets(columns),
			"Data types: not specified. Infer the type of each column (numeric, categorical, datetime, boolean, free text or identifier) before any analysis.",
		)
	}

	return joinParagraphs(
		fmt.Sprintf("The dataset has %s:", plural(len(columns), "column", "columns")),
		inventory,
		"For each column record its semantic role (identifier, measure, dimension, timestamp, target candidate), its unit, and whether its storage type matches that role.",
	)
}

func explorationSample(v Values) string {
	if !v.Has("sample_data") {
		return "No sample rows were provided. Load the first rows of the file (for example with the `read_csv_file` tool) and confirm value formats, delimiters, encodings and header alignment before going further."
	}
	return joinParagraphs(
		"Sample rows supplied by the user:",
		"```\n"+v.Get("sample_data")+"\n```",
		"Use the sample to confirm value formats, units, date layouts and obvious anomalies such as placeholder values or mixed types within a column.",
	)
}

func explorationQuality(v Values) string {
	n := len(v.List("columns"))
	scope := "every column"
	if n > 0 {
		scope = fmt.Sprintf("all %s", plural(n, "column", "columns"))
	}
	return joinParagraphs(
		fmt.Sprintf("Assess data quality across %s:", scope),
		bullets([]string{
			"**Completeness:** count and percentage of missing values per column; look for patterns in missingness (by time, by segment).",
			"**Uniqueness:** duplicate rows and duplicate identifiers; confirm the grain of the table.",
			"**Validity:** values outside plausible ranges, invalid categories, negative quantities, future dates.",
			"**Consistency:** inconsistent spellings or casing of categories, mixed units, mixed date formats.",
			"**Outliers:** flag extreme values with IQR or robust z-scores and decide whether they are errors or genuine.",
		}),
		"Summarise the issues in a table with column, issue, affected rows and proposed treatment.",
	)
}

func explorationUnivariate(v Values) string {
	guidance := bullets([]string{
		"**Numeric columns:** count, mean, median, standard deviation, min/max, quartiles, skewness; plot histograms and box plots.",
		"**Categorical columns:** cardinality, frequency tables, share of the top categories, rare levels.",
		"**Datetime columns:** coverage, gaps, granularity and seasonality.",
		"**Boolean columns:** class balance.",
	})

	types := v.List("data_types")
	if len(types) == 0 {
		return guidance
	}

	counts := make(map[string]int)
	for _, t := range types {
		counts[typeKind(t)]++
	}
	summary := fmt.Sprintf("Based on the declared types: %s, %s, %s and %s.",
		plural(counts["numeric"], "numeric column", "numeric columns"),
		plural(counts["categorical"], "categorical or text column", "categorical or text columns"),
		plural(counts["datetime"], "datetime column", "datetime columns"),
		plural(counts["boolean"], "boolean column", "boolean columns"),
	)
	return joinParagraphs(summary, guidance)
}

func explorationHypotheses(v Values) string {
	var framing string
	if v.Has("business_context") {
		framing = fmt.Sprintf("Frame three to five testable hypotheses that connect the data to this context: %s", v.Get("business_context"))
	} else {
		framing = "Frame three to five testable hypotheses suggested by the structure of the data, such as differences between segments, trends over time or drivers of a key measure."
	}
	return joinParagraphs(
		framing,
		"For each hypothesis name the columns involved, the analysis that would test it and what result would change a decision.",
	)
}

func explorationDeliverables(Values) string {
	return numbered([]string{
		"A data dictionary: column, type, role, missing rate, notes.",
		"A data quality report with proposed cleaning steps.",
		"Univariate summaries with the key charts.",
		"A short list of hypotheses and recommended next analyses.",
	})
}

// typeKind maps a declared type label onto a broad kind.
func typeKind(t string) string {
	t = strings.ToLower(t)
	switch {
	case strings.Contains(t, "bool"):
		return "boolean"
	case strings.Contains(t, "date"), strings.Contains(t, "time"):
		return "datetime"
	case strings.Contains(t, "int"), strings.Contains(t, "float"), strings.Contains(t, "double"),
		strings.Contains(t, "decimal"), strings.Contains(t, "numeric"), strings.Contains(t, "number"):
		return "numeric"
	default:
		return "categorical"
	}
}
