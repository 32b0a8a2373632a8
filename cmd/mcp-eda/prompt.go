package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sha1n/mcp-eda-server/internal/app"
	"github.com/sha1n/mcp-eda-server/internal/prompts"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

func newPromptCmd(c *cli) *cobra.Command {
	var (
		args   []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "prompt <family>",
		Short: "Compose an analysis prompt and print it",
		Example: `  mcp-eda prompt correlation_and_relationships \
    --arg dataset_name="Campaign Performance" \
    --arg variables="ad_spend, clicks, conversions" \
    --arg target_variable=roi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			values, err := parseAssignments(args)
			if err != nil {
				return fmt.Errorf("invalid --arg: %w", err)
			}

			engine, err := app.NewPromptEngine(c.settings)
			if err != nil {
				return err
			}
			doc, err := engine.Compose(positional[0], values)
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), doc, format)
		},
	}

	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "parameter as name=value (repeatable)")
	cmd.Flags().StringVarP(&format, "format", "f", formatMarkdown, "output format: markdown or html")
	return cmd
}

func writeDocument(w io.Writer, doc *prompts.Document, format string) error {
	switch format {
	case formatMarkdown, "md", "":
		_, err := io.WriteString(w, doc.String())
		return err
	case formatHTML:
		var buf bytes.Buffer
		md := goldmark.New(goldmark.WithExtensions(extension.Table))
		if err := md.Convert([]byte(doc.String()), &buf); err != nil {
			return fmt.Errorf("failed to render html: %w", err)
		}
		_, err := buf.WriteTo(w)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func newPromptsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List the analysis prompts and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := app.NewPromptEngine(c.settings)
			if err != nil {
				return err
			}

			var sb strings.Builder
			for i, f := range engine.Families() {
				if i > 0 {
					sb.WriteString("\n")
				}
				fmt.Fprintf(&sb, "%s\n  %s\n", f.Name, f.Description)
				for _, p := range f.Params {
					marker := "optional"
					if p.Required {
						marker = "required"
					}
					fmt.Fprintf(&sb, "  --arg %s (%s): %s\n", p.Name, marker, engine.ParamDescription(p))
				}
			}
			_, err = io.WriteString(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
}
