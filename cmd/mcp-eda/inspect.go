package main

import (
	"io"

	"github.com/sha1n/mcp-eda-server/internal/app"
	"github.com/sha1n/mcp-eda-server/internal/inspect"
	"github.com/spf13/cobra"
)

func newPreviewCmd(c *cli) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Preview a CSV or TSV file with inferred column types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := inspect.Preview(args[0], rows, app.PreviewOptions(c.settings))
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), preview.Text())
			return err
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "number of rows to show (default: preview.rows)")
	return cmd
}

func newListCmd(c *cli) *cobra.Command {
	var suffix string

	cmd := &cobra.Command{
		Use:   "ls [directory]",
		Short: "List the files in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			listing, err := inspect.List(dir, suffix)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), listing.Text())
			return err
		},
	}

	cmd.Flags().StringVarP(&suffix, "suffix", "s", "", "only list files ending with this suffix, e.g. .csv")
	return cmd
}
