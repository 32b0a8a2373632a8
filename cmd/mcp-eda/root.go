package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sha1n/mcp-eda-server/internal/app"
	"github.com/sha1n/mcp-eda-server/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags to their settings keys
var flagKeys = map[string]string{
	"metadata":                 "metadata",
	"content-dir":              "content-dir",
	"workspace":                "workspace",
	"transport":                "transport",
	"host":                     "host",
	"port":                     "port",
	"tls-cert":                 "tls-cert",
	"tls-key":                  "tls-key",
	"scheme":                   "scheme",
	"cross-ref":                "cross-ref",
	"log-level":                "log-level",
	"search-max-results":       "search.max-results",
	"auth-type":                "auth.type",
	"strict":                   "prompts.strict",
	"preview-rows":             "preview.rows",
	"preview-ragged-tolerance": "preview.ragged-tolerance",
}

// cli carries state shared by the commands of one invocation
type cli struct {
	v          *viper.Viper
	configFile string
	defaults   []string
	settings   *config.Settings
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "mcp-eda",
		Short: "MCP server for exploratory data analysis",
		Long: `mcp-eda serves structured analysis prompts (data exploration, statistical
analysis, correlation analysis and visualization strategy) together with tools
to preview delimited data files and list directories.

Settings come from flags, MCP_EDA_* environment variables and an optional
YAML config file, in that order of precedence.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           app.Version,
		PersistentPreRunE: c.load,
		RunE:              c.runServe,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "YAML config file")
	flags.String("metadata", "", "server metadata YAML file")
	flags.String("content-dir", "", "directory with additional resources/ and prompts/")
	flags.String("workspace", "", "root directory for the file tools (empty: unrestricted)")
	flags.String("transport", config.TransportStdio, "transport: stdio, sse or http")
	flags.String("host", "localhost", "listen host for sse and http")
	flags.Int("port", 8080, "listen port for sse and http")
	flags.String("tls-cert", "", "TLS certificate file")
	flags.String("tls-key", "", "TLS key file")
	flags.String("scheme", "eda", "resource URI scheme")
	flags.Bool("cross-ref", false, "rewrite relative links between resources to resource URIs")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Int("search-max-results", 10, "maximum search results")
	flags.String("auth-type", config.AuthNone, "authentication for sse and http: none, basic, apikey or oidc")
	flags.Bool("strict", false, "reject prompts with missing required parameters")
	flags.StringArrayVar(&c.defaults, "default", nil, "override an optional parameter default, as name=value (repeatable)")
	flags.Int("preview-rows", 5, "default number of preview rows")
	flags.Int("preview-ragged-tolerance", 0, "number of rows with a wrong field count tolerated by previews")

	for flag, key := range flagKeys {
		if err := c.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}

	root.AddCommand(
		newServeCmd(c),
		newPromptCmd(c),
		newPromptsCmd(c),
		newPreviewCmd(c),
		newListCmd(c),
	)

	return root
}

func (c *cli) load(cmd *cobra.Command, _ []string) error {
	settings, err := config.Load(c.v, c.configFile)
	if err != nil {
		return err
	}

	overrides, err := parseAssignments(c.defaults)
	if err != nil {
		return fmt.Errorf("invalid --default: %w", err)
	}
	if len(overrides) > 0 && settings.Prompts.Defaults == nil {
		settings.Prompts.Defaults = make(map[string]string, len(overrides))
	}
	for k, v := range overrides {
		settings.Prompts.Defaults[k] = v
	}

	level, err := config.ParseLogLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c.settings = settings
	return nil
}

// parseAssignments parses name=value pairs. Values may contain commas and
// further equals signs.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		out[name] = value
	}
	return out, nil
}
