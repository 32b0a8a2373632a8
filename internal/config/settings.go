// Package config holds the server settings and their viper bindings.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. MCP_EDA_TRANSPORT
const EnvPrefix = "MCP_EDA"

// Transports
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Auth types
const (
	AuthNone   = "none"
	AuthBasic  = "basic"
	AuthAPIKey = "apikey"
	AuthOIDC   = "oidc"
)

// Settings is the complete server configuration
type Settings struct {
	Metadata   string          `mapstructure:"metadata"`
	ContentDir string          `mapstructure:"content-dir"`
	Workspace  string          `mapstructure:"workspace"`
	Transport  string          `mapstructure:"transport"`
	Host       string          `mapstructure:"host"`
	Port       int             `mapstructure:"port"`
	CertFile   string          `mapstructure:"tls-cert"`
	KeyFile    string          `mapstructure:"tls-key"`
	Scheme     string          `mapstructure:"scheme"`
	CrossRef   bool            `mapstructure:"cross-ref"`
	LogLevel   string          `mapstructure:"log-level"`
	Search     SearchSettings  `mapstructure:"search"`
	Auth       AuthSettings    `mapstructure:"auth"`
	Prompts    PromptSettings  `mapstructure:"prompts"`
	Preview    PreviewSettings `mapstructure:"preview"`
}

// SearchSettings configures the reference library index
type SearchSettings struct {
	MaxResults int `mapstructure:"max-results"`
}

// AuthSettings configures authentication for the network transports
type AuthSettings struct {
	Type   string            `mapstructure:"type"`
	Basic  BasicAuthSettings `mapstructure:"basic"`
	APIKey string            `mapstructure:"apikey"`
	OIDC   OIDCSettings      `mapstructure:"oidc"`
}

// BasicAuthSettings holds HTTP basic credentials
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// OIDCSettings identifies the token issuer and audience
type OIDCSettings struct {
	IssuerURL string `mapstructure:"issuer"`
	ClientID  string `mapstructure:"client-id"`
}

// PromptSettings configures the prompt engine
type PromptSettings struct {
	Strict   bool              `mapstructure:"strict"`
	Defaults map[string]string `mapstructure:"defaults"`
}

// PreviewSettings configures the read_csv_file tool
type PreviewSettings struct {
	Rows            int `mapstructure:"rows"`
	RaggedTolerance int `mapstructure:"ragged-tolerance"`
}

var defaults = map[string]interface{}{
	"metadata":                 "",
	"content-dir":              "",
	"workspace":                "",
	"transport":                TransportStdio,
	"host":                     "localhost",
	"port":                     8080,
	"tls-cert":                 "",
	"tls-key":                  "",
	"scheme":                   "eda",
	"cross-ref":                false,
	"log-level":                "info",
	"search.max-results":       10,
	"auth.type":                AuthNone,
	"auth.basic.username":      "",
	"auth.basic.password":      "",
	"auth.apikey":              "",
	"auth.oidc.issuer":         "",
	"auth.oidc.client-id":      "",
	"prompts.strict":           false,
	"prompts.defaults":         map[string]string{},
	"preview.rows":             5,
	"preview.ragged-tolerance": 0,
}

// SetDefaults registers every key with its default value and enables
// environment overrides. Keys only become visible to AutomaticEnv once
// they have a default.
func SetDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load reads the optional config file, decodes the settings and validates them
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &settings, nil
}

// Validate rejects inconsistent settings
func (s *Settings) Validate() error {
	switch s.Transport {
	case TransportStdio:
	case TransportSSE, TransportHTTP:
		if s.Port <= 0 || s.Port > 65535 {
			return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
		}
	default:
		return fmt.Errorf("unknown transport: %s", s.Transport)
	}

	if (s.CertFile == "") != (s.KeyFile == "") {
		return fmt.Errorf("tls-cert and tls-key must be set together")
	}
	if s.Scheme == "" {
		return fmt.Errorf("scheme is required")
	}
	if s.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max-results must be positive, got %d", s.Search.MaxResults)
	}
	if s.Preview.Rows <= 0 {
		return fmt.Errorf("preview.rows must be positive, got %d", s.Preview.Rows)
	}
	if s.Preview.RaggedTolerance < 0 {
		return fmt.Errorf("preview.ragged-tolerance must not be negative, got %d", s.Preview.RaggedTolerance)
	}
	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		return err
	}
	return s.Auth.Validate()
}

// Validate checks that the selected auth type is fully configured
func (a AuthSettings) Validate() error {
	switch a.Type {
	case AuthNone, "":
	case AuthBasic:
		if a.Basic.Username == "" || a.Basic.Password == "" {
			return fmt.Errorf("basic auth requires auth.basic.username and auth.basic.password")
		}
	case AuthAPIKey:
		if a.APIKey == "" {
			return fmt.Errorf("apikey auth requires auth.apikey")
		}
	case AuthOIDC:
		if a.OIDC.IssuerURL == "" || a.OIDC.ClientID == "" {
			return fmt.Errorf("oidc auth requires auth.oidc.issuer and auth.oidc.client-id")
		}
	default:
		return fmt.Errorf("unknown auth type: %s", a.Type)
	}
	return nil
}

// IsNetwork reports whether the transport listens on a TCP port
func (s *Settings) IsNetwork() bool {
	return s.Transport == TransportSSE || s.Transport == TransportHTTP
}

// TLSEnabled reports whether a certificate and key are configured
func (s *Settings) TLSEnabled() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

// Addr is the listen address of the network transports
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ParseLogLevel maps a log-level setting to a slog level
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
