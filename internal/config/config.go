package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("oauth-relay version %s, commit %s, built at %s", version, commit, date)
}

const (
	// DefaultRelayPort is the listening port of the relay when storing tokens in memory
	DefaultRelayPort = 3000
	// DefaultProfilePort is the listening port of the standalone profile fetcher
	DefaultProfilePort = 5000

	DefaultProviderBaseURL = "https://api.instagram.com"
	DefaultScopes          = "profile,media"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`
	Relay    RelayConfig    `mapstructure:"relay" yaml:"relay"`
}

// TokenStorage selects where the profile handler gets its access token from
type TokenStorage string

const (
	// TokenStorageMemory keeps the last exchanged token in process memory
	TokenStorageMemory TokenStorage = "memory"
	// TokenStorageStatic reads a fixed token from configuration
	TokenStorageStatic TokenStorage = "static-config"
)

// CodeParamSource tells the exchange handler where the authorization code comes from
type CodeParamSource string

const (
	CodeParamSourceQuery CodeParamSource = "query"
)

// TokenRequestEncoding selects how the exchange parameters are sent to the token endpoint
type TokenRequestEncoding string

const (
	// TokenRequestEncodingForm sends an application/x-www-form-urlencoded body
	TokenRequestEncodingForm TokenRequestEncoding = "form"
	// TokenRequestEncodingQuery sends the parameters in the query string with an empty body
	TokenRequestEncodingQuery TokenRequestEncoding = "query"
)

type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	Host            string        `mapstructure:"host" yaml:"host"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level" yaml:"level"`
	Format            string `mapstructure:"format" yaml:"format"`
	Color             bool   `mapstructure:"color" yaml:"color"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace" yaml:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path" yaml:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file" yaml:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console" yaml:"disable_console"`
}

type ProviderConfig struct {
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	ClientID     string        `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string        `mapstructure:"client_secret" yaml:"client_secret"`
	RedirectURI  string        `mapstructure:"redirect_uri" yaml:"redirect_uri"`
	AccessToken  string        `mapstructure:"access_token" yaml:"access_token"` // used by static-config storage only
	Scopes       string        `mapstructure:"scopes" yaml:"scopes"`             // comma separated, sent as is
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type RelayConfig struct {
	TokenStorage         TokenStorage         `mapstructure:"token_storage" yaml:"token_storage"`
	CodeParamSource      CodeParamSource      `mapstructure:"code_param_source" yaml:"code_param_source"`
	TokenRequestEncoding TokenRequestEncoding `mapstructure:"token_request_encoding" yaml:"token_request_encoding"`
}

const envPrefix = "OAUTH_RELAY"

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// envAliases maps config keys to the bare environment names used by the
// original deployments. The IG_ prefixed names are accepted as well.
// Binding them replaces the name AutomaticEnv derives, so Load binds the
// prefixed name too and it takes precedence.
var envAliases = map[string][]string{
	"provider.client_id":     {"CLIENT_ID", "IG_CLIENT_ID"},
	"provider.client_secret": {"CLIENT_SECRET", "IG_CLIENT_SECRET"},
	"provider.redirect_uri":  {"REDIRECT_URI", "IG_REDIRECT_URI"},
	"provider.access_token":  {"ACCESS_TOKEN", "IG_ACCESS_TOKEN"},
	"server.port":            {"PORT"},
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"host":                   "server.host",
	"port":                   "server.port",
	"token-request-encoding": "relay.token_request_encoding",
	"log-level":              "logging.level",
	"log-format":             "logging.format",
}

// InitFlags registers the command line flags understood by Load (without parsing)
func InitFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a config file (default ./config.yaml)")
	fs.String("host", "", "Listen host")
	fs.Int("port", 0, "Listen port (default 3000 for the relay, 5000 for the profile fetcher)")
	fs.String("token-request-encoding", string(TokenRequestEncodingForm), "Token request encoding (form|query)")
	fs.String("log-level", "info", "Log level")
	fs.String("log-format", "console", "Log format (console|json)")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("provider.base_url", DefaultProviderBaseURL)
	v.SetDefault("provider.scopes", DefaultScopes)
	v.SetDefault("provider.timeout", "10s")
	v.SetDefault("relay.token_storage", string(TokenStorageMemory))
	v.SetDefault("relay.code_param_source", string(CodeParamSourceQuery))
	v.SetDefault("relay.token_request_encoding", string(TokenRequestEncodingForm))
}

// loadDotEnv populates the process environment from ./.env if present.
// Variables already set in the environment win.
func loadDotEnv() error {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load builds the configuration from flags, environment, an optional config
// file and defaults. flags may be nil. A non-empty storage pins
// relay.token_storage regardless of other sources.
func Load(flags *pflag.FlagSet, storage TokenStorage) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key, prefixedEnv(key)}, names...)...); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if storage != "" {
		v.Set("relay.token_storage", string(storage))
	}

	configFile := ""
	if flags != nil {
		configFile, _ = flags.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/oauth-relay")
	}

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional unless explicitly requested
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort(cfg.Relay.TokenStorage)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// prefixedEnv returns the environment name AutomaticEnv uses for key
func prefixedEnv(key string) string {
	return envPrefix + "_" + strings.ToUpper(envKeyReplacer.Replace(key))
}

// DefaultPort returns the listening port used when none is configured
func DefaultPort(storage TokenStorage) int {
	if storage == TokenStorageStatic {
		return DefaultProfilePort
	}
	return DefaultRelayPort
}

// Validate checks that the configuration is usable by the relay
func (c *Config) Validate() error {
	switch c.Relay.CodeParamSource {
	case CodeParamSourceQuery:
	default:
		return fmt.Errorf("unsupported relay.code_param_source %q, expected %q", c.Relay.CodeParamSource, CodeParamSourceQuery)
	}

	switch c.Relay.TokenRequestEncoding {
	case TokenRequestEncodingForm, TokenRequestEncodingQuery:
	default:
		return fmt.Errorf("unsupported relay.token_request_encoding %q, expected form or query", c.Relay.TokenRequestEncoding)
	}

	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}

	switch c.Relay.TokenStorage {
	case TokenStorageMemory:
		var missing []string
		if c.Provider.ClientID == "" {
			missing = append(missing, "CLIENT_ID")
		}
		if c.Provider.ClientSecret == "" {
			missing = append(missing, "CLIENT_SECRET")
		}
		if c.Provider.RedirectURI == "" {
			missing = append(missing, "REDIRECT_URI")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing provider credentials, please set %s", strings.Join(missing, ", "))
		}
	case TokenStorageStatic:
		if c.Provider.AccessToken == "" {
			return fmt.Errorf("static-config token storage requires ACCESS_TOKEN")
		}
	default:
		return fmt.Errorf("unsupported relay.token_storage %q, expected memory or static-config", c.Relay.TokenStorage)
	}
	return nil
}

// Redacted returns a copy of the config with secrets masked
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	c.Provider.ClientSecret = mask(c.Provider.ClientSecret)
	c.Provider.AccessToken = mask(c.Provider.AccessToken)
	return c
}

// Address returns the host:port the server listens on
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
