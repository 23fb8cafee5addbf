// Package config loads runtime configuration from flags, environment
// variables, and an optional config file, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chemtrack/sds-extractor/constants"
)

// Config is the full runtime configuration.
type Config struct {
	// Provider credentials and models.
	OpenAIKey      string  `mapstructure:"openai_api_key"`
	OpenAIModel    string  `mapstructure:"openai_model"`
	AnthropicKey   string  `mapstructure:"anthropic_api_key"`
	AnthropicModel string  `mapstructure:"anthropic_model"`
	Temperature    float32 `mapstructure:"temperature"`

	// Extraction behavior.
	Strategy    string `mapstructure:"strategy"`
	LightMode   bool   `mapstructure:"light_mode"`
	MaxAttempts int    `mapstructure:"max_attempts"`

	// Storage and export.
	DBPath     string `mapstructure:"db_path"`
	ExportPath string `mapstructure:"export_path"`

	// Logging.
	LogLevel string `mapstructure:"log_level"`
}

// BindFlags registers the command-line flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("strategy", string(constants.StrategyAutomatic), "extraction strategy: "+strings.Join(constants.Strategies(), ", "))
	fs.Bool("light-mode", false, "use the local pattern extractor instead of model calls")
	fs.Int("max-attempts", 10, "maximum attempts for throttled model calls")
	fs.String("db-path", "sds_register.db", "path to the SQLite database")
	fs.String("export-path", "", "write the register to this XLSX file after processing")
	fs.String("openai-model", "gpt-4o", "OpenAI model name")
	fs.String("anthropic-model", "claude-3-5-sonnet-20241022", "Anthropic model name")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("config", "", "path to a config file (YAML)")
}

// Load resolves the configuration. Flags win over environment variables,
// which win over the config file. API keys come from the environment
// only (OPENAI_API_KEY, ANTHROPIC_API_KEY or SDS_* prefixed).
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("strategy", string(constants.StrategyAutomatic))
	v.SetDefault("light_mode", false)
	v.SetDefault("max_attempts", 10)
	v.SetDefault("db_path", "sds_register.db")
	v.SetDefault("openai_model", "gpt-4o")
	v.SetDefault("anthropic_model", "claude-3-5-sonnet-20241022")
	v.SetDefault("temperature", 0.2)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("SDS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	// Unprefixed provider keys are conventional; honor them too.
	_ = v.BindEnv("openai_api_key", "SDS_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("anthropic_api_key", "SDS_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")

	if fs != nil {
		for flag, key := range map[string]string{
			"strategy":        "strategy",
			"light-mode":      "light_mode",
			"max-attempts":    "max_attempts",
			"db-path":         "db_path",
			"export-path":     "export_path",
			"openai-model":    "openai_model",
			"anthropic-model": "anthropic_model",
			"log-level":       "log_level",
		} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown strategies early so a batch run does not fail
// on the first document.
func (c *Config) Validate() error {
	if _, ok := constants.ParseStrategy(c.Strategy); !ok {
		return fmt.Errorf("unknown strategy %q (valid: %s)", c.Strategy, strings.Join(constants.Strategies(), ", "))
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	return nil
}
