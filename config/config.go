package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/santiagomed/rcgen/llm"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ProviderHuggingFace = llm.ProviderHuggingFace
	ProviderOpenAI      = llm.ProviderOpenAI
	ProviderAnthropic   = llm.ProviderAnthropic
)

// providerKeyEnv is consulted when neither the config file nor RCGEN_API_KEY
// carries a credential.
var providerKeyEnv = map[string]string{
	ProviderHuggingFace: "HF_API_KEY",
	ProviderOpenAI:      "OPENAI_API_KEY",
	ProviderAnthropic:   "ANTHROPIC_API_KEY",
}

var defaultModels = map[string]string{
	ProviderHuggingFace: "Salesforce/codet5-base",
	ProviderOpenAI:      "gpt-4o-mini",
	ProviderAnthropic:   "claude-sonnet-4-5-20250929",
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"provider":     "provider",
	"model":        "model",
	"output":       "output_dir",
	"metrics-file": "metrics_file",
}

// Config stores all configuration of the application.
type Config struct {
	Provider    string        `mapstructure:"provider" yaml:"provider" validate:"oneof=huggingface openai anthropic"`
	Model       string        `mapstructure:"model" yaml:"model,omitempty"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Endpoint    string        `mapstructure:"endpoint" yaml:"endpoint,omitempty" validate:"omitempty,url"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gt=0"`
	OutputDir   string        `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	SyntaxCheck bool          `mapstructure:"syntax_check" yaml:"syntax_check"`
	LogFile     string        `mapstructure:"log_file" yaml:"log_file,omitempty"`
	MetricsFile string        `mapstructure:"metrics_file" yaml:"metrics_file,omitempty"`
}

// DefaultConfig returns a Config with default values and no credential.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderHuggingFace,
		Timeout:     60 * time.Second,
		MaxTokens:   1024,
		OutputDir:   "src/components",
		SyntaxCheck: true,
	}
}

// LlmConfig returns the client settings for model.
func (c *Config) LlmConfig(model string) *llm.LlmConfig {
	return &llm.LlmConfig{
		Provider:  c.Provider,
		APIKey:    c.APIKey,
		ModelName: model,
		Endpoint:  c.Endpoint,
		Timeout:   c.Timeout,
		MaxTokens: c.MaxTokens,
	}
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// KeyEnvVars lists the environment variables that can carry the credential
// for provider, in lookup order.
func KeyEnvVars(provider string) []string {
	vars := []string{"RCGEN_API_KEY"}
	if name, ok := providerKeyEnv[provider]; ok {
		vars = append(vars, name)
	}
	return vars
}

// ConfigurationError reports configuration that makes a run impossible.
type ConfigurationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Msg)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DefaultConfigPath is ~/.rcgen/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".rcgen", "config.yaml"), nil
}

// Load reads configuration from, in increasing precedence: defaults, the
// config file, .env and the environment, then any changed flags. An explicit
// path must exist; the default path is optional.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	def := DefaultConfig()
	v := viper.New()
	v.SetDefault("provider", def.Provider)
	v.SetDefault("model", "")
	v.SetDefault("api_key", "")
	v.SetDefault("endpoint", "")
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("max_tokens", def.MaxTokens)
	v.SetDefault("output_dir", def.OutputDir)
	v.SetDefault("syntax_check", def.SyntaxCheck)
	v.SetDefault("log_file", "")
	v.SetDefault("metrics_file", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".rcgen"))
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("RCGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if cfg.APIKey == "" {
		if name, ok := providerKeyEnv[cfg.Provider]; ok {
			cfg.APIKey = os.Getenv(name)
		}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigurationError{
				Field: fe.Field(),
				Msg:   fmt.Sprintf("invalid value %v for %s (rule %q)", fe.Value(), fe.Field(), fe.Tag()),
			}
		}
		return &ConfigurationError{Msg: "invalid configuration", Err: err}
	}

	if cfg.APIKey == "" {
		return &ConfigurationError{
			Field: "APIKey",
			Msg:   fmt.Sprintf("%s API key not found (set %s)", cfg.Provider, strings.Join(KeyEnvVars(cfg.Provider), " or ")),
		}
	}

	return nil
}
