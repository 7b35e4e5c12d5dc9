package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigHeader = `# rcgen configuration
#
# The API key is best supplied through the environment:
#   RCGEN_API_KEY, or HF_API_KEY / OPENAI_API_KEY / ANTHROPIC_API_KEY
# depending on the provider.

`

// WriteDefault writes the default configuration as YAML to path. An existing
// file is only replaced when overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("config file %s already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Model = DefaultModel(cfg.Provider)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to encode default config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(defaultConfigHeader), data...), 0644); err != nil {
		return fmt.Errorf("unable to write default config file: %w", err)
	}

	return nil
}
