package leagues

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/rostermap/pkg/errors"
)

//go:embed leagues.yaml
var defaultLeagues []byte

// DefaultFile is the name reported for the embedded configuration.
const DefaultFile = "embedded:leagues.yaml"

// Default returns the built-in league configuration.
func Default() (*Config, error) {
	return Parse(defaultLeagues, DefaultFile)
}

// Load reads and validates a league configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("leagues file", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// LoadOrDefault loads path, or the built-in configuration when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes and validates a league configuration. path is used in errors.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return &cfg, nil
}
