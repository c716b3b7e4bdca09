package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Run configuration
	DataDir     string
	OutputDir   string
	LeaguesFile string
	Retention   int
	Parallelism int
	Provenance  bool

	// Logging configuration
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (ROSTERMAP_ prefix)
// 3. .env files
// 4. Config file (~/.rostermap.yaml or ./.rostermap.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile loads configuration like LoadConfig but reads the given
// config file, which must exist, instead of searching for one.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	loadEnvFiles()

	v.SetEnvPrefix("ROSTERMAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("data_dir", constants.DefaultDataDir)
	v.SetDefault("retention", constants.DefaultRetention)
	v.SetDefault("parallelism", constants.DefaultParallelism)
	v.SetDefault("provenance", true)

	if path == "" {
		path = v.GetString("config")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapParse("config", path, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)

		// A missing config file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DataDir:     v.GetString("data_dir"),
		OutputDir:   v.GetString("output_dir"),
		LeaguesFile: v.GetString("leagues_file"),
		Retention:   v.GetInt("retention"),
		Parallelism: v.GetInt("parallelism"),
		Provenance:  v.GetBool("provenance"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
	config.normalize()

	return config, nil
}

// normalize fills derived values and clamps out-of-range ones.
func (c *Config) normalize() {
	if c.DataDir == "" {
		c.DataDir = constants.DefaultDataDir
	}
	if c.OutputDir == "" {
		c.OutputDir = c.DataDir
	}
	if c.Retention <= 0 {
		c.Retention = constants.DefaultRetention
	}
	switch {
	case c.Parallelism <= 0:
		c.Parallelism = constants.DefaultParallelism
	case c.Parallelism > constants.MaxParallelism:
		c.Parallelism = constants.MaxParallelism
	}
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
