package app

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/rostermap/pkg/constants"
	"github.com/agentstation/rostermap/pkg/errors"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.OutputDir == "" {
		t.Error("OutputDir not derived from DataDir")
	}
	if config.Retention != constants.DefaultRetention {
		t.Errorf("Retention = %d, want %d", config.Retention, constants.DefaultRetention)
	}
	if !config.Provenance {
		t.Error("Provenance should default to true")
	}
}

// TestConfig_EnvironmentVariables verifies ROSTERMAP_ environment variables.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("ROSTERMAP_VERBOSE", "true")
	t.Setenv("ROSTERMAP_FORMAT", "yaml")
	t.Setenv("ROSTERMAP_DATA_DIR", "/data/feeds")
	t.Setenv("ROSTERMAP_PARALLELISM", "2")
	t.Setenv("ROSTERMAP_PROVENANCE", "false")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if !config.Verbose {
		t.Error("ROSTERMAP_VERBOSE not loaded")
	}
	if config.Format != "yaml" {
		t.Errorf("Format = %s, want yaml", config.Format)
	}
	if config.DataDir != "/data/feeds" {
		t.Errorf("DataDir = %s, want /data/feeds", config.DataDir)
	}
	if config.OutputDir != "/data/feeds" {
		t.Errorf("OutputDir = %s, want the data directory", config.OutputDir)
	}
	if config.Parallelism != 2 {
		t.Errorf("Parallelism = %d, want 2", config.Parallelism)
	}
	if config.Provenance {
		t.Error("ROSTERMAP_PROVENANCE=false not loaded")
	}
}

// TestConfig_LogSettings verifies the unprefixed logging variables.
func TestConfig_LogSettings(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", config.LogLevel)
	}
	if config.LogFormat != "json" {
		t.Errorf("LogFormat = %s, want json", config.LogFormat)
	}
	if config.LogOutput != "stderr" {
		t.Errorf("LogOutput = %s, want stderr", config.LogOutput)
	}
}

// TestLoadConfigFile verifies reading an explicit config file.
func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rostermap.yaml")
	content := "data_dir: /srv/feeds\noutput_dir: /srv/unified\nretention: 3\nleagues_file: leagues.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() failed: %v", err)
	}
	if config.DataDir != "/srv/feeds" {
		t.Errorf("DataDir = %s, want /srv/feeds", config.DataDir)
	}
	if config.OutputDir != "/srv/unified" {
		t.Errorf("OutputDir = %s, want /srv/unified", config.OutputDir)
	}
	if config.Retention != 3 {
		t.Errorf("Retention = %d, want 3", config.Retention)
	}
	if config.LeaguesFile != "leagues.yaml" {
		t.Errorf("LeaguesFile = %s, want leagues.yaml", config.LeaguesFile)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
}

// TestLoadConfigFile_Missing verifies an explicit file must exist.
func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadConfigFile() succeeded for a missing file")
	}
	var pe *errors.ParseError
	if !stderrors.As(err, &pe) {
		t.Errorf("error %v is not a ParseError", err)
	}
}

// TestConfig_Normalize verifies derived and clamped values.
func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   Config
	}{
		{
			name:   "empty config gets defaults",
			config: Config{},
			want: Config{
				DataDir:     constants.DefaultDataDir,
				OutputDir:   constants.DefaultDataDir,
				Retention:   constants.DefaultRetention,
				Parallelism: constants.DefaultParallelism,
			},
		},
		{
			name:   "output dir kept",
			config: Config{DataDir: "in", OutputDir: "out", Retention: 2, Parallelism: 3},
			want:   Config{DataDir: "in", OutputDir: "out", Retention: 2, Parallelism: 3},
		},
		{
			name:   "parallelism capped",
			config: Config{DataDir: "in", Retention: 1, Parallelism: 1000},
			want:   Config{DataDir: "in", OutputDir: "in", Retention: 1, Parallelism: constants.MaxParallelism},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config
			got.normalize()
			if got != tt.want {
				t.Errorf("normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestConfig_UpdateFromFlags verifies flag values take precedence.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", LogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "", "")
	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "yaml" || config.LogLevel != "warn" {
		t.Error("empty flags should keep configured values")
	}

	config.UpdateFromFlags(false, true, false, "json", "error")
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error", config.LogLevel)
	}
}
