package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/price-estimator/internal/db"
)

// DefaultServerURL is the prediction backend used when nothing is configured.
const DefaultServerURL = "http://localhost:5000"

// CLIConfig holds CLI configuration persisted to disk.
type CLIConfig struct {
	ServerURL   string `yaml:"server_url,omitempty" json:"server_url,omitempty"`
	OptionsFile string `yaml:"options_file,omitempty" json:"options_file,omitempty"`
}

// configPath returns the path to the CLI config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pe", "config.yaml"), nil
}

// loadConfig reads the CLI config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// saveConfig writes the CLI config to disk. The file is replaced atomically
// so a concurrent reader never sees a partial write.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "config-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing config: %w", err)
	}

	return nil
}

// getServerURL returns the backend URL from env var, config, or default.
func getServerURL() string {
	if v := os.Getenv("PE_SERVER_URL"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return DefaultServerURL
}

// getOptionsPath returns the options file from the --options flag, env var,
// or config. Empty means the built-in option lists.
func getOptionsPath() string {
	if flagOptions != "" {
		return flagOptions
	}
	if v := os.Getenv("PE_OPTIONS_FILE"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil {
		return cfg.OptionsFile
	}
	return ""
}

// getDBPath returns the history database path from the --db flag, env var,
// or default.
func getDBPath() (string, error) {
	if flagDB != "" {
		return flagDB, nil
	}
	if v := os.Getenv("PE_DB"); v != "" {
		return v, nil
	}
	return db.DefaultPath()
}
