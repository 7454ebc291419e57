package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in
// ~/.config/sjrmatch/config.yml.
type GlobalConfig struct {
	SJRDir     string `yaml:"sjr_dir,omitempty"`
	Sheet      string `yaml:"sheet,omitempty"`
	JournalCol string `yaml:"journal_col,omitempty"`
	YearCol    string `yaml:"year_col,omitempty"`
	YearStart  int    `yaml:"year_start,omitempty"`
	YearEnd    int    `yaml:"year_end,omitempty"`
	Pattern    string `yaml:"pattern,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "sjrmatch"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// ValidKeys lists the keys accepted by Get and Set.
var ValidKeys = []string{"sjr_dir", "sheet", "journal_col", "year_col", "year_start", "year_end", "pattern"}

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/sjrmatch/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobal loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobal() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// SaveGlobal writes the global configuration file, creating its directory
// if needed, and invalidates the cache.
func SaveGlobal(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	ResetGlobalCache()
	return nil
}

// ResetGlobalCache clears the cached global config.
// Useful for testing.
func ResetGlobalCache() {
	globalConfigCache = nil
}

// Get returns the value of a config key as a string.
func (c *GlobalConfig) Get(key string) (string, error) {
	switch key {
	case "sjr_dir":
		return c.SJRDir, nil
	case "sheet":
		return c.Sheet, nil
	case "journal_col":
		return c.JournalCol, nil
	case "year_col":
		return c.YearCol, nil
	case "year_start":
		return formatYear(c.YearStart), nil
	case "year_end":
		return formatYear(c.YearEnd), nil
	case "pattern":
		return c.Pattern, nil
	}
	return "", fmt.Errorf("unknown key: %s (valid: %v)", key, ValidKeys)
}

// Set assigns a config key from a string value, validating numeric keys.
func (c *GlobalConfig) Set(key, value string) error {
	switch key {
	case "sjr_dir":
		c.SJRDir = value
	case "sheet":
		c.Sheet = value
	case "journal_col":
		c.JournalCol = value
	case "year_col":
		c.YearCol = value
	case "year_start":
		y, err := parseYearValue(value)
		if err != nil {
			return err
		}
		c.YearStart = y
	case "year_end":
		y, err := parseYearValue(value)
		if err != nil {
			return err
		}
		c.YearEnd = y
	case "pattern":
		c.Pattern = value
	default:
		return fmt.Errorf("unknown key: %s (valid: %v)", key, ValidKeys)
	}
	return nil
}

func formatYear(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func parseYearValue(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 0 {
		return 0, fmt.Errorf("invalid year: %s", s)
	}
	return y, nil
}
