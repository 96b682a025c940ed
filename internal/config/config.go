// Package config handles the command-line tool's YAML configuration.
// The SDK itself takes explicit options; this file only feeds them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the tool's configuration, loaded from a YAML file.
type Config struct {
	// Endpoint is the App Pass service base URL. Empty means the SDK default.
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// ProxyURL is the URL of an optional proxy server to use for outbound requests.
	ProxyURL string `yaml:"proxy-url" json:"proxy-url"`

	// Cookie is sent verbatim with every status probe for same-origin authentication.
	Cookie string `yaml:"cookie" json:"cookie"`

	// ExtensionID identifies this install to the App Pass service.
	// A random identifier is generated when empty.
	ExtensionID string `yaml:"extension-id" json:"extension-id"`

	// GrantsFile is the JSON file holding origin permission grants.
	// Empty means the default under the user's home directory.
	GrantsFile string `yaml:"grants-file" json:"grants-file"`

	// LoggingToFile switches log output from stdout to rotating files.
	LoggingToFile bool `yaml:"logging-to-file" json:"logging-to-file"`

	// LogDir is the directory for rotating log files.
	LogDir string `yaml:"log-dir" json:"log-dir"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug" json:"debug"`
}

// LoadConfig reads and parses the YAML configuration at configFile.
func LoadConfig(configFile string) (*Config, error) {
	return LoadConfigOptional(configFile, false)
}

// LoadConfigOptional behaves like LoadConfig but, when optional is true,
// a missing file yields a zero-value configuration instead of an error.
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: read %s failed: %w", configFile, err)
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s failed: %w", configFile, err)
	}
	return &cfg, nil
}
