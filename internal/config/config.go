package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server's settings. Load starts from Defaults();
// loading a YAML file only overrides the fields it sets, and
// CLI flags (applied by the caller after Load) take precedence over both.
type Config struct {
	Port        int    `yaml:"port"`
	MetricsAddr string `yaml:"metricsAddr"`
	LogLevel    string `yaml:"logLevel"`
	LogJSON     bool   `yaml:"logJSON"`
}

// Defaults returns the configuration used when no file and no flags
// override a setting.
func Defaults() Config {
	return Config{
		Port:        6060,
		MetricsAddr: ":9090",
		LogLevel:    "info",
		LogJSON:     false,
	}
}

// Load reads path as YAML into a copy of Defaults(), so that fields the
// file omits keep their default value. An empty path is not an error; it
// simply returns Defaults() unchanged.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ValidatePort reports whether port is in the range the wire protocol's
// listener accepts, [0, 65535]. Port 0 requests an OS-assigned port.
func ValidatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("config: port %d out of range [0, 65535]", port)
	}
	return nil
}
