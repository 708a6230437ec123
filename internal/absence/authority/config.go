package authority

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional on-disk authority table. Entries replace the
// compiled-in mapping for the named role; roles not listed keep their
// defaults.
//
//	roles:
//	  supervisor_manager: [SUPERVISOR, MANAGER]
//	  regional_hr: [HR]
type Config struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadConfig reads a YAML authority file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read authority config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse authority config: %w", err)
	}
	return cfg, nil
}
