package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPosture reads a YAML posture file. Sections the file omits are filled
// from Default(). The result is not validated; call Validate before use.
func LoadPosture(path string) (*Posture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read posture file %q: %w", path, err)
	}

	var p Posture
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse posture file %q: %w", path, err)
	}

	if p.Version != 1 {
		return nil, fmt.Errorf("posture file %q: unsupported version %d", path, p.Version)
	}

	fillDefaults(&p)
	return &p, nil
}
