// Package settings loads optional run defaults from .astcmp.yaml. Flags
// always win over the file; the file only fills in what the user did not say
// on the command line.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the working directory.
const FileName = ".astcmp.yaml"

// Settings holds defaults for a comparison run. Pointer fields distinguish
// "not set" from an explicit false.
type Settings struct {
	Subdirs []string `yaml:"subdirs"`
	Debug   *bool    `yaml:"debug"`
	Verbose *bool    `yaml:"verbose"`
	Jobs    int      `yaml:"jobs"`
}

// Load reads FileName under dir. Returns nil (not an error) if the file does
// not exist.
func Load(dir string) (*Settings, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &s, nil
}
