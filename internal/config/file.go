package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the optional YAML configuration read by the command line tool.
//
//	format: markdown
//	export_basename: draft
type File struct {
	Format         string `yaml:"format"`
	ExportBasename string `yaml:"export_basename"`
}

// LoadFile reads a File from path. A missing file yields ErrConfigNotFound
// so callers can decide whether that matters.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}
