// Package config loads a lookup session's YAML configuration: a plain
// struct decoded with gopkg.in/yaml.v3.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk shape of a lookup session's configuration.
type File struct {
	MaxRedirects int      `yaml:"max_redirects"`
	Ndots        int      `yaml:"ndots"`
	SearchPath   []string `yaml:"search_path"`
	CycleResults bool     `yaml:"cycle_results"`
	HostsPath    string   `yaml:"hosts_path"`
	Upstreams    []string `yaml:"upstreams"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Defaults returns a File with sane zero-value fallbacks already applied,
// suitable as a base for an otherwise-bare YAML decode.
func Defaults() File {
	return File{
		MaxRedirects: 8,
		Ndots:        1,
		HostsPath:    "/etc/hosts",
		Timeout:      5 * time.Second,
	}
}

// Load reads and decodes a YAML config file at path, starting from
// Defaults so a partial file only overrides what it sets.
func Load(path string) (File, error) {
	f := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, err
	}
	return f, nil
}
