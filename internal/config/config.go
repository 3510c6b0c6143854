// Package config resolves the clustershell configuration directory and the
// optional YAML settings file inside it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const dirName = ".clustershell"

// Settings is the settings.yaml structure. Every field has a default; the
// file is optional.
type Settings struct {
	HistoryFile     string `yaml:"history_file"`
	DefaultShards   int    `yaml:"default_shards"`
	DefaultReplicas int    `yaml:"default_replicas"`
}

// Default returns the settings used when no settings.yaml exists.
func Default() *Settings {
	return &Settings{
		HistoryFile:     "history",
		DefaultShards:   5,
		DefaultReplicas: 1,
	}
}

// Dir resolves the configuration directory under the user's home.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// ConnectionsDir returns the directory connection records live in.
func ConnectionsDir(base string) string {
	return filepath.Join(base, "connections")
}

// HistoryPath returns the absolute path of the REPL history file.
func (s *Settings) HistoryPath(base string) string {
	if filepath.IsAbs(s.HistoryFile) {
		return s.HistoryFile
	}
	return filepath.Join(base, s.HistoryFile)
}

// EnsureAll creates the configuration directory tree.
func EnsureAll(base string) error {
	for _, dir := range []string{base, ConnectionsDir(base)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads settings.yaml from the base directory. A missing file yields
// the defaults, not an error; a malformed file is an error. Unset fields
// fall back to their defaults.
func Load(base string) (*Settings, error) {
	data, err := os.ReadFile(filepath.Join(base, "settings.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings.yaml: %w", err)
	}
	if s.HistoryFile == "" {
		s.HistoryFile = Default().HistoryFile
	}
	if s.DefaultShards <= 0 {
		s.DefaultShards = Default().DefaultShards
	}
	if s.DefaultReplicas < 0 {
		s.DefaultReplicas = Default().DefaultReplicas
	}
	return s, nil
}
