package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// FileNames lists the config file names looked up in every directory, in
// priority order.
var FileNames = []string{".psfmt.toml", ".psfmt.yaml", ".psfmt.yml"}

// ErrUnknownFormat is returned by Load for a file that is neither TOML nor YAML.
var ErrUnknownFormat = errors.New("unknown config format")

// Load reads options from a TOML or YAML file, chosen by extension.
func Load(path string) (Options, error) {
	// #nosec G304 -- path is provided by the user or found by Discover
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return decodeTOML(path, data)
	case ".yaml", ".yml":
		return decodeYAML(path, data)
	default:
		return Options{}, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

func decodeTOML(path string, data []byte) (Options, error) {
	var o Options
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&o)
	if err != nil {
		return Options{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return Options{}, fmt.Errorf("%s: unknown option %q", path, undec[0].String())
	}
	return o, nil
}

func decodeYAML(path string, data []byte) (Options, error) {
	var o Options
	if len(bytes.TrimSpace(data)) == 0 {
		return o, nil
	}
	if err := yaml.UnmarshalWithOptions(data, &o, yaml.Strict()); err != nil {
		return Options{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return o, nil
}

// Discover walks up from startDir looking for a config file. The first
// directory holding one of FileNames wins.
func Discover(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
