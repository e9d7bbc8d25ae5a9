//go:build !tinygo

package rpi

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultBase is the profile a file starts from when it names no base.
const DefaultBase = "rpi3"

type header struct {
	Base string `yaml:"base" toml:"base"`
}

// Load reads a profile from a .yaml/.yml or .toml file.  The file only needs to
// carry the values that differ from its base profile, given by the "base" key.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}
	var decode func(v interface{}) error
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		decode = func(v interface{}) error { return yaml.Unmarshal(data, v) }
	case ".toml":
		decode = func(v interface{}) error {
			_, err := toml.Decode(string(data), v)
			return err
		}
	default:
		return Profile{}, fmt.Errorf("profile %s: unknown file type, want .yaml or .toml", path)
	}

	var h header
	if err := decode(&h); err != nil {
		return Profile{}, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	if h.Base == "" {
		h.Base = DefaultBase
	}
	p, ok := Builtin(h.Base)
	if !ok {
		return Profile{}, fmt.Errorf("profile %s: unknown base profile %q", path, h.Base)
	}
	if err := decode(&p); err != nil {
		return Profile{}, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Find returns the built in profile called name, or failing that loads name as
// a file.
func Find(name string) (Profile, error) {
	if p, ok := Builtin(name); ok {
		return p, nil
	}
	return Load(name)
}
