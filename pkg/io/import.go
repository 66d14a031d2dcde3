package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bootorder/pkg/errors"
)

// Format names a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the manifest format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer manifest format from %q", path)
}

// rawManifest mirrors Manifest but accepts the alias keys of dependencies.
type rawManifest struct {
	Components   []ComponentDecl `json:"components" toml:"components" yaml:"components"`
	Dependencies []rawDependency `json:"dependencies" toml:"dependencies" yaml:"dependencies"`
}

type rawDependency struct {
	Requirement   string `json:"requirement" toml:"requirement" yaml:"requirement"`
	Required      string `json:"required" toml:"required" yaml:"required"`
	Component     string `json:"component" toml:"component" yaml:"component"`
	ComponentName string `json:"component_name" toml:"component_name" yaml:"component_name"`
}

func (raw *rawManifest) manifest() (*Manifest, error) {
	m := &Manifest{
		Components:   raw.Components,
		Dependencies: make([]DependencyDecl, len(raw.Dependencies)),
	}
	for i, d := range raw.Dependencies {
		req, err := pick("requirement", d.Requirement, "required", d.Required)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "dependency #%d", i+1)
		}
		comp, err := pick("component", d.Component, "component_name", d.ComponentName)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "dependency #%d", i+1)
		}
		m.Dependencies[i] = DependencyDecl{Requirement: req, Component: comp}
	}
	return m, nil
}

func pick(key, value, aliasKey, alias string) (string, error) {
	switch {
	case value != "" && alias != "" && value != alias:
		return "", fmt.Errorf("%s %q conflicts with %s %q", key, value, aliasKey, alias)
	case value != "":
		return value, nil
	case alias != "":
		return alias, nil
	}
	return "", fmt.Errorf("missing %s", key)
}

// ReadJSON decodes a JSON manifest from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Manifest, error) {
	var raw rawManifest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode json")
	}
	return raw.manifest()
}

// ReadTOML decodes a TOML manifest from r.
func ReadTOML(r io.Reader) (*Manifest, error) {
	var raw rawManifest
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown key %q", undecoded[0].String())
	}
	return raw.manifest()
}

// ReadYAML decodes a YAML manifest from r.
func ReadYAML(r io.Reader) (*Manifest, error) {
	var raw rawManifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode yaml")
	}
	return raw.manifest()
}

// Read decodes a manifest in the given format.
func Read(r io.Reader, format Format) (*Manifest, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
}

// ImportFile reads the manifest at path, choosing the decoder by extension.
func ImportFile(path string) (*Manifest, error) {
	if err := errors.ValidateManifestFilename(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}
