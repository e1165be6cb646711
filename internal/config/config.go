// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

const (
	// DefaultProgram is the external binary run in each work directory.
	DefaultProgram = "dftb+"
	// DefaultPattern selects the immediate children of the displaced-structure tree.
	DefaultPattern = "*_displaced/*"
	// DefaultOutputFile is the per-directory file capturing the program's stdout.
	DefaultOutputFile = "dftb.out"
)

var (
	// ErrInvalidYaml is returned when the definition file cannot be parsed.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrInvalidTimeout is returned when the timeout cannot be parsed as a duration.
	ErrInvalidTimeout = errors.New("invalid timeout")
	// ErrInvalidMode is returned when the mode is neither serial nor parallel.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidProperty is returned when a property definition is incomplete.
	ErrInvalidProperty = errors.New("invalid property definition")
)

// Property describes a scalar value scraped from each work directory's
// output file, for use by the average command.
type Property struct {
	// Name identifies the property in reports, e.g. "total_energy".
	Name string `yaml:"name"`
	// Match is a substring that selects the line carrying the value.
	Match string `yaml:"match"`
	// Column is the 1-based whitespace-separated field holding the value.
	Column int `yaml:"column"`
}

// Definition represents the root batch configuration structure.
type Definition struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Program     string            `yaml:"program"`
	Args        []string          `yaml:"args,omitempty"`
	Pattern     string            `yaml:"pattern"`
	OutputFile  string            `yaml:"output_file"`
	Mode        string            `yaml:"mode,omitempty"`
	Timeout     string            `yaml:"timeout,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	Properties  []Property        `yaml:"properties,omitempty"`
}

// Default returns a Definition with all defaults applied, matching the
// original workflow: run dftb+ with no arguments in every displaced
// directory, capturing stdout to dftb.out.
func Default() *Definition {
	return &Definition{
		Name:       "dftb batch",
		Program:    DefaultProgram,
		Pattern:    DefaultPattern,
		OutputFile: DefaultOutputFile,
		Mode:       "serial",
	}
}

// Parse builds a Definition from YAML data, applying defaults for omitted
// fields and validating the result.
func Parse(data []byte) (*Definition, error) {
	def := Default()

	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYaml, err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return def, nil
}

// Load reads and parses a definition file.
func Load(fsys afero.Fs, path string) (*Definition, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %s: %w", path, err)
	}

	return Parse(data)
}

// Validate checks the definition for inconsistencies.
func (d *Definition) Validate() error {
	if d.Program == "" {
		d.Program = DefaultProgram
	}

	if d.Pattern == "" {
		d.Pattern = DefaultPattern
	}

	if d.OutputFile == "" {
		d.OutputFile = DefaultOutputFile
	}

	if _, err := d.TimeoutDuration(); err != nil {
		return err
	}

	switch d.Mode {
	case "", "serial", "parallel":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, d.Mode)
	}

	for _, p := range d.Properties {
		if p.Name == "" || p.Match == "" || p.Column < 1 {
			return fmt.Errorf("%w: name, match and a 1-based column are required", ErrInvalidProperty)
		}
	}

	return nil
}

// TimeoutDuration parses the timeout field. An empty timeout means no limit.
func (d *Definition) TimeoutDuration() (time.Duration, error) {
	if d.Timeout == "" {
		return 0, nil
	}

	t, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}

	return t, nil
}

// PropertyByName returns the named property definition, or an error listing
// the available names.
func (d *Definition) PropertyByName(name string) (Property, error) {
	names := make([]string, 0, len(d.Properties))

	for _, p := range d.Properties {
		if p.Name == name {
			return p, nil
		}

		names = append(names, p.Name)
	}

	return Property{}, fmt.Errorf("%w: no property named %q (have %v)", ErrInvalidProperty, name, names)
}
