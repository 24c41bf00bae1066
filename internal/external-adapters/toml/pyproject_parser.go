// Package toml parses pyproject.toml files into domain entities.
package toml

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/troml/dev-status/internal/domain/entities"
)

// pyprojectDoc mirrors the subset of pyproject.toml we read. The license
// field is deferred because PEP 621 allows both a string and a table.
type pyprojectDoc struct {
	Project struct {
		Name         string            `toml:"name"`
		Version      string            `toml:"version"`
		Description  string            `toml:"description"`
		License      toml.Primitive    `toml:"license"`
		Dependencies []string          `toml:"dependencies"`
		URLs         map[string]string `toml:"urls"`
	} `toml:"project"`
	Tool struct {
		DevStatus struct {
			Mode  string `toml:"mode"`
			UseAI *bool  `toml:"use_ai"`
		} `toml:"dev-status"`
	} `toml:"tool"`
}

type licenseTable struct {
	Text string `toml:"text"`
	File string `toml:"file"`
}

// ParsePyproject decodes pyproject metadata and the [tool.dev-status]
// table. Config values that are absent fall back to defaults.
func ParsePyproject(data []byte) (*entities.Pyproject, entities.ProjectConfig, error) {
	cfg := entities.DefaultProjectConfig()

	var doc pyprojectDoc
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to parse pyproject.toml: %w", err)
	}

	p := &entities.Pyproject{
		Name:         doc.Project.Name,
		Version:      doc.Project.Version,
		Description:  doc.Project.Description,
		License:      decodeLicense(md, doc.Project.License),
		Dependencies: doc.Project.Dependencies,
		URLs:         doc.Project.URLs,
	}

	if mode := doc.Tool.DevStatus.Mode; mode == entities.ModeApplication || mode == entities.ModeLibrary {
		cfg.Mode = mode
	}
	if doc.Tool.DevStatus.UseAI != nil {
		cfg.UseAI = *doc.Tool.DevStatus.UseAI
	}
	return p, cfg, nil
}

// ParsePyprojectFile reads and decodes the file at path.
func ParsePyprojectFile(path string) (*entities.Pyproject, entities.ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, entities.DefaultProjectConfig(), fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParsePyproject(data)
}

// decodeLicense handles the two PEP 621 license forms: a bare SPDX
// string, or a table with a text or file key.
func decodeLicense(md toml.MetaData, prim toml.Primitive) string {
	var s string
	if err := md.PrimitiveDecode(prim, &s); err == nil {
		return s
	}
	var t licenseTable
	if err := md.PrimitiveDecode(prim, &t); err == nil {
		if t.Text != "" {
			return t.Text
		}
		return t.File
	}
	return ""
}
