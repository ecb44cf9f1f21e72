// File: loader.go
// Title: Catalog File Loader
// Description: Reads namespace and command definitions from YAML or TOML
//              catalog files.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package registry

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

// File is the top-level layout of a catalog file
type File struct {
	Namespaces []*NamespaceDefinition `yaml:"namespaces" toml:"namespaces"`
}

// LoadCatalog reads a catalog file. The format follows the extension;
// .toml is TOML, everything else YAML.
func LoadCatalog(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, mdwerror.Wrap(err, "cannot read catalog file").
			WithCode(mdwerror.CodeNotFound).
			WithOperation("registry.LoadCatalog").
			WithDetail("path", path)
	}
	file, err := ParseCatalog(content, strings.EqualFold(filepath.Ext(path), ".toml"))
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid catalog file").
			WithOperation("registry.LoadCatalog").
			WithDetail("path", path)
	}
	return file, nil
}

// ParseCatalog decodes catalog content
func ParseCatalog(content []byte, isTOML bool) (*File, error) {
	var file File
	var err error
	if isTOML {
		_, err = toml.NewDecoder(bytes.NewReader(content)).Decode(&file)
	} else {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err = decoder.Decode(&file); errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "cannot decode catalog").
			WithCode(mdwerror.CodeParseError).
			WithOperation("registry.ParseCatalog")
	}
	return &file, nil
}

// Load reads a catalog file and registers all its namespaces
func (c *Catalog) Load(path string) error {
	file, err := LoadCatalog(path)
	if err != nil {
		return err
	}
	for _, ns := range file.Namespaces {
		if err := c.Register(ns); err != nil {
			return err
		}
	}
	c.logger.Info("catalog loaded", mdwlog.Fields{
		"path":           path,
		"namespaceCount": len(file.Namespaces),
	})
	return nil
}
