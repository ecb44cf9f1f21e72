// File: discovery.go
// Title: Configuration File Discovery
// Description: Searches the usual locations for a cmdscript configuration
//              file and falls back to defaults when none exists.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation
// - 2026-10-19 v0.2.0: User config directory, optional discovery

package config

import (
	"os"
	"path/filepath"
	"strings"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
)

// DiscoveryOptions controls where Discover looks
type DiscoveryOptions struct {
	Paths      []string
	Filenames  []string
	Extensions []string
	EnvPrefix  string
	Defaults   map[string]interface{}
	Required   bool
}

// DefaultDiscoveryOptions searches ., ./config and the user config
// directory for cmdscript.{toml,yaml,yml}
func DefaultDiscoveryOptions() DiscoveryOptions {
	paths := []string{".", "./config"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "cmdscript"))
	}
	return DiscoveryOptions{
		Paths:      paths,
		Filenames:  []string{"cmdscript"},
		Extensions: []string{".toml", ".yaml", ".yml"},
		EnvPrefix:  "CMDSCRIPT",
	}
}

// Discover loads the first configuration file found. Without a file it
// returns an empty configuration unless options.Required is set.
func Discover(options DiscoveryOptions) (*Config, error) {
	path, err := FindConfigFile(options)
	if err != nil {
		if options.Required {
			return nil, err
		}
		return Empty(options.EnvPrefix, options.Defaults), nil
	}
	return LoadWithOptions(path, LoadOptions{
		EnvPrefix: options.EnvPrefix,
		Defaults:  options.Defaults,
	})
}

// FindConfigFile returns the first existing candidate path
func FindConfigFile(options DiscoveryOptions) (string, error) {
	candidates := ListPossibleConfigFiles(options)
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", mdwerror.New("no configuration file found in: "+strings.Join(candidates, ", ")).
		WithCode(mdwerror.CodeMissingConfig).
		WithOperation("config.FindConfigFile").
		WithDetail("searchPaths", candidates)
}

// ListPossibleConfigFiles returns every path Discover would try, in order
func ListPossibleConfigFiles(options DiscoveryOptions) []string {
	var paths []string
	for _, dir := range options.Paths {
		for _, name := range options.Filenames {
			for _, ext := range options.Extensions {
				paths = append(paths, filepath.Join(dir, name+ext))
			}
		}
	}
	return paths
}
