// File: config.go
// Title: Configuration Loading and Access
// Description: Implements Config, a thread-safe view over a TOML or YAML
//              document with dot-path getters and environment overrides.
// Author: msto63
// Version: v0.2.1
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-19 v0.2.0: Env cache and struct binding removed, Reload added
// - 2026-10-19 v0.2.1: GetStringSlice

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwstringx "github.com/msto63/cmdscript/foundation/utils/stringx"
)

// Format is a configuration file format
type Format int

const (
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

// String returns the name of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ChangeHandler is called after a reload with the previous and the
// current configuration
type ChangeHandler func(previous, current *Config)

// LoadOptions configures Load
type LoadOptions struct {
	Format    Format
	EnvPrefix string
	Defaults  map[string]interface{}
}

// Config holds one loaded configuration document
type Config struct {
	mu        sync.RWMutex
	data      map[string]interface{}
	defaults  map[string]interface{}
	filePath  string
	format    Format
	envPrefix string
	handlers  []ChangeHandler
	watcher   *watcher
}

// Load loads filePath, detecting the format from its extension
func Load(filePath string) (*Config, error) {
	return LoadWithOptions(filePath, LoadOptions{})
}

// LoadWithOptions loads filePath with options
func LoadWithOptions(filePath string, options LoadOptions) (*Config, error) {
	if mdwstringx.IsBlank(filePath) {
		return nil, mdwerror.New("config file path cannot be empty").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("config.LoadWithOptions")
	}

	format := options.Format
	if format == FormatAuto {
		format = detectFormat(filePath)
	}

	data, err := readFile(filePath, format)
	if err != nil {
		return nil, err
	}

	return &Config{
		data:      data,
		defaults:  options.Defaults,
		filePath:  filePath,
		format:    format,
		envPrefix: options.EnvPrefix,
	}, nil
}

// LoadFromString parses content in the given format
func LoadFromString(content string, format Format) (*Config, error) {
	if format == FormatAuto {
		format = FormatTOML
	}
	data, err := parseContent([]byte(content), format)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config from string").
			WithOperation("config.LoadFromString")
	}
	return &Config{data: data, format: format}, nil
}

// Empty returns a configuration without a backing file. Defaults and
// environment overrides still apply.
func Empty(envPrefix string, defaults map[string]interface{}) *Config {
	return &Config{
		data:      make(map[string]interface{}),
		defaults:  defaults,
		format:    FormatTOML,
		envPrefix: envPrefix,
	}
}

func detectFormat(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

func readFile(filePath string, format Format) (map[string]interface{}, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		code := mdwerror.CodeConfigError
		if os.IsNotExist(err) {
			code = mdwerror.CodeMissingConfig
		}
		return nil, mdwerror.Wrap(err, "failed to read config file").
			WithCode(code).
			WithOperation("config.readFile").
			WithDetail("filePath", filePath)
	}

	data, err := parseContent(content, format)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config file").
			WithOperation("config.readFile").
			WithDetail("filePath", filePath).
			WithDetail("format", format.String())
	}
	return data, nil
}

func parseContent(content []byte, format Format) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(content, &data)
	default:
		err = toml.Unmarshal(content, &data)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, format.String()+" parse error").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.parseContent")
	}
	return data, nil
}

// Reload re-reads the backing file and notifies change handlers
func (c *Config) Reload() error {
	if c.filePath == "" {
		return nil
	}
	data, err := readFile(c.filePath, c.format)
	if err != nil {
		return err
	}

	c.mu.Lock()
	previous := &Config{
		data:      c.data,
		defaults:  c.defaults,
		filePath:  c.filePath,
		format:    c.format,
		envPrefix: c.envPrefix,
	}
	c.data = data
	handlers := append([]ChangeHandler(nil), c.handlers...)
	c.mu.Unlock()

	for _, handler := range handlers {
		handler(previous, c)
	}
	return nil
}

// OnChange registers a handler called after every successful reload
func (c *Config) OnChange(handler ChangeHandler) {
	c.mu.Lock()
	c.handlers = append(c.handlers, handler)
	c.mu.Unlock()
}

// FilePath returns the backing file, or "" for in-memory configurations
func (c *Config) FilePath() string {
	return c.filePath
}

// Has reports whether key is set in the file, the defaults or the environment
func (c *Config) Has(key string) bool {
	return c.lookup(key) != nil
}

// Set overrides key at runtime
func (c *Config) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	setNestedValue(c.data, key, value)
}

// GetString returns key as a string
func (c *Config) GetString(key string, defaultValue ...string) string {
	switch v := c.lookup(key).(type) {
	case nil:
		return first(defaultValue, "")
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// GetStringSlice returns key as a list of strings. A single string is
// split on commas, which lets environment overrides carry lists.
func (c *Config) GetStringSlice(key string, defaultValue ...[]string) []string {
	switch v := c.lookup(key).(type) {
	case []string:
		return v
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			result = append(result, fmt.Sprint(item))
		}
		return result
	case string:
		var result []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				result = append(result, item)
			}
		}
		return result
	}
	return first(defaultValue, nil)
}

// GetInt returns key as an int
func (c *Config) GetInt(key string, defaultValue ...int) int {
	switch v := c.lookup(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return first(defaultValue, 0)
}

// GetBool returns key as a bool
func (c *Config) GetBool(key string, defaultValue ...bool) bool {
	switch v := c.lookup(key).(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return first(defaultValue, false)
}

// GetDuration returns key as a duration. Strings use time.ParseDuration,
// numbers are seconds.
func (c *Config) GetDuration(key string, defaultValue ...time.Duration) time.Duration {
	switch v := c.lookup(key).(type) {
	case time.Duration:
		return v
	case string:
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return first(defaultValue, 0)
}

func first[T any](values []T, fallback T) T {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}

// lookup resolves key from the environment, then the file, then defaults
func (c *Config) lookup(key string) interface{} {
	if c.envPrefix != "" {
		if value, ok := os.LookupEnv(c.envKey(key)); ok {
			return mdwstringx.InferValue(value)
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if v := getNestedValue(c.data, key); v != nil {
		return v
	}
	return getNestedValue(c.defaults, key)
}

// envKey maps "engine.max_loop_iterations" to CMDSCRIPT_ENGINE_MAX_LOOP_ITERATIONS
func (c *Config) envKey(key string) string {
	return strings.ToUpper(c.envPrefix + "_" + strings.ReplaceAll(key, ".", "_"))
}

func getNestedValue(data map[string]interface{}, key string) interface{} {
	if data == nil {
		return nil
	}
	keys := strings.Split(key, ".")
	current := data
	for i, k := range keys {
		if i == len(keys)-1 {
			return current[k]
		}
		next, ok := current[k].(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

func setNestedValue(data map[string]interface{}, key string, value interface{}) {
	keys := strings.Split(key, ".")
	current := data
	for i, k := range keys {
		if i == len(keys)-1 {
			current[k] = value
			return
		}
		next, ok := current[k].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[k] = next
		}
		current = next
	}
}
