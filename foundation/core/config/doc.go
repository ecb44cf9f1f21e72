// Package config loads cmdscript configuration from TOML or YAML files.
//
// Values are addressed with dot paths ("engine.max_loop_iterations").
// When an environment prefix is set, CMDSCRIPT_ENGINE_MAX_LOOP_ITERATIONS
// overrides the file value. Watch reloads the file through fsnotify and
// notifies OnChange handlers.
package config
