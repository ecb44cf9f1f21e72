// Package stringx holds the small string helpers shared by the engine,
// the configuration loader and the CLI.
package stringx
