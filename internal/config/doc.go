// Package config provides the configuration system for multicaret.
//
// Settings come from three places, later ones overriding earlier ones:
// built-in defaults, a TOML or YAML file, and MULTICARET_ environment
// variables. The result is validated as a whole and turned into engine
// options, a logger configuration and a colour palette.
//
// # Sub-packages
//
//   - loader: file decoding (TOML, YAML) and environment overrides
//   - watcher: fsnotify based file watching for live reload
//
// # Live reload
//
// Watch reloads the file whenever it changes and hands every successfully
// validated result to a callback. Invalid edits are logged and skipped, so
// the previous configuration stays in effect.
package config
