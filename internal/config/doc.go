// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/splitpkgscan/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/splitpkgscan/config.cue on macOS,
// %APPDATA%\splitpkgscan\config.cue on Windows), falling back to .splitpkgscan.cue in the
// project directory. Environment variables prefixed with SPLITPKGSCAN_ override file values.
//
// Configuration is validated against a CUE schema (config_schema.cue) before it reaches Viper.
package config
