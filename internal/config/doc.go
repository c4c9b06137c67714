// Package config loads selnarrate settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A configuration file, TOML or YAML chosen by extension
//  3. Environment variables prefixed with SELNARRATE_
//
// A missing file is not an error. Parse failures are reported as
// *ParseError and invalid values as *ValidationError.
//
// Example TOML:
//
//	locale = "es"
//	log_level = "debug"
//	granularity = "word"
//
//	[earcons]
//	style = "brackets"
//
//	[script]
//	step_limit = 500
//
// Watch reloads the file when it changes on disk.
package config
