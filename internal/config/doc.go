// Package config loads generation configs and turns them into rule.Settings.
//
// Configs are YAML (strict: unknown fields are rejected) or CUE. CUE files
// are unified with an embedded #Config schema before decoding, so type and
// range errors come back with file positions as *CompileError.
//
// Both formats share one shape:
//
//	name: "pin"
//	length: 4
//	rules:
//	  - kind: number_range
//	    min: 0
//	    max: 9
//	  - kind: no_duplicate
//	exclude:
//	  - kind: sequential
//	    runs: [4]
//
// Build converts a Config into *rule.Settings. Rule-level problems surface
// as *rule.ConfigError.
package config
