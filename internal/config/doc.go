// Package config loads the sqmon configuration file.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/sqmon/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but string fields are empty, use defaults
//
// # Keys
//
//	squeue          = "squeue"                          # binary or path
//	interval        = 1                                 # seconds, 1..9999
//	auto_refresh    = false
//	filter_to_self  = false
//	query_timeout   = 10                                # seconds per attempt
//	query_retries   = 2
//	log_file        = "~/.local/state/sqmon/sqmon.log"
//	log_level       = "info"
//
// An interval outside 1..9999 or an unknown log level is a load error
// rather than a silent default. Command-line flags override file values;
// that merge happens in cmd/sqmon.
package config
