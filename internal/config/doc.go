// Package config handles configuration loading for chatstore.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion. A .env file in the working directory is merged into the
// environment before expansion, so secrets and local overrides can live
// next to the binary during development.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CHATSTORE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/chatstore/chatstore.yaml
//  3. ~/.config/chatstore/chatstore.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  path: "${CHATSTORE_DB_PATH}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Configuration Sections
//
// Database:
//
//	database:
//	  path: "/var/lib/chatstore/chat.db"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates that database.path is set after expansion. The
// logging section is optional; missing values fall back to info/text.
//
// # Usage
//
//	cfg, err := config.Load("/etc/chatstore/chatstore.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
