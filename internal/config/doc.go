// Package config loads sekret configuration from local and global YAML files
// and SEKRET_ environment variables with precedence rules. The CLI maps the
// result onto settings and scan options.
package config
