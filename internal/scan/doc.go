// Package scan runs the configured plugins over files and applies the
// configured filters at each stage: once per file, once per line and once
// per candidate secret.
package scan
