// Package cli provides shared utilities for the companion command-line
// tools.
//
// This package includes:
//   - Configuration management (named backend contexts)
//   - Output formatting (JSON, YAML)
//   - Request file loading (YAML/JSON)
//   - Styles and line helpers for the interactive conversation view
//
// Configuration is stored in ~/.companion/<app>/ directory, supporting
// multiple contexts similar to kubectl.
//
// Example usage:
//
//	// Initialize config for your app
//	cfg, err := cli.LoadConfig("companion")
//
//	// Get current context
//	ctx, err := cfg.GetCurrentContext()
//
//	// Output result
//	cli.Output(result, cli.FormatJSON, outputPath)
package cli
