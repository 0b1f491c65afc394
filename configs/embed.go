// Package configs provides the embedded configuration template for rankfuse.
//
// The template is embedded at build time using Go's //go:embed directive,
// so it ships with every distribution: source builds, binary releases,
// package-manager installs.
//
// It is used by `rankfuse config init` to write a starter .rankfuse.yaml.
//
// Configuration hierarchy (see internal/config Load()):
//  1. Hardcoded defaults (internal/config NewConfig())
//  2. User config (~/.config/rankfuse/config.yaml)
//  3. Project config (.rankfuse.yaml)
//  4. Environment variables (RANKFUSE_*)
//
// To modify the template, edit config.example.yaml and rebuild.
package configs

import _ "embed"

// ConfigTemplate is the starter configuration written by `rankfuse config init`.
//
//go:embed config.example.yaml
var ConfigTemplate string
