// Package config holds the default configuration compiled into the binary.
package config

import (
	_ "embed"
)

// Defaults is the base YAML configuration. Files listed in a config directory's meta.yaml are layered on top.
//
//go:embed base.yaml
var Defaults []byte
