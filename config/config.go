package config

import (
	"embed"
)

// explorer config
//
//go:embed default.config.yml
var DefaultConfigYml string

// blob capacity presets per fork
//
//go:embed *.preset.yml
var ProtocolPresetsYml embed.FS
