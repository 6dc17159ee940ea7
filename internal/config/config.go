package config

import (
	"maps"
	"slices"
)

// Config is the root build configuration.
type Config struct {
	Build   BuildConfig             `yaml:"build"`
	Log     LogConfig               `yaml:"log"`
	Schemes map[string]SchemeConfig `yaml:"schemes"`
}

// BuildConfig holds source/destination settings shared by all schemes.
type BuildConfig struct {
	SourceDir string `yaml:"source_dir" env:"DICT_SOURCE_DIR" env-default:"."`
	DestDir   string `yaml:"dest_dir"   env:"DICT_DEST_DIR"   env-default:"."`
	// Version is written into every header. Empty means "today", filled in
	// by the command.
	Version string `yaml:"version" env:"DICT_VERSION"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// SchemeConfig declares a table-backed scheme.
type SchemeConfig struct {
	// Table is a description<TAB>code mapping file.
	Table string `yaml:"table"`
	// Overrides maps override keys to instructions (">code" or "=description").
	Overrides map[string]string `yaml:"overrides"`
	// OverridesFile is an optional YAML file with more overrides. Inline
	// Overrides win on conflicting keys.
	OverridesFile string `yaml:"overrides_file"`
}

// SchemeNames returns the configured scheme names in sorted order.
func (c Config) SchemeNames() []string {
	return slices.Sorted(maps.Keys(c.Schemes))
}
