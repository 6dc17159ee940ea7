package config

import (
	"fmt"
	"strings"
	"unicode"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Build.SourceDir) == "" {
		return fmt.Errorf("build.source_dir must not be empty")
	}
	if strings.TrimSpace(c.Build.DestDir) == "" {
		return fmt.Errorf("build.dest_dir must not be empty")
	}

	for _, name := range c.SchemeNames() {
		if err := ValidateSchemeName(name); err != nil {
			return fmt.Errorf("schemes: %w", err)
		}
		if err := c.Schemes[name].validate(); err != nil {
			return fmt.Errorf("schemes.%s: %w", name, err)
		}
	}

	return nil
}

func (s SchemeConfig) validate() error {
	if s.Table == "" {
		return fmt.Errorf("table must be set")
	}
	for key := range s.Overrides {
		if key == "" {
			return fmt.Errorf("overrides: empty key")
		}
	}
	return nil
}

// ValidateSchemeName rejects names that cannot be used as a dictionary name
// and file name prefix.
func ValidateSchemeName(name string) error {
	if name == "" {
		return fmt.Errorf("scheme name must not be empty")
	}
	if strings.ContainsAny(name, `/\.`) || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("invalid scheme name %q", name)
	}
	return nil
}
