package converter

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Overrides maps an override key (a description without its '!' marker) to
// an instruction: ">code" substitutes a literal code, "=description" derives
// another description instead.
type Overrides map[string]string

// Merge returns a new table with the entries of o overlaid by other.
func (o Overrides) Merge(other Overrides) Overrides {
	out := make(Overrides, len(o)+len(other))
	maps.Copy(out, o)
	maps.Copy(out, other)
	return out
}

// LoadOverrides reads a YAML mapping of override key to instruction.
// An empty file yields an empty table.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	if o == nil {
		o = Overrides{}
	}
	return o, nil
}
