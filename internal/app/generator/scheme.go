package generator

import (
	"fmt"
	"maps"
	"slices"

	"github.com/nk2028/rime-dict-builder/internal/config"
	"github.com/nk2028/rime-dict-builder/internal/converter"
	"github.com/nk2028/rime-dict-builder/internal/domain"
	"github.com/nk2028/rime-dict-builder/internal/phonology"
)

// Scheme is a target output format: how descriptions are parsed and derived,
// plus the scheme's override table.
type Scheme struct {
	Name      string
	Parser    phonology.Parser // nil means phonology.DefaultParser
	Deriver   phonology.Deriver
	Overrides converter.Overrides
}

// Registry maps scheme names to schemes. Schemes are composed statically by
// the caller; nothing is loaded dynamically at generation time.
type Registry struct {
	schemes map[string]Scheme
}

// NewRegistry creates a Registry holding schemes.
func NewRegistry(schemes ...Scheme) (*Registry, error) {
	r := &Registry{schemes: make(map[string]Scheme, len(schemes))}
	for _, s := range schemes {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a scheme. Names must be unique and usable as file names.
func (r *Registry) Register(s Scheme) error {
	if err := config.ValidateSchemeName(s.Name); err != nil {
		return err
	}
	if s.Deriver == nil {
		return fmt.Errorf("scheme %s: deriver is required", s.Name)
	}
	if _, dup := r.schemes[s.Name]; dup {
		return fmt.Errorf("scheme %s: already registered", s.Name)
	}
	r.schemes[s.Name] = s
	return nil
}

// Lookup returns the scheme called name.
func (r *Registry) Lookup(name string) (Scheme, error) {
	s, ok := r.schemes[name]
	if !ok {
		return Scheme{}, domain.NewSchemeError(name)
	}
	return s, nil
}

// Names returns the registered scheme names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.schemes))
}

// Resolve looks up every name, or all registered schemes when names is
// empty. It fails if any name is unknown or nothing can be resolved.
func (r *Registry) Resolve(names []string) ([]Scheme, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no scheme configured", domain.ErrUnknownScheme)
	}

	out := make([]Scheme, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		s, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadRegistry builds table-backed schemes from configuration.
func LoadRegistry(schemes map[string]config.SchemeConfig) (*Registry, error) {
	r := &Registry{schemes: make(map[string]Scheme, len(schemes))}

	for _, name := range slices.Sorted(maps.Keys(schemes)) {
		sc := schemes[name]

		deriver, err := phonology.LoadTable(sc.Table)
		if err != nil {
			return nil, fmt.Errorf("scheme %s: %w", name, err)
		}

		overrides := converter.Overrides{}
		if sc.OverridesFile != "" {
			overrides, err = converter.LoadOverrides(sc.OverridesFile)
			if err != nil {
				return nil, fmt.Errorf("scheme %s: %w", name, err)
			}
		}
		overrides = overrides.Merge(sc.Overrides)

		if err := r.Register(Scheme{Name: name, Deriver: deriver, Overrides: overrides}); err != nil {
			return nil, err
		}
	}

	return r, nil
}
