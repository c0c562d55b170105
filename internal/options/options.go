// Package options holds the closed sets of property types and townships
// that the prediction form may offer.
package options

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptySet is returned when a closed set has no members.
	ErrEmptySet = errors.New("option set is empty")
	// ErrDuplicate is returned when a closed set lists the same value twice.
	ErrDuplicate = errors.New("duplicate option")
)

// Defaults overrides the initial form values. Zero values keep the built-in defaults.
type Defaults struct {
	PropertyType string  `yaml:"property_type,omitempty" json:"property_type,omitempty"`
	Township     string  `yaml:"township,omitempty" json:"township,omitempty"`
	Bedrooms     float64 `yaml:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	PropertySize float64 `yaml:"property_size,omitempty" json:"property_size,omitempty"`
}

// Options is the configuration for the form's selection controls.
type Options struct {
	PropertyTypes []string `yaml:"property_types" json:"property_types"`
	Townships     []string `yaml:"townships" json:"townships"`
	Defaults      Defaults `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// Default returns the option lists the Yangon model was trained on.
func Default() Options {
	return Options{
		PropertyTypes: []string{
			"Condo", "Penthouse", "House", "Apartment", "Commercial", "Serviced Apartment",
		},
		Townships: []string{
			"Golden Valley", "Thanlyin", "South Okkalapa", "Yankin", "Downtown", "Hlaing",
			"Hlaingthaya", "Mingalar taung Nyunt", "Ahlone", "Yawmingyi", "Mayangone",
			"Kamayut", "Bahan", "Sanchaung", "Tamwe", "Thingangyun",
		},
	}
}

// Load reads options from a YAML file. An empty path returns Default().
func Load(path string) (Options, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options: %w", err)
	}

	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing options: %w", err)
	}

	// Missing lists fall back to the built-in ones.
	def := Default()
	if len(opts.PropertyTypes) == 0 {
		opts.PropertyTypes = def.PropertyTypes
	}
	if len(opts.Townships) == 0 {
		opts.Townships = def.Townships
	}

	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Validate checks that both sets are non-empty and free of duplicates.
func (o Options) Validate() error {
	if err := validateSet("property_types", o.PropertyTypes); err != nil {
		return err
	}
	return validateSet("townships", o.Townships)
}

func validateSet(name string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%s: %w", name, ErrEmptySet)
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s: blank value", name)
		}
		if _, ok := seen[v]; ok {
			return fmt.Errorf("%s: %w: %q", name, ErrDuplicate, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// HasPropertyType reports whether v is one of the configured property types.
func (o Options) HasPropertyType(v string) bool {
	return contains(o.PropertyTypes, v)
}

// HasTownship reports whether v is one of the configured townships.
func (o Options) HasTownship(v string) bool {
	return contains(o.Townships, v)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
