package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options is the run configuration, loadable from a structural.yaml file.
type Options struct {
	// MaxDiagnostics caps how many errors a collecting run accumulates
	// before giving up. 0 means no cap.
	MaxDiagnostics int `yaml:"max_diagnostics,omitempty"`

	// Color controls diagnostic coloring: "auto" (color when the output
	// is a terminal), "always" or "never".
	Color string `yaml:"color,omitempty"`

	// NormalizeVarNames mirrors the package-level flag of the same name.
	NormalizeVarNames bool `yaml:"normalize_var_names"`
}

func Default() Options {
	return Options{
		MaxDiagnostics:    50,
		Color:             "auto",
		NormalizeVarNames: true,
	}
}

// Load reads options from a YAML file, filling unset fields from
// Default(). A missing file is not an error; defaults are returned.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (o Options) Validate() error {
	switch o.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("config: invalid color mode %q (want auto, always or never)", o.Color)
	}
	if o.MaxDiagnostics < 0 {
		return fmt.Errorf("config: max_diagnostics must not be negative, got %d", o.MaxDiagnostics)
	}
	return nil
}

// Apply publishes the options that live as package-level flags.
func (o Options) Apply() {
	NormalizeVarNames = o.NormalizeVarNames
}
