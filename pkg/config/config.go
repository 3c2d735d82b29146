// Package config holds the tunables of the synthetic-document pipeline: the
// bridge module name, the helper symbol surface, and the reserved template
// suffix. Defaults match the fixed surface the transform visitor emits
// against; a project can override them from a TOML file.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

type Config struct {
	// BridgeModule is the fixed module supplying the typed helper surface
	BridgeModule string `toml:"bridge_module"`
	// BridgeFunc wraps a component's default-exported configuration object
	BridgeFunc string `toml:"bridge_func"`
	// TemplateSuffix is the reserved suffix marking virtual template documents
	TemplateSuffix string `toml:"template_suffix"`
	// ComponentName is the placeholder binding for the sibling component import
	ComponentName string `toml:"component_name"`

	Helpers Helpers `toml:"helpers"`
}

// Helpers names the four typed helper symbols imported from the bridge module.
type Helpers struct {
	Render    string `toml:"render"`
	Component string `toml:"component"`
	Iteration string `toml:"iteration"`
	Listener  string `toml:"listener"`
}

func Default() *Config {
	return &Config{
		BridgeModule:   "vue-editor-bridge",
		BridgeFunc:     "bridge",
		TemplateSuffix: ".template",
		ComponentName:  "__Component",
		Helpers: Helpers{
			Render:    "__renderHelper",
			Component: "__componentHelper",
			Iteration: "__iterationHelper",
			Listener:  "__listenerHelper",
		},
	}
}

// Load reads a TOML config file, filling unset fields from Default.
func Load(fs afero.Fs, path string) (*Config, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, errors.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
