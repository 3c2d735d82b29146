package config_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/vuesynth/pkg/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "vue-editor-bridge", cfg.BridgeModule)
	assert.Equal(t, "bridge", cfg.BridgeFunc)
	assert.Equal(t, ".template", cfg.TemplateSuffix)
	assert.Equal(t, "__Component", cfg.ComponentName)
	assert.Equal(t, "__renderHelper", cfg.Helpers.Render)
	assert.Equal(t, "__componentHelper", cfg.Helpers.Component)
	assert.Equal(t, "__iterationHelper", cfg.Helpers.Iteration)
	assert.Equal(t, "__listenerHelper", cfg.Helpers.Listener)
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
bridge_module = "my-bridge"

[helpers]
render = "__r"
`
	require.NoError(t, afero.WriteFile(fs, "/project/vuesynth.toml", []byte(content), 0644))

	cfg, err := config.Load(fs, "/project/vuesynth.toml")
	require.NoError(t, err)

	assert.Equal(t, "my-bridge", cfg.BridgeModule)
	assert.Equal(t, "__r", cfg.Helpers.Render)

	// fields absent from the file keep their defaults
	assert.Equal(t, ".template", cfg.TemplateSuffix)
	assert.Equal(t, "__listenerHelper", cfg.Helpers.Listener)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(afero.NewMemMapFs(), "/nope.toml")
	require.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.toml", []byte("bridge_module = ["), 0644))

	_, err := config.Load(fs, "/bad.toml")
	require.Error(t, err)
}
