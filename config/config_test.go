package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gltutorial.toml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Equal(t, HostGLFW, c.Host)
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height)
	assert.True(t, c.Window.VSync)
	assert.Equal(t, GL{Major: 3, Minor: 3}, c.GL)
	assert.Equal(t, mgl32.Vec4{0.2, 0.3, 0.3, 1.0}, c.Render.Clear)
	assert.False(t, c.Shaders.Strict)
	assert.Empty(t, c.Shaders.Dir)
	assert.NoError(t, c.Validate())
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
host = "gtk"

[window]
width = 1024

[shaders]
strict = true
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, HostGTK, c.Host)
	assert.Equal(t, 1024, c.Window.Width)
	assert.Equal(t, 600, c.Window.Height)
	assert.True(t, c.Shaders.Strict)
	assert.Equal(t, Default().Render, c.Render)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[window]\nwidht = 1024\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widht")
}

func TestLoadSyntaxError(t *testing.T) {
	path := writeConfig(t, "[window\nwidth = 1\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line ")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"host", func(c *Config) { c.Host = "sdl" }, `host "sdl"`},
		{"width", func(c *Config) { c.Window.Width = 0 }, "window size 0x600"},
		{"height", func(c *Config) { c.Window.Height = -1 }, "window size 800x-1"},
		{"gl major", func(c *Config) { c.GL = GL{Major: 2, Minor: 1} }, "OpenGL 2.1 is too old"},
		{"gl minor", func(c *Config) { c.GL = GL{Major: 3, Minor: 2} }, "OpenGL 3.2 is too old"},
		{"clear", func(c *Config) { c.Render.Clear[2] = 1.5 }, "render.clear[2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	c := Default()
	c.GL = GL{Major: 4, Minor: 1}
	assert.NoError(t, c.Validate())
}
