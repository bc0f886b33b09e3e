// Package config loads the runner's TOML configuration.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultConfig []byte

const (
	HostGLFW = "glfw"
	HostGTK  = "gtk"
)

type Config struct {
	Host    string  `toml:"host"`
	Window  Window  `toml:"window"`
	GL      GL      `toml:"gl"`
	Render  Render  `toml:"render"`
	Shaders Shaders `toml:"shaders"`
	Capture Capture `toml:"capture"`
}

type Window struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	VSync     bool   `toml:"vsync"`
	Resizable bool   `toml:"resizable"`
}

// GL is the requested context version. The lessons need at least 3.3 core.
type GL struct {
	Major int `toml:"major"`
	Minor int `toml:"minor"`
}

type Render struct {
	Clear     mgl32.Vec4 `toml:"clear"`
	Wireframe bool       `toml:"wireframe"`
}

type Shaders struct {
	Dir    string `toml:"dir"`
	Watch  bool   `toml:"watch"`
	Strict bool   `toml:"strict"`
}

type Capture struct {
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	if err := decode(bytes.NewReader(defaultConfig), &c); err != nil {
		panic(fmt.Sprintf("config: embedded default.toml: %v", err))
	}
	return c
}

// Load reads path over the defaults. Keys missing from the file keep their default.
func Load(path string) (Config, error) {
	c := Default()

	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	if err := decode(f, &c); err != nil {
		return c, fmt.Errorf("%v: %w", path, err)
	}
	return c, c.Validate()
}

func decode(r io.Reader, c *Config) error {
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(c)

	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return errors.New(strict.String())
	}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return fmt.Errorf("line %d column %d: %v", row, col, derr.Error())
	}
	return err
}

// Validate checks the values a host can't work with.
func (c Config) Validate() error {
	var errs []error

	switch c.Host {
	case HostGLFW, HostGTK:
	default:
		errs = append(errs, fmt.Errorf("host %q is not %q or %q", c.Host, HostGLFW, HostGTK))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}

	if c.GL.Major < 3 || (c.GL.Major == 3 && c.GL.Minor < 3) {
		errs = append(errs, fmt.Errorf("OpenGL %d.%d is too old, need at least 3.3", c.GL.Major, c.GL.Minor))
	}

	for i, v := range c.Render.Clear {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("render.clear[%d] = %v is outside [0, 1]", i, v))
		}
	}

	return errors.Join(errs...)
}
