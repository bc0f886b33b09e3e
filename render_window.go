package main

import (
	"context"
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/stewi1014/gltutorial/config"
	"github.com/stewi1014/gltutorial/gldriver"
)

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// NewRenderWindow creates a window with a current core profile context.
// glfw must already be initialised.
func NewRenderWindow(cfg config.Config, visible bool) (*RenderWindow, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.GL.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.GL.Minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfwBool(cfg.Window.Resizable))
	glfw.WindowHint(glfw.Visible, glfwBool(visible))
	window, err := glfw.CreateWindow(
		cfg.Window.Width,
		cfg.Window.Height,
		cfg.Window.Title,
		nil,
		nil,
	)

	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &RenderWindow{
		Window: window,
	}

	w.MakeContextCurrent()
	err = gl.Init()
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}

	return w, nil
}

type RenderWindow struct {
	*glfw.Window

	scene *Scene

	// set from callbacks, consumed by the loop
	reloadRequested     bool
	screenshotRequested bool
}

func (w *RenderWindow) key(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		win.SetShouldClose(true)
	case glfw.KeyW:
		w.scene.SetWireframe(!w.scene.Wireframe())
	case glfw.KeyF5:
		w.reloadRequested = true
	case glfw.KeyF12:
		w.screenshotRequested = true
	}
}

func (w *RenderWindow) resize(win *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func runGLFW(ctx context.Context, opts runOptions) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	w, err := NewRenderWindow(opts.cfg, true)
	if err != nil {
		return err
	}
	defer w.Destroy()

	if opts.cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	version, glsl := gldriver.Version()
	opts.logger.Info("OpenGL context", "version", version, "glsl", glsl)

	width, height := w.GetFramebufferSize()
	w.resize(w.Window, width, height)
	w.SetFramebufferSizeCallback(w.resize)

	w.scene, err = NewScene(opts.builder(), opts.lesson, opts.logger)
	if err != nil {
		return err
	}
	defer w.scene.Delete()
	w.scene.SetWireframe(opts.cfg.Render.Wireframe)
	w.SetKeyCallback(w.key)
	logGLErrors(opts.logger, "setup")

	reload := opts.watch(ctx)
	bg := opts.cfg.Render.Clear

	for !w.ShouldClose() {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		select {
		case <-reload:
			w.reloadRequested = true
		default:
		}

		if w.reloadRequested {
			w.reloadRequested = false
			w.reloadScene(opts)
		}

		gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
		gl.Clear(gl.COLOR_BUFFER_BIT)
		w.scene.Draw(glfw.GetTime())

		if w.screenshotRequested {
			w.screenshotRequested = false
			if path, err := w.scene.Screenshot(opts.cfg.Capture.Dir); err != nil {
				opts.logger.Error("screenshot failed", "err", err)
			} else {
				opts.logger.Info("saved screenshot", "path", path)
			}
		}

		logGLErrors(opts.logger, "frame")
		w.SwapBuffers()
		glfw.PollEvents()
	}

	return nil
}

func (w *RenderWindow) reloadScene(opts runOptions) {
	lesson, err := opts.reload()
	if err != nil {
		opts.logger.Error("reading shaders", "err", err)
		return
	}

	if err := w.scene.Load(lesson); err != nil {
		opts.logger.Error("reload failed, keeping previous program", "err", err)
		return
	}
	opts.logger.Info("reloaded shaders", "lesson", lesson.Name, "usable", w.scene.Err() == nil)
}
