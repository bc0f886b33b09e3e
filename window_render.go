package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/stewi1014/gltutorial/gldriver"
)

// frameInterval paces animation in the GTK host, roughly 60 frames per second.
const frameInterval = 16

func runGTK(ctx context.Context, opts runOptions) error {
	gtk.Init(&os.Args)
	app, err := gtk.ApplicationNew("com.github.stewi1014.gltutorial", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return fmt.Errorf("gtk.ApplicationNew failed: %w", err)
	}

	appContext, appQuit := context.WithCancelCause(ctx)
	app.Connect("activate", func() {
		w := NewGTKWindow(appContext, app, opts, appQuit)
		if w == nil {
			return
		}
		w.Connect("destroy", func() {
			appQuit(nil)
		})
	})

	go func() {
		<-appContext.Done()
		glib.IdleAdd(app.Quit)
	}()
	app.Run(nil)

	appQuit(nil)
	err = context.Cause(appContext)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func NewGTKWindow(
	ctx context.Context,
	app *gtk.Application,
	opts runOptions,
	quit context.CancelCauseFunc,
) *GTKWindow {
	var err error
	w := &GTKWindow{
		app:  app,
		ctx:  ctx,
		quit: quit,
		opts: opts,
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	w.SetDefaultSize(opts.cfg.Window.Width, opts.cfg.Window.Height)
	w.SetTitle(opts.cfg.Window.Title + " - " + opts.lesson.Title)
	w.SetResizable(opts.cfg.Window.Resizable)

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		quit(fmt.Errorf("gtk.GLAreaNew: %w", err))
		return nil
	}

	w.gla.SetRequiredVersion(opts.cfg.GL.Major, opts.cfg.GL.Minor)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("unrealize", w.glaUnrealize)
	w.gla.Connect("resize", w.resize)
	w.Connect("key-press-event", w.keyPress)

	w.Add(w.gla)
	w.ShowAll()

	go w.handleReload(opts.watch(ctx))

	return w
}

type GTKWindow struct {
	*gtk.ApplicationWindow
	gla *gtk.GLArea
	app *gtk.Application

	ctx  context.Context
	quit context.CancelCauseFunc
	opts runOptions

	scene               *Scene
	start               time.Time
	screenshotRequested bool
}

func (w *GTKWindow) glaRealize(gla *gtk.GLArea) {
	defer CatchPanicToContext(w.quit)
	gla.MakeCurrent()

	err := gl.Init()
	if err != nil {
		w.quit(fmt.Errorf("gl.Init: %w", err))
		return
	}
	version, glsl := gldriver.Version()
	w.opts.logger.Info("OpenGL context", "version", version, "glsl", glsl)

	w.scene, err = NewScene(w.opts.builder(), w.opts.lesson, w.opts.logger)
	if err != nil {
		w.quit(err)
		return
	}
	w.scene.SetWireframe(w.opts.cfg.Render.Wireframe)
	if err := w.scene.Err(); err != nil {
		showError(w.ApplicationWindow, w.opts.logger, err)
	}
	logGLErrors(w.opts.logger, "realize")

	w.start = time.Now()
	glib.TimeoutAdd(frameInterval, func() bool {
		if w.ctx.Err() != nil || w.scene == nil {
			return false
		}
		w.gla.QueueRender()
		return true
	})
}

func (w *GTKWindow) glaRender(gla *gtk.GLArea) bool {
	defer CatchPanicToContext(w.quit)
	if w.scene == nil {
		return false
	}

	bg := w.opts.cfg.Render.Clear
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	w.scene.Draw(time.Since(w.start).Seconds())

	if w.screenshotRequested {
		w.screenshotRequested = false
		w.screenshot()
	}

	logGLErrors(w.opts.logger, "frame")
	return true
}

func (w *GTKWindow) glaUnrealize(gla *gtk.GLArea) {
	if w.scene == nil {
		return
	}
	gla.MakeCurrent()
	w.scene.Delete()
	w.scene = nil
}

func (w *GTKWindow) resize(gla *gtk.GLArea, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (w *GTKWindow) keyPress(win *gtk.ApplicationWindow, event *gdk.Event) bool {
	key := gdk.EventKeyNewFromEvent(event)

	switch key.KeyVal() {
	case gdk.KEY_Escape:
		w.Destroy()
	case gdk.KEY_w, gdk.KEY_W:
		if w.scene != nil {
			w.scene.SetWireframe(!w.scene.Wireframe())
		}
	case gdk.KEY_F5:
		w.reload()
	case gdk.KEY_F12:
		w.screenshotRequested = true
	default:
		return false
	}

	w.gla.QueueRender()
	return true
}

// screenshot runs inside render, where the GLArea's framebuffer is bound.
func (w *GTKWindow) screenshot() {
	path, err := w.scene.Screenshot(w.opts.cfg.Capture.Dir)
	if err != nil {
		showError(w.ApplicationWindow, w.opts.logger, err)
		return
	}
	w.opts.logger.Info("saved screenshot", "path", path)

	glib.IdleAdd(func() {
		if _, err := NewScreenshotPreview(w.app, path); err != nil {
			w.opts.logger.Warn("screenshot preview", "err", err)
		}
	})
}

// reload must run on the GTK main loop.
func (w *GTKWindow) reload() {
	if w.scene == nil {
		return
	}

	lesson, err := w.opts.reload()
	if err != nil {
		showError(w.ApplicationWindow, w.opts.logger, err)
		return
	}

	w.gla.MakeCurrent()
	if err := w.scene.Load(lesson); err != nil {
		showError(w.ApplicationWindow, w.opts.logger, fmt.Errorf("reload failed, keeping previous program: %w", err))
		return
	}
	if err := w.scene.Err(); err != nil {
		showError(w.ApplicationWindow, w.opts.logger, err)
		return
	}
	w.opts.logger.Info("reloaded shaders", "lesson", lesson.Name)
}

func (w *GTKWindow) handleReload(reload <-chan struct{}) {
	if reload == nil {
		return
	}

	for {
		select {
		case <-reload:
			glib.IdleAdd(func() {
				w.reload()
				w.gla.QueueRender()
			})
		case <-w.ctx.Done():
			return
		}
	}
}
