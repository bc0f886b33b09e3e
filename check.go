package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/stewi1014/gltutorial/config"
	"github.com/stewi1014/gltutorial/gldriver"
	"github.com/stewi1014/gltutorial/lessons"
	"github.com/stewi1014/gltutorial/shader"
)

var errCheckFailed = errors.New("shader check failed")

// checkLessons strictly builds each named lesson against a hidden window's context.
func checkLessons(ctx context.Context, cfg config.Config, names []string, logger *slog.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	w, err := NewRenderWindow(cfg, false)
	if err != nil {
		return err
	}
	defer w.Destroy()

	version, glsl := gldriver.Version()
	logger.Debug("OpenGL context", "version", version, "glsl", glsl)

	b := shader.NewBuilder(gldriver.New(),
		shader.WithPolicy(shader.Strict),
		shader.WithLogger(logger),
	)

	var failed []string
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		l, err := loadLesson(cfg, name)
		if err != nil {
			return err
		}
		if !l.HasProgram() {
			logger.Info("lesson has no shaders", "lesson", name)
			continue
		}

		p, err := b.Build(*l.Vertex, *l.Fragment)
		if err != nil {
			failed = append(failed, name)
			continue
		}
		b.Delete(p)
		logger.Info("shaders ok", "lesson", name)
	}

	logGLErrors(logger, "check")
	if len(failed) > 0 {
		return fmt.Errorf("%w: %v", errCheckFailed, strings.Join(failed, ", "))
	}
	return nil
}
