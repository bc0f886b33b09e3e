package lessons

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/stewi1014/gltutorial/shader"
)

// SourceFiles returns the file names that override a lesson's shaders.
func SourceFiles(name string) (vertex, fragment string) {
	return name + ".vert", name + ".frag"
}

// Override returns a copy of l whose shader sources are replaced by
// <name>.vert and <name>.frag from fsys when those files exist.
// Lessons without a program are returned unchanged.
func (l Lesson) Override(fsys fs.FS) (Lesson, error) {
	if !l.HasProgram() {
		return l, nil
	}

	vertexFile, fragmentFile := SourceFiles(l.Name)

	vertex, err := overrideSource(fsys, vertexFile, *l.Vertex)
	if err != nil {
		return l, err
	}
	fragment, err := overrideSource(fsys, fragmentFile, *l.Fragment)
	if err != nil {
		return l, err
	}

	l.Vertex, l.Fragment = &vertex, &fragment
	return l, nil
}

func overrideSource(fsys fs.FS, file string, src shader.Source) (shader.Source, error) {
	text, err := fs.ReadFile(fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return src, nil
	}
	if err != nil {
		return src, fmt.Errorf("reading %v: %w", file, err)
	}

	src.Name = file
	src.Text = string(text)
	return src, nil
}

// Watch signals on the returned channel whenever one of the lesson's override
// files in dir is written, created, renamed or removed. Bursts of events are
// coalesced into a single pending signal. Watching stops when ctx is done.
func Watch(ctx context.Context, dir, name string, logger *slog.Logger) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %v: %w", dir, err)
	}

	vertexFile, fragmentFile := SourceFiles(name)
	files := map[string]bool{vertexFile: true, fragmentFile: true}
	const ops = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	reload := make(chan struct{}, 1)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !files[filepath.Base(event.Name)] || event.Op&ops == 0 {
					continue
				}
				logger.Debug("shader source changed", "file", event.Name, "op", event.Op)
				select {
				case reload <- struct{}{}:
				default:
				}

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("shader watcher error", "dir", dir, "err", err)
			}
		}
	}()

	return reload, nil
}
