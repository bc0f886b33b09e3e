package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/stewi1014/gltutorial/shader"
)

func CatchPanicToContext(ctxCancel context.CancelCauseFunc) {
	if v := recover(); v != nil {
		err, ok := v.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", v)
		}
		err = fmt.Errorf("%w\n%v", err, string(debug.Stack()))
		if ctxCancel != nil {
			ctxCancel(err)
		}
	}
}

// errorTitle picks a dialog heading for err.
func errorTitle(err error) string {
	var compileErr *shader.CompileError
	var linkErr *shader.LinkError
	switch {
	case errors.As(err, &compileErr):
		return "Shader compilation failed"
	case errors.As(err, &linkErr):
		return "Program link failed"
	}
	return "Error"
}

// NewErrorDialog shows err in a selectable message dialog. It does not block.
func NewErrorDialog(parent *gtk.ApplicationWindow, err error) {
	dialog := gtk.MessageDialogNew(
		parent,
		gtk.DIALOG_DESTROY_WITH_PARENT,
		gtk.MESSAGE_ERROR,
		gtk.BUTTONS_CLOSE,
		"%s",
		errorTitle(err),
	)
	dialog.FormatSecondaryText("%s", err.Error())
	dialog.Connect("response", dialog.Destroy)

	messageArea, areaErr := dialog.GetMessageArea()
	if areaErr != nil {
		slog.Warn("dialog message area", "err", areaErr)
	} else {
		messageArea.GetChildren().Foreach(func(item interface{}) {
			if widget, ok := item.(*gtk.Widget); ok {
				l, err := gtk.WidgetToLabel(widget)
				if err != nil {
					return
				}

				l.SetSelectable(true)
			}
		})
	}

	dialog.SetKeepAbove(true)
	dialog.ShowAll()
}

// NewScreenshotPreview shows a saved screenshot with the option to delete it again.
func NewScreenshotPreview(app *gtk.Application, path string) (*ScreenshotPreview, error) {
	w := &ScreenshotPreview{path: path}
	var err error

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(app)
	if err != nil {
		return nil, err
	}
	w.SetTitle(path)

	pixbuf, err := gdk.PixbufNewFromFileAtScale(path, 640, 480, true)
	if err != nil {
		return nil, err
	}

	previewImage, err := gtk.ImageNewFromPixbuf(pixbuf)
	if err != nil {
		return nil, err
	}

	previewImage.SetHExpand(true)
	previewImage.SetVExpand(true)

	deleteButton, _ := gtk.ButtonNewWithLabel("Delete")
	deleteButton.Connect("clicked", func(button *gtk.Button) {
		if err := os.Remove(w.path); err != nil {
			slog.Error("removing screenshot", "err", err)
		}
		w.Destroy()
	})

	keepButton, _ := gtk.ButtonNewWithLabel("Keep")
	keepButton.Connect("clicked", func(button *gtk.Button) {
		w.Destroy()
	})

	grid, _ := gtk.GridNew()
	grid.Attach(previewImage, 0, 0, 5, 1)
	grid.Attach(keepButton, 0, 1, 1, 1)
	grid.Attach(deleteButton, 4, 1, 1, 1)

	w.Add(grid)
	w.ShowAll()

	return w, nil
}

type ScreenshotPreview struct {
	*gtk.ApplicationWindow
	path string
}

// showError logs err and shows it in a dialog once the main loop is idle.
func showError(parent *gtk.ApplicationWindow, logger *slog.Logger, err error) {
	logger.Error(err.Error())
	glib.IdleAdd(func() {
		NewErrorDialog(parent, err)
	})
}
