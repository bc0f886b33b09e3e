package main

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// maxGLErrors bounds the drain loop; without a current context GetError
// can keep returning the same error.
const maxGLErrors = 16

func glErrorString(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "invalidEnum"
	case gl.INVALID_VALUE:
		return "invalidValue"
	case gl.INVALID_OPERATION:
		return "invalidOperation"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "invalidFramebufferOperation"
	case gl.OUT_OF_MEMORY:
		return "outOfMemory"
	}
	return fmt.Sprintf("unknownError(0x%x)", code)
}

// glErrors drains the GL error queue.
func glErrors() []string {
	var errs []string
	for i := 0; i < maxGLErrors; i++ {
		code := gl.GetError()
		if code == gl.NO_ERROR {
			break
		}
		errs = append(errs, glErrorString(code))
	}
	return errs
}

// logGLErrors reports anything the driver queued since the last call.
func logGLErrors(logger *slog.Logger, where string) {
	for _, e := range glErrors() {
		logger.Warn("OpenGL error", "where", where, "error", e)
	}
}
